// Package config loads ring menu settings from a TOML file.
//
// The engine itself has no persistence dependency: it only requires an
// ordered provider list and ring metrics, both of which this package
// supplies from configuration. Settings written by an external UI land in
// the same file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/timothyvelberg/ringmenu/pkg/errors"
	"github.com/timothyvelberg/ringmenu/pkg/provider"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// DefaultCloseZone is the dead radius around the menu center reserved
	// for the close affordance.
	DefaultCloseZone = 35.0

	// DefaultBaseRadius is the root ring's inner radius before
	// comfortable-angle resizing.
	DefaultBaseRadius = 80.0

	// DefaultThickness is each ring's radial thickness.
	DefaultThickness = 70.0

	// DefaultCollapsedThickness is the breadcrumb-sized thickness of a
	// collapsed ring.
	DefaultCollapsedThickness = 18.0

	// DefaultGap is the radial gap between adjacent rings.
	DefaultGap = 6.0

	// DefaultIconSize is the icon edge length handed to renderers.
	DefaultIconSize = 40.0
)

// =============================================================================
// Config
// =============================================================================

// Config is the full ring menu configuration.
type Config struct {
	Metrics   Metrics          `toml:"metrics"`
	Cache     CacheConfig      `toml:"cache"`
	Server    ServerConfig     `toml:"server"`
	Providers []ProviderConfig `toml:"providers"`
}

// Metrics are the radial dimensions of the menu.
type Metrics struct {
	CloseZone          float64 `toml:"close_zone"`
	BaseRadius         float64 `toml:"base_radius"`
	Thickness          float64 `toml:"thickness"`
	CollapsedThickness float64 `toml:"collapsed_thickness"`
	Gap                float64 `toml:"gap"`
	IconSize           float64 `toml:"icon_size"`
}

// CacheConfig selects the provider cache backend.
type CacheConfig struct {
	// Backend is one of "memory", "file", "redis", "none".
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`      // file backend
	Addr     string `toml:"addr"`     // redis backend
	Password string `toml:"password"` // redis backend
	DB       int    `toml:"db"`       // redis backend
	Entries  int    `toml:"entries"`  // memory backend
}

// ServerConfig configures the renderer-facing HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ProviderConfig declares one content provider. Order in the file is the
// order contributions join the root ring.
type ProviderConfig struct {
	ID   string `toml:"id"`
	Type string `toml:"type"` // "static" or "folder"
	// Mode is "parent" or "direct"; empty defers to the provider's own
	// declared default.
	Mode  string `toml:"mode"`
	Title string `toml:"title"`

	// Folder provider
	Root string `toml:"root"`

	// Static provider
	Entries []EntryConfig `toml:"entries"`
}

// EntryConfig is one static launcher entry.
type EntryConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	Exec string `toml:"exec"`
}

// =============================================================================
// Loading & Validation
// =============================================================================

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns a runnable configuration: default metrics, a memory
// cache, and a folder provider rooted at the user's home directory.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := Config{
		Providers: []ProviderConfig{
			{ID: "files", Type: "folder", Title: "Files", Root: home, Mode: string(provider.ModeParent)},
		},
	}
	_ = cfg.ValidateAndSetDefaults()
	return cfg
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (c *Config) ValidateAndSetDefaults() error {
	if c.Metrics.CloseZone <= 0 {
		c.Metrics.CloseZone = DefaultCloseZone
	}
	if c.Metrics.BaseRadius <= 0 {
		c.Metrics.BaseRadius = DefaultBaseRadius
	}
	if c.Metrics.Thickness <= 0 {
		c.Metrics.Thickness = DefaultThickness
	}
	if c.Metrics.CollapsedThickness <= 0 {
		c.Metrics.CollapsedThickness = DefaultCollapsedThickness
	}
	if c.Metrics.Gap <= 0 {
		c.Metrics.Gap = DefaultGap
	}
	if c.Metrics.IconSize <= 0 {
		c.Metrics.IconSize = DefaultIconSize
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	switch c.Cache.Backend {
	case "memory", "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "file" && c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	if c.Cache.Backend == "redis" && c.Cache.Addr == "" {
		c.Cache.Addr = "localhost:6379"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = "localhost:8420"
	}

	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if err := errors.ValidateProviderID(p.ID); err != nil {
			return err
		}
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate provider id %q", p.ID)
		}
		seen[p.ID] = true

		switch p.Type {
		case "folder":
			p.Root = expandHome(p.Root)
			if err := errors.ValidateFolderRoot(p.Root); err != nil {
				return err
			}
		case "static":
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "provider %s: unknown type %q", p.ID, p.Type)
		}

		switch p.Mode {
		case "", string(provider.ModeParent), string(provider.ModeDirect):
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "provider %s: unknown mode %q", p.ID, p.Mode)
		}

		if p.Title == "" {
			p.Title = p.ID
		}
	}

	return nil
}

// expandHome resolves a leading "~" against the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// defaultCacheDir returns the per-user cache directory.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "ringmenu")
}
