// Package cli implements the ringmenu command-line interface.
//
// This package provides commands for computing and exporting ring menu
// layouts, serving a running menu engine to out-of-process renderers,
// and exploring a configuration interactively in the terminal. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Load providers and export the ring stack as JSON or SVG
//   - serve: Run the HTTP/websocket server for external renderers
//   - demo: Navigate the ring menu interactively in the terminal
//   - cache: Manage the provider listing cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/timothyvelberg/ringmenu/pkg/buildinfo"
	"github.com/timothyvelberg/ringmenu/pkg/cache"
	"github.com/timothyvelberg/ringmenu/pkg/config"
	"github.com/timothyvelberg/ringmenu/pkg/engine"
	"github.com/timothyvelberg/ringmenu/pkg/provider"
)

// appName is the application name used for directories and display.
const appName = "ringmenu"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Ringmenu lays out radial navigation menus",
		Long:         `Ringmenu is the layout and state engine behind a radial "pie" navigation menu: providers contribute items, the engine arranges them on concentric rings, and renderers draw whatever the engine reports.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// loadConfig reads the config file, or builds the default configuration
// when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.ValidateAndSetDefaults()
	}
	return config.Load(path)
}

// buildEngine assembles providers and an engine from a validated
// configuration. The returned folders are the file-backed providers, so
// callers can attach watchers to them.
func (c *CLI) buildEngine(ctx context.Context, cfg config.Config) (*engine.Engine, []*provider.Folder, cache.Cache, error) {
	store, err := config.OpenCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, nil, err
	}

	eng := engine.New(engine.Options{
		Metrics: cfg.Metrics,
		Logger:  c.Logger,
	})

	var folders []*provider.Folder
	for _, pc := range cfg.Providers {
		switch pc.Type {
		case "folder":
			f, err := provider.NewFolder(pc.ID, pc.Title, pc.Root, store, c.Logger)
			if err != nil {
				store.Close()
				return nil, nil, nil, err
			}
			folders = append(folders, f)
			eng.Register(f, provider.DisplayMode(pc.Mode))
		case "static":
			entries := make([]provider.Entry, len(pc.Entries))
			for i, ec := range pc.Entries {
				entries[i] = provider.Entry{ID: ec.ID, Name: ec.Name, Exec: ec.Exec}
			}
			eng.Register(provider.NewStatic(pc.ID, pc.Title, entries), provider.DisplayMode(pc.Mode))
		}
	}

	return eng, folders, store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ringmenu/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
