package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timothyvelberg/ringmenu/pkg/provider"
	"github.com/timothyvelberg/ringmenu/pkg/server"
)

// serveCommand creates the serve command for running the renderer-facing
// HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [config.toml]",
		Short: "Serve the menu engine to external renderers",
		Long: `Serve the menu engine to external renderers.

The serve command loads the configured providers, starts filesystem
watchers for folder providers, and exposes the engine over HTTP:
snapshot and hit-test endpoints, a navigation endpoint for pointer
events, and a websocket that pushes a fresh ring stack on every state
change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return c.runServe(cmd.Context(), path, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	eng, folders, store, err := c.buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer store.Close()

	if err := eng.LoadFunctions(ctx); err != nil {
		return fmt.Errorf("load providers: %w", err)
	}

	for _, f := range folders {
		w, err := provider.NewWatcher(f, eng.UpdateRing, c.Logger)
		if err != nil {
			c.Logger.Warn("watcher unavailable", "provider", f.ID(), "error", err)
			continue
		}
		if err := w.Start(ctx); err != nil {
			c.Logger.Warn("watcher start failed", "provider", f.ID(), "error", err)
			continue
		}
		defer w.Stop()
	}

	srv := server.New(cfg.Server, eng, c.Logger)
	return srv.Run(ctx)
}
