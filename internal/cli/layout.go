package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timothyvelberg/ringmenu/pkg/render"
)

// layoutCommand creates the layout command for exporting a computed ring
// stack.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "layout [config.toml]",
		Short: "Compute the ring stack and export it",
		Long: `Compute the ring stack and export it.

The layout command loads the configured providers, builds the root ring,
and writes the resulting ring stack in the chosen format. JSON output is
the renderer contract verbatim; SVG output is a static drawing of the
rings for quick inspection.

Without a config file a default single-folder menu rooted at the home
directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return c.runLayout(cmd.Context(), path, output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json (default), svg")

	return cmd
}

// runLayout loads providers, computes the stack, and writes output.
func (c *CLI) runLayout(ctx context.Context, configPath, output, format string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	eng, _, store, err := c.buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, "Loading providers...")
	spinner.Start()
	prog := newProgress(c.Logger)

	if err := eng.LoadFunctions(ctx); err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load providers: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Loaded %d providers", len(cfg.Providers)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	rings := eng.GetRingConfigurations()

	var data []byte
	switch format {
	case "json":
		data, err = render.RenderJSON(rings)
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
	case "svg":
		data = render.RenderSVG(rings,
			render.WithLabels(),
			render.WithCloseZone(cfg.Metrics.CloseZone))
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	items := 0
	for _, r := range rings {
		items += len(r.Nodes)
	}
	printSuccess("Layout complete")
	printFile(output)
	printStats(len(rings), items, false)
	printNewline()
	printNextStep("Serve", "ringmenu serve "+configPath)

	return nil
}
