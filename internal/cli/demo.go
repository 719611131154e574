package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/timothyvelberg/ringmenu/pkg/engine"
	"github.com/timothyvelberg/ringmenu/pkg/node"
)

// demoCommand creates the demo command for exploring a menu in the
// terminal.
func (c *CLI) demoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [config.toml]",
		Short: "Navigate the ring menu interactively in the terminal",
		Long: `Navigate the ring menu interactively in the terminal.

The demo command loads the configured providers and presents the ring
stack as nested lists. It drives the same engine a graphical renderer
would, so expansion, overflow folding, and dynamic folder loading all
behave exactly as on screen.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return c.runDemo(cmd.Context(), path)
		},
	}
	return cmd
}

func (c *CLI) runDemo(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", configPath, err)
	}

	eng, _, store, err := c.buildEngine(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer store.Close()

	if err := eng.LoadFunctions(ctx); err != nil {
		return fmt.Errorf("load providers: %w", err)
	}

	m := newDemoModel(ctx, eng)
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// DemoModel - Interactive Ring Navigation
// =============================================================================

// DemoModel is the bubbletea model driving a live engine.
type DemoModel struct {
	ctx    context.Context
	eng    *engine.Engine
	status string
}

func newDemoModel(ctx context.Context, eng *engine.Engine) DemoModel {
	return DemoModel{ctx: ctx, eng: eng}
}

func (m DemoModel) Init() tea.Cmd {
	return nil
}

func (m DemoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	level := m.eng.ActiveLevel()
	rings := m.eng.GetRingConfigurations()
	if level >= len(rings) {
		return m, nil
	}
	ring := rings[level]

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "left", "h":
		m.eng.SelectNode(level, m.step(ring, -1))
		m.status = ""

	case "right", "l":
		m.eng.SelectNode(level, m.step(ring, +1))
		m.status = ""

	case "enter":
		if ring.SelectedIndex < 0 {
			break
		}
		closeMenu, err := m.eng.Click(m.ctx, level, ring.SelectedIndex, node.ButtonLeft)
		if err != nil {
			m.status = err.Error()
			break
		}
		if closeMenu {
			return m, tea.Quit
		}
		m.status = "activated " + ring.Nodes[ring.SelectedIndex].DisplayName()

	case "backspace", "b":
		if level > 0 {
			if err := m.eng.CollapseToRing(m.ctx, level-1); err != nil {
				m.status = err.Error()
			}
			break
		}
		m.eng.NavigateBack(m.ctx)

	case "r":
		if err := m.eng.LoadFunctions(m.ctx); err != nil {
			m.status = err.Error()
			break
		}
		m.status = "reloaded"
	}

	return m, nil
}

// step returns the next selectable index in the given direction, walking
// circularly and skipping spacers.
func (m DemoModel) step(ring engine.RingConfiguration, dir int) int {
	count := len(ring.Nodes)
	if count == 0 {
		return -1
	}
	idx := ring.SelectedIndex
	if idx < 0 {
		idx = 0
		dir = 0
	}
	for i := 0; i < count; i++ {
		idx = ((idx+dir)%count + count) % count
		if ring.Nodes[idx].Selectable() {
			return idx
		}
		if dir == 0 {
			dir = 1
		}
	}
	return -1
}

func (m DemoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Ring Menu"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ select  ⏎ activate  ⌫ back  r reload  q quit"))
	b.WriteString("\n\n")

	rings := m.eng.GetRingConfigurations()
	active := m.eng.ActiveLevel()

	for _, ring := range rings {
		title := fmt.Sprintf("Ring %d", ring.Level)
		if ring.Level == active {
			title += " ●"
		}
		if ring.Collapsed {
			title += " (collapsed)"
		}
		b.WriteString(StyleValue.Render(title))
		b.WriteString("\n")

		for i, n := range ring.Nodes {
			cursor := "  "
			style := StyleDim
			switch {
			case n.IsSpacer():
				b.WriteString("  " + styleSpacer.Render("···") + "\n")
				continue
			case i == ring.SelectedIndex:
				cursor = "▸ "
				style = styleSelected
			}
			mid := ring.Slice.MidAngle(i, len(ring.Nodes))
			line := fmt.Sprintf("%s%-28s %6.1f°", cursor, n.DisplayName(), mid)
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
