package provider

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/timothyvelberg/ringmenu/pkg/node"
)

// Entry is one configured launcher item.
type Entry struct {
	ID   string
	Name string
	Exec string // command line started when the item is activated
}

// Static serves a fixed, configuration-defined list of launcher entries.
// Refresh is a no-op: the entries only change when the configuration is
// reloaded.
type Static struct {
	id      string
	title   string
	entries []Entry
}

// NewStatic creates a static provider. Title names the category wrapper
// shown in parent display mode.
func NewStatic(id, title string, entries []Entry) *Static {
	return &Static{id: id, title: title, entries: entries}
}

// ID returns the provider identifier.
func (s *Static) ID() string { return s.id }

// Refresh does nothing; static entries have no backing source to resync.
func (s *Static) Refresh(ctx context.Context) error { return nil }

// Provide returns the category wrapper holding all configured entries.
func (s *Static) Provide() []*node.Node {
	children := make([]*node.Node, 0, len(s.entries))
	for i, e := range s.entries {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", s.id, i)
		}
		child := node.NewAction(id, e.Name, launch(e.Exec))
		child.ProviderID = s.id
		children = append(children, child)
	}

	wrapper := node.NewCategory(s.id, s.title, children)
	wrapper.ProviderID = s.id
	return []*node.Node{wrapper}
}

// launch builds an action that starts the configured command detached.
func launch(command string) node.Action {
	return func(ctx context.Context) error {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return nil
		}
		cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
		return cmd.Start()
	}
}

// Ensure Static implements Provider.
var _ Provider = (*Static)(nil)
