package engine

import (
	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

// RingState is one live ring on the stack. Level 0 is the innermost
// ring; children stack outward.
type RingState struct {
	// Nodes is the overflow-capped display list.
	Nodes []*node.Node

	// Hovered and Selected are indexes into Nodes, -1 for none.
	Hovered  int
	Selected int

	// Collapsed marks a breadcrumb ring rendered at reduced thickness.
	Collapsed bool

	// OpenedByClick makes a click-expanded child ring sticky: it
	// survives hover changes until the pointer crosses back over the
	// originating slice boundary.
	OpenedByClick bool

	// ProviderID and ContentID identify what this ring displays, so
	// targeted refreshes can find it. Both are empty for the mixed
	// root ring.
	ProviderID string
	ContentID  string

	// Slice is the ring's angular layout. Nil means not yet computed;
	// the layout memo injects it exactly once per structural change.
	Slice *slice.Config
}

// newRingState builds a ring with no hover or selection.
func newRingState(nodes []*node.Node, providerID, contentID string) *RingState {
	return &RingState{
		Nodes:      nodes,
		Hovered:    -1,
		Selected:   -1,
		ProviderID: providerID,
		ContentID:  contentID,
	}
}
