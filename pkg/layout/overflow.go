package layout

import (
	"fmt"
	"math"

	"github.com/timothyvelberg/ringmenu/pkg/node"
)

// =============================================================================
// Overflow - Per-Ring Pagination
// =============================================================================

// MoreNodeID returns the identifier of the synthetic overflow node for a
// ring level. Each ring gets a distinct ID so overflow nodes on different
// rings can coexist.
func MoreNodeID(level int) string {
	return fmt.Sprintf("__more_ring%d__", level)
}

// CapRoot caps the root ring at the hard MaxItems ceiling. When the list
// overflows, the first MaxItems-1 nodes stay visible and the remainder is
// folded into a synthetic "More" category appended at the end.
func (c *Calculator) CapRoot(nodes []*node.Node) []*node.Node {
	return c.cap(nodes, c.MaxItems(), 0)
}

// CapRing caps a child ring at its geometric threshold: the number of
// items whose arcs stay at least MinArcPerItem long at the ring's middle
// radius. The threshold never exceeds MaxItems.
func (c *Calculator) CapRing(nodes []*node.Node, middleRadius float64, level int) []*node.Node {
	threshold := int(math.Floor(2 * math.Pi * middleRadius / c.MinArcPerItem))
	if threshold > c.MaxItems() {
		threshold = c.MaxItems()
	}
	if threshold < 2 {
		threshold = 2
	}
	return c.cap(nodes, threshold, level)
}

// cap folds nodes beyond the threshold into a "More" node. Spacers carry
// no meaning once folded and are filtered from the remainder.
func (c *Calculator) cap(nodes []*node.Node, threshold, level int) []*node.Node {
	if len(nodes) <= threshold {
		return nodes
	}

	visible := make([]*node.Node, 0, threshold)
	visible = append(visible, nodes[:threshold-1]...)

	remainder := make([]*node.Node, 0, len(nodes)-threshold+1)
	for _, n := range nodes[threshold-1:] {
		if n.IsSpacer() {
			continue
		}
		remainder = append(remainder, n)
	}

	c.logger.Debug("folded overflow into more node",
		"level", level,
		"visible", len(visible),
		"folded", len(remainder))

	more := node.NewCategory(MoreNodeID(level), "More", remainder)
	return append(visible, more)
}
