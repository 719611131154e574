package layout

import "github.com/timothyvelberg/ringmenu/pkg/node"

// hasOverrides reports whether any node carries a fixed angular size, or
// the parent imposes one on all of them.
func hasOverrides(nodes []*node.Node, childAngle float64) bool {
	if childAngle > 0 {
		return true
	}
	for _, n := range nodes {
		if n.ItemAngle > 0 {
			return true
		}
	}
	return false
}

// distribute resolves per-item angles across total degrees.
//
// Fixed items keep their declared angle: a node's own ItemAngle wins over
// the parent-imposed childAngle. The remaining angle is divided equally
// among the auto-sized items. Returns ok=false when the fixed angles
// alone exceed the total, in which case the caller falls back to uniform
// distribution.
func (c *Calculator) distribute(nodes []*node.Node, total, childAngle float64) ([]float64, bool) {
	angles := make([]float64, len(nodes))
	fixedSum := 0.0
	auto := 0

	for i, n := range nodes {
		switch {
		case n.ItemAngle > 0:
			angles[i] = n.ItemAngle
		case childAngle > 0:
			angles[i] = childAngle
		default:
			auto++
			continue
		}
		fixedSum += angles[i]
	}

	if fixedSum > total {
		c.logger.Warn("angle overrides exceed available span, falling back to uniform",
			"fixed_sum", fixedSum,
			"total", total)
		return nil, false
	}

	if auto > 0 {
		residual := (total - fixedSum) / float64(auto)
		if residual < c.MinAngle {
			c.logger.Warn("auto-sized items squeezed below comfortable angle",
				"residual", residual,
				"min", c.MinAngle)
		}
		for i := range angles {
			if angles[i] == 0 {
				angles[i] = residual
			}
		}
	}

	return angles, true
}
