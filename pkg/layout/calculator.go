// Package layout computes the angular layout of a ring stack.
//
// The calculator is a pure function layer: given node lists and parent
// anchoring information it produces one slice.Config per ring. It performs
// no I/O and holds no state besides its tunable constants, so callers can
// memoize its output freely (the engine's layout cache does exactly that).
package layout

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// DefaultMinComfortableAngle is the per-item angle below which the
	// root ring is grown instead of shrinking its slices further.
	DefaultMinComfortableAngle = 25.0

	// DefaultTargetAngle is the per-item angle the root ring resize aims
	// for, measured as arc length at the original radius.
	DefaultTargetAngle = 30.0

	// DefaultStackAngle is the fixed per-item angle of a child ring at
	// depth 1 while the ring is in the stacking phase.
	DefaultStackAngle = 30.0

	// DefaultMaxArcAngle caps a child ring's partial arc before items
	// start sharing the arc evenly.
	DefaultMaxArcAngle = 180.0

	// DefaultMinAngle is the smallest per-item angle the calculator will
	// produce before converting a ring to a full circle. It also bounds
	// the hard per-ring item ceiling: MaxItems = floor(360 / MinAngle).
	DefaultMinAngle = 15.0

	// DefaultAngleScalePerRing shrinks the stacking angle per ring depth,
	// so deeper rings start with slimmer items.
	DefaultAngleScalePerRing = 0.8

	// DefaultRadiusExponent and DefaultThicknessExponent control how the
	// root ring grows: radius scales with scale^RadiusExponent and
	// thickness with scale^ThicknessExponent. sqrt thickness growth keeps
	// crowded rings from ballooning. The exponents are tunable, not
	// load-bearing.
	DefaultRadiusExponent    = 1.0
	DefaultThicknessExponent = 0.5

	// DefaultMinArcPerItem is the minimum comfortable arc length per item
	// in pixels, used to derive child-ring overflow thresholds.
	DefaultMinArcPerItem = 25.0
)

// =============================================================================
// Calculator
// =============================================================================

// Calculator turns node lists into angular layouts. The zero value is not
// usable - use NewCalculator, which applies the default tuning.
type Calculator struct {
	MinComfortableAngle float64
	TargetAngle         float64
	StackAngle          float64
	MaxArcAngle         float64
	MinAngle            float64
	AngleScalePerRing   float64
	RadiusExponent      float64
	ThicknessExponent   float64
	MinArcPerItem       float64

	logger *log.Logger
}

// NewCalculator creates a calculator with default tuning.
// A nil logger discards diagnostics.
func NewCalculator(logger *log.Logger) *Calculator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Calculator{
		MinComfortableAngle: DefaultMinComfortableAngle,
		TargetAngle:         DefaultTargetAngle,
		StackAngle:          DefaultStackAngle,
		MaxArcAngle:         DefaultMaxArcAngle,
		MinAngle:            DefaultMinAngle,
		AngleScalePerRing:   DefaultAngleScalePerRing,
		RadiusExponent:      DefaultRadiusExponent,
		ThicknessExponent:   DefaultThicknessExponent,
		MinArcPerItem:       DefaultMinArcPerItem,
		logger:              logger,
	}
}

// MaxItems is the hard per-ring item ceiling. Node lists longer than this
// are paginated through the overflow handler.
func (c *Calculator) MaxItems() int {
	return int(360 / c.MinAngle)
}

// =============================================================================
// Ring Specs - Calculator Input
// =============================================================================

// ParentInfo carries the angular placement of the selected item in the
// parent ring, used to anchor a child ring's arc. It is derived from the
// parent's slice.Config at expansion time, never stored.
type ParentInfo struct {
	Mid         float64 // absolute mid angle of the parent item
	Left        float64 // counter-clockwise edge (Mid - ItemAngle/2)
	Right       float64 // clockwise edge (Mid + ItemAngle/2)
	ItemAngle   float64
	Positioning slice.Positioning
}

// ParentInfoFor derives ParentInfo for item index of a ring laid out by
// cfg with count items. The positioning preference comes from the parent
// node itself.
func ParentInfoFor(cfg slice.Config, index, count int, pos slice.Positioning) ParentInfo {
	mid := cfg.MidAngle(index, count)
	size := cfg.AngleOf(index)
	return ParentInfo{
		Mid:         mid,
		Left:        slice.Normalize(mid - size/2),
		Right:       slice.Normalize(mid + size/2),
		ItemAngle:   size,
		Positioning: pos,
	}
}

// RingSpec describes one ring the calculator should lay out.
type RingSpec struct {
	Nodes []*node.Node
	// Depth is the ring index: 0 for the root ring.
	Depth int
	// Parent anchors child rings; nil for the root ring.
	Parent *ParentInfo
	// ChildAngle is the fixed per-item angle the parent node imposes on
	// this ring's items. Zero means no override.
	ChildAngle float64
}

// Compute lays out the whole ring stack, one config per spec.
func (c *Calculator) Compute(specs []RingSpec) []slice.Config {
	out := make([]slice.Config, len(specs))
	for i, s := range specs {
		if s.Depth == 0 || s.Parent == nil {
			out[i] = c.RootConfig(s.Nodes)
		} else {
			out[i] = c.ChildConfig(s.Nodes, s.Depth, *s.Parent, s.ChildAngle)
		}
	}
	return out
}

// =============================================================================
// Ring 0 - Root Ring Layout
// =============================================================================

// RootConfig lays out the root ring as a full circle starting at 0°.
// Per-node fixed angles are honored; the remaining angle is divided evenly
// among the rest. Degenerate override sets fall back to uniform
// distribution with a diagnostic rather than failing.
func (c *Calculator) RootConfig(nodes []*node.Node) slice.Config {
	count := len(nodes)
	if count == 0 {
		return slice.Config{FullCircle: true, Direction: slice.Clockwise}
	}

	if !hasOverrides(nodes, 0) {
		return slice.Uniform(0, count, 360/float64(count), slice.Clockwise)
	}

	angles, ok := c.distribute(nodes, 360, 0)
	if !ok {
		return slice.Uniform(0, count, 360/float64(count), slice.Clockwise)
	}
	// When every item carries a fixed angle and they sum below 360 the
	// ring degrades to a partial arc; Explicit keeps the sum invariant.
	return slice.Explicit(0, angles, slice.Clockwise)
}

// RingSize is the radial extent of a ring: the radius at its middle and
// its thickness.
type RingSize struct {
	Radius    float64 `json:"radius"`
	Thickness float64 `json:"thickness"`
}

// OptimalRingZeroSize grows the root ring when items get uncomfortably
// narrow. Below MinComfortableAngle per item, the radius is scaled so each
// item's arc length matches what a TargetAngle item would have had at the
// base radius; thickness grows sub-linearly so the ring's area, not its
// radius, absorbs the crowding.
func (c *Calculator) OptimalRingZeroSize(count int, base RingSize) RingSize {
	if count <= 0 {
		return base
	}
	anglePerItem := 360 / float64(count)
	if anglePerItem >= c.MinComfortableAngle {
		return base
	}

	scale := c.TargetAngle / anglePerItem
	resized := RingSize{
		Radius:    base.Radius * math.Pow(scale, c.RadiusExponent),
		Thickness: base.Thickness * math.Pow(scale, c.ThicknessExponent),
	}
	c.logger.Debug("resized root ring",
		"items", count,
		"angle_per_item", anglePerItem,
		"scale", scale,
		"radius", resized.Radius,
		"thickness", resized.Thickness)
	return resized
}

// =============================================================================
// Child Rings - Three-Phase Sizing
// =============================================================================

// ChildConfig lays out a ring at depth > 0, anchored to the parent item
// that opened it.
//
// Without overrides the per-item angle follows three phases as the item
// count grows: a fixed stacking angle, an even share of MaxArcAngle down
// to the MinAngle floor, and finally full-circle conversion once even the
// floor no longer fits a partial arc. With overrides the ring distributes
// the full circle the same way the root ring does.
func (c *Calculator) ChildConfig(nodes []*node.Node, depth int, parent ParentInfo, childAngle float64) slice.Config {
	count := len(nodes)
	if count == 0 {
		return slice.Config{Direction: slice.Clockwise, StartAngle: parent.Mid, EndAngle: parent.Mid}
	}

	if hasOverrides(nodes, childAngle) {
		angles, ok := c.distribute(nodes, 360, childAngle)
		if !ok {
			return c.fullCircle(count, 360/float64(count), parent)
		}
		sum := 0.0
		for _, a := range angles {
			sum += a
		}
		start := slice.Normalize(parent.Mid - sum/2)
		cfg := slice.Explicit(start, angles, slice.Clockwise)
		cfg.Positioning = parent.Positioning
		return cfg
	}

	perItem, total := c.childItemAngle(count, depth)
	if total >= 360-slice.Epsilon {
		return c.fullCircle(count, 360/float64(count), parent)
	}
	return c.anchor(count, perItem, total, parent)
}

// childItemAngle resolves the three-phase per-item angle for an
// override-free child ring.
func (c *Calculator) childItemAngle(count, depth int) (perItem, total float64) {
	stack := c.StackAngle * math.Pow(c.AngleScalePerRing, float64(depth-1))

	// Stacking phase: fixed angle per item.
	if float64(count)*stack <= c.MaxArcAngle {
		return stack, float64(count) * stack
	}

	// Distribution phase: share MaxArcAngle, floored at MinAngle.
	perItem = c.MaxArcAngle / float64(count)
	if perItem < c.MinAngle {
		perItem = c.MinAngle
	}
	total = float64(count) * perItem

	// Hard cap: converting to a full circle beats a near-closed arc.
	if float64(count)*c.MinAngle >= 360-c.MinAngle {
		return 360 / float64(count), 360
	}
	return perItem, total
}

// fullCircle builds a uniform full-circle config centered on the parent.
func (c *Calculator) fullCircle(count int, perItem float64, parent ParentInfo) slice.Config {
	cfg := slice.Uniform(slice.Normalize(parent.Mid-180), count, perItem, slice.Clockwise)
	cfg.FullCircle = true
	cfg.Positioning = parent.Positioning
	return cfg
}

// anchor places a partial arc against the parent item according to the
// parent's positioning preference. Arcs of 360° or more are forced to
// full-circle mode regardless of the preference.
func (c *Calculator) anchor(count int, perItem, total float64, parent ParentInfo) slice.Config {
	if total >= 360-slice.Epsilon {
		return c.fullCircle(count, total/float64(count), parent)
	}

	var cfg slice.Config
	switch parent.Positioning {
	case slice.PositionStartClockwise:
		cfg = slice.Uniform(parent.Left, count, perItem, slice.Clockwise)
	case slice.PositionStartCounterClockwise:
		cfg = slice.Uniform(slice.Normalize(parent.Right-total), count, perItem, slice.CounterClockwise)
	default: // center
		cfg = slice.Uniform(slice.Normalize(parent.Mid-total/2), count, perItem, slice.Clockwise)
	}
	cfg.Positioning = parent.Positioning
	return cfg
}
