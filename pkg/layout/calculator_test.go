package layout

import (
	"math"
	"testing"

	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func plainNodes(count int) []*node.Node {
	nodes := make([]*node.Node, count)
	for i := range nodes {
		nodes[i] = node.NewAction(string(rune('a'+i)), "item", nil)
	}
	return nodes
}

// centerParent is a parent item spanning [75, 105] with its mid at 90.
func centerParent() ParentInfo {
	return ParentInfo{Mid: 90, Left: 75, Right: 105, ItemAngle: 30, Positioning: slice.PositionCenter}
}

func TestRootConfigUniform(t *testing.T) {
	c := NewCalculator(nil)
	cfg := c.RootConfig(plainNodes(4))

	if !cfg.FullCircle {
		t.Error("root ring should be a full circle")
	}
	if !almostEqual(cfg.StartAngle, 0) {
		t.Errorf("StartAngle = %v, want 0", cfg.StartAngle)
	}
	if !almostEqual(cfg.ItemAngle, 90) {
		t.Errorf("ItemAngle = %v, want 90", cfg.ItemAngle)
	}
}

func TestRootConfigHonorsOverrides(t *testing.T) {
	c := NewCalculator(nil)
	nodes := plainNodes(3)
	nodes[0].ItemAngle = 100

	cfg := c.RootConfig(nodes)

	if !almostEqual(cfg.AngleOf(0), 100) {
		t.Errorf("fixed item = %v, want 100", cfg.AngleOf(0))
	}
	if !almostEqual(cfg.AngleOf(1), 130) || !almostEqual(cfg.AngleOf(2), 130) {
		t.Errorf("auto items = %v/%v, want 130 each", cfg.AngleOf(1), cfg.AngleOf(2))
	}
	if !almostEqual(cfg.Total(), 360) {
		t.Errorf("Total = %v, want 360", cfg.Total())
	}
}

func TestRootConfigDegenerateOverridesFallBack(t *testing.T) {
	c := NewCalculator(nil)
	nodes := plainNodes(2)
	nodes[0].ItemAngle = 250
	nodes[1].ItemAngle = 250

	cfg := c.RootConfig(nodes)

	// 500° cannot fit; falls back to an even split.
	if !almostEqual(cfg.ItemAngle, 180) {
		t.Errorf("ItemAngle = %v, want 180 fallback", cfg.ItemAngle)
	}
}

func TestOptimalRingZeroSize(t *testing.T) {
	c := NewCalculator(nil)
	base := RingSize{Radius: 100, Thickness: 64}

	t.Run("comfortable counts keep the base size", func(t *testing.T) {
		got := c.OptimalRingZeroSize(12, base) // 30° per item
		if got != base {
			t.Errorf("size = %+v, want base %+v", got, base)
		}
	})

	t.Run("crowded ring grows", func(t *testing.T) {
		got := c.OptimalRingZeroSize(18, base) // 20° per item
		scale := 30.0 / 20.0
		if !almostEqual(got.Radius, 100*scale) {
			t.Errorf("Radius = %v, want %v", got.Radius, 100*scale)
		}
		if !almostEqual(got.Thickness, 64*math.Sqrt(scale)) {
			t.Errorf("Thickness = %v, want %v", got.Thickness, 64*math.Sqrt(scale))
		}
	})

	t.Run("zero count keeps base", func(t *testing.T) {
		if got := c.OptimalRingZeroSize(0, base); got != base {
			t.Errorf("size = %+v, want base", got)
		}
	})
}

func TestChildConfigStackingPhase(t *testing.T) {
	c := NewCalculator(nil)

	t.Run("depth 1 keeps the full stacking angle", func(t *testing.T) {
		cfg := c.ChildConfig(plainNodes(4), 1, centerParent(), 0)

		if !almostEqual(cfg.ItemAngle, 30) {
			t.Errorf("ItemAngle = %v, want 30", cfg.ItemAngle)
		}
		// 120° centered on mid 90 starts at 30.
		if !almostEqual(cfg.StartAngle, 30) {
			t.Errorf("StartAngle = %v, want 30", cfg.StartAngle)
		}
		if cfg.FullCircle {
			t.Error("partial arc should not be full circle")
		}
	})

	t.Run("deeper rings shrink geometrically", func(t *testing.T) {
		cfg := c.ChildConfig(plainNodes(4), 2, centerParent(), 0)

		if !almostEqual(cfg.ItemAngle, 24) { // 30 * 0.8
			t.Errorf("ItemAngle = %v, want 24", cfg.ItemAngle)
		}
	})
}

func TestChildConfigDistributionPhase(t *testing.T) {
	c := NewCalculator(nil)
	cfg := c.ChildConfig(plainNodes(8), 1, centerParent(), 0)

	// 8 * 30 = 240 exceeds the 180° cap; items share it evenly.
	if !almostEqual(cfg.ItemAngle, 22.5) {
		t.Errorf("ItemAngle = %v, want 22.5", cfg.ItemAngle)
	}
	if !almostEqual(cfg.Total(), 180) {
		t.Errorf("Total = %v, want 180", cfg.Total())
	}
	if !almostEqual(cfg.StartAngle, 0) {
		t.Errorf("StartAngle = %v, want 0", cfg.StartAngle)
	}
}

func TestChildConfigMinAngleFloor(t *testing.T) {
	c := NewCalculator(nil)
	cfg := c.ChildConfig(plainNodes(13), 1, centerParent(), 0)

	// 180/13 would be below the 15° floor; floor wins and the arc grows.
	if !almostEqual(cfg.ItemAngle, 15) {
		t.Errorf("ItemAngle = %v, want 15", cfg.ItemAngle)
	}
	if !almostEqual(cfg.Total(), 195) {
		t.Errorf("Total = %v, want 195", cfg.Total())
	}
	if cfg.FullCircle {
		t.Error("195° arc should not be full circle")
	}
}

func TestChildConfigFullCircleConversion(t *testing.T) {
	c := NewCalculator(nil)
	cfg := c.ChildConfig(plainNodes(24), 1, centerParent(), 0)

	if !cfg.FullCircle {
		t.Error("24 floored items should convert to a full circle")
	}
	if !almostEqual(cfg.ItemAngle, 15) {
		t.Errorf("ItemAngle = %v, want 15", cfg.ItemAngle)
	}
	// Full-circle child arcs center on the parent mid.
	if !almostEqual(cfg.StartAngle, 270) {
		t.Errorf("StartAngle = %v, want 270 (mid - 180)", cfg.StartAngle)
	}
}

func TestChildConfigAnchoring(t *testing.T) {
	c := NewCalculator(nil)

	t.Run("start clockwise hugs the left edge", func(t *testing.T) {
		p := centerParent()
		p.Positioning = slice.PositionStartClockwise
		cfg := c.ChildConfig(plainNodes(4), 1, p, 0)

		if !almostEqual(cfg.StartAngle, 75) {
			t.Errorf("StartAngle = %v, want 75", cfg.StartAngle)
		}
		if cfg.Direction != slice.Clockwise {
			t.Errorf("Direction = %v, want clockwise", cfg.Direction)
		}
	})

	t.Run("start counter-clockwise hugs the right edge", func(t *testing.T) {
		p := centerParent()
		p.Positioning = slice.PositionStartCounterClockwise
		cfg := c.ChildConfig(plainNodes(4), 1, p, 0)

		// Arc of 120° ending at the parent's right edge (105).
		if !almostEqual(cfg.StartAngle, 345) {
			t.Errorf("StartAngle = %v, want 345", cfg.StartAngle)
		}
		if cfg.Direction != slice.CounterClockwise {
			t.Errorf("Direction = %v, want counterClockwise", cfg.Direction)
		}
	})
}

func TestChildConfigOverridesDistributeFullCircle(t *testing.T) {
	c := NewCalculator(nil)
	nodes := plainNodes(9)
	for i := 0; i < 5; i++ {
		nodes[i].ItemAngle = 40
	}

	cfg := c.ChildConfig(nodes, 1, centerParent(), 0)

	// 5 fixed at 40° leaves 160° across 4 auto items: 40° each too.
	for i := 0; i < 9; i++ {
		if !almostEqual(cfg.AngleOf(i), 40) {
			t.Errorf("AngleOf(%d) = %v, want 40", i, cfg.AngleOf(i))
		}
	}
	if !cfg.FullCircle {
		t.Error("360° distribution should be a full circle")
	}
}

func TestChildConfigParentImposedAngle(t *testing.T) {
	c := NewCalculator(nil)
	cfg := c.ChildConfig(plainNodes(8), 1, centerParent(), 45)

	for i := 0; i < 8; i++ {
		if !almostEqual(cfg.AngleOf(i), 45) {
			t.Errorf("AngleOf(%d) = %v, want 45", i, cfg.AngleOf(i))
		}
	}
	if !cfg.FullCircle {
		t.Error("8 x 45° should close the circle")
	}
}

func TestParentInfoFor(t *testing.T) {
	cfg := slice.Uniform(0, 4, 90, slice.Clockwise)
	info := ParentInfoFor(cfg, 1, 4, slice.PositionCenter)

	if !almostEqual(info.Mid, 135) {
		t.Errorf("Mid = %v, want 135", info.Mid)
	}
	if !almostEqual(info.Left, 90) || !almostEqual(info.Right, 180) {
		t.Errorf("edges = [%v, %v], want [90, 180]", info.Left, info.Right)
	}
	if !almostEqual(info.ItemAngle, 90) {
		t.Errorf("ItemAngle = %v, want 90", info.ItemAngle)
	}
}

func TestCompute(t *testing.T) {
	c := NewCalculator(nil)
	parent := centerParent()

	configs := c.Compute([]RingSpec{
		{Nodes: plainNodes(4), Depth: 0},
		{Nodes: plainNodes(4), Depth: 1, Parent: &parent},
	})

	if len(configs) != 2 {
		t.Fatalf("got %d configs, want 2", len(configs))
	}
	if !configs[0].FullCircle {
		t.Error("root config should be full circle")
	}
	if !almostEqual(configs[1].ItemAngle, 30) {
		t.Errorf("child ItemAngle = %v, want 30", configs[1].ItemAngle)
	}
}

func TestMaxItems(t *testing.T) {
	c := NewCalculator(nil)
	if got := c.MaxItems(); got != 24 {
		t.Errorf("MaxItems() = %d, want 24", got)
	}
}
