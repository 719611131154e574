// Package hittest resolves pointer positions to ring items.
//
// Hit-testing is a pure, synchronous computation over the current ring
// layouts: no state, no I/O. The engine rebuilds a Tester from its ring
// configurations whenever the stack changes and queries it on every
// pointer event.
package hittest

import (
	"math"

	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

// Point is a position in screen coordinates (y grows downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Band is the radial footprint of one ring plus its angular layout.
type Band struct {
	Level       int
	StartRadius float64
	Thickness   float64
	Count       int
	Config      slice.Config
}

// Hit identifies the item under the pointer.
type Hit struct {
	Level int `json:"level"`
	Index int `json:"index"`
}

// Tester resolves (distance, angle) pairs against a set of ring bands.
// A distance inside CloseZone resolves to no selection: that radius is
// reserved for the close affordance at the menu's center.
type Tester struct {
	CloseZone float64
	Bands     []Band
}

// AtPoint resolves a pointer position against the ring stack centered at
// center. The boolean is false when the pointer hits nothing selectable.
func (t *Tester) AtPoint(p, center Point) (Hit, bool) {
	dx := p.X - center.X
	dy := p.Y - center.Y
	distance := math.Hypot(dx, dy)
	return t.At(distance, slice.FromVector(dx, dy))
}

// At resolves a polar pointer position. Angle follows the package slice
// convention: 0° at top, increasing clockwise.
func (t *Tester) At(distance, angle float64) (Hit, bool) {
	if distance <= t.CloseZone {
		return Hit{}, false
	}

	for _, b := range t.Bands {
		if distance < b.StartRadius || distance > b.StartRadius+b.Thickness {
			continue
		}
		idx, ok := indexAt(b.Config, b.Count, angle)
		if !ok {
			return Hit{}, false
		}
		return Hit{Level: b.Level, Index: idx}, true
	}
	return Hit{}, false
}

// indexAt converts an absolute angle into an item index within cfg.
func indexAt(cfg slice.Config, count int, angle float64) (int, bool) {
	if count == 0 {
		return 0, false
	}

	if !cfg.FullCircle && !slice.Contains(cfg.StartAngle, cfg.EndAngle, angle) {
		return 0, false
	}

	// Relative offset into the arc, measured in layout direction:
	// clockwise arcs measure forward from the start edge,
	// counter-clockwise arcs measure backward from the end edge.
	var rel float64
	if cfg.Direction == slice.CounterClockwise {
		rel = slice.Normalize(cfg.EndAngle - angle)
	} else {
		rel = slice.Normalize(angle - cfg.StartAngle)
	}

	if len(cfg.ItemAngles) > 0 {
		acc := 0.0
		for i, a := range cfg.ItemAngles {
			acc += a
			if rel <= acc+slice.Epsilon {
				return i, true
			}
		}
		return 0, false
	}

	if cfg.ItemAngle <= 0 {
		return 0, false
	}
	idx := int(rel / cfg.ItemAngle)
	if cfg.FullCircle {
		return idx % count, true
	}
	if idx >= count {
		// Floating point can push the end edge past the last item.
		if rel <= cfg.Total()+slice.Epsilon {
			return count - 1, true
		}
		return 0, false
	}
	return idx, true
}
