package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/timothyvelberg/ringmenu/pkg/layout"
	"github.com/timothyvelberg/ringmenu/pkg/observability"
	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

// =============================================================================
// Layout Memoization
// =============================================================================

// ringShape is one ring's contribution to the structural key. Hover and
// the deepest ring's selection are deliberately absent: pointer movement
// must never invalidate a layout.
type ringShape struct {
	Count       int       `json:"count"`
	Collapsed   bool      `json:"collapsed"`
	Anchor      int       `json:"anchor"` // selection feeding the next ring, -1 for the deepest ring
	IDs         []string  `json:"ids"`
	Angles      []float64 `json:"angles"`
	ChildAngles []float64 `json:"child_angles"`
	Positions   []string  `json:"positions"`
}

// structuralKeyLocked hashes everything the layout depends on: per-ring
// item counts and collapse flags, the selections that anchor child rings,
// node identity, fixed-angle overrides, parent-imposed child angles, and
// child-arc anchoring.
func (e *Engine) structuralKeyLocked() string {
	shapes := make([]ringShape, len(e.rings))
	for i, r := range e.rings {
		s := ringShape{
			Count:       len(r.Nodes),
			Collapsed:   r.Collapsed,
			Anchor:      -1,
			IDs:         make([]string, len(r.Nodes)),
			Angles:      make([]float64, len(r.Nodes)),
			ChildAngles: make([]float64, len(r.Nodes)),
			Positions:   make([]string, len(r.Nodes)),
		}
		if i < len(e.rings)-1 {
			s.Anchor = r.Selected
		}
		for j, n := range r.Nodes {
			s.IDs[j] = n.ID
			s.Angles[j] = n.ItemAngle
			s.ChildAngles[j] = n.ChildItemAngle
			s.Positions[j] = string(n.Positioning)
		}
		shapes[i] = s
	}
	data, _ := json.Marshal(shapes)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ensureLayoutLocked brings every ring's slice config up to date. The
// computed configs are memoized under the structural key, so repeated
// hover and selection churn on an unchanged stack costs one hash.
func (e *Engine) ensureLayoutLocked() {
	if len(e.rings) == 0 {
		return
	}

	key := e.structuralKeyLocked()
	if key == e.structuralKey && e.slicesPresentLocked() {
		return
	}

	start := time.Now()
	configs, cached := e.memo.Get(key)
	if !cached || len(configs) != len(e.rings) {
		configs = e.computeLayoutLocked()
		e.memo.Add(key, configs)
		cached = false
	}

	for i := range e.rings {
		cfg := configs[i]
		e.rings[i].Slice = &cfg
	}
	e.structuralKey = key

	observability.Engine().OnLayout(context.Background(), len(e.rings), cached, time.Since(start))
}

// slicesPresentLocked reports whether every ring already carries a
// layout.
func (e *Engine) slicesPresentLocked() bool {
	for _, r := range e.rings {
		if r.Slice == nil {
			return false
		}
	}
	return true
}

// computeLayoutLocked runs the calculator over the stack in order; each
// child ring anchors on the parent config computed just before it.
func (e *Engine) computeLayoutLocked() []slice.Config {
	configs := make([]slice.Config, len(e.rings))
	for i, r := range e.rings {
		if i == 0 {
			configs[0] = e.calc.RootConfig(r.Nodes)
			continue
		}

		parentRing := e.rings[i-1]
		sel := parentRing.Selected
		if sel < 0 || sel >= len(parentRing.Nodes) {
			// A child ring with no anchoring selection should not
			// exist; degrade to a root-style layout.
			e.logger.Warn("child ring without parent selection", "level", i)
			configs[i] = e.calc.RootConfig(r.Nodes)
			continue
		}

		parentNode := parentRing.Nodes[sel]
		info := layout.ParentInfoFor(configs[i-1], sel, len(parentRing.Nodes), parentNode.Positioning)
		configs[i] = e.calc.ChildConfig(r.Nodes, i, info, parentNode.ChildItemAngle)
	}
	return configs
}
