// Package render turns a ring stack snapshot into static output: an SVG
// drawing of the concentric rings or a JSON dump of the same snapshot.
// It draws what the engine reports and computes no layout of its own.
package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/timothyvelberg/ringmenu/pkg/engine"
	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

// Palette holds the fill and stroke colors for ring slices.
type Palette struct {
	Slice     string
	Hovered   string
	Selected  string
	Spacer    string
	Stroke    string
	Label     string
	CloseZone string
}

// DefaultPalette is a dark theme matching a translucent overlay menu.
var DefaultPalette = Palette{
	Slice:     "#2b2b33",
	Hovered:   "#3d3d4a",
	Selected:  "#4a6fa5",
	Spacer:    "#1c1c22",
	Stroke:    "#15151a",
	Label:     "#e6e6eb",
	CloseZone: "#101014",
}

type RenderOption func(*renderer)

type renderer struct {
	palette   Palette
	closeZone float64
	labels    bool
	padding   float64
}

func WithPalette(p Palette) RenderOption     { return func(r *renderer) { r.palette = p } }
func WithCloseZone(rad float64) RenderOption { return func(r *renderer) { r.closeZone = rad } }
func WithLabels() RenderOption               { return func(r *renderer) { r.labels = true } }
func WithPadding(p float64) RenderOption     { return func(r *renderer) { r.padding = p } }

// RenderSVG draws the ring stack centered in a square canvas sized to
// fit the outermost ring.
func RenderSVG(rings []engine.RingConfiguration, opts ...RenderOption) []byte {
	r := newRenderer(opts...)

	outer := r.closeZone
	for _, ring := range rings {
		if o := ring.StartRadius + ring.Thickness; o > outer {
			outer = o
		}
	}
	size := 2 * (outer + r.padding)
	c := size / 2

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		size, size, size, size)

	if r.closeZone > 0 {
		fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			c, c, r.closeZone, r.palette.CloseZone)
	}
	for _, ring := range rings {
		r.renderRing(&buf, ring, c)
	}
	if r.labels {
		for _, ring := range rings {
			if !ring.Collapsed {
				r.renderLabels(&buf, ring, c)
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newRenderer(opts ...RenderOption) renderer {
	r := renderer{palette: DefaultPalette, padding: 8}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *renderer) renderRing(buf *bytes.Buffer, ring engine.RingConfiguration, c float64) {
	count := len(ring.Nodes)
	if count == 0 {
		return
	}
	inner := ring.StartRadius
	outerR := ring.StartRadius + ring.Thickness

	for i, n := range ring.Nodes {
		left, right := ring.Slice.EdgesOf(i, count)
		fill := r.palette.Slice
		switch {
		case n.IsSpacer():
			fill = r.palette.Spacer
		case i == ring.SelectedIndex:
			fill = r.palette.Selected
		case i == ring.HoveredIndex:
			fill = r.palette.Hovered
		}
		fmt.Fprintf(buf, `  <path d="%s" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			sectorPath(c, c, inner, outerR, left, right), fill, r.palette.Stroke)
	}
}

func (r *renderer) renderLabels(buf *bytes.Buffer, ring engine.RingConfiguration, c float64) {
	count := len(ring.Nodes)
	mid := ring.StartRadius + ring.Thickness/2
	for i, n := range ring.Nodes {
		if n.IsSpacer() {
			continue
		}
		x, y := polar(c, c, mid, ring.Slice.MidAngle(i, count))
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-size="11" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			x, y, r.palette.Label, escape(n.DisplayName()))
	}
}

// polar converts a radius and a top-zero clockwise angle to canvas
// coordinates.
func polar(cx, cy, radius, angle float64) (x, y float64) {
	rad := angle * math.Pi / 180
	return cx + radius*math.Sin(rad), cy - radius*math.Cos(rad)
}

// sectorPath builds an annular sector path between two radii spanning
// the clockwise arc [a0, a1]. A full-circle span degenerates to a donut
// drawn with two circles under the evenodd fill rule; SVG arcs cannot
// express a 360° sweep in one segment.
func sectorPath(cx, cy, r0, r1, a0, a1 float64) string {
	span := a1 - a0
	if span >= 360-slice.Epsilon {
		return donutPath(cx, cy, r0, r1)
	}

	x0o, y0o := polar(cx, cy, r1, a0)
	x1o, y1o := polar(cx, cy, r1, a1)
	x1i, y1i := polar(cx, cy, r0, a1)
	x0i, y0i := polar(cx, cy, r0, a0)

	large := 0
	if span > 180 {
		large = 1
	}

	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f Z",
		x0o, y0o, r1, r1, large, x1o, y1o,
		x1i, y1i, r0, r0, large, x0i, y0i)
}

func donutPath(cx, cy, r0, r1 float64) string {
	circle := func(r float64) string {
		return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f Z",
			cx, cy-r, r, r, cx, cy+r, r, r, cx, cy-r)
	}
	return circle(r1) + " " + circle(r0)
}

func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
