// Package slice defines the angular layout contract for a single ring.
//
// All angles in this package are degrees. The convention follows screen
// coordinates for a radial menu: 0° points straight up from the center,
// angles increase clockwise, and every absolute angle is normalized into
// [0, 360).
package slice

import "math"

// Epsilon is the tolerance used when comparing angles.
// Layout math accumulates floating point error across per-item sums,
// so exact comparisons are never appropriate.
const Epsilon = 1e-6

// Normalize maps an angle to the canonical [0, 360) range.
func Normalize(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Contains reports whether angle lies on the clockwise arc from start to
// end, where end >= start and end-start is the arc's span. Both edges are
// inclusive and the arc may wrap across 0°. An arc spanning 360° or more
// contains every angle.
func Contains(start, end, angle float64) bool {
	span := end - start
	if span >= 360-Epsilon {
		return true
	}
	return Normalize(angle-start) <= span+Epsilon
}

// FromVector converts a vector from the ring center into an angle.
// dx grows rightward, dy grows downward (screen coordinates), so a vector
// pointing straight up yields 0° and one pointing right yields 90°.
func FromVector(dx, dy float64) float64 {
	return Normalize(math.Atan2(dx, -dy) * 180 / math.Pi)
}

// ArcLength returns the length of an arc of the given angle at radius r.
func ArcLength(radius, angle float64) float64 {
	return 2 * math.Pi * radius * angle / 360
}
