package slice

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Direction is the rotational direction items are laid out in.
type Direction string

const (
	// Clockwise lays items out from StartAngle toward EndAngle.
	Clockwise Direction = "clockwise"
	// CounterClockwise lays items out from EndAngle back toward StartAngle.
	CounterClockwise Direction = "counterClockwise"
)

// Positioning describes where a child ring's arc is anchored relative to
// the parent item that opened it.
type Positioning string

const (
	// PositionCenter splits the arc symmetrically about the parent item's
	// mid angle.
	PositionCenter Positioning = "center"
	// PositionStartClockwise starts the arc flush against the parent
	// item's counter-clockwise edge and extends clockwise.
	PositionStartClockwise Positioning = "startClockwise"
	// PositionStartCounterClockwise ends the arc flush against the parent
	// item's clockwise edge and extends counter-clockwise.
	PositionStartCounterClockwise Positioning = "startCounterClockwise"
)

// =============================================================================
// Config - Angular Layout Contract
// =============================================================================

// Config is the angular layout for one ring. It is a pure value type:
// renderers and hit-testing consume it, nothing mutates it after creation.
//
// EndAngle is always StartAngle plus the arc's total span, so it may exceed
// 360 when the arc wraps past the top of the circle. StartAngle is
// normalized to [0, 360).
type Config struct {
	FullCircle  bool        `json:"full_circle"`
	StartAngle  float64     `json:"start_angle"`
	EndAngle    float64     `json:"end_angle"`
	ItemAngle   float64     `json:"item_angle,omitempty"`  // uniform per-item angle
	ItemAngles  []float64   `json:"item_angles,omitempty"` // explicit per-index angles
	Direction   Direction   `json:"direction"`
	Positioning Positioning `json:"positioning,omitempty"`
}

// Uniform builds a config whose items all share the same angle.
func Uniform(start float64, count int, itemAngle float64, dir Direction) Config {
	total := float64(count) * itemAngle
	return Config{
		FullCircle: total >= 360-Epsilon,
		StartAngle: Normalize(start),
		EndAngle:   Normalize(start) + total,
		ItemAngle:  itemAngle,
		Direction:  dir,
	}
}

// Explicit builds a config from a per-index angle list.
func Explicit(start float64, angles []float64, dir Direction) Config {
	total := 0.0
	for _, a := range angles {
		total += a
	}
	return Config{
		FullCircle: total >= 360-Epsilon,
		StartAngle: Normalize(start),
		EndAngle:   Normalize(start) + total,
		ItemAngles: append([]float64(nil), angles...),
		Direction:  dir,
	}
}

// Total returns the arc's angular span.
func (c Config) Total() float64 {
	return c.EndAngle - c.StartAngle
}

// AngleOf returns the angular size of item i.
func (c Config) AngleOf(i int) float64 {
	if i >= 0 && i < len(c.ItemAngles) {
		return c.ItemAngles[i]
	}
	return c.ItemAngle
}

// Angles materializes the per-item angle list for count items.
func (c Config) Angles(count int) []float64 {
	if len(c.ItemAngles) > 0 {
		return c.ItemAngles
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = c.ItemAngle
	}
	return out
}

// Matches reports whether the config describes exactly count items.
// A mismatch means the ring's contents changed underneath a cached config
// and the layout must be recomputed.
func (c Config) Matches(count int) bool {
	if len(c.ItemAngles) > 0 {
		return len(c.ItemAngles) == count
	}
	if c.ItemAngle <= 0 {
		return count == 0
	}
	return int((c.Total()+Epsilon)/c.ItemAngle) == count
}

// MidAngle returns the absolute angle at the center of item i.
// For counter-clockwise slices item 0 sits flush against EndAngle.
func (c Config) MidAngle(i, count int) float64 {
	angles := c.Angles(count)
	offset := 0.0
	for j := 0; j < i && j < len(angles); j++ {
		offset += angles[j]
	}
	if i < len(angles) {
		offset += angles[i] / 2
	}
	if c.Direction == CounterClockwise {
		return Normalize(c.EndAngle - offset)
	}
	return Normalize(c.StartAngle + offset)
}

// EdgesOf returns the absolute clockwise arc [left, right] covered by item i,
// with right = left + itemAngle.
func (c Config) EdgesOf(i, count int) (left, right float64) {
	angles := c.Angles(count)
	offset := 0.0
	for j := 0; j < i && j < len(angles); j++ {
		offset += angles[j]
	}
	size := c.AngleOf(i)
	if c.Direction == CounterClockwise {
		right = c.EndAngle - offset
		return Normalize(right - size), Normalize(right-size) + size
	}
	left = Normalize(c.StartAngle + offset)
	return left, left + size
}
