package skeleton

import stdmath "math"

// Influence binds one vertex to up to four bones. Only the first two slots
// are used by leaves; the rest stay zero.
type Influence struct {
	Index  [4]uint16
	Weight [4]float64
}

// Skin is the per-vertex influence table of a geometry.
type Skin struct {
	SegmentWidth float64
	Segments     int
	Influences   []Influence
}

// ComputeSkin assigns every vertex to the bone strip under its x coordinate.
// A vertex at x belongs to s = floor(x / segmentWidth) clamped to
// [0, segments-1] and blends bones s and s+1 by the fractional position
// inside that strip.
func ComputeSkin(g *Geometry, segments int) Skin {
	segW := g.Spec.Width / float64(segments)
	skin := Skin{
		SegmentWidth: segW,
		Segments:     segments,
		Influences:   make([]Influence, len(g.Positions)),
	}
	for i, p := range g.Positions {
		skin.Influences[i] = influenceAt(p.X, segW, segments)
	}
	return skin
}

func influenceAt(x, segW float64, segments int) Influence {
	pos := x / segW
	s := int(stdmath.Floor(pos))
	if s < 0 {
		s = 0
	}
	if s > segments-1 {
		s = segments - 1
	}
	// Measured from the clamped strip so the far edge gets full weight on
	// the last bone.
	w := pos - float64(s)
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	return Influence{
		Index:  [4]uint16{uint16(s), uint16(s + 1), 0, 0},
		Weight: [4]float64{1 - w, w, 0, 0},
	}
}

// At returns the influence a vertex at rest x would get.
func (s Skin) At(x float64) Influence {
	return influenceAt(x, s.SegmentWidth, s.Segments)
}
