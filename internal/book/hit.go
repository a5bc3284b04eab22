package book

import (
	"fmt"

	"github.com/Faultbox/folio/pkg/math"
)

// Region is an axis-aligned rectangle in surface coordinates. Bounds are
// inclusive.
type Region struct {
	UMin float64 `yaml:"u_min"`
	UMax float64 `yaml:"u_max"`
	VMin float64 `yaml:"v_min"`
	VMax float64 `yaml:"v_max"`
}

// Contains reports whether uv lies inside r.
func (r Region) Contains(uv math.Vec2) bool {
	return uv.X >= r.UMin && uv.X <= r.UMax && uv.Y >= r.VMin && uv.Y <= r.VMax
}

// Validate rejects inverted bounds.
func (r Region) Validate() error {
	if r.UMin > r.UMax || r.VMin > r.VMax {
		return fmt.Errorf("invalid hit region u[%g,%g] v[%g,%g]", r.UMin, r.UMax, r.VMin, r.VMax)
	}
	return nil
}

// Intersection is one pointer ray hit on a leaf. Lists are ordered nearest
// first.
type Intersection struct {
	Leaf     int
	Distance float64
	Point    math.Vec3
	UV       math.Vec2 // v=1 on the top edge
	HasUV    bool
}

// ActionKind classifies a click.
type ActionKind int

const (
	// ActionNone means the click hit nothing.
	ActionNone ActionKind = iota
	// ActionTurn requests a new target page.
	ActionTurn
	// ActionNavigate opens the secondary content view.
	ActionNavigate
)

func (k ActionKind) String() string {
	switch k {
	case ActionTurn:
		return "turn"
	case ActionNavigate:
		return "navigate"
	}
	return "none"
}

// Action is the outcome of a click.
type Action struct {
	Kind   ActionKind
	Leaf   int
	Target int    // for ActionTurn, already within [0, leaves]
	Route  string // for ActionNavigate
}

// Tester decides what a click on the book means.
type Tester struct {
	Leaf   int    // the leaf carrying Region
	Region Region // navigate region on Leaf's surface
	Route  string
}

// Evaluate classifies a click from its intersections. Only the nearest hit
// counts. A hit inside Region on Leaf while that leaf is unturned navigates;
// anything else turns the clicked leaf: an unturned leaf opens through to
// number+1, a turned one closes back to number.
func (t Tester) Evaluate(snap Snapshot, hits []Intersection) Action {
	if len(hits) == 0 {
		return Action{Kind: ActionNone, Leaf: -1}
	}
	hit := hits[0]
	opened := snap.Opened(hit.Leaf)

	if hit.Leaf == t.Leaf && !opened && hit.HasUV && t.Region.Contains(hit.UV) {
		return Action{Kind: ActionNavigate, Leaf: hit.Leaf, Route: t.Route}
	}

	target := hit.Leaf + 1
	if opened {
		target = hit.Leaf
	}
	return Action{
		Kind:   ActionTurn,
		Leaf:   hit.Leaf,
		Target: ClampPage(target, snap.Leaves),
	}
}
