package book

import (
	"testing"

	"github.com/Faultbox/folio/pkg/math"
)

func testTester() Tester {
	s := DefaultSettings(nil)
	return Tester{Leaf: s.HitLeaf, Region: s.HitRegion, Route: s.Route}
}

func hitAt(leaf int, u, v float64) []Intersection {
	return []Intersection{
		{Leaf: leaf, Distance: 1, UV: math.Vec2{X: u, Y: v}, HasUV: true},
		{Leaf: leaf + 1, Distance: 1.01, UV: math.Vec2{X: 0.1, Y: 0.6}, HasUV: true},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		settled int
		hits    []Intersection
		kind    ActionKind
		target  int
	}{
		{"region on closed cover navigates", 0, hitAt(0, 0.10, 0.60), ActionNavigate, 0},
		{"region bounds are inclusive", 0, hitAt(0, 0.01, 0.75), ActionNavigate, 0},
		{"outside region turns cover", 0, hitAt(0, 0.50, 0.60), ActionTurn, 1},
		{"region on opened cover turns back", 1, hitAt(0, 0.10, 0.60), ActionTurn, 0},
		{"region only on its leaf", 0, hitAt(1, 0.10, 0.60), ActionTurn, 2},
		{"closed leaf opens through", 0, hitAt(2, 0.50, 0.60), ActionTurn, 3},
		{"opened leaf closes to itself", 3, hitAt(2, 0.50, 0.60), ActionTurn, 2},
		{"last leaf opens to the back cover", 5, hitAt(5, 0.50, 0.50), ActionTurn, 6},
		{"bad leaf index is clamped", 0, hitAt(9, 0.50, 0.50), ActionTurn, 6},
		{"no hits", 0, nil, ActionNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Settled: tt.settled, Target: tt.settled, Leaves: 6}
			act := testTester().Evaluate(snap, tt.hits)
			if act.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", act.Kind, tt.kind)
			}
			if act.Kind == ActionTurn && act.Target != tt.target {
				t.Errorf("target = %d, want %d", act.Target, tt.target)
			}
			if act.Kind == ActionNavigate && act.Route != "/about" {
				t.Errorf("route = %q, want /about", act.Route)
			}
		})
	}
}

func TestEvaluateWithoutUV(t *testing.T) {
	hits := []Intersection{{Leaf: 0, Distance: 1}}
	act := testTester().Evaluate(Snapshot{Leaves: 6}, hits)
	if act.Kind != ActionTurn || act.Target != 1 {
		t.Errorf("hit without uv = %+v, want turn to 1", act)
	}
}

func TestRegionValidate(t *testing.T) {
	if err := (Region{UMin: 0.3, UMax: 0.1, VMin: 0, VMax: 1}).Validate(); err == nil {
		t.Error("inverted u range should fail")
	}
	if err := testTester().Region.Validate(); err != nil {
		t.Errorf("default region: %v", err)
	}
}
