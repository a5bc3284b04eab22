package picking

import (
	"sort"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/skeleton"
	"github.com/Faultbox/folio/pkg/math"
)

// Target is one posed leaf mesh to test against.
type Target struct {
	Leaf      int
	Transform math.Mat4   // leaf space to world space
	Positions []math.Vec3 // posed vertex positions in leaf space
}

// IntersectLeaves casts ray (world space) against every target and returns
// the nearest hit per leaf, ordered nearest first. geom supplies the shared
// indices and surface coordinates. Targets are posed copies of geom, so
// hits inside a deformed leaf report the rest UV of that point.
func IntersectLeaves(ray Ray, geom *skeleton.Geometry, targets []Target) []book.Intersection {
	var hits []book.Intersection
	for _, tgt := range targets {
		if len(tgt.Positions) != len(geom.Positions) {
			continue
		}
		local := ray.Transform(tgt.Transform.Inverse())
		if _, ok := local.IntersectAABB(BoundsOf(tgt.Positions)); !ok {
			continue
		}
		if hit, ok := nearestTriangle(local, geom, tgt.Positions); ok {
			world := tgt.Transform.TransformPoint(hit.Point)
			hit.Leaf = tgt.Leaf
			hit.Point = world
			hit.Distance = world.Distance(ray.Origin)
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance-tieDistance
	})
	return hits
}

// tieDistance treats coplanar leaves as equally near. Ties keep the order
// of targets, so callers list the leaf that should win first.
const tieDistance = 1e-7

// nearestTriangle returns the closest hit in leaf space. Point is set to the
// local hit position; Distance holds the local ray parameter.
func nearestTriangle(r Ray, geom *skeleton.Geometry, pos []math.Vec3) (book.Intersection, bool) {
	best := book.Intersection{Distance: -1}
	idx := geom.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		ia, ib, ic := idx[i], idx[i+1], idx[i+2]
		t, u, v, ok := r.IntersectTriangle(pos[ia], pos[ib], pos[ic])
		if !ok || (best.Distance >= 0 && t >= best.Distance) {
			continue
		}
		w := 1 - u - v
		uvA, uvB, uvC := geom.UVs[ia], geom.UVs[ib], geom.UVs[ic]
		best = book.Intersection{
			Distance: t,
			Point:    r.At(t),
			UV: math.Vec2{
				X: w*uvA.X + u*uvB.X + v*uvC.X,
				Y: w*uvA.Y + u*uvB.Y + v*uvC.Y,
			},
			HasUV: true,
		}
	}
	return best, best.Distance >= 0
}
