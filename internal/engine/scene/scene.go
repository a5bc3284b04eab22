// Package scene poses every leaf of a book on the CPU so the same vertices
// feed both drawing and pointer picking.
package scene

import (
	"fmt"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/camera"
	"github.com/Faultbox/folio/internal/engine/picking"
	"github.com/Faultbox/folio/internal/engine/skeleton"
	"github.com/Faultbox/folio/pkg/math"
)

// Scene holds one deformer per leaf of a book.
type Scene struct {
	book      *book.Book
	deformers []*skeleton.Deformer
	targets   []picking.Target
}

// New prepares skinning for every leaf of b.
func New(b *book.Book) (*Scene, error) {
	leaves := b.Leaves()
	s := &Scene{
		book:      b,
		deformers: make([]*skeleton.Deformer, len(leaves)),
		targets:   make([]picking.Target, len(leaves)),
	}
	for i, l := range leaves {
		d, err := skeleton.NewDeformer(b.Geometry(), l.Chain)
		if err != nil {
			return nil, fmt.Errorf("leaf %d: %w: %w", i, book.ErrSegmentMismatch, err)
		}
		s.deformers[i] = d
	}
	s.Pose()
	return s, nil
}

// Pose skins every leaf with its current bones. Call it after Book.Update.
func (s *Scene) Pose() {
	leaves := s.book.Leaves()
	for _, l := range leaves {
		s.deformers[l.Number].Deform(l.Chain, math.Identity())
	}
	for i, n := range Order(s.book.Snapshot()) {
		s.targets[i] = picking.Target{
			Leaf:      n,
			Transform: s.book.LeafTransform(n),
			Positions: s.deformers[n].Positions,
		}
	}
}

// Order lists leaf numbers top of each stack first: the unturned leaves
// from the displayed page onward, then the turned ones from the displayed
// page backward. Leaves lying in the same plane are drawn and picked in
// this order.
func Order(snap book.Snapshot) []int {
	order := make([]int, 0, snap.Leaves)
	settled := book.ClampPage(snap.Settled, snap.Leaves)
	for n := settled; n < snap.Leaves; n++ {
		order = append(order, n)
	}
	for n := settled - 1; n >= 0; n-- {
		order = append(order, n)
	}
	return order
}

// Leaf returns the posed vertices of leaf i in leaf space.
func (s *Scene) Leaf(i int) (positions, normals []math.Vec3) {
	d := s.deformers[i]
	return d.Positions, d.Normals
}

// Targets returns the picking targets from the last Pose, in Order.
func (s *Scene) Targets() []picking.Target {
	return s.targets
}

// Pick returns the leaves under a world-space ray, nearest first.
func (s *Scene) Pick(ray picking.Ray) []book.Intersection {
	return picking.IntersectLeaves(ray, s.book.Geometry(), s.targets)
}

// PickScreen casts a ray through point (x, y) of cam's viewport, in the
// same units as the viewport size.
func (s *Scene) PickScreen(cam *camera.BookCamera, x, y float64) []book.Intersection {
	w, h := cam.Viewport()
	if w <= 0 || h <= 0 {
		return nil
	}
	ray := picking.ScreenToRay(x, y, float64(w), float64(h), cam.ViewProjection().Inverse())
	return s.Pick(ray)
}
