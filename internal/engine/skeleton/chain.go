package skeleton

import (
	"fmt"

	"github.com/Faultbox/folio/pkg/math"
)

// Segment is one bone of a leaf. Turn rotates about the bone's local Y axis
// (the page turn), Fold about its local X axis (the fold across the page).
type Segment struct {
	Offset float64 // distance along the parent's x axis; 0 for the hinge
	Turn   float64
	Fold   float64
}

// Chain is a linear bone hierarchy: segment i's parent is segment i-1 and
// segment 0 is the hinge. It holds Segments+1 bones for Segments mesh strips.
type Chain struct {
	SegmentWidth float64
	Bones        []Segment
}

// NewChain builds n+1 bones spaced width/n apart along x.
func NewChain(width float64, n int) (*Chain, error) {
	if n < 1 || width <= 0 {
		return nil, fmt.Errorf("%w: chain width=%.3f segments=%d", ErrInvalidSegments, width, n)
	}
	c := &Chain{
		SegmentWidth: width / float64(n),
		Bones:        make([]Segment, n+1),
	}
	for i := 1; i <= n; i++ {
		c.Bones[i].Offset = c.SegmentWidth
	}
	return c, nil
}

// Len returns the number of bones (segments + 1).
func (c *Chain) Len() int {
	return len(c.Bones)
}

// Segments returns the number of mesh strips the chain spans.
func (c *Chain) Segments() int {
	return len(c.Bones) - 1
}

// Parent returns the parent bone index, or -1 for the hinge.
func Parent(i int) int {
	return i - 1
}

// Local returns bone i's transform relative to its parent: T · Rx · Ry.
func (c *Chain) Local(i int) math.Mat4 {
	b := c.Bones[i]
	return math.Translate(b.Offset, 0, 0).Mul(math.RotateX(b.Fold)).Mul(math.RotateY(b.Turn))
}

// WorldMatrices fills out with each bone's transform relative to root and
// returns it. out is reallocated when too short.
func (c *Chain) WorldMatrices(root math.Mat4, out []math.Mat4) []math.Mat4 {
	if cap(out) < len(c.Bones) {
		out = make([]math.Mat4, len(c.Bones))
	}
	out = out[:len(c.Bones)]
	for i := range c.Bones {
		parent := root
		if p := Parent(i); p >= 0 {
			parent = out[p]
		}
		out[i] = parent.Mul(c.Local(i))
	}
	return out
}

// BindInverse returns the inverse rest-pose transforms. In the rest pose
// every bone is unrotated, so bone i sits at x = i*SegmentWidth.
func (c *Chain) BindInverse() []math.Mat4 {
	inv := make([]math.Mat4, len(c.Bones))
	for i := range inv {
		inv[i] = math.Translate(-float64(i)*c.SegmentWidth, 0, 0)
	}
	return inv
}

// Reset returns every bone to the rest pose.
func (c *Chain) Reset() {
	for i := range c.Bones {
		c.Bones[i].Turn = 0
		c.Bones[i].Fold = 0
	}
}
