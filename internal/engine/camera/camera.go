// Package camera provides the perspective camera the book is viewed through.
package camera

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/folio/pkg/math"
)

// Distances used for wide and narrow viewports.
const (
	WideDistance   = 4.0
	NarrowDistance = 9.0
	// WideThreshold is the viewport width above which WideDistance applies.
	WideThreshold = 800
)

// BookCamera looks at the book from a fixed offset. Only its distance
// changes, eased whenever the viewport crosses WideThreshold.
type BookCamera struct {
	OffsetX, OffsetY float64 // eye position besides distance
	Distance         float64 // eye z
	Center           math.Vec3

	FOV       float64 // vertical field of view, degrees
	Near, Far float64
	Aspect    float64

	// TweenSeconds is how long a distance change takes.
	TweenSeconds float32

	tween     *gween.Tween
	goal      float64
	viewportW int
	viewportH int
}

// NewBookCamera creates the camera for a viewport of the given size, already
// at its resting distance.
func NewBookCamera(width, height int) *BookCamera {
	c := &BookCamera{
		OffsetX:      -0.5,
		OffsetY:      1,
		FOV:          45,
		Near:         0.1,
		Far:          100,
		TweenSeconds: 0.6,
	}
	c.goal = DistanceFor(width)
	c.Distance = c.goal
	c.setViewport(width, height)
	return c
}

// DistanceFor returns the resting distance for a viewport width.
func DistanceFor(width int) float64 {
	if width > WideThreshold {
		return WideDistance
	}
	return NarrowDistance
}

// Position returns the eye position.
func (c *BookCamera) Position() math.Vec3 {
	return math.Vec3{X: c.OffsetX, Y: c.OffsetY, Z: c.Distance}
}

// Resize updates the aspect ratio and starts easing toward the distance for
// the new width.
func (c *BookCamera) Resize(width, height int) {
	c.setViewport(width, height)
	goal := DistanceFor(width)
	if goal == c.goal {
		return
	}
	c.goal = goal
	c.tween = gween.New(float32(c.Distance), float32(goal), c.TweenSeconds, ease.InOutQuad)
}

func (c *BookCamera) setViewport(width, height int) {
	c.viewportW, c.viewportH = width, height
	if height > 0 {
		c.Aspect = float64(width) / float64(height)
	}
}

// Viewport returns the last size passed to NewBookCamera or Resize.
func (c *BookCamera) Viewport() (width, height int) {
	return c.viewportW, c.viewportH
}

// Moving reports whether a distance tween is running.
func (c *BookCamera) Moving() bool {
	return c.tween != nil
}

// Update advances the distance tween by dt seconds.
func (c *BookCamera) Update(dt float64) {
	if c.tween == nil {
		return
	}
	val, done := c.tween.Update(float32(dt))
	c.Distance = float64(val)
	if done {
		c.Distance = c.goal
		c.tween = nil
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *BookCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection.
func (c *BookCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(math.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *BookCamera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
