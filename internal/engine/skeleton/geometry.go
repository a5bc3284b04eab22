// Package skeleton builds the skinned leaf mesh: box geometry, the linear bone
// chain that bends it, per-vertex skin weights and CPU skinning.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/Faultbox/folio/pkg/math"
)

// ErrInvalidSegments is returned when a leaf or chain is built with fewer
// than one segment or a non-positive size.
var ErrInvalidSegments = errors.New("skeleton: invalid segment configuration")

// Face identifies one side of the leaf box. Values match material slots.
type Face int

// Box faces in material slot order.
const (
	FaceRight  Face = iota // +x, the free edge
	FaceLeft               // -x, the spine edge
	FaceTop                // +y
	FaceBottom             // -y
	FaceFront              // +z
	FaceBack               // -z
	faceCount
)

var faceNames = [...]string{"right", "left", "top", "bottom", "front", "back"}

func (f Face) String() string {
	if f < 0 || f >= faceCount {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}

// LeafSpec describes a leaf box before subdivision.
type LeafSpec struct {
	Width          float64
	Height         float64
	Depth          float64
	Segments       int // subdivisions along x, one per bone
	HeightSegments int
}

// SegmentWidth returns Width / Segments.
func (s LeafSpec) SegmentWidth() float64 {
	return s.Width / float64(s.Segments)
}

// Validate checks the spec can produce a chain.
func (s LeafSpec) Validate() error {
	if s.Segments < 1 {
		return fmt.Errorf("%w: segments=%d", ErrInvalidSegments, s.Segments)
	}
	if s.HeightSegments < 1 {
		return fmt.Errorf("%w: height segments=%d", ErrInvalidSegments, s.HeightSegments)
	}
	if s.Width <= 0 || s.Height <= 0 || s.Depth <= 0 {
		return fmt.Errorf("%w: size %.3fx%.3fx%.3f", ErrInvalidSegments, s.Width, s.Height, s.Depth)
	}
	return nil
}

// Group is a contiguous index range drawn with one material.
type Group struct {
	Face  Face
	Start int
	Count int
}

// Geometry is an indexed triangle mesh in leaf-local space.
// The hinge sits on x=0 and the leaf extends toward +x.
type Geometry struct {
	Spec      LeafSpec
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2
	Indices   []uint32
	Groups    []Group
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// GroupFor returns the index range for a face.
func (g *Geometry) GroupFor(f Face) (Group, bool) {
	for _, grp := range g.Groups {
		if grp.Face == f {
			return grp, true
		}
	}
	return Group{}, false
}

// BuildLeafGeometry subdivides a box of the given size and moves it so the
// spine edge lies on x=0. UVs put v=1 on the top edge of every face.
func BuildLeafGeometry(spec LeafSpec) (*Geometry, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	g := &Geometry{Spec: spec}
	w, h, d := spec.Width, spec.Height, spec.Depth
	nx, ny := spec.Segments, spec.HeightSegments

	// axis indices: 0=x 1=y 2=z
	g.plane(2, 1, 0, -1, -1, d, h, w, 1, ny, FaceRight)
	g.plane(2, 1, 0, 1, -1, d, h, -w, 1, ny, FaceLeft)
	g.plane(0, 2, 1, 1, 1, w, d, h, nx, 1, FaceTop)
	g.plane(0, 2, 1, 1, -1, w, d, -h, nx, 1, FaceBottom)
	g.plane(0, 1, 2, 1, -1, w, h, d, nx, ny, FaceFront)
	g.plane(0, 1, 2, -1, -1, w, h, -d, nx, ny, FaceBack)

	for i := range g.Positions {
		g.Positions[i].X += w / 2
	}
	return g, nil
}

// plane appends one subdivided face. u, v, w select which axis receives the
// grid's horizontal, vertical and depth coordinates.
func (g *Geometry) plane(u, v, w int, udir, vdir, width, height, depth float64, gridX, gridY int, face Face) {
	base := uint32(len(g.Positions))
	start := len(g.Indices)
	segW := width / float64(gridX)
	segH := height / float64(gridY)
	normalDir := 1.0
	if depth < 0 {
		normalDir = -1
	}

	for iy := 0; iy <= gridY; iy++ {
		y := float64(iy)*segH - height/2
		for ix := 0; ix <= gridX; ix++ {
			x := float64(ix)*segW - width/2
			var p, n [3]float64
			p[u] = x * udir
			p[v] = y * vdir
			p[w] = depth / 2
			n[w] = normalDir
			g.Positions = append(g.Positions, math.Vec3{X: p[0], Y: p[1], Z: p[2]})
			g.Normals = append(g.Normals, math.Vec3{X: n[0], Y: n[1], Z: n[2]})
			g.UVs = append(g.UVs, math.Vec2{
				X: float64(ix) / float64(gridX),
				Y: 1 - float64(iy)/float64(gridY),
			})
		}
	}

	row := uint32(gridX + 1)
	for iy := uint32(0); iy < uint32(gridY); iy++ {
		for ix := uint32(0); ix < uint32(gridX); ix++ {
			a := base + ix + row*iy
			b := base + ix + row*(iy+1)
			c := base + ix + 1 + row*(iy+1)
			d := base + ix + 1 + row*iy
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	g.Groups = append(g.Groups, Group{Face: face, Start: start, Count: len(g.Indices) - start})
}
