package skeleton

import (
	"fmt"

	"github.com/Faultbox/folio/pkg/math"
)

// Deformer skins a geometry with a chain on the CPU. It keeps scratch
// buffers so per-frame deformation does not allocate.
type Deformer struct {
	geom    *Geometry
	skin    Skin
	bindInv []math.Mat4
	world   []math.Mat4
	skinMat []math.Mat4

	Positions []math.Vec3
	Normals   []math.Vec3
}

// NewDeformer prepares skinning of geom by a chain with the given segment
// count. It fails if the skin and chain disagree on segment count.
func NewDeformer(geom *Geometry, chain *Chain) (*Deformer, error) {
	if chain.Segments() != geom.Spec.Segments {
		return nil, fmt.Errorf("%w: chain has %d segments, geometry has %d",
			ErrInvalidSegments, chain.Segments(), geom.Spec.Segments)
	}
	return &Deformer{
		geom:      geom,
		skin:      ComputeSkin(geom, chain.Segments()),
		bindInv:   chain.BindInverse(),
		Positions: make([]math.Vec3, len(geom.Positions)),
		Normals:   make([]math.Vec3, len(geom.Normals)),
	}, nil
}

// Skin returns the influence table used by the deformer.
func (d *Deformer) Skin() Skin {
	return d.skin
}

// Geometry returns the rest geometry.
func (d *Deformer) Geometry() *Geometry {
	return d.geom
}

// Deform poses the rest geometry by chain and writes the result, in the
// space of root, to d.Positions and d.Normals.
func (d *Deformer) Deform(chain *Chain, root math.Mat4) {
	d.world = chain.WorldMatrices(root, d.world)
	if cap(d.skinMat) < len(d.world) {
		d.skinMat = make([]math.Mat4, len(d.world))
	}
	d.skinMat = d.skinMat[:len(d.world)]
	for i := range d.world {
		d.skinMat[i] = d.world[i].Mul(d.bindInv[i])
	}

	for i, inf := range d.skin.Influences {
		m := d.skinMat[inf.Index[0]].ScaleBy(inf.Weight[0])
		if inf.Weight[1] != 0 {
			m = m.Add(d.skinMat[inf.Index[1]].ScaleBy(inf.Weight[1]))
		}
		d.Positions[i] = m.TransformPoint(d.geom.Positions[i])
		d.Normals[i] = m.TransformDirection(d.geom.Normals[i]).Normalize()
	}
}
