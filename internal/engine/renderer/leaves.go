package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/lighting"
	"github.com/Faultbox/folio/internal/engine/skeleton"
	"github.com/Faultbox/folio/pkg/math"
)

// Edge colors of the leaf box.
var (
	EdgeColor  = book.White
	SpineColor = book.Color{R: 0x11 / 255.0, G: 0x11 / 255.0, B: 0x11 / 255.0}
)

// Light is a directional light plus ambient term.
type Light struct {
	Direction math.Vec3
	Ambient   book.Color
	Diffuse   book.Color
}

// LightFromSun converts a sun into shader terms with grey light.
func LightFromSun(s lighting.Sun) Light {
	return Light{
		Direction: s.Direction(),
		Ambient:   book.Color{R: s.Ambient, G: s.Ambient, B: s.Ambient},
		Diffuse:   book.Color{R: s.Diffuse, G: s.Diffuse, B: s.Diffuse},
	}
}

// DefaultLight is LightFromSun(lighting.DefaultSun()).
func DefaultLight() Light {
	return LightFromSun(lighting.DefaultSun())
}

// LeafDraw is one posed leaf for a frame.
type LeafDraw struct {
	Model     math.Mat4   // leaf space to world space
	Positions []math.Vec3 // posed vertices in leaf space
	Normals   []math.Vec3
	Materials [2]book.Material
}

// faceMaterial is what one face group is drawn with.
type faceMaterial struct {
	color     book.Color
	texture   uint32
	emissive  book.Color
	intensity float64
	roughness float64
}

// materialFor picks the material of a box face. Page faces use the leaf's
// materials; the spine edge is dark and the other edges white.
func materialFor(f skeleton.Face, mats [2]book.Material) faceMaterial {
	var m book.Material
	switch f {
	case skeleton.FaceFront:
		m = mats[book.SideFront]
	case skeleton.FaceBack:
		m = mats[book.SideBack]
	case skeleton.FaceLeft:
		return faceMaterial{color: SpineColor, roughness: 1}
	default:
		return faceMaterial{color: EdgeColor, roughness: 1}
	}
	fm := faceMaterial{
		color:     m.Color,
		emissive:  m.Emissive,
		intensity: m.EmissiveIntensity,
		roughness: m.Roughness,
	}
	if id, ok := m.Texture.(uint32); ok {
		fm.texture = id
	}
	return fm
}

// packVertices interleaves positions and normals as float32 for upload.
func packVertices(dst []float32, pos, normals []math.Vec3) []float32 {
	dst = dst[:0]
	for i := range pos {
		p, n := pos[i], normals[i]
		dst = append(dst,
			float32(p.X), float32(p.Y), float32(p.Z),
			float32(n.X), float32(n.Y), float32(n.Z))
	}
	return dst
}

type leafBuffers struct {
	vao uint32
	vbo uint32
}

// LeafRenderer draws skinned leaves. Vertex positions come posed from the
// CPU each frame; UVs and indices are shared.
type LeafRenderer struct {
	geom     *skeleton.Geometry
	program  uint32
	uniforms uniforms
	uvVBO    uint32
	ebo      uint32
	leaves   []leafBuffers
	scratch  []float32
}

// NewLeafRenderer creates GPU buffers for count leaves of geom.
func NewLeafRenderer(geom *skeleton.Geometry, count int) (*LeafRenderer, error) {
	program, err := compileProgram(leafVertexShader, leafFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("leaf shader: %w", err)
	}
	u := newUniforms(program,
		"uModel", "uViewProj", "uColor", "uHasTexture", "uTexture",
		"uEmissive", "uEmissiveIntensity", "uRoughness",
		"uLightDir", "uAmbient", "uDiffuse", "uEye")
	lr := &LeafRenderer{
		geom:     geom,
		program:  program,
		uniforms: u,
		leaves:   make([]leafBuffers, count),
	}

	uvs := make([]float32, 0, len(geom.UVs)*2)
	for _, uv := range geom.UVs {
		uvs = append(uvs, float32(uv.X), float32(uv.Y))
	}
	gl.GenBuffers(1, &lr.uvVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, lr.uvVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(uvs)*4, unsafe.Pointer(&uvs[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &lr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, lr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(geom.Indices)*4, unsafe.Pointer(&geom.Indices[0]), gl.STATIC_DRAW)

	const stride = 6 * 4
	vertexBytes := geom.VertexCount() * stride
	for i := range lr.leaves {
		b := &lr.leaves[i]
		gl.GenVertexArrays(1, &b.vao)
		gl.BindVertexArray(b.vao)

		gl.GenBuffers(1, &b.vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, vertexBytes, nil, gl.DYNAMIC_DRAW)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
		gl.EnableVertexAttribArray(1)

		gl.BindBuffer(gl.ARRAY_BUFFER, lr.uvVBO)
		gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, 2*4, 0)
		gl.EnableVertexAttribArray(2)

		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, lr.ebo)
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return lr, nil
}

// Close releases GPU resources.
func (lr *LeafRenderer) Close() {
	for _, b := range lr.leaves {
		gl.DeleteVertexArrays(1, &b.vao)
		gl.DeleteBuffers(1, &b.vbo)
	}
	gl.DeleteBuffers(1, &lr.uvVBO)
	gl.DeleteBuffers(1, &lr.ebo)
	gl.DeleteProgram(lr.program)
}

// Draw renders leaves with the given camera and light. Extra leaves beyond
// the count given to NewLeafRenderer are ignored.
func (lr *LeafRenderer) Draw(viewProj math.Mat4, eye math.Vec3, light Light, leaves []LeafDraw) {
	u := lr.uniforms
	gl.UseProgram(lr.program)

	vp := viewProj.Float32()
	gl.UniformMatrix4fv(u.loc("uViewProj"), 1, false, &vp[0])
	d := light.Direction.Array32()
	gl.Uniform3f(u.loc("uLightDir"), d[0], d[1], d[2])
	gl.Uniform3f(u.loc("uAmbient"), float32(light.Ambient.R), float32(light.Ambient.G), float32(light.Ambient.B))
	gl.Uniform3f(u.loc("uDiffuse"), float32(light.Diffuse.R), float32(light.Diffuse.G), float32(light.Diffuse.B))
	e := eye.Array32()
	gl.Uniform3f(u.loc("uEye"), e[0], e[1], e[2])
	gl.Uniform1i(u.loc("uTexture"), 0)
	gl.ActiveTexture(gl.TEXTURE0)

	for i, leaf := range leaves {
		if i >= len(lr.leaves) || len(leaf.Positions) != lr.geom.VertexCount() {
			continue
		}
		b := lr.leaves[i]

		lr.scratch = packVertices(lr.scratch, leaf.Positions, leaf.Normals)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(lr.scratch)*4, unsafe.Pointer(&lr.scratch[0]))

		model := leaf.Model.Float32()
		gl.UniformMatrix4fv(u.loc("uModel"), 1, false, &model[0])
		gl.BindVertexArray(b.vao)

		for _, grp := range lr.geom.Groups {
			lr.setMaterial(materialFor(grp.Face, leaf.Materials))
			gl.DrawElementsWithOffset(gl.TRIANGLES, int32(grp.Count), gl.UNSIGNED_INT, uintptr(grp.Start*4))
		}
	}
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (lr *LeafRenderer) setMaterial(m faceMaterial) {
	u := lr.uniforms
	gl.Uniform3f(u.loc("uColor"), float32(m.color.R), float32(m.color.G), float32(m.color.B))
	gl.Uniform3f(u.loc("uEmissive"), float32(m.emissive.R), float32(m.emissive.G), float32(m.emissive.B))
	gl.Uniform1f(u.loc("uEmissiveIntensity"), float32(m.intensity))
	gl.Uniform1f(u.loc("uRoughness"), float32(m.roughness))
	if m.texture != 0 {
		gl.Uniform1i(u.loc("uHasTexture"), 1)
		gl.BindTexture(gl.TEXTURE_2D, m.texture)
	} else {
		gl.Uniform1i(u.loc("uHasTexture"), 0)
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
}
