package renderer

import (
	"testing"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/lighting"
	"github.com/Faultbox/folio/internal/engine/skeleton"
	"github.com/Faultbox/folio/pkg/math"
)

func TestMaterialFor(t *testing.T) {
	mats := [2]book.Material{
		{Color: book.White, Texture: uint32(7), EmissiveIntensity: 0.2, Roughness: 0.1},
		{Color: book.Placeholder},
	}

	front := materialFor(skeleton.FaceFront, mats)
	if front.texture != 7 || front.intensity != 0.2 || front.roughness != 0.1 {
		t.Errorf("front = %+v", front)
	}
	back := materialFor(skeleton.FaceBack, mats)
	if back.texture != 0 || back.color != book.Placeholder {
		t.Errorf("back = %+v", back)
	}
	if spine := materialFor(skeleton.FaceLeft, mats); spine.color != SpineColor {
		t.Errorf("spine = %+v", spine)
	}
	for _, f := range []skeleton.Face{skeleton.FaceRight, skeleton.FaceTop, skeleton.FaceBottom} {
		if m := materialFor(f, mats); m.color != EdgeColor || m.intensity != 0 {
			t.Errorf("%v edge = %+v", f, m)
		}
	}
}

func TestPackVertices(t *testing.T) {
	pos := []math.Vec3{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	nrm := []math.Vec3{{Z: 1}, {Y: -1}}
	got := packVertices(make([]float32, 3), pos, nrm)
	want := []float32{1, 2, 3, 0, 0, 1, 4, 5, 6, 0, -1, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLightFromSun(t *testing.T) {
	l := LightFromSun(lighting.Sun{Longitude: 0, Latitude: 90, Ambient: 0.3, Diffuse: 0.7})
	if l.Direction.Distance(math.Vec3{Y: -1}) > 1e-9 {
		t.Errorf("direction = %+v, want straight down", l.Direction)
	}
	if l.Ambient != (book.Color{R: 0.3, G: 0.3, B: 0.3}) || l.Diffuse.G != 0.7 {
		t.Errorf("unexpected levels %+v", l)
	}
}
