package book

import (
	stdmath "math"
	"testing"
	"time"
)

type fakeAssets map[SurfaceID]string

func (f fakeAssets) Texture(id SurfaceID) (Texture, bool) {
	tex, ok := f[id]
	if !ok {
		return nil, false
	}
	return tex, true
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ffffff", want: Color{1, 1, 1}},
		{in: "#000", want: Color{0, 0, 0}},
		{in: "white", want: Color{1, 1, 1}},
		{in: "BlueViolet", want: Color{138.0 / 255, 43.0 / 255, 226.0 / 255}},
		{in: "#f6f6f4", want: Color{246.0 / 255, 246.0 / 255, 244.0 / 255}},
		{in: "not-a-color", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if stdmath.Abs(got.R-tt.want.R) > 1e-6 || stdmath.Abs(got.G-tt.want.G) > 1e-6 || stdmath.Abs(got.B-tt.want.B) > 1e-6 {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSurfaceAdapterOverrides(t *testing.T) {
	assets := fakeAssets{
		"cover": "tex-cover", "pic0": "tex-pic0", "bailey": "tex-bailey",
		"portrait": "tex-portrait", "pic1": "tex-pic1", "pic2": "tex-pic2",
	}
	a, err := NewSurfaceAdapter(assets, DefaultSurfaceRules())
	if err != nil {
		t.Fatal(err)
	}

	snap := Snapshot{Leaves: 3}
	cover := newTestLeafWithPage(t, 0, Page{Front: "cover", Back: "pic0"}, snap)
	about := newTestLeafWithPage(t, 1, Page{Front: "pic1", Back: "pic2"}, snap)
	a.Bind(cover)
	a.Bind(about)

	if got := cover.Materials[SideFront].Texture; got != "tex-cover" {
		t.Errorf("cover front = %v, want tex-cover", got)
	}
	if got := cover.Materials[SideBack].Texture; got != "tex-bailey" {
		t.Errorf("cover back = %v, want tex-bailey", got)
	}
	if got := about.Materials[SideFront].Texture; got != "tex-portrait" {
		t.Errorf("leaf 1 front = %v, want tex-portrait", got)
	}
	back := about.Materials[SideBack]
	if back.Texture != nil || !back.Ready {
		t.Errorf("leaf 1 back should be a plain ready face, got %+v", back)
	}
	if stdmath.Abs(back.Color.B-244.0/255) > 1e-6 {
		t.Errorf("leaf 1 back color = %+v", back.Color)
	}
}

func TestSurfaceAdapterPlaceholder(t *testing.T) {
	assets := fakeAssets{}
	a, err := NewSurfaceAdapter(assets, nil)
	if err != nil {
		t.Fatal(err)
	}
	l := newTestLeafWithPage(t, 3, Page{Front: "late", Back: "missing"}, Snapshot{Leaves: 6})

	a.Bind(l)
	m := l.Materials[SideFront]
	if m.Ready || m.Texture != nil || m.Color != Placeholder {
		t.Errorf("unloaded face = %+v, want placeholder", m)
	}

	assets["late"] = "tex-late"
	a.Bind(l)
	m = l.Materials[SideFront]
	if !m.Ready || m.Texture != "tex-late" || m.Color != White {
		t.Errorf("loaded face = %+v, want textured white", m)
	}
	if l.Materials[SideBack].Ready {
		t.Error("missing surface should stay on its placeholder")
	}
}

func TestSurfaceAdapterHighlightBothFaces(t *testing.T) {
	a, _ := NewSurfaceAdapter(nil, nil)
	l := newTestLeafWithPage(t, 0, Page{}, Snapshot{Leaves: 1})
	l.emissive = 0.1
	a.Bind(l)
	if l.Materials[SideFront].EmissiveIntensity != 0.1 || l.Materials[SideBack].EmissiveIntensity != 0.1 {
		t.Errorf("emissive not applied to both faces: %+v", l.Materials)
	}
}

func TestSurfaceRuleBadSide(t *testing.T) {
	_, err := NewSurfaceAdapter(nil, SurfaceRules{{Leaf: 0, Side: "edge"}})
	if err == nil {
		t.Error("unknown side should fail")
	}
}

func newTestLeafWithPage(t *testing.T, number int, p Page, snap Snapshot) *Leaf {
	t.Helper()
	l, err := NewLeaf(number, p, DefaultLeafSpec(), DefaultTuning(), snap, time.Duration(0))
	if err != nil {
		t.Fatal(err)
	}
	return l
}
