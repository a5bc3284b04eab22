package assets

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/folio/internal/book"
)

func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "cover.png", 4, 4)
	m := NewManager(Options{Dir: dir})

	p, err := m.Path("cover")
	if err != nil || filepath.Base(p) != "cover.png" {
		t.Errorf("Path(cover) = %q, %v", p, err)
	}
	if _, err := m.Path("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Path(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Path(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Path(\"\") error = %v, want ErrNotFound", err)
	}
}

func TestLoadDownscalesAndCaches(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "wide.png", 400, 100)
	m := NewManager(Options{Dir: dir, MaxSize: 200})

	img, err := m.Load("wide")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 200x50", b.Dx(), b.Dy())
	}

	if _, err := m.Load("wide"); err != nil {
		t.Fatal(err)
	}
	if hits, _ := m.cache.Stats(); hits != 1 {
		t.Errorf("cache hits = %d, want 1", hits)
	}
}

func TestTextureLifecycle(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "p0.png", 8, 8)
	m := NewManager(Options{Dir: dir, Workers: 2})

	if _, ok := m.Texture("p0"); ok {
		t.Fatal("texture should not be ready before Poll")
	}
	m.Wait()

	uploads := 0
	n := m.Poll(func(id book.SurfaceID, img *image.RGBA) (book.Texture, error) {
		uploads++
		return "gl:" + string(id), nil
	})
	if n != 1 || uploads != 1 {
		t.Fatalf("Poll uploaded %d (calls %d), want 1", n, uploads)
	}

	tex, ok := m.Texture("p0")
	if !ok || tex != "gl:p0" {
		t.Errorf("Texture(p0) = %v, %v", tex, ok)
	}
	if n := m.Poll(nil); n != 0 {
		t.Errorf("second Poll uploaded %d", n)
	}
}

func TestRepeatedRequestsLoadOnce(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "p0.png", 8, 8)
	m := NewManager(Options{Dir: dir})

	for i := 0; i < 5; i++ {
		m.Texture("p0")
		m.Wait()
	}
	if n := m.Poll(nil); n != 1 {
		t.Errorf("Poll = %d, want 1", n)
	}
	if _, misses := m.cache.Stats(); misses != 1 {
		t.Errorf("cache misses = %d, want a single decode", misses)
	}
}

func TestMissingSurfaceStaysPlaceholder(t *testing.T) {
	m := NewManager(Options{Dir: t.TempDir()})
	m.Texture("ghost")
	m.Wait()
	if m.Poll(nil) != 0 {
		t.Error("missing surface should not upload")
	}
	if _, ok := m.Texture("ghost"); ok {
		t.Error("missing surface reported ready")
	}
	m.Wait()
	if err := m.Err("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Err(ghost) = %v, want ErrNotFound", err)
	}
}

func TestPreload(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writePNG(t, dir, name, 16, 16)
	}
	m := NewManager(Options{Dir: dir, Workers: 2})

	err := m.Preload(context.Background(), []book.SurfaceID{"a", "b", "c", "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Preload error = %v, want ErrNotFound for the missing file", err)
	}
	if n := m.Poll(nil); n != 3 {
		t.Errorf("Poll after Preload = %d, want 3", n)
	}
	if got := len(m.Textures()); got != 3 {
		t.Errorf("textures = %d, want 3", got)
	}
}

func TestPreloadCancelled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a.png", 4, 4)
	m := NewManager(Options{Dir: dir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Preload(ctx, []book.SurfaceID{"a"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Preload error = %v, want context.Canceled", err)
	}
	if m.Err("a") != nil {
		t.Error("a cancelled preload should not mark the surface failed")
	}
}

func TestCircularSurface(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "portrait.png", 30, 20)
	m := NewManager(Options{Dir: dir, Circular: []book.SurfaceID{"portrait"}})

	img, err := m.Load("portrait")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("size = %dx%d, want 20x20", b.Dx(), b.Dy())
	}
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if a := img.RGBAAt(10, 10).A; a != 255 {
		t.Errorf("center alpha = %d, want 255", a)
	}
}

func TestFitKeepsSmallImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 25))
	dst := Fit(src, 64)
	if b := dst.Bounds(); b.Min != (image.Point{}) || b.Dx() != 10 || b.Dy() != 20 {
		t.Errorf("bounds = %v", b)
	}
}
