package book

import (
	"errors"
	stdmath "math"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/folio/internal/engine/skeleton"
	"github.com/Faultbox/folio/pkg/math"
)

const frame = 16 * time.Millisecond

func testPages() []Page {
	return BuildPages("cover", "back", []SurfaceID{"p0", "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"})
}

func newTestBook(t *testing.T, opts ...Option) *Book {
	t.Helper()
	b, err := New(DefaultSettings(testPages()), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

// drive runs frames from start until end and returns the final clock.
func drive(b *Book, start, end time.Duration) time.Duration {
	now := start
	for now < end {
		now += frame
		b.Update(now, frame)
	}
	return now
}

func TestNewErrors(t *testing.T) {
	if _, err := New(DefaultSettings(nil)); !errors.Is(err, ErrNoLeaves) {
		t.Errorf("no pages: got %v, want ErrNoLeaves", err)
	}

	s := DefaultSettings(testPages())
	s.Leaf.Segments = 0
	if _, err := New(s); !errors.Is(err, skeleton.ErrInvalidSegments) {
		t.Errorf("zero segments: got %v, want ErrInvalidSegments", err)
	}

	s = DefaultSettings(testPages())
	s.HitRegion = Region{UMin: 0.5, UMax: 0.1, VMin: 0, VMax: 1}
	if _, err := New(s); err == nil {
		t.Error("inverted region should fail")
	}
}

func TestNewAtRest(t *testing.T) {
	b := newTestBook(t)
	if got := len(b.Leaves()); got != 6 {
		t.Fatalf("leaves = %d, want 6", got)
	}
	snap := b.Snapshot()
	if snap.Target != 0 || snap.Settled != 0 || snap.Leaves != 6 || snap.Overlay {
		t.Errorf("initial snapshot = %+v", snap)
	}
	for _, l := range b.Leaves() {
		if l.Chain.Bones[0].Turn != stdmath.Pi/2 {
			t.Errorf("leaf %d hinge = %v, want π/2", l.Number, l.Chain.Bones[0].Turn)
		}
	}
}

func TestCommandsApplyOnUpdate(t *testing.T) {
	b := newTestBook(t)
	b.SetTarget(3)
	b.SetOverlay(true)
	if snap := b.Snapshot(); snap.Target != 0 || snap.Overlay {
		t.Fatalf("commands applied before Update: %+v", snap)
	}
	b.Update(frame, frame)
	snap := b.Snapshot()
	if snap.Target != 3 || !snap.Overlay {
		t.Errorf("after Update = %+v", snap)
	}
	if snap.Settled != 1 {
		t.Errorf("first step should be immediate, settled = %d", snap.Settled)
	}
}

func TestNavigateClick(t *testing.T) {
	var routes []string
	b := newTestBook(t, WithNavigator(NavigatorFunc(func(r string) {
		routes = append(routes, r)
	})))

	b.SetHover(0, true)
	b.Update(frame, frame)
	if !b.Leaves()[0].Highlighted() {
		t.Fatal("hover should highlight leaf 0")
	}

	b.Click(hitAt(0, 0.10, 0.60))
	b.Update(2*frame, frame)

	if len(routes) != 1 || routes[0] != "/about" {
		t.Errorf("routes = %v, want [/about]", routes)
	}
	snap := b.Snapshot()
	if !snap.Overlay {
		t.Error("navigate should show the overlay")
	}
	if snap.Target != 0 {
		t.Errorf("navigate changed target to %d", snap.Target)
	}
	if b.Leaves()[0].Highlighted() {
		t.Error("navigate should clear the highlight")
	}
}

func TestTurnClick(t *testing.T) {
	b := newTestBook(t)
	b.SetOverlay(true)
	b.SetHover(2, true)
	b.Update(frame, frame)

	b.Click(hitAt(2, 0.5, 0.5))
	b.Update(2*frame, frame)

	snap := b.Snapshot()
	if snap.Target != 3 {
		t.Errorf("target = %d, want 3", snap.Target)
	}
	if snap.Overlay {
		t.Error("turn should hide the overlay")
	}
	if b.Highlighted() {
		t.Error("turn should clear the highlight")
	}
}

func TestClickWithoutHits(t *testing.T) {
	b := newTestBook(t)
	b.Click(nil)
	b.Update(frame, frame)
	if snap := b.Snapshot(); snap.Target != 0 || snap.Overlay {
		t.Errorf("empty click changed state: %+v", snap)
	}
}

func TestClickCopiesHits(t *testing.T) {
	b := newTestBook(t)
	hits := hitAt(2, 0.5, 0.5)
	b.Click(hits)
	hits[0].Leaf = 4
	b.Update(frame, frame)
	if got := b.Snapshot().Target; got != 3 {
		t.Errorf("target = %d, want 3", got)
	}
}

func TestSubscribe(t *testing.T) {
	b := newTestBook(t)
	var got []Snapshot
	cancel := b.Subscribe(func(s Snapshot) { got = append(got, s) })

	b.Update(frame, frame)
	if len(got) != 0 {
		t.Fatalf("unchanged update notified %d times", len(got))
	}

	b.SetTarget(1)
	b.Update(2*frame, frame)
	if len(got) != 1 || got[0].Settled != 1 {
		t.Fatalf("notifications = %+v", got)
	}

	cancel()
	b.SetTarget(0)
	b.Update(3*frame, frame)
	if len(got) != 1 {
		t.Errorf("cancelled subscriber still notified: %+v", got)
	}
}

func TestSubscribeConcurrent(t *testing.T) {
	b := newTestBook(t)
	var wg sync.WaitGroup
	cancels := make([]func(), 8)
	for i := range cancels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cancels[i] = b.Subscribe(func(Snapshot) {})
		}(i)
	}
	now := drive(b, 0, 10*frame)
	wg.Wait()

	var mu sync.Mutex
	calls := 0
	b.Subscribe(func(Snapshot) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	for _, cancel := range cancels {
		wg.Add(1)
		go func(cancel func()) {
			defer wg.Done()
			cancel()
		}(cancel)
	}
	b.SetTarget(1)
	drive(b, now, now+frame)
	wg.Wait()

	if len(b.subs) != 1 {
		t.Errorf("subscriptions = %d, want 1 after cancels", len(b.subs))
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestMatchChain(t *testing.T) {
	spec := DefaultLeafSpec()
	geom, err := skeleton.BuildLeafGeometry(spec)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := skeleton.NewChain(spec.Width, spec.Segments)
	if err != nil {
		t.Fatal(err)
	}
	if err := matchChain(geom, ok); err != nil {
		t.Errorf("matching chain: %v", err)
	}

	short, err := skeleton.NewChain(spec.Width, spec.Segments-1)
	if err != nil {
		t.Fatal(err)
	}
	if err := matchChain(geom, short); !errors.Is(err, ErrSegmentMismatch) {
		t.Errorf("short chain: got %v, want ErrSegmentMismatch", err)
	}
}

func TestSettleToClosedBack(t *testing.T) {
	b := newTestBook(t)
	b.SetTarget(6)
	now := drive(b, 0, 10*time.Second)

	snap := b.Snapshot()
	if snap.Settled != 6 || snap.Stepping() || !snap.BookClosed() {
		t.Fatalf("after %v snapshot = %+v", now, snap)
	}
	for _, l := range b.Leaves() {
		for i, bone := range l.Chain.Bones {
			want := 0.0
			if i == 0 {
				want = -stdmath.Pi / 2
			}
			if stdmath.Abs(bone.Turn-want) > 1e-9 || stdmath.Abs(bone.Fold) > 1e-9 {
				t.Fatalf("leaf %d bone %d = (%v, %v), want (%v, 0)", l.Number, i, bone.Turn, bone.Fold, want)
			}
		}
		if want := float64(6-l.Number) * 0.003; stdmath.Abs(l.OffsetZ()-want) > 1e-12 {
			t.Errorf("leaf %d offset = %v, want %v", l.Number, l.OffsetZ(), want)
		}
	}
}

func TestLeafTransform(t *testing.T) {
	b := newTestBook(t)
	b.SetTarget(2)
	drive(b, 0, time.Second)

	// Leaf 0 sits two depths toward the viewer; the book is turned so leaf
	// space z maps onto world x.
	m := b.LeafTransform(0)
	p := m.TransformPoint(math.Vec3{})
	if stdmath.Abs(p.X-(-0.006)) > 1e-12 || stdmath.Abs(p.Z) > 1e-12 {
		t.Errorf("leaf 0 origin = %+v", p)
	}
}
