package book

import (
	"fmt"
	stdmath "math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/folio/internal/engine/skeleton"
	"github.com/Faultbox/folio/pkg/math"
)

// Navigator receives routes from navigate clicks.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

// Navigate calls f(route).
func (f NavigatorFunc) Navigate(route string) { f(route) }

// Option customizes a Book.
type Option func(*Book)

// WithNavigator sets the routing collaborator.
func WithNavigator(n Navigator) Option {
	return func(b *Book) { b.navigator = n }
}

// WithAssets sets the asset collaborator used to texture leaves.
func WithAssets(a AssetSource) Option {
	return func(b *Book) { b.assets = a }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(b *Book) { b.log = l }
}

// WithStartTime sets the frame clock value at construction.
func WithStartTime(now time.Duration) Option {
	return func(b *Book) { b.now = now }
}

// Book owns the shared page state and every leaf. Input is queued through
// SetTarget, SetHover, Click and SetOverlay and applied at the start of the
// next Update, so all leaves animate from one consistent snapshot. The
// queueing methods may be called from any goroutine; Update and the read
// accessors belong to the frame loop.
type Book struct {
	settings  Settings
	geometry  *skeleton.Geometry
	leaves    []*Leaf
	settler   *Settler
	tester    Tester
	surfaces  *SurfaceAdapter
	assets    AssetSource
	navigator Navigator
	log       *zap.Logger

	now     time.Duration
	overlay bool
	snap    Snapshot

	mu     sync.Mutex // guards queue and subs
	queue  []command
	subs   map[int]func(Snapshot)
	nextID int
}

// New builds every leaf at rest on StartPage.
func New(s Settings, opts ...Option) (*Book, error) {
	if len(s.Pages) == 0 {
		return nil, ErrNoLeaves
	}
	if err := s.HitRegion.Validate(); err != nil {
		return nil, err
	}
	geom, err := skeleton.BuildLeafGeometry(s.Leaf)
	if err != nil {
		return nil, fmt.Errorf("leaf geometry: %w", err)
	}

	b := &Book{
		settings: s,
		geometry: geom,
		tester:   Tester{Leaf: s.HitLeaf, Region: s.HitRegion, Route: s.Route},
		log:      zap.NewNop(),
		subs:     make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.surfaces, err = NewSurfaceAdapter(b.assets, s.Surfaces); err != nil {
		return nil, err
	}

	leaves := len(s.Pages)
	b.settler = NewSettler(leaves, s.StartPage, s.Settle, b.log.Named("settle"))
	b.snap = b.snapshot()

	b.leaves = make([]*Leaf, leaves)
	for i, p := range s.Pages {
		leaf, err := NewLeaf(i, p, s.Leaf, s.Tuning, b.snap, b.now)
		if err != nil {
			return nil, err
		}
		if err := matchChain(geom, leaf.Chain); err != nil {
			return nil, fmt.Errorf("leaf %d: %w", i, err)
		}
		b.surfaces.Bind(leaf)
		b.leaves[i] = leaf
	}

	b.log.Info("book ready",
		zap.Int("leaves", leaves),
		zap.Int("segments", s.Leaf.Segments),
		zap.Int("page", b.snap.Settled))
	return b, nil
}

// Geometry returns the rest mesh shared by all leaves.
func (b *Book) Geometry() *skeleton.Geometry {
	return b.geometry
}

// Leaves returns the leaves in index order.
func (b *Book) Leaves() []*Leaf {
	return b.leaves
}

// Snapshot returns the state as of the last Update.
func (b *Book) Snapshot() Snapshot {
	return b.snap
}

// Settler exposes the settle controller, mainly for tracing.
func (b *Book) Settler() *Settler {
	return b.settler
}

// Subscribe calls fn with the new snapshot whenever an Update changes it.
// fn runs on the frame loop, inside Update. Subscribe and the returned
// cancel function may be called from any goroutine.
func (b *Book) Subscribe(fn func(Snapshot)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// SetTarget requests a page. It is the only way the target changes.
func (b *Book) SetTarget(page int) {
	b.enqueue(setTargetCmd{page: page})
}

// SetHover marks leaf as hovered or not.
func (b *Book) SetHover(leaf int, hovered bool) {
	b.enqueue(hoverCmd{leaf: leaf, hovered: hovered})
}

// Click submits a pointer click with its intersections, nearest first.
func (b *Book) Click(hits []Intersection) {
	cp := make([]Intersection, len(hits))
	copy(cp, hits)
	b.enqueue(clickCmd{hits: cp})
}

// Evaluate reports what a click with hits would do against the current
// snapshot, without queueing it.
func (b *Book) Evaluate(hits []Intersection) Action {
	return b.tester.Evaluate(b.snap, hits)
}

// SetOverlay shows or hides the secondary content, e.g. on route entry.
func (b *Book) SetOverlay(visible bool) {
	b.enqueue(overlayCmd{visible: visible})
}

// Update advances the simulation to now. dt is the time since the previous
// frame. Queued commands apply first, then due settle steps, then every leaf
// animates from the same snapshot.
func (b *Book) Update(now, dt time.Duration) {
	b.now = now

	b.mu.Lock()
	cmds := b.queue
	b.queue = nil
	b.mu.Unlock()
	for _, c := range cmds {
		c.apply(b)
	}

	b.settler.Tick(now)

	prev := b.snap
	b.snap = b.snapshot()
	frame := Frame{Now: now, DT: dt, Snapshot: b.snap}
	for _, l := range b.leaves {
		l.Animate(frame)
		b.surfaces.Bind(l)
	}

	if b.snap != prev {
		b.mu.Lock()
		subs := make([]func(Snapshot), 0, len(b.subs))
		for _, fn := range b.subs {
			subs = append(subs, fn)
		}
		b.mu.Unlock()
		for _, fn := range subs {
			fn(b.snap)
		}
	}
}

// LeafTransform places leaf number in book space: the book is turned a
// quarter turn about Y and each leaf sits at its stack offset.
func (b *Book) LeafTransform(number int) math.Mat4 {
	return math.RotateY(-stdmath.Pi / 2).Mul(math.Translate(0, 0, b.leaves[number].OffsetZ()))
}

// Highlighted reports whether any leaf is hovered.
func (b *Book) Highlighted() bool {
	for _, l := range b.leaves {
		if l.highlighted {
			return true
		}
	}
	return false
}

// matchChain fails when chain cannot pose geom: the animator writes one
// bone per segment boundary and the skin reads bone N at the far edge.
func matchChain(geom *skeleton.Geometry, chain *skeleton.Chain) error {
	if chain.Len() != geom.Spec.Segments+1 {
		return fmt.Errorf("%w: %d bones for %d segments",
			ErrSegmentMismatch, chain.Len(), geom.Spec.Segments)
	}
	return nil
}

func (b *Book) snapshot() Snapshot {
	return Snapshot{
		Target:  b.settler.Target(),
		Settled: b.settler.Settled(),
		Leaves:  len(b.settings.Pages),
		Overlay: b.overlay,
	}
}

func (b *Book) enqueue(c command) {
	b.mu.Lock()
	b.queue = append(b.queue, c)
	b.mu.Unlock()
}

func (b *Book) leaf(n int) *Leaf {
	if n < 0 || n >= len(b.leaves) {
		return nil
	}
	return b.leaves[n]
}
