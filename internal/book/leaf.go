package book

import (
	"fmt"
	"time"

	"github.com/Faultbox/folio/internal/engine/skeleton"
	"github.com/Faultbox/folio/pkg/math"
)

// Frame is the input every leaf receives for one rendered frame.
type Frame struct {
	Now      time.Duration
	DT       time.Duration
	Snapshot Snapshot
}

// Leaf is one page of the book: a bent, skinned box turned by its bones.
type Leaf struct {
	Number int
	Page   Page
	Chain  *skeleton.Chain

	// Materials for the front and back faces, refreshed every frame.
	Materials [2]Material

	tuning     Tuning
	turn       []math.Damper
	fold       []math.Damper
	turnedAt   time.Duration
	lastOpened bool

	highlighted bool
	emissive    float64
	offsetZ     float64
	depth       float64
}

// NewLeaf builds leaf number at rest at the given time. The turn clock starts
// one full pulse in the past so the leaf does not curl on the first frame.
func NewLeaf(number int, page Page, spec skeleton.LeafSpec, tuning Tuning, snap Snapshot, now time.Duration) (*Leaf, error) {
	chain, err := skeleton.NewChain(spec.Width, spec.Segments)
	if err != nil {
		return nil, fmt.Errorf("leaf %d: %w", number, err)
	}

	l := &Leaf{
		Number:     number,
		Page:       page,
		Chain:      chain,
		tuning:     tuning,
		turn:       make([]math.Damper, chain.Len()),
		fold:       make([]math.Damper, chain.Len()),
		turnedAt:   now - tuning.TurnDuration,
		lastOpened: snap.Opened(number),
		depth:      spec.Depth,
	}

	// Start in the settled pose.
	target := TargetRotation(l.lastOpened, snap.BookClosed(), number, tuning.FanDegrees)
	for i := range l.turn {
		turn, fold := BoneTargets(i, spec.Segments, target, 0, snap.BookClosed(), tuning)
		l.turn[i].Value = turn
		l.fold[i].Value = fold
	}
	l.apply()
	l.offsetZ = l.stackOffset(snap.Settled)
	return l, nil
}

// Highlighted reports whether the pointer hovers this leaf.
func (l *Leaf) Highlighted() bool {
	return l.highlighted
}

// Emissive returns the current highlight intensity of both faces.
func (l *Leaf) Emissive() float64 {
	return l.emissive
}

// OffsetZ returns the leaf's position in the stack.
func (l *Leaf) OffsetZ() float64 {
	return l.offsetZ
}

// TurnedAt returns when the leaf last flipped sides.
func (l *Leaf) TurnedAt() time.Duration {
	return l.turnedAt
}

// Animate advances the leaf by one frame.
func (l *Leaf) Animate(f Frame) {
	snap := f.Snapshot
	opened := snap.Opened(l.Number)
	closed := snap.BookClosed()
	if opened != l.lastOpened {
		l.turnedAt = f.Now
		l.lastOpened = opened
	}

	shaped := TurnShape(TurnProgress(f.Now, l.turnedAt, l.tuning.TurnDuration))
	target := TargetRotation(opened, closed, l.Number, l.tuning.FanDegrees)
	dt := f.DT.Seconds()
	n := l.Chain.Segments()

	for i := range l.turn {
		turn, fold := BoneTargets(i, n, target, shaped, closed, l.tuning)
		l.turn[i].DampAngle(turn, l.tuning.EasingFactor, dt)
		l.fold[i].DampAngle(fold, l.tuning.EasingFactorFold, dt)
	}
	l.apply()

	level := 0.0
	if l.highlighted {
		level = l.tuning.HighlightLevel
	}
	l.emissive = math.Lerp(l.emissive, level, l.tuning.HighlightEasing)
	if l.emissive < highlightSnap && level == 0 {
		l.emissive = 0
	}
	l.offsetZ = l.stackOffset(snap.Settled)
}

// apply copies damped angles onto the bone chain.
func (l *Leaf) apply() {
	for i := range l.Chain.Bones {
		l.Chain.Bones[i].Turn = l.turn[i].Value
		l.Chain.Bones[i].Fold = l.fold[i].Value
	}
}

// stackOffset keeps turned and unturned leaves flush with each other.
func (l *Leaf) stackOffset(settled int) float64 {
	return float64(settled-l.Number) * l.depth
}
