package book

import "go.uber.org/zap"

// command is one queued input, applied at the start of a frame.
type command interface {
	apply(b *Book)
}

type setTargetCmd struct {
	page int
}

func (c setTargetCmd) apply(b *Book) {
	b.settler.SetTarget(c.page, b.now)
}

type hoverCmd struct {
	leaf    int
	hovered bool
}

func (c hoverCmd) apply(b *Book) {
	if l := b.leaf(c.leaf); l != nil {
		l.highlighted = c.hovered
	}
}

type overlayCmd struct {
	visible bool
}

func (c overlayCmd) apply(b *Book) {
	b.overlay = c.visible
}

type clickCmd struct {
	hits []Intersection
}

func (c clickCmd) apply(b *Book) {
	// Evaluate against the live settled page, not last frame's snapshot, so
	// a turn earlier in this queue is visible.
	act := b.tester.Evaluate(b.snapshot(), c.hits)
	l := b.leaf(act.Leaf)

	switch act.Kind {
	case ActionNavigate:
		b.log.Info("navigate", zap.Int("leaf", act.Leaf), zap.String("route", act.Route))
		b.overlay = true
		if b.navigator != nil {
			b.navigator.Navigate(act.Route)
		}
	case ActionTurn:
		b.log.Debug("turn", zap.Int("leaf", act.Leaf), zap.Int("target", act.Target))
		b.settler.SetTarget(act.Target, b.now)
		b.overlay = false
	default:
		return
	}
	if l != nil {
		l.highlighted = false
	}
}
