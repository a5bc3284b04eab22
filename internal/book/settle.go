package book

import (
	"time"

	"go.uber.org/zap"
)

// Step records one move of the settled page.
type Step struct {
	At      time.Duration // when the step fired
	Settled int           // settled page after the step
	Delay   time.Duration // wait before the next check
}

// Settler walks the settled page toward the target one leaf at a time:
// quickly while far away, slowly for the last few leaves. It is a plain
// state machine driven by Tick; there is at most one pending step, and
// retargeting simply overwrites it.
type Settler struct {
	timing  SettleTiming
	leaves  int
	target  int
	settled int
	pending bool
	next    time.Duration
	onStep  func(Step)
	log     *zap.Logger
}

// NewSettler starts at page with no stepping in progress.
func NewSettler(leaves, page int, timing SettleTiming, log *zap.Logger) *Settler {
	if log == nil {
		log = zap.NewNop()
	}
	page = ClampPage(page, leaves)
	return &Settler{
		timing:  timing,
		leaves:  leaves,
		target:  page,
		settled: page,
		log:     log,
	}
}

// OnStep registers fn to observe every step. Pass nil to remove it.
func (s *Settler) OnStep(fn func(Step)) {
	s.onStep = fn
}

// Target returns the requested page.
func (s *Settler) Target() int {
	return s.target
}

// Settled returns the displayed page.
func (s *Settler) Settled() int {
	return s.settled
}

// Pending reports whether a step is scheduled, and when.
func (s *Settler) Pending() (time.Duration, bool) {
	return s.next, s.pending
}

// SetTarget requests page at time now. Out-of-range pages are clamped to
// [0, leaves]. A new target discards any scheduled step and, if the settled
// page differs, takes the first step immediately. Returns the page actually
// targeted.
func (s *Settler) SetTarget(page int, now time.Duration) int {
	clamped := ClampPage(page, s.leaves)
	if clamped != page {
		s.log.Warn("target page out of range, clamped",
			zap.Int("requested", page),
			zap.Int("target", clamped),
			zap.Int("leaves", s.leaves))
	}
	if clamped == s.target && s.pending {
		return clamped
	}

	s.target = clamped
	s.pending = false
	if s.settled != s.target {
		s.log.Debug("settling",
			zap.Int("from", s.settled),
			zap.Int("to", s.target))
	}
	s.fire(now)
	return clamped
}

// Tick runs every step due at or before now and returns how many ran.
// Steps fire at their scheduled times, so a long frame catches up without
// changing the pace.
func (s *Settler) Tick(now time.Duration) int {
	n := 0
	for s.pending && now >= s.next {
		if s.fire(s.next) {
			n++
		}
	}
	return n
}

// Delay returns the wait after a step taken at the given distance.
func (s *Settler) Delay(distance int) time.Duration {
	if distance > s.timing.FarDistance {
		return s.timing.Fast
	}
	return s.timing.Slow
}

// fire takes one step at time at, or stops when settled. Reports whether
// the settled page moved.
func (s *Settler) fire(at time.Duration) bool {
	if s.settled == s.target {
		if s.pending {
			s.log.Debug("settled", zap.Int("page", s.settled))
		}
		s.pending = false
		return false
	}

	distance := s.target - s.settled
	if distance > 0 {
		s.settled++
	} else {
		s.settled--
		distance = -distance
	}
	delay := s.Delay(distance)
	s.next = at + delay
	s.pending = true

	if s.onStep != nil {
		s.onStep(Step{At: at, Settled: s.settled, Delay: delay})
	}
	return true
}
