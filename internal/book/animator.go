package book

import (
	stdmath "math"
	"time"

	"github.com/Faultbox/folio/pkg/math"
)

// Curve shape constants. Bones below curveSplit curl inward, the rest
// counter-curl and, while turning, fold.
const (
	curveSplit    = 8
	insideFreq    = 0.2
	insidePhase   = 0.25
	outsideFreq   = 0.3
	outsidePhase  = 0.09
	foldPhase     = 0.5
	highlightSnap = 1e-4
)

// TurnProgress returns how far through the turn pulse a leaf is, in [0, 1].
func TurnProgress(now, turnedAt, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return math.Clamp(float64(now-turnedAt)/float64(duration), 0, 1)
}

// TurnShape maps turn progress to a pulse that is 0 at both ends and 1 at
// the midpoint.
func TurnShape(progress float64) float64 {
	if progress <= 0 || progress >= 1 {
		return 0
	}
	return stdmath.Sin(progress * stdmath.Pi)
}

// TargetRotation is the hinge angle a leaf settles at: -90° once turned,
// +90° otherwise, fanned by its index while the book is open.
func TargetRotation(opened, closed bool, number int, fanDegrees float64) float64 {
	r := stdmath.Pi / 2
	if opened {
		r = -stdmath.Pi / 2
	}
	if !closed {
		r += math.DegToRad(float64(number) * fanDegrees)
	}
	return r
}

// BoneTargets returns bone i's turn and fold angles for a chain of n
// segments. target is the leaf's TargetRotation and shaped its TurnShape.
func BoneTargets(i, n int, target, shaped float64, closed bool, t Tuning) (turn, fold float64) {
	if closed {
		if i == 0 {
			return target, 0
		}
		return 0, 0
	}

	var inside, outside, foldIntensity float64
	if i < curveSplit {
		inside = stdmath.Sin(float64(i)*insideFreq + insidePhase)
	} else {
		outside = stdmath.Cos(float64(i)*outsideFreq + outsidePhase)
	}
	along := float64(i) * stdmath.Pi / float64(n)
	turning := stdmath.Sin(along) * shaped

	turn = t.InsideStrength*inside*target -
		t.OutsideStrength*outside*target +
		t.TurningStrength*turning*target

	if i > curveSplit {
		foldIntensity = stdmath.Sin(along-foldPhase) * shaped
	}
	fold = math.DegToRad(math.Sign(target)*t.FoldDegrees) * foldIntensity
	return turn, fold
}
