// Package book simulates the page-turning book: a shared page state, the
// settle controller that walks the displayed page toward the requested one,
// per-leaf bone animation, surface binding and pointer hit handling.
package book

import (
	"errors"
	"time"

	"github.com/Faultbox/folio/internal/engine/skeleton"
)

var (
	// ErrNoLeaves is returned when a book is configured without pages.
	ErrNoLeaves = errors.New("book: no leaves configured")
	// ErrSegmentMismatch is returned when a leaf's bone chain does not have
	// exactly one bone per segment boundary of its geometry.
	ErrSegmentMismatch = errors.New("book: bone chain does not match leaf segments")
)

// Tuning holds the hand-tuned animation constants.
type Tuning struct {
	EasingFactor     float64       // smooth time of the turn angle, seconds
	EasingFactorFold float64       // smooth time of the fold angle, seconds
	InsideStrength   float64       // curl near the spine
	OutsideStrength  float64       // counter-curl toward the free edge
	TurningStrength  float64       // transient bulge while turning
	TurnDuration     time.Duration // length of the turn curl pulse
	FanDegrees       float64       // per-leaf fan-out while the book is open
	FoldDegrees      float64       // peak fold while turning
	HighlightLevel   float64       // emissive intensity when hovered
	HighlightEasing  float64       // per-frame smoothing of the highlight
}

// SettleTiming paces the settle controller.
type SettleTiming struct {
	Fast        time.Duration // delay while far from the target
	Slow        time.Duration // delay for the final approach
	FarDistance int           // distances above this use Fast
}

// Settings configures a Book.
type Settings struct {
	Leaf      skeleton.LeafSpec
	Pages     []Page
	StartPage int
	Tuning    Tuning
	Settle    SettleTiming
	HitLeaf   int    // leaf that carries the navigate region
	HitRegion Region // region on HitLeaf, in surface coordinates
	Route     string // passed to the Navigator on a navigate hit
	Surfaces  SurfaceRules
}

// DefaultTuning returns the stock animation constants.
func DefaultTuning() Tuning {
	return Tuning{
		EasingFactor:     0.5,
		EasingFactorFold: 0.3,
		InsideStrength:   0.18,
		OutsideStrength:  0.05,
		TurningStrength:  0.09,
		TurnDuration:     400 * time.Millisecond,
		FanDegrees:       0.8,
		FoldDegrees:      2,
		HighlightLevel:   0.22,
		HighlightEasing:  0.1,
	}
}

// DefaultSettleTiming returns the stock stepping pace.
func DefaultSettleTiming() SettleTiming {
	return SettleTiming{
		Fast:        50 * time.Millisecond,
		Slow:        150 * time.Millisecond,
		FarDistance: 2,
	}
}

// DefaultLeafSpec returns the stock leaf geometry.
func DefaultLeafSpec() skeleton.LeafSpec {
	return skeleton.LeafSpec{
		Width:          1.28,
		Height:         1.71,
		Depth:          0.003,
		Segments:       30,
		HeightSegments: 2,
	}
}

// DefaultSettings returns a complete configuration for pages.
func DefaultSettings(pages []Page) Settings {
	return Settings{
		Leaf:      DefaultLeafSpec(),
		Pages:     pages,
		Tuning:    DefaultTuning(),
		Settle:    DefaultSettleTiming(),
		HitLeaf:   0,
		HitRegion: Region{UMin: 0.01, UMax: 0.25, VMin: 0.55, VMax: 0.75},
		Route:     "/about",
		Surfaces:  DefaultSurfaceRules(),
	}
}
