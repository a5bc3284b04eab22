// Package audio plays short sound cues such as the page flip.
package audio

import (
	"errors"
	"fmt"
	"io"
	stdmath "math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/folio/pkg/math"
)

// DefaultSampleRate is the rate cues are resampled to and played at.
const DefaultSampleRate = beep.SampleRate(44100)

// CueFlip is played whenever the requested page changes.
const CueFlip = "flip"

var (
	ErrNotInitialized = errors.New("audio not initialized")
	ErrUnknownCue     = errors.New("unknown cue")
)

// Player holds decoded cues and mixes them onto the speaker. Cues are
// decoded once and can overlap.
type Player struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	volume      float64 // 0.0 to 1.0
	cues        map[string]*beep.Buffer
	log         *zap.Logger
}

// New creates a player at the given volume. Cues can be loaded before Init.
func New(volume float64, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		sampleRate: DefaultSampleRate,
		mixer:      &beep.Mixer{},
		volume:     math.Clamp(volume, 0, 1),
		cues:       make(map[string]*beep.Buffer),
		log:        log,
	}
}

// Init opens the speaker.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Info("audio initialized", zap.Int("sample_rate", int(p.sampleRate)))
	return nil
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Clear()
	p.initialized = false
}

// Initialized reports whether Init succeeded.
func (p *Player) Initialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// SetVolume sets the cue volume, clamped to [0, 1].
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = math.Clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume
}

// Load decodes WAV data from r as cue name, replacing any previous cue of
// that name.
func (p *Player) Load(name string, r io.Reader) error {
	streamer, format, err := wav.Decode(r)
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: p.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	p.mu.Lock()
	p.cues[name] = buf
	p.mu.Unlock()
	p.log.Debug("cue loaded", zap.String("cue", name), zap.Int("samples", buf.Len()))
	return nil
}

// LoadFile loads cue name from a WAV file.
func (p *Player) LoadFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := p.Load(name, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Has reports whether cue name is loaded.
func (p *Player) Has(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.cues[name]
	return ok
}

// Length returns how long cue name plays.
func (p *Player) Length(name string) (time.Duration, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	buf, ok := p.cues[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCue, name)
	}
	return p.sampleRate.D(buf.Len()), nil
}

// Play starts cue name. It returns immediately; overlapping plays mix.
func (p *Player) Play(name string) error {
	p.mu.RLock()
	initialized := p.initialized
	vol := p.volume
	buf, ok := p.cues[name]
	p.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCue, name)
	}
	if !initialized {
		return ErrNotInitialized
	}

	s := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	return nil
}

// volumeToDb maps a linear 0-1 volume onto the decibel scale: 1 is 0dB,
// 0.5 is about -6dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * stdmath.Log10(vol)
}
