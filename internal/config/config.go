// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/lighting"
	"github.com/Faultbox/folio/internal/engine/skeleton"
)

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Book      BookConfig      `yaml:"book"`
	Animation AnimationConfig `yaml:"animation"`
	Settle    SettleConfig    `yaml:"settle"`
	Assets    AssetsConfig    `yaml:"assets"`
	Audio     AudioConfig     `yaml:"audio"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	MSAA       int  `yaml:"msaa"`

	ScreenshotDir string       `yaml:"screenshot_dir"`
	Light         lighting.Sun `yaml:"light"`
}

// BookConfig describes the leaves and what is printed on them.
type BookConfig struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	Depth          float64 `yaml:"depth"`
	Segments       int     `yaml:"segments"`
	HeightSegments int     `yaml:"height_segments"`

	Cover     string   `yaml:"cover"`
	BackCover string   `yaml:"back_cover"`
	Pictures  []string `yaml:"pictures"`
	PageNames []string `yaml:"page_names"`
	StartPage int      `yaml:"start_page"`

	HitLeaf   int               `yaml:"hit_leaf"`
	HitRegion book.Region       `yaml:"hit_region"`
	Route     string            `yaml:"route"`
	Surfaces  book.SurfaceRules `yaml:"surfaces"`
}

// AnimationConfig holds the leaf animation constants.
type AnimationConfig struct {
	EasingFactor     float64       `yaml:"easing_factor"`
	EasingFactorFold float64       `yaml:"easing_factor_fold"`
	InsideStrength   float64       `yaml:"inside_curve_strength"`
	OutsideStrength  float64       `yaml:"outside_curve_strength"`
	TurningStrength  float64       `yaml:"turning_curve_strength"`
	TurnDuration     time.Duration `yaml:"turn_duration"`
	FanDegrees       float64       `yaml:"fan_degrees"`
	FoldDegrees      float64       `yaml:"fold_degrees"`
	HighlightLevel   float64       `yaml:"highlight_level"`
	HighlightEasing  float64       `yaml:"highlight_easing"`
}

// SettleConfig paces page stepping.
type SettleConfig struct {
	Fast        time.Duration `yaml:"fast"`
	Slow        time.Duration `yaml:"slow"`
	FarDistance int           `yaml:"far_distance"`
}

// AssetsConfig holds texture loading settings.
type AssetsConfig struct {
	Dir      string   `yaml:"dir"`
	MaxSize  int      `yaml:"max_size"`
	Workers  int      `yaml:"workers"`
	Circular []string `yaml:"circular"`
}

// AudioConfig holds sound cue settings.
type AudioConfig struct {
	Enabled   bool    `yaml:"enabled"`
	FlipSound string  `yaml:"flip_sound"` // WAV played when the requested page changes
	Volume    float64 `yaml:"volume"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultPictures are the photos printed inside the stock book.
var DefaultPictures = []string{
	"DSC00680", "DSC00933", "DSC00966", "DSC00983", "DSC01011",
	"DSC01040", "DSC01064", "DSC01071", "DSC01103", "DSC02069",
}

// DefaultPageNames label pages 0..L of the stock book.
var DefaultPageNames = []string{
	"Cover", "About Me", "Projects", "Incomplete.", "Inconsistency.", "Undecided.", "Back Cover",
}

// Default returns a Config with sensible default values.
func Default() *Config {
	leaf := book.DefaultLeafSpec()
	tuning := book.DefaultTuning()
	settle := book.DefaultSettleTiming()
	stock := book.DefaultSettings(nil)

	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			MSAA:       4,

			ScreenshotDir: "screenshots",
			Light:         lighting.DefaultSun(),
		},
		Book: BookConfig{
			Width:          leaf.Width,
			Height:         leaf.Height,
			Depth:          leaf.Depth,
			Segments:       leaf.Segments,
			HeightSegments: leaf.HeightSegments,
			Cover:          "book-cover",
			BackCover:      "book-back",
			Pictures:       append([]string(nil), DefaultPictures...),
			PageNames:      append([]string(nil), DefaultPageNames...),
			HitLeaf:        stock.HitLeaf,
			HitRegion:      stock.HitRegion,
			Route:          stock.Route,
			Surfaces:       stock.Surfaces,
		},
		Animation: AnimationConfig{
			EasingFactor:     tuning.EasingFactor,
			EasingFactorFold: tuning.EasingFactorFold,
			InsideStrength:   tuning.InsideStrength,
			OutsideStrength:  tuning.OutsideStrength,
			TurningStrength:  tuning.TurningStrength,
			TurnDuration:     tuning.TurnDuration,
			FanDegrees:       tuning.FanDegrees,
			FoldDegrees:      tuning.FoldDegrees,
			HighlightLevel:   tuning.HighlightLevel,
			HighlightEasing:  tuning.HighlightEasing,
		},
		Settle: SettleConfig{
			Fast:        settle.Fast,
			Slow:        settle.Slow,
			FarDistance: settle.FarDistance,
		},
		Assets: AssetsConfig{
			Dir:      "textures",
			MaxSize:  1024,
			Workers:  4,
			Circular: []string{"portrait"},
		},
		Audio: AudioConfig{
			Enabled:   true,
			FlipSound: "audios/page-flip.wav",
			Volume:    0.8,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

// Validate reports settings the book cannot be built from.
func (c *Config) Validate() error {
	var errs []error
	if c.Book.Segments < 1 || c.Book.HeightSegments < 1 {
		errs = append(errs, fmt.Errorf("%w: segments=%d height_segments=%d",
			skeleton.ErrInvalidSegments, c.Book.Segments, c.Book.HeightSegments))
	}
	if c.Book.Width <= 0 || c.Book.Height <= 0 || c.Book.Depth <= 0 {
		errs = append(errs, fmt.Errorf("%w: leaf size %gx%gx%g",
			skeleton.ErrInvalidSegments, c.Book.Width, c.Book.Height, c.Book.Depth))
	}
	if c.Book.Cover == "" && c.Book.BackCover == "" && len(c.Book.Pictures) == 0 {
		errs = append(errs, book.ErrNoLeaves)
	}
	if err := c.Book.HitRegion.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Settle.Fast <= 0 || c.Settle.Slow <= 0 {
		errs = append(errs, fmt.Errorf("settle delays must be positive: fast=%v slow=%v", c.Settle.Fast, c.Settle.Slow))
	}
	if l := c.Graphics.Light; l.Ambient < 0 || l.Ambient > 1 || l.Diffuse < 0 || l.Diffuse > 1 {
		errs = append(errs, fmt.Errorf("light levels outside [0, 1]: ambient=%g diffuse=%g", l.Ambient, l.Diffuse))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume %g outside [0, 1]", c.Audio.Volume))
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	return errors.Join(errs...)
}

// Pages lays the configured pictures out on leaves.
func (c *Config) Pages() []book.Page {
	pics := make([]book.SurfaceID, len(c.Book.Pictures))
	for i, p := range c.Book.Pictures {
		pics[i] = book.SurfaceID(p)
	}
	return book.BuildPages(book.SurfaceID(c.Book.Cover), book.SurfaceID(c.Book.BackCover), pics)
}

// BookSettings converts the config into book.Settings.
func (c *Config) BookSettings() book.Settings {
	pages := c.Pages()
	return book.Settings{
		Leaf: skeleton.LeafSpec{
			Width:          c.Book.Width,
			Height:         c.Book.Height,
			Depth:          c.Book.Depth,
			Segments:       c.Book.Segments,
			HeightSegments: c.Book.HeightSegments,
		},
		Pages:     pages,
		StartPage: book.ClampPage(c.Book.StartPage, len(pages)),
		Tuning: book.Tuning{
			EasingFactor:     c.Animation.EasingFactor,
			EasingFactorFold: c.Animation.EasingFactorFold,
			InsideStrength:   c.Animation.InsideStrength,
			OutsideStrength:  c.Animation.OutsideStrength,
			TurningStrength:  c.Animation.TurningStrength,
			TurnDuration:     c.Animation.TurnDuration,
			FanDegrees:       c.Animation.FanDegrees,
			FoldDegrees:      c.Animation.FoldDegrees,
			HighlightLevel:   c.Animation.HighlightLevel,
			HighlightEasing:  c.Animation.HighlightEasing,
		},
		Settle: book.SettleTiming{
			Fast:        c.Settle.Fast,
			Slow:        c.Settle.Slow,
			FarDistance: c.Settle.FarDistance,
		},
		HitLeaf:   c.Book.HitLeaf,
		HitRegion: c.Book.HitRegion,
		Route:     c.Book.Route,
		Surfaces:  c.Book.Surfaces,
	}
}

// CircularSurfaces returns the assets cropped to a circle.
func (c *Config) CircularSurfaces() []book.SurfaceID {
	ids := make([]book.SurfaceID, len(c.Assets.Circular))
	for i, s := range c.Assets.Circular {
		ids[i] = book.SurfaceID(s)
	}
	return ids
}
