package book

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Texture is an opaque image handle owned by the asset collaborator.
type Texture any

// AssetSource resolves surfaces to textures. Texture reports false while an
// asset is still loading or missing.
type AssetSource interface {
	Texture(id SurfaceID) (Texture, bool)
}

// Color is a linear RGB triple in [0, 1].
type Color struct {
	R, G, B float64
}

// Named colors used by leaf materials.
var (
	White = Color{1, 1, 1}
	// Placeholder is drawn while a surface texture is unavailable.
	Placeholder = Color{0.82, 0.82, 0.8}
)

// ParseColor accepts "#rrggbb", "#rgb" or a CSS color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return Color{c.R, c.G, c.B}, nil
	}
	rgba, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return Color{}, fmt.Errorf("parse color %q: unknown name", s)
	}
	c, _ := colorful.MakeColor(rgba)
	return Color{c.R, c.G, c.B}, nil
}

// Side selects one of the two page faces of a leaf.
type Side int

const (
	SideFront Side = iota
	SideBack
)

func (s Side) String() string {
	if s == SideBack {
		return "back"
	}
	return "front"
}

// Material is what the renderer needs to draw one page face.
type Material struct {
	Surface           SurfaceID
	Texture           Texture // nil draws Color alone
	Color             Color
	Ready             bool // false while showing a placeholder
	Emissive          Color
	EmissiveIntensity float64
	Roughness         float64
}

// SurfaceRule replaces what one side of one leaf shows.
type SurfaceRule struct {
	Leaf    int       `yaml:"leaf"`
	Side    string    `yaml:"side"`              // "front" or "back"
	Surface SurfaceID `yaml:"surface,omitempty"` // alternate asset
	Color   string    `yaml:"color,omitempty"`   // tint, or the fill of a plain face
	Plain   bool      `yaml:"plain,omitempty"`   // solid color, no texture
}

// SurfaceRules lists per-leaf overrides.
type SurfaceRules []SurfaceRule

// DefaultSurfaceRules swaps the cover's back for the author photo, shows
// the portrait on leaf 1's front and leaves leaf 1's back a plain paper tone.
func DefaultSurfaceRules() SurfaceRules {
	return SurfaceRules{
		{Leaf: 0, Side: "back", Surface: "bailey"},
		{Leaf: 1, Side: "front", Surface: "portrait"},
		{Leaf: 1, Side: "back", Color: "#f6f6f4", Plain: true},
	}
}

type ruleKey struct {
	leaf int
	side Side
}

type resolvedRule struct {
	surface SurfaceID
	color   Color
	plain   bool
}

// SurfaceAdapter binds surfaces to leaf materials every frame.
type SurfaceAdapter struct {
	assets   AssetSource
	rules    map[ruleKey]resolvedRule
	emissive Color
}

// NewSurfaceAdapter validates rules. assets may be nil, in which case every
// face shows its placeholder.
func NewSurfaceAdapter(assets AssetSource, rules SurfaceRules) (*SurfaceAdapter, error) {
	emissive, err := ParseColor("blueviolet")
	if err != nil {
		return nil, err
	}
	a := &SurfaceAdapter{
		assets:   assets,
		rules:    make(map[ruleKey]resolvedRule, len(rules)),
		emissive: emissive,
	}
	for _, r := range rules {
		var side Side
		switch strings.ToLower(r.Side) {
		case "front":
			side = SideFront
		case "back":
			side = SideBack
		default:
			return nil, fmt.Errorf("surface rule for leaf %d: unknown side %q", r.Leaf, r.Side)
		}
		res := resolvedRule{surface: r.Surface, color: White, plain: r.Plain}
		if r.Color != "" {
			if res.color, err = ParseColor(r.Color); err != nil {
				return nil, fmt.Errorf("surface rule for leaf %d: %w", r.Leaf, err)
			}
		}
		a.rules[ruleKey{r.Leaf, side}] = res
	}
	return a, nil
}

// Bind refreshes both page-face materials of l. A face whose texture is not
// ready keeps its previous texture, or shows Placeholder if it never had one.
func (a *SurfaceAdapter) Bind(l *Leaf) {
	a.bindSide(l, SideFront, l.Page.Front)
	a.bindSide(l, SideBack, l.Page.Back)
}

func (a *SurfaceAdapter) bindSide(l *Leaf, side Side, id SurfaceID) {
	m := &l.Materials[side]
	m.Roughness = 0.1
	m.Emissive = a.emissive
	m.EmissiveIntensity = l.emissive

	rule, ok := a.rules[ruleKey{l.Number, side}]
	if !ok {
		rule = resolvedRule{color: White}
	}
	if rule.surface != "" {
		id = rule.surface
	}
	if rule.plain {
		m.Surface = ""
		m.Texture = nil
		m.Color = rule.color
		m.Ready = true
		return
	}

	if m.Surface != id {
		// A different surface invalidates whatever was bound before.
		m.Texture = nil
		m.Ready = false
	}
	m.Surface = id
	if a.assets != nil {
		if tex, ok := a.assets.Texture(id); ok {
			m.Texture = tex
			m.Color = rule.color
			m.Ready = true
			return
		}
	}
	if m.Texture == nil {
		m.Color = Placeholder
	}
	m.Ready = false
}
