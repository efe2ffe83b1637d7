// Package keycap generates 3D-printable keycap meshes from a small set of
// shape parameters: profile extrusion, trapezoidal deformation with a concave
// dish, crease-aware normals, and optional stem/hollow/emboss boolean steps.
package keycap

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"keycap-studio/internal/cache"
)

// Quality selects the pipeline tier: Preview builds the bare shell with cheap
// normals, Export runs the full boolean composition at higher tessellation.
type Quality int

const (
	Preview Quality = iota
	Export
)

// Detail is the user-selectable performance level. It controls the vertical
// extrusion step count; changing it invalidates cached geometry.
type Detail string

const (
	DetailFast     Detail = "fast"
	DetailBalanced Detail = "balanced"
	DetailQuality  Detail = "quality"
)

// Steps returns the vertical extrusion step count for the detail level.
func (d Detail) Steps() int {
	switch d {
	case DetailFast:
		return 8
	case DetailQuality:
		return 25
	default:
		return 15
	}
}

// Valid clamp ranges. Out-of-range values are clamped at generation time,
// never rejected.
const (
	MinTopRadius     = 0.1
	MaxTopRadius     = 3.0
	MinWallThickness = 0.8
	MaxWallThickness = 3.5
	MinEmbossSize    = 2.0
	MaxEmbossSize    = 10.0
	MinEmbossDepth   = 0.1
	MaxEmbossDepth   = 2.0
)

// defaultDishDepth is used when a keycap carries no dish override.
const defaultDishDepth = 1.2

// EmbossParams describes raised legend text unioned onto the keycap top.
type EmbossParams struct {
	Enabled  bool     `json:"enabled"`
	Text     string   `json:"text,omitempty"`
	FontSize float32  `json:"fontSize,omitempty"`
	Depth    float32  `json:"depth,omitempty"`
	Color    [4]uint8 `json:"color,omitempty"`
}

// Params is the full parameter set of one keycap. Height and DishDepth are
// optional overrides; nil means the profile default. Color is cosmetic and not
// part of the geometry cache key.
type Params struct {
	Profile       string       `json:"profile"`
	Size          string       `json:"size"`
	Color         [4]uint8     `json:"color"`
	HasStem       bool         `json:"hasStem"`
	TopRadius     float32      `json:"topRadius"`
	WallThickness float32      `json:"wallThickness"`
	Height        *float32     `json:"height,omitempty"`
	DishDepth     *float32     `json:"dishDepth,omitempty"`
	Emboss        EmbossParams `json:"emboss"`
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy with every range-limited field clamped to its valid
// bounds. WallThickness zero is kept as zero (solid cap, no hollowing).
func (p Params) Clamped() Params {
	p.TopRadius = clamp(p.TopRadius, MinTopRadius, MaxTopRadius)
	if p.WallThickness > 0 {
		p.WallThickness = clamp(p.WallThickness, MinWallThickness, MaxWallThickness)
	} else {
		p.WallThickness = 0
	}
	if p.Emboss.Enabled {
		p.Emboss.FontSize = clamp(p.Emboss.FontSize, MinEmbossSize, MaxEmbossSize)
		p.Emboss.Depth = clamp(p.Emboss.Depth, MinEmbossDepth, MaxEmbossDepth)
	}
	return p
}

// EffectiveHeight resolves the height override or the profile base height.
func (p Params) EffectiveHeight() float32 {
	if p.Height != nil && *p.Height > 0 {
		return *p.Height
	}
	return ProfileSpec(p.Profile).Height
}

// EffectiveDishDepth resolves the dish override or the default.
func (p Params) EffectiveDishDepth() float32 {
	if p.DishDepth != nil && *p.DishDepth >= 0 {
		return *p.DishDepth
	}
	return defaultDishDepth
}

// ShapeKey returns the geometry cache key: every shape-affecting parameter,
// with overrides resolved, and nothing cosmetic (no colors, no emboss text —
// emboss changes geometry, so embossed caps bypass the cache entirely; see
// Generator.Generate).
func (p Params) ShapeKey() cache.Key {
	return cache.Key{
		Profile:       strings.ToLower(p.Profile),
		Size:          p.Size,
		TopRadius:     clamp(p.TopRadius, MinTopRadius, MaxTopRadius),
		WallThickness: p.Clamped().WallThickness,
		DishDepth:     p.EffectiveDishDepth(),
		Height:        p.EffectiveHeight(),
		HasStem:       p.HasStem,
	}
}

// Profile holds the fixed constants of one keycap family.
type Profile struct {
	Height      float32 `yaml:"height"`
	TopWidth    float32 `yaml:"top_width"`
	TopDepth    float32 `yaml:"top_depth"`
	DishDepth   float32 `yaml:"dish_depth"`
	CreaseAngle float32 `yaml:"crease_angle"`
}

// Size holds the base footprint of one size token.
type Size struct {
	Width float32 `yaml:"width"`
	Depth float32 `yaml:"depth"`
}

//go:embed profiles.yaml
var profilesYAML []byte

var tables struct {
	Profiles map[string]Profile `yaml:"profiles"`
	Sizes    map[string]Size    `yaml:"sizes"`
}

func init() {
	if err := yaml.Unmarshal(profilesYAML, &tables); err != nil {
		panic("keycap: bad embedded profiles.yaml: " + err.Error())
	}
}

// ProfileSpec looks up the profile constants for a name (case-insensitive).
// Unknown profiles fall back to cherry.
func ProfileSpec(name string) Profile {
	if p, ok := tables.Profiles[strings.ToLower(name)]; ok {
		return p
	}
	return tables.Profiles["cherry"]
}

// SizeSpec looks up the base footprint for a size token. Unknown tokens fall
// back to 1u.
func SizeSpec(token string) Size {
	if s, ok := tables.Sizes[token]; ok {
		return s
	}
	return tables.Sizes["1u"]
}

// SizeTokens returns all known size tokens (unordered).
func SizeTokens() []string {
	out := make([]string, 0, len(tables.Sizes))
	for k := range tables.Sizes {
		out = append(out, k)
	}
	return out
}
