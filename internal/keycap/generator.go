package keycap

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"keycap-studio/internal/csg"
	"keycap-studio/internal/geometry"
	"keycap-studio/internal/logger"
)

// Dish deformation constants: the concave top starts at this height fraction,
// and sag falls off toward the center with this exponent.
const dishStartFraction = 0.8
const dishExponent = 2.2

// Cherry MX cross-slot dimensions (with printing tolerance) and slot depth.
const stemCrossLength = 4.1
const stemCrossWidth = 1.27
const stemSlotDepth = 3.8

// curveSegments bounds for the rounded-rect outline.
const minCurveSegments = 8
const maxCurveSegments = 32

// Generator builds keycap meshes. Op performs the hollow/stem/emboss boolean
// steps; FontPath points at the TTF/OTF used for embossed legends (empty =
// search the fonts directory). Log receives recovered failures; nil is fine.
type Generator struct {
	Op       csg.Operator
	Log      *logger.Logger
	FontPath string

	fontMu     sync.Mutex
	font       *FontSource
	fontFailed bool
}

// NewGenerator returns a generator using the given boolean operator.
func NewGenerator(op csg.Operator, log *logger.Logger) *Generator {
	return &Generator{Op: op, Log: log}
}

// Generate builds the keycap mesh for params at the given quality tier.
// Preview returns the bare deformed shell with cheap normals; Export runs the
// full hollow/stem/emboss boolean composition. Out-of-range parameters are
// clamped, and every boolean or font failure degrades to the pre-step mesh
// (logged, never surfaced), so Generate always returns usable geometry.
func (g *Generator) Generate(params Params, quality Quality, detail Detail) geometry.Mesh {
	p := params.Clamped()
	profile := ProfileSpec(p.Profile)
	size := SizeSpec(p.Size)
	height := p.EffectiveHeight()
	dishDepth := p.EffectiveDishDepth()

	shell := g.buildShell(p, profile, size, height, dishDepth, quality, detail)
	shell.Color = p.Color
	if quality == Preview {
		geometry.FlatNormals(&shell)
		return shell
	}
	geometry.SmoothNormals(&shell, profile.CreaseAngle)

	composed, changed := g.subtractInterior(shell, p, size, height)
	if p.Emboss.Enabled && p.Emboss.Text != "" {
		if out, ok := g.embossText(composed, p, height, dishDepth); ok {
			composed = out
			changed = true
		}
	}
	if changed {
		// Boolean steps invalidate prior normals.
		geometry.SmoothNormals(&composed, profile.CreaseAngle)
	}
	composed.Color = p.Color
	return composed
}

// buildShell extrudes the rounded-rect base outline and applies the
// trapezoid+dish deformation.
func (g *Generator) buildShell(p Params, profile Profile, size Size, height, dishDepth float32, quality Quality, detail Detail) geometry.Mesh {
	segs := curveSegments(size, quality)
	outline := geometry.RoundedRect(size.Width/2, size.Depth/2, p.TopRadius, segs/4)
	shell := geometry.ExtrudeOutline(outline, height, detail.Steps())
	deformShell(&shell, height, dishDepth, size, profile)
	return shell
}

// curveSegments scales the outline resolution with the cap footprint and the
// quality tier, clamped to [minCurveSegments, maxCurveSegments].
func curveSegments(size Size, quality Quality) int {
	maxDim := math32.Max(size.Width, size.Depth)
	base := minCurveSegments * maxDim / 18.0
	if quality == Export {
		base *= 2
	}
	segs := int(base)
	if segs < minCurveSegments {
		segs = minCurveSegments
	}
	if segs > maxCurveSegments {
		segs = maxCurveSegments
	}
	return segs
}

// easeInOutCubic is the vertical interpolation curve between the bottom and
// top cross-sections.
func easeInOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

// deformShell narrows each ring toward the profile's top dimensions and sinks
// the upper region into the concave dish.
func deformShell(m *geometry.Mesh, height, dishDepth float32, size Size, profile Profile) {
	shrinkX := 1 - profile.TopWidth/size.Width
	shrinkZ := 1 - profile.TopDepth/size.Depth
	maxTopDim := math32.Max(profile.TopWidth, profile.TopDepth)
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		t := clamp(p.Y()/height, 0, 1)
		e := easeInOutCubic(t)
		x := p.X() * (1 - e*shrinkX)
		z := p.Z() * (1 - e*shrinkZ)
		y := p.Y()
		if t > dishStartFraction {
			radial := math32.Sqrt(x*x + z*z)
			sag := math32.Pow(radial/maxTopDim, dishExponent) * dishDepth *
				((t - dishStartFraction) / (1 - dishStartFraction))
			y -= sag
		}
		m.SetPosition(i, mgl32.Vec3{x, y, z})
	}
}

// subtractInterior removes the inner void (wall hollowing) and the stem
// cross-slot in one sequential boolean pass. Any failure keeps the pre-boolean
// shell. The second return reports whether the mesh was changed.
func (g *Generator) subtractInterior(shell geometry.Mesh, p Params, size Size, height float32) (geometry.Mesh, bool) {
	var cutters []geometry.Mesh
	if p.WallThickness > 0 {
		if p.WallThickness < size.Width/2 {
			cutters = append(cutters, innerVoid(shell, p.WallThickness, size, height))
		} else {
			g.Log.Logf("keycap: wall thickness %.2f too large for width %.2f, hollowing skipped", p.WallThickness, size.Width)
		}
	}
	if p.HasStem {
		barH := geometry.GenBox(stemCrossLength, stemSlotDepth, stemCrossWidth)
		barH.TransformTRS([3]float32{0, stemSlotDepth / 2, 0}, [3]float32{})
		barV := geometry.GenBox(stemCrossWidth, stemSlotDepth, stemCrossLength)
		barV.TransformTRS([3]float32{0, stemSlotDepth / 2, 0}, [3]float32{})
		cutters = append(cutters, barH, barV)
	}
	if len(cutters) == 0 {
		return shell, false
	}
	out := shell
	for _, cutter := range cutters {
		next, err := g.Op.Subtract(out, cutter)
		if err != nil {
			g.Log.Logf("keycap: interior subtraction failed, keeping solid shell: %v", err)
			return shell, false
		}
		out = next
	}
	return out, true
}

// innerVoid is a scaled clone of the shell, shrunk by the wall thickness and
// shifted up by half of it so the top keeps full thickness.
func innerVoid(shell geometry.Mesh, wall float32, size Size, height float32) geometry.Mesh {
	void := shell.Clone()
	sx := (size.Width - 2*wall) / size.Width
	sz := (size.Depth - 2*wall) / size.Depth
	sy := (height - wall) / height
	void.Transform(mgl32.Translate3D(0, wall/2, 0).Mul4(mgl32.Scale3D(sx, sy, sz)))
	return void
}

// embossText unions extruded legend geometry onto the top surface. Returns
// (mesh, true) on success; any font or boolean failure logs and reports false
// so the caller keeps its input.
func (g *Generator) embossText(base geometry.Mesh, p Params, height, dishDepth float32) (geometry.Mesh, bool) {
	font, err := g.fontSource()
	if err != nil {
		g.Log.Logf("keycap: emboss font unavailable, legend skipped: %v", err)
		return geometry.Mesh{}, false
	}
	// Sink the text base below the dished top so the union has volume to fuse.
	sink := dishDepth + p.Emboss.Depth/2
	text, err := ExtrudeText(font, p.Emboss.Text, p.Emboss.FontSize, p.Emboss.Depth+sink)
	if err != nil {
		g.Log.Logf("keycap: emboss layout failed for %q, legend skipped: %v", p.Emboss.Text, err)
		return geometry.Mesh{}, false
	}
	text.TransformTRS([3]float32{0, height - sink, 0}, [3]float32{})
	out, err := g.Op.Union(base, text)
	if err != nil {
		g.Log.Logf("keycap: emboss union failed for %q, legend skipped: %v", p.Emboss.Text, err)
		return geometry.Mesh{}, false
	}
	return out, true
}

// fontSource lazily loads the emboss font once; a failed load is remembered so
// a missing font logs only the first time per generator. Guarded by fontMu:
// the exporter's synchronous fallback path shares one generator across
// concurrent callers.
func (g *Generator) fontSource() (*FontSource, error) {
	g.fontMu.Lock()
	defer g.fontMu.Unlock()
	if g.font != nil {
		return g.font, nil
	}
	if g.fontFailed {
		return nil, errFontUnavailable
	}
	font, err := LoadFontSource(g.FontPath)
	if err != nil {
		g.fontFailed = true
		return nil, err
	}
	g.font = font
	return font, nil
}
