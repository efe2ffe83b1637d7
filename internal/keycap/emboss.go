package keycap

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"

	"keycap-studio/internal/fonts"
	"keycap-studio/internal/geometry"
)

var errFontUnavailable = errors.New("keycap: no emboss font available")

// embossCurveSteps is the fixed flattening resolution for glyph outline curves.
// Legend text is small (<=10mm), so a modest step count is plenty.
const embossCurveSteps = 8

// FontSource wraps a parsed font face used to lay out embossed legend text.
type FontSource struct {
	face *font.Face
}

// LoadFontSource parses the TTF/OTF at path. An empty path searches the fonts
// directories for any usable font file.
func LoadFontSource(path string) (*FontSource, error) {
	if path == "" {
		found, err := fonts.FirstAvailable()
		if err != nil {
			return nil, errFontUnavailable
		}
		path = found
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	faces, err := font.ParseTTC(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, errFontUnavailable
	}
	return &FontSource{face: faces[0]}, nil
}

// contour2 is a closed 2D loop in (x, z) text-plane coordinates.
type contour2 []mgl32.Vec2

// textContours lays out text on a baseline and returns the flattened glyph
// contours, scaled so the font's em square maps to sizeMM and centered on the
// origin in both axes. Glyph Y-up maps to -Z so text reads correctly when the
// keycap top is viewed from above.
func (fs *FontSource) textContours(text string, sizeMM float32) ([]contour2, error) {
	face := fs.face
	scale := sizeMM / float32(face.Upem())
	var penX float32
	var out []contour2
	for _, r := range text {
		gid, ok := face.NominalGlyph(r)
		if !ok {
			return nil, fmt.Errorf("keycap: font has no glyph for %q", r)
		}
		if r != ' ' {
			outline, ok := face.GlyphData(gid).(font.GlyphOutline)
			if !ok {
				return nil, fmt.Errorf("keycap: glyph for %q has no outline data", r)
			}
			out = append(out, flattenOutline(outline, scale, penX)...)
		}
		penX += scale * face.HorizontalAdvance(gid)
	}
	if len(out) == 0 {
		return nil, errors.New("keycap: text produced no outlines")
	}
	centerContours(out)
	return out, nil
}

// flattenOutline converts one glyph's segments into closed polylines,
// subdividing quadratic and cubic curves at a fixed step count.
func flattenOutline(outline font.GlyphOutline, scale, offsetX float32) []contour2 {
	var contours []contour2
	var cur contour2
	pt := func(p opentype.SegmentPoint) mgl32.Vec2 {
		return mgl32.Vec2{p.X*scale + offsetX, -p.Y * scale}
	}
	closeCur := func() {
		if len(cur) >= 3 {
			contours = append(contours, cur)
		}
		cur = nil
	}
	for _, s := range outline.Segments {
		switch s.Op {
		case opentype.SegmentOpMoveTo:
			closeCur()
			cur = append(cur, pt(s.Args[0]))
		case opentype.SegmentOpLineTo:
			cur = append(cur, pt(s.Args[0]))
		case opentype.SegmentOpQuadTo:
			if len(cur) == 0 {
				break
			}
			p0, c, p1 := cur[len(cur)-1], pt(s.Args[0]), pt(s.Args[1])
			for i := 1; i <= embossCurveSteps; i++ {
				t := float32(i) / embossCurveSteps
				a := p0.Mul((1 - t) * (1 - t))
				b := c.Mul(2 * (1 - t) * t)
				d := p1.Mul(t * t)
				cur = append(cur, a.Add(b).Add(d))
			}
		case opentype.SegmentOpCubeTo:
			if len(cur) == 0 {
				break
			}
			p0, c1, c2, p1 := cur[len(cur)-1], pt(s.Args[0]), pt(s.Args[1]), pt(s.Args[2])
			for i := 1; i <= embossCurveSteps; i++ {
				t := float32(i) / embossCurveSteps
				u := 1 - t
				a := p0.Mul(u * u * u)
				b := c1.Mul(3 * u * u * t)
				c := c2.Mul(3 * u * t * t)
				d := p1.Mul(t * t * t)
				cur = append(cur, a.Add(b).Add(c).Add(d))
			}
		}
	}
	closeCur()
	return contours
}

func centerContours(contours []contour2) {
	first := contours[0][0]
	min, max := first, first
	for _, c := range contours {
		for _, p := range c {
			min = mgl32.Vec2{math32.Min(min.X(), p.X()), math32.Min(min.Y(), p.Y())}
			max = mgl32.Vec2{math32.Max(max.X(), p.X()), math32.Max(max.Y(), p.Y())}
		}
	}
	center := min.Add(max).Mul(0.5)
	for _, c := range contours {
		for i := range c {
			c[i] = c[i].Sub(center)
		}
	}
}

// ExtrudeText builds a solid prism of the given text: glyph contours on the XZ
// plane extruded from y=0 up to y=depth. The result is centered in X/Z with
// its base at y=0, ready to be translated onto a keycap top and unioned.
func ExtrudeText(fs *FontSource, text string, sizeMM, depth float32) (geometry.Mesh, error) {
	contours, err := fs.textContours(text, sizeMM)
	if err != nil {
		return geometry.Mesh{}, err
	}
	outers, holesByOuter := classifyContours(contours)
	if len(outers) == 0 {
		return geometry.Mesh{}, errors.New("keycap: text outlines have no filled region")
	}

	var m geometry.Mesh
	addTri := func(a, b, c mgl32.Vec2, y float32) {
		base := uint32(m.VertexCount())
		m.Positions = append(m.Positions,
			a.X(), y, a.Y(),
			b.X(), y, b.Y(),
			c.X(), y, c.Y())
		m.Normals = append(m.Normals, 0, 0, 0, 0, 0, 0, 0, 0, 0)
		m.Indices = append(m.Indices, base, base+1, base+2)
	}
	for i, outer := range outers {
		for _, tri := range triangulateWithHoles(outer, holesByOuter[i]) {
			// Triangles come out with positive signed area, whose 3D normal is
			// -Y. Bottom cap keeps that order; top cap is flipped to face +Y.
			addTri(tri[0], tri[1], tri[2], 0)
			addTri(tri[0], tri[2], tri[1], depth)
		}
		addContourWalls(&m, outer, depth)
		for _, hole := range holesByOuter[i] {
			addContourWalls(&m, hole, depth)
		}
	}
	m.MergeVertices()
	geometry.FlatNormals(&m)
	return m, nil
}

// addContourWalls emits the vertical quads of one contour. The contour must be
// in its solid-consistent orientation (outers positive area, holes negative);
// the (bottom, topSame, topNext, bottomNext) winding then faces outward.
func addContourWalls(m *geometry.Mesh, c contour2, depth float32) {
	for i := range c {
		j := (i + 1) % len(c)
		a, b := c[i], c[j]
		base := uint32(m.VertexCount())
		m.Positions = append(m.Positions,
			a.X(), 0, a.Y(),
			a.X(), depth, a.Y(),
			b.X(), depth, b.Y(),
			b.X(), 0, b.Y())
		m.Normals = append(m.Normals, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}
