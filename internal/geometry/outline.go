package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// maxCornerRadiusShare caps the corner radius at this share of the smaller half
// extent so opposite arcs can never overlap.
const maxCornerRadiusShare = 0.4

// RoundedRect samples the outline of a rounded rectangle on the XZ plane,
// centered at the origin, counter-clockwise seen from +Y. radius is clamped to
// maxCornerRadiusShare of the smaller half extent; segsPerCorner is the number
// of segments used for each 90° arc (minimum 1).
func RoundedRect(halfWidth, halfDepth, radius float32, segsPerCorner int) []mgl32.Vec2 {
	maxR := maxCornerRadiusShare * math32.Min(halfWidth, halfDepth)
	if radius > maxR {
		radius = maxR
	}
	if radius < 0 {
		radius = 0
	}
	if segsPerCorner < 1 {
		segsPerCorner = 1
	}

	// Arc centers, one per corner, walked counter-clockwise starting at +X/+Z.
	// startAngle is where each arc begins; every arc sweeps +90°.
	corners := []struct {
		cx, cz, startAngle float32
	}{
		{halfWidth - radius, halfDepth - radius, 0},
		{-(halfWidth - radius), halfDepth - radius, math32.Pi / 2},
		{-(halfWidth - radius), -(halfDepth - radius), math32.Pi},
		{halfWidth - radius, -(halfDepth - radius), 3 * math32.Pi / 2},
	}

	var pts []mgl32.Vec2
	for _, c := range corners {
		for i := 0; i <= segsPerCorner; i++ {
			a := c.startAngle + (math32.Pi/2)*float32(i)/float32(segsPerCorner)
			pts = append(pts, mgl32.Vec2{c.cx + radius*math32.Cos(a), c.cz + radius*math32.Sin(a)})
		}
	}
	// Straight edges come for free: consecutive arc endpoints are joined by the
	// extruder. Drop near-duplicate points produced by radius == 0 corners.
	return dedupOutline(pts)
}

func dedupOutline(pts []mgl32.Vec2) []mgl32.Vec2 {
	const eps = 1e-6
	out := pts[:0:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Sub(p).Len() < eps {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].Sub(out[len(out)-1]).Len() < eps {
		out = out[:len(out)-1]
	}
	return out
}

// ExtrudeOutline sweeps a closed outline (XZ plane, counter-clockwise) straight
// up along +Y from 0 to height with the given number of vertical steps,
// producing side walls plus flat bottom and top caps. The outline must be
// convex; caps are centroid fans. Vertices are shared between rings so that a
// per-vertex deformation pass touches each ring point exactly once.
func ExtrudeOutline(outline []mgl32.Vec2, height float32, steps int) Mesh {
	var m Mesh
	if len(outline) < 3 || steps < 1 {
		return m
	}
	n := len(outline)

	for s := 0; s <= steps; s++ {
		y := height * float32(s) / float32(steps)
		for _, p := range outline {
			m.Positions = append(m.Positions, p.X(), y, p.Y())
			m.Normals = append(m.Normals, 0, 0, 0)
		}
	}
	for s := 0; s < steps; s++ {
		ring := uint32(s * n)
		next := ring + uint32(n)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			a, b := ring+uint32(i), ring+uint32(j)
			c, d := next+uint32(i), next+uint32(j)
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}

	var cx, cz float32
	for _, p := range outline {
		cx += p.X()
		cz += p.Y()
	}
	cx /= float32(n)
	cz /= float32(n)

	// Bottom cap (faces -Y): fan around the centroid, clockwise from below.
	base := uint32(m.VertexCount())
	m.Positions = append(m.Positions, cx, 0, cz)
	m.Normals = append(m.Normals, 0, -1, 0)
	for _, p := range outline {
		m.Positions = append(m.Positions, p.X(), 0, p.Y())
		m.Normals = append(m.Normals, 0, -1, 0)
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.Indices = append(m.Indices, base, base+1+uint32(i), base+1+uint32(j))
	}

	// Top cap (faces +Y).
	top := uint32(m.VertexCount())
	m.Positions = append(m.Positions, cx, height, cz)
	m.Normals = append(m.Normals, 0, 1, 0)
	for _, p := range outline {
		m.Positions = append(m.Positions, p.X(), height, p.Y())
		m.Normals = append(m.Normals, 0, 1, 0)
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.Indices = append(m.Indices, top, top+1+uint32(j), top+1+uint32(i))
	}
	return m
}
