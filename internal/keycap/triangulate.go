package keycap

import (
	"github.com/go-gl/mathgl/mgl32"
)

// 2D polygon triangulation for glyph contours: holes are bridged into their
// enclosing outer contour, then the merged polygon is ear-clipped. Glyph
// outlines are small (a few hundred points after flattening), so the quadratic
// passes here are not a concern.

// signedArea returns the polygon's signed area in the (x, z) plane. The sign
// encodes orientation; contours are normalized so outers are positive and
// holes negative.
func signedArea(c contour2) float32 {
	var a float32
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X()*c[j].Y() - c[j].X()*c[i].Y()
	}
	return a / 2
}

func reversed(c contour2) contour2 {
	out := make(contour2, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

// pointInPolygon is an even-odd ray cast in +x.
func pointInPolygon(p mgl32.Vec2, c contour2) bool {
	inside := false
	for i := range c {
		j := (i + 1) % len(c)
		a, b := c[i], c[j]
		if (a.Y() > p.Y()) != (b.Y() > p.Y()) {
			x := a.X() + (p.Y()-a.Y())/(b.Y()-a.Y())*(b.X()-a.X())
			if x > p.X() {
				inside = !inside
			}
		}
	}
	return inside
}

// classifyContours splits contours into outers and, per outer, the holes it
// contains. Containment is tested point-in-polygon with a representative
// vertex; orientation is normalized (outers positive area, holes negative).
func classifyContours(contours []contour2) (outers []contour2, holesByOuter [][]contour2) {
	depth := make([]int, len(contours))
	for i, c := range contours {
		for j, other := range contours {
			if i == j {
				continue
			}
			if pointInPolygon(c[0], other) {
				depth[i]++
			}
		}
	}
	outerIndex := make([]int, len(contours))
	for i, c := range contours {
		if depth[i]%2 != 0 {
			continue
		}
		if signedArea(c) < 0 {
			c = reversed(c)
		}
		outerIndex[i] = len(outers)
		outers = append(outers, c)
		holesByOuter = append(holesByOuter, nil)
	}
	for i, c := range contours {
		if depth[i]%2 == 0 {
			continue
		}
		if signedArea(c) > 0 {
			c = reversed(c)
		}
		// Attach to the smallest outer containing this hole's first vertex.
		best, bestArea := -1, float32(0)
		for j, outer := range contours {
			if depth[j]%2 != 0 {
				continue
			}
			if !pointInPolygon(c[0], outer) {
				continue
			}
			area := signedArea(outer)
			if area < 0 {
				area = -area
			}
			if best == -1 || area < bestArea {
				best, bestArea = j, area
			}
		}
		if best >= 0 {
			k := outerIndex[best]
			holesByOuter[k] = append(holesByOuter[k], c)
		}
	}
	return outers, holesByOuter
}

// triangulateWithHoles bridges each hole into the outer contour and ear-clips
// the merged polygon. Output triangles keep the outer's positive orientation.
func triangulateWithHoles(outer contour2, holes []contour2) [][3]mgl32.Vec2 {
	merged := outer
	for _, hole := range holes {
		merged = bridgeHole(merged, hole)
	}
	return earClip(merged)
}

// bridgeHole joins hole into poly through the closest mutually visible vertex
// pair, duplicating both bridge endpoints in the classic cut fashion.
func bridgeHole(poly, hole contour2) contour2 {
	bestP, bestH := 0, 0
	bestDist := float32(-1)
	for pi, pv := range poly {
		for hi, hv := range hole {
			if !segmentClear(pv, hv, poly) || !segmentClear(pv, hv, hole) {
				continue
			}
			delta := pv.Sub(hv)
			d := delta.Dot(delta)
			if bestDist < 0 || d < bestDist {
				bestDist, bestP, bestH = d, pi, hi
			}
		}
	}
	// If nothing is mutually visible (degenerate outlines), bridge the closest
	// pair anyway; the ear clipper degrades gracefully.
	if bestDist < 0 {
		for pi, pv := range poly {
			for hi, hv := range hole {
				delta := pv.Sub(hv)
				d := delta.Dot(delta)
				if bestDist < 0 || d < bestDist {
					bestDist, bestP, bestH = d, pi, hi
				}
			}
		}
	}
	out := make(contour2, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:bestP+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(bestH+i)%len(hole)])
	}
	out = append(out, poly[bestP:]...)
	return out
}

// segmentClear reports whether segment ab crosses no edge of c (shared
// endpoints excluded).
func segmentClear(a, b mgl32.Vec2, c contour2) bool {
	for i := range c {
		j := (i + 1) % len(c)
		p, q := c[i], c[j]
		if p == a || p == b || q == a || q == b {
			continue
		}
		if segmentsIntersect(a, b, p, q) {
			return false
		}
	}
	return true
}

func cross2(o, a, b mgl32.Vec2) float32 {
	return (a.X()-o.X())*(b.Y()-o.Y()) - (a.Y()-o.Y())*(b.X()-o.X())
}

func segmentsIntersect(a, b, p, q mgl32.Vec2) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(a, b, q)
	d3 := cross2(p, q, a)
	d4 := cross2(p, q, b)
	return ((d1 > 0) != (d2 > 0)) && ((d3 > 0) != (d4 > 0))
}

func pointInTriangle(p, a, b, c mgl32.Vec2) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(b, c, p)
	d3 := cross2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// earClip triangulates a simple polygon in positive orientation. If no ear can
// be found (numeric trouble on a malformed outline), the remainder is fanned
// so the caller always gets a filled region.
func earClip(poly contour2) [][3]mgl32.Vec2 {
	idx := make([]int, len(poly))
	for i := range idx {
		idx[i] = i
	}
	var tris [][3]mgl32.Vec2
	for len(idx) > 3 {
		found := false
		for k := 0; k < len(idx); k++ {
			ia := idx[(k+len(idx)-1)%len(idx)]
			ib := idx[k]
			ic := idx[(k+1)%len(idx)]
			a, b, c := poly[ia], poly[ib], poly[ic]
			if cross2(a, b, c) <= 0 {
				continue // reflex corner
			}
			ear := true
			for _, io := range idx {
				if io == ia || io == ib || io == ic {
					continue
				}
				p := poly[io]
				if p == a || p == b || p == c {
					continue // bridge duplicates
				}
				if pointInTriangle(p, a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}
			tris = append(tris, [3]mgl32.Vec2{a, b, c})
			idx = append(idx[:k], idx[k+1:]...)
			found = true
			break
		}
		if !found {
			for k := 1; k+1 < len(idx); k++ {
				tris = append(tris, [3]mgl32.Vec2{poly[idx[0]], poly[idx[k]], poly[idx[k+1]]})
			}
			return tris
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]mgl32.Vec2{poly[idx[0]], poly[idx[1]], poly[idx[2]]})
	}
	return tris
}
