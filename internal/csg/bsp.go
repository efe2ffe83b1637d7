package csg

import (
	"errors"
	"math"

	"keycap-studio/internal/geometry"
)

// BSPOperator is the default Operator: a BSP-tree boolean kernel in the style
// of csg.js. Solids are converted to polygon soups, partitioned into BSP trees,
// clipped against each other, and re-triangulated. Math runs in float64; the
// result is welded and left without normals (pipelines recompute them after
// every boolean step anyway).
type BSPOperator struct{}

// NewBSPOperator returns the default boolean kernel.
func NewBSPOperator() *BSPOperator { return &BSPOperator{} }

var errEmptyOperand = errors.New("csg: boolean operand has no geometry")

func (o *BSPOperator) Union(a, b geometry.Mesh) (geometry.Mesh, error) {
	if a.IsEmpty() {
		return b.Clone(), nil
	}
	if b.IsEmpty() {
		return a.Clone(), nil
	}
	na, nb := newBSPNode(toPolygons(a)), newBSPNode(toPolygons(b))
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	return fromPolygons(na.allPolygons(), a.Color)
}

func (o *BSPOperator) Subtract(a, b geometry.Mesh) (geometry.Mesh, error) {
	if a.IsEmpty() {
		return geometry.Mesh{}, errEmptyOperand
	}
	if b.IsEmpty() {
		return a.Clone(), nil
	}
	na, nb := newBSPNode(toPolygons(a)), newBSPNode(toPolygons(b))
	na.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	na.invert()
	return fromPolygons(na.allPolygons(), a.Color)
}

func (o *BSPOperator) Intersect(a, b geometry.Mesh) (geometry.Mesh, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return geometry.Mesh{}, errEmptyOperand
	}
	na, nb := newBSPNode(toPolygons(a)), newBSPNode(toPolygons(b))
	na.invert()
	nb.clipTo(na)
	nb.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	na.build(nb.allPolygons())
	na.invert()
	return fromPolygons(na.allPolygons(), a.Color)
}

type vec3 struct{ x, y, z float64 }

func (v vec3) add(o vec3) vec3      { return vec3{v.x + o.x, v.y + o.y, v.z + o.z} }
func (v vec3) sub(o vec3) vec3      { return vec3{v.x - o.x, v.y - o.y, v.z - o.z} }
func (v vec3) scale(s float64) vec3 { return vec3{v.x * s, v.y * s, v.z * s} }
func (v vec3) dot(o vec3) float64   { return v.x*o.x + v.y*o.y + v.z*o.z }
func (v vec3) cross(o vec3) vec3 {
	return vec3{v.y*o.z - v.z*o.y, v.z*o.x - v.x*o.z, v.x*o.y - v.y*o.x}
}
func (v vec3) lerp(o vec3, t float64) vec3 { return v.add(o.sub(v).scale(t)) }
func (v vec3) unit() vec3 {
	l := math.Sqrt(v.dot(v))
	if l == 0 {
		return vec3{}
	}
	return v.scale(1 / l)
}

// planeEpsilon classifies points within this distance as lying on a plane.
const planeEpsilon = 1e-5

type plane struct {
	n vec3
	w float64
}

func planeFromPoints(a, b, c vec3) (plane, bool) {
	n := b.sub(a).cross(c.sub(a))
	if n.dot(n) < 1e-24 {
		return plane{}, false
	}
	n = n.unit()
	return plane{n, n.dot(a)}, true
}

func (p *plane) flip() {
	p.n = p.n.scale(-1)
	p.w = -p.w
}

type polygon struct {
	vertices []vec3
	plane    plane
}

func (p polygon) flipped() polygon {
	verts := make([]vec3, len(p.vertices))
	for i, v := range p.vertices {
		verts[len(verts)-1-i] = v
	}
	pl := p.plane
	pl.flip()
	return polygon{verts, pl}
}

const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// splitPolygon classifies poly against p and appends it (or its pieces) to the
// matching output lists.
func (p plane) splitPolygon(poly polygon, coplanarFront, coplanarBack, frontOut, backOut *[]polygon) {
	polyType := 0
	types := make([]int, len(poly.vertices))
	for i, v := range poly.vertices {
		t := p.n.dot(v) - p.w
		typ := coplanar
		if t < -planeEpsilon {
			typ = back
		} else if t > planeEpsilon {
			typ = front
		}
		polyType |= typ
		types[i] = typ
	}

	switch polyType {
	case coplanar:
		if p.n.dot(poly.plane.n) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case front:
		*frontOut = append(*frontOut, poly)
	case back:
		*backOut = append(*backOut, poly)
	case spanning:
		var f, b []vec3
		for i := range poly.vertices {
			j := (i + 1) % len(poly.vertices)
			ti, tj := types[i], types[j]
			vi, vj := poly.vertices[i], poly.vertices[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if (ti | tj) == spanning {
				t := (p.w - p.n.dot(vi)) / p.n.dot(vj.sub(vi))
				v := vi.lerp(vj, t)
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*frontOut = append(*frontOut, polygon{f, poly.plane})
		}
		if len(b) >= 3 {
			*backOut = append(*backOut, polygon{b, poly.plane})
		}
	}
}

// bspNode is one node of a solid's BSP tree, holding the polygons coplanar
// with its divider plane.
type bspNode struct {
	plane    *plane
	frontN   *bspNode
	backN    *bspNode
	polygons []polygon
}

func newBSPNode(polygons []polygon) *bspNode {
	n := &bspNode{}
	if len(polygons) > 0 {
		n.build(polygons)
	}
	return n
}

func (n *bspNode) invert() {
	for i := range n.polygons {
		n.polygons[i] = n.polygons[i].flipped()
	}
	if n.plane != nil {
		n.plane.flip()
	}
	if n.frontN != nil {
		n.frontN.invert()
	}
	if n.backN != nil {
		n.backN.invert()
	}
	n.frontN, n.backN = n.backN, n.frontN
}

// clipPolygons removes all parts of the given polygons inside this node's solid.
func (n *bspNode) clipPolygons(polygons []polygon) []polygon {
	if n.plane == nil {
		return append([]polygon(nil), polygons...)
	}
	var frontP, backP []polygon
	for _, poly := range polygons {
		n.plane.splitPolygon(poly, &frontP, &backP, &frontP, &backP)
	}
	if n.frontN != nil {
		frontP = n.frontN.clipPolygons(frontP)
	}
	if n.backN != nil {
		backP = n.backN.clipPolygons(backP)
	} else {
		backP = nil
	}
	return append(frontP, backP...)
}

// clipTo removes all polygons of this tree that are inside other's solid.
func (n *bspNode) clipTo(other *bspNode) {
	n.polygons = other.clipPolygons(n.polygons)
	if n.frontN != nil {
		n.frontN.clipTo(other)
	}
	if n.backN != nil {
		n.backN.clipTo(other)
	}
}

func (n *bspNode) allPolygons() []polygon {
	out := append([]polygon(nil), n.polygons...)
	if n.frontN != nil {
		out = append(out, n.frontN.allPolygons()...)
	}
	if n.backN != nil {
		out = append(out, n.backN.allPolygons()...)
	}
	return out
}

func (n *bspNode) build(polygons []polygon) {
	if len(polygons) == 0 {
		return
	}
	if n.plane == nil {
		pl := polygons[0].plane
		n.plane = &pl
	}
	var frontP, backP []polygon
	for _, poly := range polygons {
		n.plane.splitPolygon(poly, &n.polygons, &n.polygons, &frontP, &backP)
	}
	if len(frontP) > 0 {
		if n.frontN == nil {
			n.frontN = &bspNode{}
		}
		n.frontN.build(frontP)
	}
	if len(backP) > 0 {
		if n.backN == nil {
			n.backN = &bspNode{}
		}
		n.backN.build(backP)
	}
}

func toPolygons(m geometry.Mesh) []polygon {
	polys := make([]polygon, 0, m.TriangleCount())
	for f := 0; f < m.TriangleCount(); f++ {
		var verts [3]vec3
		for k := 0; k < 3; k++ {
			p := m.Position(int(m.Indices[f*3+k]))
			verts[k] = vec3{float64(p.X()), float64(p.Y()), float64(p.Z())}
		}
		pl, ok := planeFromPoints(verts[0], verts[1], verts[2])
		if !ok {
			continue
		}
		polys = append(polys, polygon{verts[:], pl})
	}
	return polys
}

func fromPolygons(polys []polygon, color [4]uint8) (geometry.Mesh, error) {
	m := geometry.Mesh{Color: color}
	for _, poly := range polys {
		if len(poly.vertices) < 3 {
			continue
		}
		base := uint32(m.VertexCount())
		for _, v := range poly.vertices {
			m.Positions = append(m.Positions, float32(v.x), float32(v.y), float32(v.z))
		}
		for i := 2; i < len(poly.vertices); i++ {
			m.Indices = append(m.Indices, base, base+uint32(i-1), base+uint32(i))
		}
	}
	if m.IsEmpty() {
		return m, errors.New("csg: boolean produced no geometry")
	}
	m.MergeVertices()
	return m, nil
}
