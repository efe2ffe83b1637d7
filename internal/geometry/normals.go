package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// faceNormal returns the unit normal of triangle f, or the zero vector for a
// degenerate triangle.
func faceNormal(m *Mesh, f int) mgl32.Vec3 {
	p0 := m.Position(int(m.Indices[f*3]))
	p1 := m.Position(int(m.Indices[f*3+1]))
	p2 := m.Position(int(m.Indices[f*3+2]))
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if l := n.Len(); l > 1e-12 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}

// FlatNormals recomputes per-vertex normals as the plain average of all
// incident face normals. Cheaper than SmoothNormals; used for preview-quality
// geometry where crease fidelity does not matter.
func FlatNormals(m *Mesh) {
	normals := make([]float32, m.VertexCount()*3)
	for f := 0; f < m.TriangleCount(); f++ {
		n := faceNormal(m, f)
		for k := 0; k < 3; k++ {
			v := int(m.Indices[f*3+k])
			normals[v*3] += n.X()
			normals[v*3+1] += n.Y()
			normals[v*3+2] += n.Z()
		}
	}
	for v := 0; v < len(normals); v += 3 {
		n := mgl32.Vec3{normals[v], normals[v+1], normals[v+2]}
		if l := n.Len(); l > 1e-12 {
			n = n.Mul(1 / l)
		}
		normals[v], normals[v+1], normals[v+2] = n.X(), n.Y(), n.Z()
	}
	m.Normals = normals
}

// SmoothNormals recomputes per-vertex normals, averaging only incident faces
// whose normal lies within angleDeg of the vertex's first incident face. Faces
// beyond the threshold are left out, so creases sharper than the angle keep a
// hard edge. If every neighbor is excluded the base face normal is used as-is.
//
// The vertex→face adjacency is built CSR-style (counts, prefix-sum offsets,
// flat fill) to avoid a per-vertex slice allocation on large meshes.
func SmoothNormals(m *Mesh, angleDeg float32) {
	if len(m.Indices) == 0 {
		return
	}
	nVerts := m.VertexCount()
	nFaces := m.TriangleCount()
	threshold := math32.Cos(mgl32.DegToRad(angleDeg))

	faceNormals := make([]mgl32.Vec3, nFaces)
	for f := 0; f < nFaces; f++ {
		faceNormals[f] = faceNormal(m, f)
	}

	counts := make([]int32, nVerts)
	for _, idx := range m.Indices {
		counts[idx]++
	}
	offsets := make([]int32, nVerts+1)
	for v := 0; v < nVerts; v++ {
		offsets[v+1] = offsets[v] + counts[v]
	}
	adjacent := make([]int32, len(m.Indices))
	cursor := make([]int32, nVerts)
	copy(cursor, offsets[:nVerts])
	for f := 0; f < nFaces; f++ {
		for k := 0; k < 3; k++ {
			v := m.Indices[f*3+k]
			adjacent[cursor[v]] = int32(f)
			cursor[v]++
		}
	}

	normals := make([]float32, nVerts*3)
	for v := 0; v < nVerts; v++ {
		start, end := offsets[v], offsets[v+1]
		if start == end {
			continue
		}
		base := faceNormals[adjacent[start]]
		var sum mgl32.Vec3
		for i := start; i < end; i++ {
			n := faceNormals[adjacent[i]]
			if base.Dot(n) > threshold {
				sum = sum.Add(n)
			}
		}
		if l := sum.Len(); l > 1e-12 {
			sum = sum.Mul(1 / l)
		} else {
			// All neighbors excluded by the crease threshold.
			sum = base
		}
		normals[v*3], normals[v*3+1], normals[v*3+2] = sum.X(), sum.Y(), sum.Z()
	}
	m.Normals = normals
}
