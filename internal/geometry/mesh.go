package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle mesh with flat buffers: Positions and Normals hold
// 3 floats per vertex (x,y,z), Indices holds 3 entries per triangle. Color is a
// single material color (RGBA) for the whole mesh. Units are millimetres.
type Mesh struct {
	Positions []float32
	Normals   []float32
	Indices   []uint32
	Color     [4]uint8
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Positions) == 0 || len(m.Indices) == 0 }

// Clone returns a deep copy so that modifications never reach the original buffers.
func (m Mesh) Clone() Mesh {
	clone := Mesh{Color: m.Color}
	if len(m.Positions) > 0 {
		clone.Positions = make([]float32, len(m.Positions))
		copy(clone.Positions, m.Positions)
	}
	if len(m.Normals) > 0 {
		clone.Normals = make([]float32, len(m.Normals))
		copy(clone.Normals, m.Normals)
	}
	if len(m.Indices) > 0 {
		clone.Indices = make([]uint32, len(m.Indices))
		copy(clone.Indices, m.Indices)
	}
	return clone
}

// Position returns vertex i as a vector.
func (m *Mesh) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]}
}

// SetPosition overwrites vertex i.
func (m *Mesh) SetPosition(i int, p mgl32.Vec3) {
	m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2] = p.X(), p.Y(), p.Z()
}

// Append concatenates other onto m, offsetting other's indices. The material
// color of m is kept.
func (m *Mesh) Append(other Mesh) {
	base := uint32(m.VertexCount())
	m.Positions = append(m.Positions, other.Positions...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, idx := range other.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// Transform applies a 4x4 transform to all positions and rotates normals by the
// upper-left 3x3 of the matrix (sufficient for the translate/rotate/scale
// matrices produced in this package; normals are re-normalized).
func (m *Mesh) Transform(mat mgl32.Mat4) {
	rot := mat.Mat3()
	for i := 0; i < m.VertexCount(); i++ {
		p := mat.Mul4x1(m.Position(i).Vec4(1))
		m.SetPosition(i, p.Vec3())
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := rot.Mul3x1(mgl32.Vec3{m.Normals[i], m.Normals[i+1], m.Normals[i+2]})
		if l := n.Len(); l > 1e-12 {
			n = n.Mul(1 / l)
		}
		m.Normals[i], m.Normals[i+1], m.Normals[i+2] = n.X(), n.Y(), n.Z()
	}
}

// TransformTRS applies translation and XYZ Euler rotation (degrees), rotation
// first. This is the per-node transform order used by the scene evaluator.
func (m *Mesh) TransformTRS(position, rotationDeg [3]float32) {
	mat := TRS(position, rotationDeg)
	if mat == mgl32.Ident4() {
		return
	}
	m.Transform(mat)
}

// TRS builds a translate * rotateZ * rotateY * rotateX matrix from a position
// and XYZ Euler angles in degrees.
func TRS(position, rotationDeg [3]float32) mgl32.Mat4 {
	mat := mgl32.Translate3D(position[0], position[1], position[2])
	if rotationDeg[2] != 0 {
		mat = mat.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotationDeg[2])))
	}
	if rotationDeg[1] != 0 {
		mat = mat.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotationDeg[1])))
	}
	if rotationDeg[0] != 0 {
		mat = mat.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotationDeg[0])))
	}
	return mat
}

// Bounds returns the axis-aligned bounding box. An empty mesh returns two zero
// vectors.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if m.VertexCount() == 0 {
		return
	}
	min = m.Position(0)
	max = min
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	return
}

// mergeEpsilon is the welding distance for MergeVertices. Boolean results carry
// duplicated split vertices well within this tolerance.
const mergeEpsilon = 1e-4

// MergeVertices welds coincident vertices (within mergeEpsilon on each axis) and
// rewrites the index buffer. Degenerate triangles that collapse during welding
// are dropped. Normals are discarded; recompute them after merging.
func (m *Mesh) MergeVertices() {
	type cell struct{ x, y, z int32 }
	quant := func(v float32) int32 { return int32(math32.Round(v / mergeEpsilon)) }

	remap := make([]uint32, m.VertexCount())
	lookup := make(map[cell]uint32, m.VertexCount())
	var positions []float32
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		c := cell{quant(p.X()), quant(p.Y()), quant(p.Z())}
		if j, ok := lookup[c]; ok {
			remap[i] = j
			continue
		}
		j := uint32(len(positions) / 3)
		lookup[c] = j
		remap[i] = j
		positions = append(positions, p.X(), p.Y(), p.Z())
	}

	var indices []uint32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := remap[m.Indices[i]], remap[m.Indices[i+1]], remap[m.Indices[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		indices = append(indices, a, b, c)
	}
	m.Positions = positions
	m.Indices = indices
	m.Normals = nil
}
