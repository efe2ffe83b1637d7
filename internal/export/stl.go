package export

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"keycap-studio/internal/geometry"
)

// stlHeaderText is stamped into the 80-byte binary STL header.
const stlHeaderText = "keycap-studio binary STL"

// EncodeSTL serializes a mesh as binary STL: 80-byte header, triangle count,
// then 50 bytes per triangle (face normal, three vertices, attribute word).
// Per-vertex normals are not representable in STL, so face normals are
// recomputed here; color is dropped.
func EncodeSTL(m geometry.Mesh) []byte {
	out := make([]byte, 0, 84+50*m.TriangleCount())

	var header [80]byte
	copy(header[:], stlHeaderText)
	out = append(out, header[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(m.TriangleCount()))

	appendVec := func(v mgl32.Vec3) {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.X()))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.Y()))
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v.Z()))
	}
	for f := 0; f < m.TriangleCount(); f++ {
		p0 := m.Position(int(m.Indices[f*3]))
		p1 := m.Position(int(m.Indices[f*3+1]))
		p2 := m.Position(int(m.Indices[f*3+2]))
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		if l := n.Len(); l > 1e-12 {
			n = n.Mul(1 / l)
		}
		appendVec(n)
		appendVec(p0)
		appendVec(p1)
		appendVec(p2)
		out = binary.LittleEndian.AppendUint16(out, 0)
	}
	return out
}

// WriteSTL writes the binary STL encoding of m to w.
func WriteSTL(w io.Writer, m geometry.Mesh) error {
	_, err := w.Write(EncodeSTL(m))
	return err
}
