package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenBoxShape(t *testing.T) {
	m := GenBox(4, 2, 6)
	assert.Equal(t, 24, m.VertexCount())
	assert.Equal(t, 12, m.TriangleCount())
	min, max := m.Bounds()
	assert.InDelta(t, -2, min.X(), 1e-5)
	assert.InDelta(t, 2, max.X(), 1e-5)
	assert.InDelta(t, -1, min.Y(), 1e-5)
	assert.InDelta(t, 1, max.Y(), 1e-5)
	assert.InDelta(t, -3, min.Z(), 1e-5)
	assert.InDelta(t, 3, max.Z(), 1e-5)
}

func TestGenCylinderShape(t *testing.T) {
	m := GenCylinder(3, 10, 0)
	assert.False(t, m.IsEmpty())
	assert.Zero(t, len(m.Indices)%3)
	assert.Equal(t, len(m.Positions), len(m.Normals))
	min, max := m.Bounds()
	assert.InDelta(t, -5, min.Y(), 1e-4)
	assert.InDelta(t, 5, max.Y(), 1e-4)
	assert.InDelta(t, -3, min.X(), 1e-2)
	assert.InDelta(t, 3, max.X(), 1e-2)
}

func TestGenSphereShape(t *testing.T) {
	m := GenSphere(2, 0, 0)
	assert.False(t, m.IsEmpty())
	assert.Zero(t, len(m.Indices)%3)
	// Every vertex sits on the sphere surface and its normal points outward.
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		assert.InDelta(t, 2, p.Len(), 1e-4)
	}
	for _, idx := range m.Indices {
		assert.Less(t, int(idx), m.VertexCount())
	}
}
