package csg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keycap-studio/internal/geometry"
)

func offsetBox(size float32, offset [3]float32) geometry.Mesh {
	m := geometry.GenBox(size, size, size)
	m.TransformTRS(offset, [3]float32{})
	return m
}

func TestUnionExpandsBounds(t *testing.T) {
	op := NewBSPOperator()
	a := offsetBox(2, [3]float32{0, 0, 0})
	b := offsetBox(2, [3]float32{1, 0, 0})
	out, err := op.Union(a, b)
	require.NoError(t, err)
	require.False(t, out.IsEmpty())
	min, max := out.Bounds()
	assert.InDelta(t, -1, min.X(), 1e-3)
	assert.InDelta(t, 2, max.X(), 1e-3)
	assert.InDelta(t, -1, min.Y(), 1e-3)
	assert.InDelta(t, 1, max.Y(), 1e-3)
}

func TestSubtractCarvesOperand(t *testing.T) {
	op := NewBSPOperator()
	a := offsetBox(4, [3]float32{0, 0, 0})
	b := offsetBox(2, [3]float32{2, 0, 0}) // bite out of the +X side
	out, err := op.Subtract(a, b)
	require.NoError(t, err)
	require.False(t, out.IsEmpty())
	min, max := out.Bounds()
	// The carved solid still spans a's box; the cut is interior to the +X face.
	assert.InDelta(t, -2, min.X(), 1e-3)
	assert.InDelta(t, 2, max.X(), 1e-3)
	uncutBox := geometry.GenBox(4, 4, 4)
	assert.Greater(t, out.TriangleCount(), uncutBox.TriangleCount())
}

func TestIntersectKeepsOverlap(t *testing.T) {
	op := NewBSPOperator()
	a := offsetBox(2, [3]float32{0, 0, 0})
	b := offsetBox(2, [3]float32{1, 0, 0})
	out, err := op.Intersect(a, b)
	require.NoError(t, err)
	require.False(t, out.IsEmpty())
	min, max := out.Bounds()
	assert.InDelta(t, 0, min.X(), 1e-3)
	assert.InDelta(t, 1, max.X(), 1e-3)
}

func TestEmptyOperands(t *testing.T) {
	op := NewBSPOperator()
	var empty geometry.Mesh
	box := offsetBox(2, [3]float32{0, 0, 0})

	out, err := op.Union(empty, box)
	require.NoError(t, err)
	assert.Equal(t, box.TriangleCount(), out.TriangleCount())

	out, err = op.Subtract(box, empty)
	require.NoError(t, err)
	assert.Equal(t, box.TriangleCount(), out.TriangleCount())

	_, err = op.Subtract(empty, box)
	assert.Error(t, err)
	_, err = op.Intersect(empty, box)
	assert.Error(t, err)
}

func TestApplyDispatch(t *testing.T) {
	op := NewBSPOperator()
	a := offsetBox(2, [3]float32{0, 0, 0})
	b := offsetBox(2, [3]float32{1, 0, 0})

	union, err := Apply(op, Union, a, b)
	require.NoError(t, err)
	intersect, err := Apply(op, Intersect, a, b)
	require.NoError(t, err)
	_, maxU := union.Bounds()
	_, maxI := intersect.Bounds()
	assert.Greater(t, maxU.X(), maxI.X())

	// Unknown operations fall back to subtract.
	fallback, err := Apply(op, Operation("carve"), a, b)
	require.NoError(t, err)
	assert.False(t, fallback.IsEmpty())
}
