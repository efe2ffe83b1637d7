package keycap

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(cx, cy, half float32) contour2 {
	return contour2{
		{cx - half, cy - half},
		{cx + half, cy - half},
		{cx + half, cy + half},
		{cx - half, cy + half},
	}
}

func triArea(t [3]mgl32.Vec2) float32 {
	return cross2(t[0], t[1], t[2]) / 2
}

func TestSignedAreaOrientation(t *testing.T) {
	ccw := square(0, 0, 1)
	assert.InDelta(t, 4, signedArea(ccw), 1e-5)
	assert.InDelta(t, -4, signedArea(reversed(ccw)), 1e-5)
}

func TestPointInPolygon(t *testing.T) {
	c := square(0, 0, 1)
	assert.True(t, pointInPolygon(mgl32.Vec2{0, 0}, c))
	assert.True(t, pointInPolygon(mgl32.Vec2{0.9, 0.9}, c))
	assert.False(t, pointInPolygon(mgl32.Vec2{2, 0}, c))
	assert.False(t, pointInPolygon(mgl32.Vec2{0, -3}, c))
}

func TestEarClipConvex(t *testing.T) {
	tris := earClip(square(0, 0, 1))
	require.Len(t, tris, 2)
	var total float32
	for _, tri := range tris {
		a := triArea(tri)
		assert.Greater(t, a, float32(0)) // orientation preserved
		total += a
	}
	assert.InDelta(t, 4, total, 1e-4)
}

func TestEarClipConcave(t *testing.T) {
	// An L-shape: 6 vertices, counter-clockwise, one reflex corner.
	poly := contour2{
		{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2},
	}
	tris := earClip(poly)
	require.Len(t, tris, 4)
	var total float32
	for _, tri := range tris {
		total += triArea(tri)
	}
	assert.InDelta(t, 3, total, 1e-4)
}

func TestTriangulateWithHolesArea(t *testing.T) {
	outer := square(0, 0, 2)   // area 16
	hole := reversed(square(0, 0, 1)) // area 4, clockwise as holes are
	tris := triangulateWithHoles(outer, []contour2{hole})
	require.NotEmpty(t, tris)
	var total float32
	for _, tri := range tris {
		total += triArea(tri)
	}
	assert.InDelta(t, 12, total, 1e-3)
}

func TestClassifyContours(t *testing.T) {
	outer := square(0, 0, 2)
	hole := square(0, 0, 1) // orientation gets normalized either way
	far := square(10, 0, 1)
	outers, holesByOuter := classifyContours([]contour2{outer, hole, far})
	require.Len(t, outers, 2)
	require.Len(t, holesByOuter, 2)

	// The hole lands on the contour that contains it, with negative area.
	found := false
	for i, hs := range holesByOuter {
		for _, h := range hs {
			found = true
			assert.Negative(t, signedArea(h))
			assert.Positive(t, signedArea(outers[i]))
		}
	}
	assert.True(t, found)
}
