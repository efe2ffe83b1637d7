package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keycap-studio/internal/geometry"
)

func keyFor(i int) Key {
	return Key{Profile: "cherry", Size: fmt.Sprintf("%du", i)}
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := NewPreviewCache()
	_, ok := c.Get(keyFor(1))
	assert.False(t, ok)
}

func TestPutGetRoundTrip(t *testing.T) {
	c := NewPreviewCache()
	c.Put(keyFor(1), geometry.GenBox(2, 2, 2))
	got, ok := c.Get(keyFor(1))
	require.True(t, ok)
	assert.Equal(t, 24, got.VertexCount())
}

func TestCachedMeshIsIsolated(t *testing.T) {
	c := NewPreviewCache()
	m := geometry.GenBox(2, 2, 2)
	c.Put(keyFor(1), m)
	m.Positions[0] = 999 // caller keeps mutating its copy

	got, ok := c.Get(keyFor(1))
	require.True(t, ok)
	assert.NotEqual(t, float32(999), got.Positions[0])

	got.Positions[0] = 555 // and mutating the returned copy
	again, _ := c.Get(keyFor(1))
	assert.NotEqual(t, float32(555), again.Positions[0])
}

func TestFIFOEviction(t *testing.T) {
	c := New(DefaultPreviewLimit)
	for i := 0; i < DefaultPreviewLimit+1; i++ {
		c.Put(keyFor(i), geometry.GenBox(1, 1, 1))
	}
	assert.Equal(t, DefaultPreviewLimit, c.Len())
	// The first inserted key was evicted; the rest survive.
	_, ok := c.Get(keyFor(0))
	assert.False(t, ok)
	_, ok = c.Get(keyFor(1))
	assert.True(t, ok)
	_, ok = c.Get(keyFor(DefaultPreviewLimit))
	assert.True(t, ok)
}

func TestRePutDoesNotEvict(t *testing.T) {
	c := New(2)
	c.Put(keyFor(1), geometry.GenBox(1, 1, 1))
	c.Put(keyFor(2), geometry.GenBox(1, 1, 1))
	c.Put(keyFor(1), geometry.GenBox(3, 3, 3)) // refresh, not a new entry
	assert.Equal(t, 2, c.Len())
	got, ok := c.Get(keyFor(1))
	require.True(t, ok)
	min, max := got.Bounds()
	assert.InDelta(t, 3, max.X()-min.X(), 1e-5)
}

func TestExportCacheUnbounded(t *testing.T) {
	c := NewExportCache()
	for i := 0; i < DefaultPreviewLimit*2; i++ {
		c.Put(keyFor(i), geometry.GenBox(1, 1, 1))
	}
	assert.Equal(t, DefaultPreviewLimit*2, c.Len())
}

func TestClear(t *testing.T) {
	c := NewPreviewCache()
	c.Put(keyFor(1), geometry.GenBox(1, 1, 1))
	c.Clear()
	assert.Zero(t, c.Len())
	_, ok := c.Get(keyFor(1))
	assert.False(t, ok)
}
