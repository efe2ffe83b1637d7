package keycap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampedRanges(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{
			name: "top radius clamps high",
			in:   Params{TopRadius: 999},
			want: Params{TopRadius: MaxTopRadius},
		},
		{
			name: "top radius clamps low",
			in:   Params{TopRadius: 0.01},
			want: Params{TopRadius: MinTopRadius},
		},
		{
			name: "wall thickness zero means solid and stays zero",
			in:   Params{TopRadius: 1, WallThickness: 0},
			want: Params{TopRadius: 1, WallThickness: 0},
		},
		{
			name: "wall thickness clamps low when nonzero",
			in:   Params{TopRadius: 1, WallThickness: 0.2},
			want: Params{TopRadius: 1, WallThickness: MinWallThickness},
		},
		{
			name: "wall thickness clamps high",
			in:   Params{TopRadius: 1, WallThickness: 50},
			want: Params{TopRadius: 1, WallThickness: MaxWallThickness},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamped())
		})
	}
}

func TestClampedEmbossOnlyWhenEnabled(t *testing.T) {
	p := Params{TopRadius: 1, Emboss: EmbossParams{Enabled: true, FontSize: 100, Depth: 100}}
	got := p.Clamped()
	assert.Equal(t, float32(MaxEmbossSize), got.Emboss.FontSize)
	assert.Equal(t, float32(MaxEmbossDepth), got.Emboss.Depth)

	off := Params{TopRadius: 1, Emboss: EmbossParams{Enabled: false, FontSize: 100}}
	assert.Equal(t, float32(100), off.Clamped().Emboss.FontSize)
}

func TestShapeKeyIgnoresCosmetics(t *testing.T) {
	a := Params{Profile: "Cherry", Size: "1u", TopRadius: 0.5, Color: [4]uint8{255, 0, 0, 255}}
	b := a
	b.Color = [4]uint8{0, 255, 0, 255}
	b.Emboss.Text = "A"
	assert.Equal(t, a.ShapeKey(), b.ShapeKey())
}

func TestShapeKeyTracksShape(t *testing.T) {
	a := Params{Profile: "cherry", Size: "1u", TopRadius: 0.5}
	b := a
	b.Size = "2u"
	assert.NotEqual(t, a.ShapeKey(), b.ShapeKey())

	c := a
	c.HasStem = true
	assert.NotEqual(t, a.ShapeKey(), c.ShapeKey())

	// Clamp-equivalent values map to the same key.
	d := a
	d.TopRadius = 999
	e := a
	e.TopRadius = MaxTopRadius
	assert.Equal(t, d.ShapeKey(), e.ShapeKey())
}

func TestShapeKeyResolvesOverrides(t *testing.T) {
	h := float32(9)
	a := Params{Profile: "cherry", Size: "1u", TopRadius: 1, Height: &h}
	assert.Equal(t, float32(9), a.ShapeKey().Height)

	b := Params{Profile: "cherry", Size: "1u", TopRadius: 1}
	assert.Equal(t, ProfileSpec("cherry").Height, b.ShapeKey().Height)
	assert.Equal(t, float32(defaultDishDepth), b.ShapeKey().DishDepth)
}

func TestProfileSpecFallback(t *testing.T) {
	cherry := ProfileSpec("cherry")
	assert.Equal(t, cherry, ProfileSpec("CHERRY"))
	assert.Equal(t, cherry, ProfileSpec("no-such-profile"))
	assert.Greater(t, cherry.Height, float32(0))
	assert.Greater(t, cherry.CreaseAngle, float32(0))
}

func TestSizeSpecFallback(t *testing.T) {
	one := SizeSpec("1u")
	assert.InDelta(t, 18, one.Width, 1e-3)
	assert.Equal(t, one, SizeSpec("999u"))
	two := SizeSpec("2u")
	assert.Greater(t, two.Width, one.Width)
}

func TestDetailSteps(t *testing.T) {
	assert.Equal(t, 8, DetailFast.Steps())
	assert.Equal(t, 15, DetailBalanced.Steps())
	assert.Equal(t, 25, DetailQuality.Steps())
	assert.Equal(t, 15, Detail("bogus").Steps())
}
