package geometry

import (
	"github.com/chewxy/math32"
)

// defaultSphereRings and defaultSphereSlices control sphere mesh resolution.
const defaultSphereRings = 16
const defaultSphereSlices = 16

// defaultCylinderSlices controls cylinder mesh resolution.
const defaultCylinderSlices = 16

// GenBox returns a box centered at the origin with the given full extents.
// Faces are unshared (24 vertices) so flat normals stay crisp.
func GenBox(width, height, depth float32) Mesh {
	hw, hh, hd := width/2, height/2, depth/2
	var m Mesh
	addQuad := func(a, b, c, d [3]float32, n [3]float32) {
		base := uint32(m.VertexCount())
		for _, v := range [][3]float32{a, b, c, d} {
			m.Positions = append(m.Positions, v[0], v[1], v[2])
			m.Normals = append(m.Normals, n[0], n[1], n[2])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	// +Z, -Z, +X, -X, +Y, -Y — counter-clockwise seen from outside.
	addQuad([3]float32{-hw, -hh, hd}, [3]float32{hw, -hh, hd}, [3]float32{hw, hh, hd}, [3]float32{-hw, hh, hd}, [3]float32{0, 0, 1})
	addQuad([3]float32{hw, -hh, -hd}, [3]float32{-hw, -hh, -hd}, [3]float32{-hw, hh, -hd}, [3]float32{hw, hh, -hd}, [3]float32{0, 0, -1})
	addQuad([3]float32{hw, -hh, hd}, [3]float32{hw, -hh, -hd}, [3]float32{hw, hh, -hd}, [3]float32{hw, hh, hd}, [3]float32{1, 0, 0})
	addQuad([3]float32{-hw, -hh, -hd}, [3]float32{-hw, -hh, hd}, [3]float32{-hw, hh, hd}, [3]float32{-hw, hh, -hd}, [3]float32{-1, 0, 0})
	addQuad([3]float32{-hw, hh, hd}, [3]float32{hw, hh, hd}, [3]float32{hw, hh, -hd}, [3]float32{-hw, hh, -hd}, [3]float32{0, 1, 0})
	addQuad([3]float32{-hw, -hh, -hd}, [3]float32{hw, -hh, -hd}, [3]float32{hw, -hh, hd}, [3]float32{-hw, -hh, hd}, [3]float32{0, -1, 0})
	return m
}

// GenCylinder returns a closed cylinder centered at the origin, axis along Y.
// slices <= 0 falls back to the default resolution.
func GenCylinder(radius, height float32, slices int) Mesh {
	if slices <= 0 {
		slices = defaultCylinderSlices
	}
	hh := height / 2
	var m Mesh
	// Side rings: slices+1 columns so the seam has distinct texture-less verts.
	for i := 0; i <= slices; i++ {
		a := 2 * math32.Pi * float32(i) / float32(slices)
		c, s := math32.Cos(a), math32.Sin(a)
		m.Positions = append(m.Positions, radius*c, -hh, radius*s, radius*c, hh, radius*s)
		m.Normals = append(m.Normals, c, 0, s, c, 0, s)
	}
	for i := 0; i < slices; i++ {
		b := uint32(i * 2)
		m.Indices = append(m.Indices, b, b+1, b+3, b, b+3, b+2)
	}
	// Caps: center fan.
	capStart := uint32(m.VertexCount())
	m.Positions = append(m.Positions, 0, hh, 0)
	m.Normals = append(m.Normals, 0, 1, 0)
	for i := 0; i <= slices; i++ {
		a := 2 * math32.Pi * float32(i) / float32(slices)
		m.Positions = append(m.Positions, radius*math32.Cos(a), hh, radius*math32.Sin(a))
		m.Normals = append(m.Normals, 0, 1, 0)
	}
	for i := 0; i < slices; i++ {
		m.Indices = append(m.Indices, capStart, capStart+1+uint32(i)+1, capStart+1+uint32(i))
	}
	capStart = uint32(m.VertexCount())
	m.Positions = append(m.Positions, 0, -hh, 0)
	m.Normals = append(m.Normals, 0, -1, 0)
	for i := 0; i <= slices; i++ {
		a := 2 * math32.Pi * float32(i) / float32(slices)
		m.Positions = append(m.Positions, radius*math32.Cos(a), -hh, radius*math32.Sin(a))
		m.Normals = append(m.Normals, 0, -1, 0)
	}
	for i := 0; i < slices; i++ {
		m.Indices = append(m.Indices, capStart, capStart+1+uint32(i), capStart+1+uint32(i)+1)
	}
	return m
}

// GenSphere returns a UV sphere centered at the origin. rings/slices <= 0 fall
// back to the default resolution.
func GenSphere(radius float32, rings, slices int) Mesh {
	if rings <= 0 {
		rings = defaultSphereRings
	}
	if slices <= 0 {
		slices = defaultSphereSlices
	}
	var m Mesh
	for r := 0; r <= rings; r++ {
		phi := math32.Pi * float32(r) / float32(rings)
		y := math32.Cos(phi)
		rad := math32.Sin(phi)
		for s := 0; s <= slices; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(slices)
			nx := rad * math32.Cos(theta)
			nz := rad * math32.Sin(theta)
			m.Positions = append(m.Positions, radius*nx, radius*y, radius*nz)
			m.Normals = append(m.Normals, nx, y, nz)
		}
	}
	cols := slices + 1
	for r := 0; r < rings; r++ {
		for s := 0; s < slices; s++ {
			a := uint32(r*cols + s)
			b := a + uint32(cols)
			m.Indices = append(m.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return m
}
