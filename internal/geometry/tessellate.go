package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"

	"castle/internal/castle"
)

// Stride is the number of floats per vertex: position then normal.
const Stride = 6

type Primitive uint8

const (
	Triangles Primitive = iota
	Lines
)

// Buffer is an interleaved vertex stream ready for upload.
type Buffer struct {
	Vertices []float32
	Mode     Primitive
}

// Count is the number of vertices in the buffer.
func (b Buffer) Count() int { return len(b.Vertices) / Stride }

// Tessellate expands a geometry descriptor into triangles (or a line for GeomLine).
// All solids are centred on the origin.
func Tessellate(g castle.Geometry) Buffer {
	var v []float32
	switch g.Kind {
	case castle.GeomBox:
		v = box(v, vec(g.Size), mgl32.Vec3{}, false)
	case castle.GeomShellBox:
		v = box(v, vec(g.Size), mgl32.Vec3{}, false)
		v = box(v, vec(g.Inner), vec(g.InnerOff), true)
	case castle.GeomCone:
		v = cone(v, float32(g.Size.X), 0, float32(g.Size.Y), segments(g.Segments, 3))
	case castle.GeomCylinder:
		r := float32(g.Size.X)
		v = cone(v, r, r, float32(g.Size.Y), segments(g.Segments, 3))
	case castle.GeomSphere:
		v = sphere(v, float32(g.Size.X), segments(g.Segments, 4))
	case castle.GeomLine:
		a, b := vec(g.Size), vec(g.End)
		d := b.Sub(a)
		if d.Len() > 0 {
			d = d.Normalize()
		}
		v = append(v, a[0], a[1], a[2], d[0], d[1], d[2], b[0], b[1], b[2], d[0], d[1], d[2])
		return Buffer{Vertices: v, Mode: Lines}
	}
	return Buffer{Vertices: v, Mode: Triangles}
}

func vec(v r3.Vector) mgl32.Vec3 { return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)} }

func segments(n, min int) int {
	if n < min {
		return min
	}
	return n
}

func put(v []float32, p, n mgl32.Vec3) []float32 {
	return append(v, p[0], p[1], p[2], n[0], n[1], n[2])
}

// box appends the 12 triangles of an axis-aligned box. inward flips normals
// and winding so the box reads as a cavity.
func box(v []float32, size, off mgl32.Vec3, inward bool) []float32 {
	h := size.Mul(0.5)
	faces := []struct {
		n    mgl32.Vec3
		u, w mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	for _, f := range faces {
		c := mul(f.n, h)
		u := mul(f.u, h)
		w := mul(f.w, h)
		p00 := off.Add(c).Sub(u).Sub(w)
		p10 := off.Add(c).Add(u).Sub(w)
		p11 := off.Add(c).Add(u).Add(w)
		p01 := off.Add(c).Sub(u).Add(w)
		n := f.n
		if inward {
			n = n.Mul(-1)
			v = tri(v, n, p00, p11, p10)
			v = tri(v, n, p00, p01, p11)
			continue
		}
		v = tri(v, n, p00, p10, p11)
		v = tri(v, n, p00, p11, p01)
	}
	return v
}

func tri(v []float32, n, a, b, c mgl32.Vec3) []float32 {
	v = put(v, a, n)
	v = put(v, b, n)
	return put(v, c, n)
}

// mul is the component-wise product.
func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// cone appends a frustum from rBottom at -h/2 to rTop at +h/2 with end caps.
// rTop == 0 gives a cone.
func cone(v []float32, rBottom, rTop, h float32, seg int) []float32 {
	if h <= 0 {
		h = 1e-4
	}
	y0, y1 := -h/2, h/2
	slope := (rBottom - rTop) / h
	ring := func(i int) (float32, float32) {
		a := 2 * math.Pi * float64(i) / float64(seg)
		return float32(math.Cos(a)), float32(math.Sin(a))
	}
	for i := 0; i < seg; i++ {
		c0, s0 := ring(i)
		c1, s1 := ring(i + 1)
		n0 := mgl32.Vec3{c0, slope, s0}.Normalize()
		n1 := mgl32.Vec3{c1, slope, s1}.Normalize()
		b0 := mgl32.Vec3{c0 * rBottom, y0, s0 * rBottom}
		b1 := mgl32.Vec3{c1 * rBottom, y0, s1 * rBottom}
		t0 := mgl32.Vec3{c0 * rTop, y1, s0 * rTop}
		t1 := mgl32.Vec3{c1 * rTop, y1, s1 * rTop}

		v = put(v, b0, n0)
		v = put(v, t0, n0)
		v = put(v, b1, n1)
		if rTop > 0 {
			v = put(v, b1, n1)
			v = put(v, t0, n0)
			v = put(v, t1, n1)
			v = tri(v, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, y1, 0}, t1, t0)
		}
		v = tri(v, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, y0, 0}, b0, b1)
	}
	return v
}

// sphere appends a UV sphere with seg slices and seg/2 stacks.
func sphere(v []float32, r float32, seg int) []float32 {
	stacks := seg / 2
	if stacks < 2 {
		stacks = 2
	}
	at := func(i, j int) mgl32.Vec3 {
		th := math.Pi * float64(j) / float64(stacks)
		ph := 2 * math.Pi * float64(i) / float64(seg)
		return mgl32.Vec3{
			float32(math.Sin(th) * math.Cos(ph)),
			float32(math.Cos(th)),
			float32(math.Sin(th) * math.Sin(ph)),
		}
	}
	for j := 0; j < stacks; j++ {
		for i := 0; i < seg; i++ {
			a, b := at(i, j), at(i+1, j)
			c, d := at(i, j+1), at(i+1, j+1)
			v = put(v, a.Mul(r), a)
			v = put(v, d.Mul(r), d)
			v = put(v, c.Mul(r), c)
			v = put(v, a.Mul(r), a)
			v = put(v, b.Mul(r), b)
			v = put(v, d.Mul(r), d)
		}
	}
	return v
}
