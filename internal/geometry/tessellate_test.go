package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castle/internal/castle"
)

func normals(b Buffer) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, b.Count())
	for i := 0; i+Stride <= len(b.Vertices); i += Stride {
		v := b.Vertices[i:]
		out = append(out, mgl32.Vec3{v[3], v[4], v[5]})
	}
	return out
}

func TestTessellateCounts(t *testing.T) {
	tests := []struct {
		name string
		g    castle.Geometry
		want int
	}{
		{"box", castle.BoxGeometry(1, 2, 3), 36},
		{"shell", castle.Geometry{Kind: castle.GeomShellBox, Size: r3.Vector{X: 2, Y: 2, Z: 2}, Inner: r3.Vector{X: 1, Y: 1, Z: 1}}, 72},
		{"cone", castle.ConeGeometry(0.3, 0.5, 8), 8 * 6},
		{"cylinder", castle.Geometry{Kind: castle.GeomCylinder, Size: r3.Vector{X: 1, Y: 2}, Segments: 6}, 6 * 12},
		{"sphere", castle.SphereGeometry(0.5, 16), 16 * 8 * 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Tessellate(tt.g)
			assert.Equal(t, Triangles, b.Mode)
			assert.Equal(t, tt.want, b.Count())
			for _, n := range normals(b) {
				assert.InDelta(t, 1, n.Len(), 1e-4)
			}
		})
	}
}

func TestTessellateClampsSegments(t *testing.T) {
	b := Tessellate(castle.ConeGeometry(1, 1, 0))
	assert.Equal(t, 3*6, b.Count())
}

func TestBoxExtents(t *testing.T) {
	b := Tessellate(castle.BoxGeometry(2, 4, 6))
	for i := 0; i < len(b.Vertices); i += Stride {
		assert.InDelta(t, 1, math.Abs(float64(b.Vertices[i])), 1e-6)
		assert.InDelta(t, 2, math.Abs(float64(b.Vertices[i+1])), 1e-6)
		assert.InDelta(t, 3, math.Abs(float64(b.Vertices[i+2])), 1e-6)
	}
}

func TestShellCavityFacesInward(t *testing.T) {
	g := castle.Geometry{
		Kind:     castle.GeomShellBox,
		Size:     r3.Vector{X: 4, Y: 4, Z: 4},
		Inner:    r3.Vector{X: 2, Y: 2, Z: 2},
		InnerOff: r3.Vector{Y: 0.5},
	}
	b := Tessellate(g)
	require.Equal(t, 72, b.Count())
	off := mgl32.Vec3{0, 0.5, 0}
	// The second half of the buffer is the cavity: normals point at its centre.
	for i := 36 * Stride; i < len(b.Vertices); i += Stride {
		v := b.Vertices[i:]
		p := mgl32.Vec3{v[0], v[1], v[2]}
		n := mgl32.Vec3{v[3], v[4], v[5]}
		assert.Less(t, n.Dot(p.Sub(off)), float32(0))
	}
}

func TestLine(t *testing.T) {
	g := castle.Geometry{Kind: castle.GeomLine, Size: r3.Vector{}, End: r3.Vector{X: 3}}
	b := Tessellate(g)
	assert.Equal(t, Lines, b.Mode)
	assert.Equal(t, 2, b.Count())
	assert.Equal(t, float32(3), b.Vertices[Stride])
}

func TestModelMatrix(t *testing.T) {
	n := castle.NewNode(castle.NodeMesh, "m")
	n.Position = r3.Vector{X: 1, Y: 2, Z: 3}
	n.Scale = r3.Vector{X: 2, Y: 2, Z: 2}
	n.Yaw = math.Pi / 2

	p := ModelMatrix(n).Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	// Scaled to 2 along X, yawed onto -Z, then translated.
	assert.InDelta(t, 1, p[0], 1e-5)
	assert.InDelta(t, 2, p[1], 1e-5)
	assert.InDelta(t, 1, p[2], 1e-5)
}

func TestWalkComposesParents(t *testing.T) {
	root := castle.NewNode(castle.NodeGroup, "root")
	root.Position = r3.Vector{Y: 10}
	child := castle.NewNode(castle.NodeMesh, "child")
	child.Position = r3.Vector{X: 1}
	root.Add(child)

	seen := map[string]mgl32.Vec3{}
	Walk(root, func(n *castle.Node, world mgl32.Mat4) bool {
		seen[n.Name] = world.Col(3).Vec3()
		return true
	})
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, seen["root"])
	assert.Equal(t, mgl32.Vec3{1, 10, 0}, seen["child"])

	visited := 0
	Walk(root, func(*castle.Node, mgl32.Mat4) bool { visited++; return false })
	assert.Equal(t, 1, visited)
}

func TestViewAndProjection(t *testing.T) {
	cam := castle.NewCamera(2)
	cam.Position = r3.Vector{Z: 5}

	p := View(cam).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -5, p[2], 1e-5)

	clip := Projection(cam).Mul4x1(p)
	assert.InDelta(t, 0, clip[0]/clip[3], 1e-5)
	assert.Greater(t, clip[3], float32(0))

	assert.Greater(t, PointScale(cam, 800), float32(0))
}
