package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"castle/internal/castle"
)

// ModelMatrix is the node's local transform:
// translate(Position) * Basis * rotateY(Yaw) * scale(Scale).
func ModelMatrix(n *castle.Node) mgl32.Mat4 {
	b := n.Basis
	if b.IsZero() {
		b = castle.IdentityBasis()
	}
	basis := mgl32.Mat4{
		float32(b.Right.X), float32(b.Right.Y), float32(b.Right.Z), 0,
		float32(b.Up.X), float32(b.Up.Y), float32(b.Up.Z), 0,
		float32(b.Forward.X), float32(b.Forward.Y), float32(b.Forward.Z), 0,
		0, 0, 0, 1,
	}
	t := mgl32.Translate3D(float32(n.Position.X), float32(n.Position.Y), float32(n.Position.Z))
	s := mgl32.Scale3D(float32(n.Scale.X), float32(n.Scale.Y), float32(n.Scale.Z))
	return t.Mul4(basis).Mul4(mgl32.HomogRotate3DY(float32(n.Yaw))).Mul4(s)
}

// Walk visits every node with its world matrix. Returning false prunes the subtree.
func Walk(root *castle.Node, fn func(n *castle.Node, world mgl32.Mat4) bool) {
	walk(root, mgl32.Ident4(), fn)
}

func walk(n *castle.Node, parent mgl32.Mat4, fn func(*castle.Node, mgl32.Mat4) bool) {
	if n == nil {
		return
	}
	world := parent.Mul4(ModelMatrix(n))
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		walk(c, world, fn)
	}
}

// View returns the camera's view matrix. The camera looks down -Z before yaw.
func View(c *castle.Camera) mgl32.Mat4 {
	rot := mgl32.HomogRotate3DY(float32(-c.Yaw))
	return rot.Mul4(mgl32.Translate3D(float32(-c.Position.X), float32(-c.Position.Y), float32(-c.Position.Z)))
}

// Projection returns the perspective projection for c.
func Projection(c *castle.Camera) mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(float32(c.FOV)), float32(aspect), float32(c.Near), float32(c.Far))
}

// PointScale converts a world-space sprite size into pixels at unit distance
// for a framebuffer of the given height.
func PointScale(c *castle.Camera, fbHeight int) float32 {
	half := math.Tan(float64(mgl32.DegToRad(float32(c.FOV))) / 2)
	if half <= 0 {
		return 1
	}
	return float32(float64(fbHeight) / (2 * half))
}
