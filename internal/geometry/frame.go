package geometry

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"castle/internal/castle"
)

// Draw is one mesh with its resolved world transform.
type Draw struct {
	Mesh  *castle.Mesh
	World mgl32.Mat4
	Depth float32 // view-space distance of the mesh origin
}

type PointLight struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Range    float32
}

// SpriteBatch is a particle field and the world matrix of the node holding it.
type SpriteBatch struct {
	Field *castle.ParticleField
	World mgl32.Mat4
}

// Frame is everything a renderer needs for one scene draw, flattened out of
// the node tree.
type Frame struct {
	View, Proj mgl32.Mat4

	Ambient  mgl32.Vec3
	SunDir   mgl32.Vec3
	SunColor mgl32.Vec3
	Points   []PointLight
	// Dropped counts point lights beyond the renderer's limit.
	Dropped int

	Opaque      []Draw
	Transparent []Draw // sorted far to near
	Sprites     []SpriteBatch

	FogColor   mgl32.Vec3
	FogDensity float32
}

func color(c castle.RGB, k float64) mgl32.Vec3 {
	r, g, b := c.Floats()
	return mgl32.Vec3{r, g, b}.Mul(float32(k))
}

// BuildFrame walks the scene once. maxPoints bounds the point lights kept;
// zero or less keeps all of them.
func BuildFrame(sc *castle.Scene, maxPoints int) Frame {
	f := Frame{
		View: View(sc.Camera),
		Proj: Projection(sc.Camera),
	}
	if sc.Fog != nil {
		f.FogColor = color(sc.Fog.Color, 1)
		f.FogDensity = float32(sc.Fog.Density)
	}

	Walk(sc.Root, func(n *castle.Node, world mgl32.Mat4) bool {
		origin := world.Col(3).Vec3()
		if l := n.Light; l != nil {
			switch l.Kind {
			case castle.LightAmbient:
				f.Ambient = f.Ambient.Add(color(l.Color, l.Intensity))
			case castle.LightDirectional:
				if origin.Len() > 0 {
					f.SunDir = origin.Normalize()
				}
				f.SunColor = color(l.Color, l.Intensity)
			case castle.LightPoint:
				if maxPoints > 0 && len(f.Points) >= maxPoints {
					f.Dropped++
					break
				}
				f.Points = append(f.Points, PointLight{
					Position: origin,
					Color:    color(l.Color, l.Intensity),
					Range:    float32(l.Range),
				})
			}
		}
		if n.Mesh != nil && n.Mesh.Material != nil {
			d := Draw{Mesh: n.Mesh, World: world, Depth: -f.View.Mul4x1(origin.Vec4(1)).Z()}
			if n.Mesh.Material.Opacity < 1 {
				f.Transparent = append(f.Transparent, d)
			} else {
				f.Opaque = append(f.Opaque, d)
			}
		}
		if n.Particles != nil {
			f.Sprites = append(f.Sprites, SpriteBatch{Field: n.Particles, World: world})
		}
		return true
	})

	sort.SliceStable(f.Transparent, func(i, j int) bool {
		return f.Transparent[i].Depth > f.Transparent[j].Depth
	})
	return f
}
