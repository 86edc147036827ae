package castle

import "github.com/golang/geo/r3"

type GeometryKind uint8

const (
	GeomBox GeometryKind = iota
	GeomShellBox
	GeomCone
	GeomCylinder
	GeomSphere
	GeomLine
)

// Geometry describes a primitive by value. The renderer owns the GPU side and
// may share one buffer between equal descriptors.
type Geometry struct {
	Kind     GeometryKind
	Size     r3.Vector // box extents; cone/cylinder: X=radius, Y=height; sphere: X=radius
	Inner    r3.Vector // shell cavity extents
	InnerOff r3.Vector // shell cavity offset from the shell centre
	Segments int       // radial segments for cone/cylinder/sphere
	End      r3.Vector // line end point, Size doubles as the start
}

func BoxGeometry(w, h, d float64) Geometry {
	return Geometry{Kind: GeomBox, Size: r3.Vector{X: w, Y: h, Z: d}}
}

func ConeGeometry(radius, height float64, segments int) Geometry {
	return Geometry{Kind: GeomCone, Size: r3.Vector{X: radius, Y: height}, Segments: segments}
}

func SphereGeometry(radius float64, segments int) Geometry {
	return Geometry{Kind: GeomSphere, Size: r3.Vector{X: radius}, Segments: segments}
}

// Material is a mutable appearance handle. Theme transitions write Color and
// Emissive on materials that were registered as theme-responsive.
type Material struct {
	Color             RGB
	Emissive          RGB
	EmissiveIntensity float64
	Opacity           float64 // 1 = opaque
	Roughness         float64
	Metalness         float64
	Unlit             bool // basic material: ignores lights
	BackSide          bool
}

func standardMaterial(col RGB, roughness float64) *Material {
	return &Material{Color: col, Opacity: 1, Roughness: roughness, EmissiveIntensity: 1}
}

func glowingMaterial(col RGB, intensity float64) *Material {
	return &Material{Color: col, Emissive: col, EmissiveIntensity: intensity, Opacity: 1, Roughness: 1}
}

type Mesh struct {
	Geometry Geometry
	Material *Material
}

type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
)

type Light struct {
	Kind      LightKind
	Color     RGB
	Intensity float64
	Range     float64 // point lights only; 0 = unbounded
}

// Fog is exponential-squared fog.
type Fog struct {
	Color   RGB
	Density float64
}

type NodeKind uint8

const (
	NodeGroup NodeKind = iota
	NodeLayer
	NodeBlock
	NodeMesh
	NodeBridge
	NodeLight
	NodeParticles
	NodeHouse
	NodeLantern
)

// Node is one element of the transform hierarchy handed to the renderer.
// Local transform: translate(Position) * Basis * rotateY(Yaw) * scale(Scale).
type Node struct {
	Name     string
	Kind     NodeKind
	Position r3.Vector
	Basis    Basis
	Yaw      float64
	Scale    r3.Vector
	Children []*Node

	Mesh      *Mesh
	Light     *Light
	Particles *ParticleField
}

func NewNode(kind NodeKind, name string) *Node {
	return &Node{
		Name:  name,
		Kind:  kind,
		Basis: IdentityBasis(),
		Scale: r3.Vector{X: 1, Y: 1, Z: 1},
	}
}

func newMeshNode(name string, g Geometry, m *Material, pos r3.Vector) *Node {
	n := NewNode(NodeMesh, name)
	n.Mesh = &Mesh{Geometry: g, Material: m}
	n.Position = pos
	return n
}

func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Walk visits n and its descendants depth-first; returning false prunes the subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes of the given kind in the subtree.
func (n *Node) Count(kind NodeKind) int {
	total := 0
	n.Walk(func(c *Node) bool {
		if c.Kind == kind {
			total++
		}
		return true
	})
	return total
}

// Camera is a perspective camera looking down -Z before its yaw is applied.
type Camera struct {
	Position r3.Vector
	Yaw      float64
	FOV      float64 // vertical, degrees
	Near     float64
	Far      float64
	Aspect   float64
}

func NewCamera(aspect float64) *Camera {
	if aspect <= 0 {
		aspect = 4.0 / 3.0
	}
	return &Camera{
		Position: r3.Vector{Z: CameraStartZ},
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Aspect:   aspect,
	}
}
