package castle

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Decoration mesh sizes.
var (
	windowBox    = BoxGeometry(0.5, 1, 0.5)
	stairBox     = BoxGeometry(0.5, StairRise, 0.5)
	balconyBox   = BoxGeometry(1.5, 0.2, 0.3)
	balconyRail  = BoxGeometry(1.5, 0.1, 0.1)
	ornamentCone = ConeGeometry(0.3, 0.5, OrnamentSegment)
	lanternBox   = BoxGeometry(0.3, 0.3, 0.3)
	lanternHalo  = SphereGeometry(0.5, 16)
	houseBody    = BoxGeometry(2, 2, 2)
	houseRoof    = ConeGeometry(1.5, 1, 4)
	houseDoor    = BoxGeometry(0.5, 1, 0.1)
	houseWindow  = BoxGeometry(0.5, 0.5, 0.1)
	houseChimney = BoxGeometry(0.4, 0.8, 0.4)
)

const stairBaseline = 1.0

// layerNode realises a generated layer. Every block material is registered as
// theme-responsive and starts in the colour c.
func layerNode(l *StructureLayer, c RGB, reg *ThemeRegistry) *Node {
	n := NewNode(NodeLayer, fmt.Sprintf("layer-%d", l.Depth))
	n.Position = l.Offset()
	n.Scale = r3.Vector{X: l.Scale, Y: l.Scale, Z: l.Scale}

	for i := range l.Blocks {
		n.Add(blockNode(&l.Blocks[i], c, reg))
	}
	return n
}

func blockNode(b *BuildingBlock, c RGB, reg *ThemeRegistry) *Node {
	n := NewNode(NodeBlock, fmt.Sprintf("block-%d-%d", b.Cell[0], b.Cell[1]))
	n.Position = b.Position

	mats := make([]*Material, 0, 4)
	responsive := func(m *Material) *Material {
		mats = append(mats, m)
		return m
	}

	shell := standardMaterial(c, 0.8)
	shell.Metalness = 0.3
	n.Add(newMeshNode("building", Geometry{
		Kind:     GeomShellBox,
		Size:     b.Footprint,
		Inner:    b.Cavity,
		InnerOff: b.CavityOffset,
	}, responsive(shell), r3.Vector{}))

	// Windows share one material per block.
	var glass *Material
	for _, d := range b.Decorations {
		switch d.Kind {
		case DecorWindow:
			if glass == nil {
				glass = responsive(glowingMaterial(c, 0.5))
				glass.Opacity = 0.8
			}
			w := newMeshNode("window", windowBox, glass, d.Local)
			if d.Face == FaceLeft || d.Face == FaceRight {
				w.Yaw = halfPi
			}
			n.Add(w)
		case DecorStairs:
			m := responsive(standardMaterial(c, 0.7))
			for s := 0; s < d.Levels; s++ {
				n.Add(newMeshNode("stair", stairBox, m, r3.Vector{Y: stairBaseline + float64(s)*StairRise}))
			}
		case DecorBalcony:
			n.Add(newMeshNode("balcony", balconyBox, responsive(standardMaterial(c, 0.8)), r3.Vector{Y: BalconyHeight}))
			if d.WithRail {
				n.Add(newMeshNode("balcony-rail", balconyRail, responsive(standardMaterial(c, 0.7)),
					r3.Vector{Y: BalconyHeight + 0.05, Z: 0.15}))
			}
		case DecorRoofOrnament:
			n.Add(newMeshNode("ornament", ornamentCone, responsive(glowingMaterial(c, 0.3)), r3.Vector{Y: OrnamentHeight}))
		}
	}
	if reg != nil {
		reg.RegisterResponsive(mats...)
	}
	return n
}

// bridgeNode places the span and both rails at the bridge midpoint.
func bridgeNode(b Bridge, idx int) *Node {
	n := NewNode(NodeBridge, fmt.Sprintf("bridge-%d", idx))
	n.Position = b.Midpoint
	n.Basis = b.Orientation

	span := standardMaterial(Palette.BridgeSpan, 0.8)
	span.Metalness = 0.3
	rail := standardMaterial(Palette.BridgeRail, 0.7)

	n.Add(newMeshNode("span", BoxGeometry(BridgeWidth, BridgeThickness, b.Length), span, r3.Vector{}))
	for i, off := range b.Rails {
		// Rail offsets are in scene space; the node is rotated by the bridge basis.
		local := r3.Vector{
			X: off.Dot(b.Orientation.Right),
			Y: off.Dot(b.Orientation.Up) + (BridgeThickness+RailHeight)/2,
			Z: off.Dot(b.Orientation.Forward),
		}
		n.Add(newMeshNode(fmt.Sprintf("rail-%d", i), BoxGeometry(RailWidth, RailHeight, b.Length), rail, local))
	}
	return n
}

// houseNode builds one small cottage. House materials keep their own colours.
func houseNode(idx int) *Node {
	n := NewNode(NodeHouse, fmt.Sprintf("house-%d", idx))
	n.Add(
		newMeshNode("body", houseBody, standardMaterial(Palette.HouseBody, 1), r3.Vector{}),
		newMeshNode("roof", houseRoof, standardMaterial(Palette.HouseRoof, 1), r3.Vector{Y: 1.5}),
		newMeshNode("door", houseDoor, standardMaterial(Palette.HouseDoor, 1), r3.Vector{Y: -0.5, Z: 1.01}),
	)
	glass := standardMaterial(Palette.HouseWindow, 1)
	n.Add(
		newMeshNode("window", houseWindow, glass, r3.Vector{X: -0.5, Y: 0.2, Z: 1.01}),
		newMeshNode("window", houseWindow, glass, r3.Vector{X: 0.5, Y: 0.2, Z: 1.01}),
		newMeshNode("chimney", houseChimney, standardMaterial(Palette.Chimney, 1), r3.Vector{X: 0.8, Y: 1.9, Z: -0.5}),
	)
	return n
}

// Lantern is a glowing cube with a halo that bobs around its anchor.
type Lantern struct {
	Node   *Node
	Halo   *Node
	Anchor r3.Vector
	Speed  float64
	Phase  float64
}

func newLantern(idx int, pos r3.Vector, speed float64, c RGB, reg *ThemeRegistry) *Lantern {
	body := glowingMaterial(c, 0.8)
	body.Roughness = 0.2
	if reg != nil {
		reg.RegisterResponsive(body)
	}
	halo := &Material{Color: c, Opacity: 0.3, Unlit: true, BackSide: true}

	l := &Lantern{Anchor: pos, Speed: speed, Phase: float64(idx) * 7.31}
	l.Node = newMeshNode(fmt.Sprintf("lantern-%d", idx), lanternBox, body, pos)
	l.Node.Kind = NodeLantern
	l.Halo = newMeshNode(fmt.Sprintf("lantern-halo-%d", idx), lanternHalo, halo, pos)
	return l
}

// place moves the lantern and its halo together.
func (l *Lantern) place(p r3.Vector) {
	l.Node.Position = p
	l.Halo.Position = p
}
