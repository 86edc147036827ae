package castle

import (
	"math"

	"github.com/golang/geo/r3"
)

// Face indexes the six sides of a block footprint.
type Face uint8

const (
	FaceFront  Face = iota // +Z
	FaceBack               // -Z
	FaceLeft               // -X
	FaceRight              // +X
	FaceTop                // +Y
	FaceBottom             // -Y
	faceCount
)

type DecorationKind uint8

const (
	DecorWindow DecorationKind = iota
	DecorStairs
	DecorBalcony
	DecorRoofOrnament
)

func (k DecorationKind) String() string {
	switch k {
	case DecorWindow:
		return "window"
	case DecorStairs:
		return "stairs"
	case DecorBalcony:
		return "balcony"
	case DecorRoofOrnament:
		return "roof-ornament"
	default:
		return "unknown"
	}
}

// Decoration is attached to one building block. Only the fields for its Kind are set.
type Decoration struct {
	Kind     DecorationKind
	Face     Face      // window
	Local    r3.Vector // window, block-local
	Levels   int       // stairs
	WithRail bool      // balcony
}

// BuildingBlock is one generated structure unit. Geometry is fixed after generation.
type BuildingBlock struct {
	Cell         [2]int
	Position     r3.Vector // cell centre, layer-local
	Footprint    r3.Vector // outer shell extents
	Cavity       r3.Vector // inner cavity extents
	CavityOffset r3.Vector
	Decorations  []Decoration
}

// Windows returns the number of window decorations.
func (b *BuildingBlock) Windows() int {
	n := 0
	for _, d := range b.Decorations {
		if d.Kind == DecorWindow {
			n++
		}
	}
	return n
}

// Has reports whether the block carries at least one decoration of kind k.
func (b *BuildingBlock) Has(k DecorationKind) bool {
	for _, d := range b.Decorations {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// StructureLayer is one horizontal slice of the castle.
type StructureLayer struct {
	Depth      int
	Scale      float64
	Complexity float64
	Blocks     []BuildingBlock
}

// Offset is the layer's translation in the scene.
func (l *StructureLayer) Offset() r3.Vector {
	return r3.Vector{Y: float64(l.Depth * LevelHeight)}
}

// WorldPosition maps a layer-local point into scene space.
func (l *StructureLayer) WorldPosition(local r3.Vector) r3.Vector {
	return local.Mul(l.Scale).Add(l.Offset())
}

// decorationRule attaches one optional decoration. The roll and the
// decoration's parameters are always drawn, even when the rule is rejected,
// so the stream position after a block does not depend on complexity.
type decorationRule struct {
	kind   DecorationKind
	chance float64
	gate   float64 // complexity must be strictly above; negative = ungated
	build  func(r *Rand) Decoration
}

var decorationRules = []decorationRule{
	{
		kind:   DecorStairs,
		chance: 0.5,
		gate:   0.5,
		build: func(r *Rand) Decoration {
			return Decoration{Kind: DecorStairs, Levels: r.Range(MinStairLevels, MaxStairLevels)}
		},
	},
	{
		kind:   DecorBalcony,
		chance: 0.4,
		gate:   0.3,
		build: func(r *Rand) Decoration {
			return Decoration{Kind: DecorBalcony, WithRail: true}
		},
	},
	{
		kind:   DecorRoofOrnament,
		chance: 0.3,
		gate:   -1,
		build: func(r *Rand) Decoration {
			return Decoration{Kind: DecorRoofOrnament}
		},
	},
}

// GenerateLayer builds a G×G grid of randomized blocks. It is a pure function
// of its arguments and the stream position of r.
func GenerateLayer(depth int, scale, complexity float64, r *Rand) *StructureLayer {
	if depth < 0 {
		depth = 0
	}
	if scale <= 0 || math.IsNaN(scale) {
		scale = epsilon
	}
	if math.IsNaN(complexity) {
		complexity = 0
	}
	complexity = clampF(complexity, 0, 1)

	layer := &StructureLayer{
		Depth:      depth,
		Scale:      scale,
		Complexity: complexity,
		Blocks:     make([]BuildingBlock, 0, BlocksInLayer),
	}
	half := float64(LayerGrid-1) * CellSpacing / 2
	for i := 0; i < LayerGrid; i++ {
		for j := 0; j < LayerGrid; j++ {
			b := generateBlock(r, complexity)
			b.Cell = [2]int{i, j}
			b.Position = r3.Vector{X: float64(i*CellSpacing) - half, Z: float64(j*CellSpacing) - half}
			layer.Blocks = append(layer.Blocks, b)
		}
	}
	return layer
}

func drawExtents(r *Rand, min, span [3]float64) r3.Vector {
	return r3.Vector{
		X: min[0] + r.Float64()*span[0],
		Y: min[1] + r.Float64()*span[1],
		Z: min[2] + r.Float64()*span[2],
	}
}

func generateBlock(r *Rand, complexity float64) BuildingBlock {
	fp := drawExtents(r, FootprintMin, FootprintRange)
	cav := drawExtents(r, CavityMin, CavityRange)

	// Keep the cavity inside the shell so every block stays a closed hollow box.
	lift := CavityLift
	cav.X = math.Min(cav.X, fp.X-2*ShellWall)
	cav.Z = math.Min(cav.Z, fp.Z-2*ShellWall)
	cav.Y = math.Min(cav.Y, fp.Y-2*ShellWall)
	if maxLift := (fp.Y-cav.Y)/2 - ShellWall; lift > maxLift {
		lift = math.Max(0, maxLift)
	}

	b := BuildingBlock{
		Footprint:    fp,
		Cavity:       cav,
		CavityOffset: r3.Vector{Y: lift},
	}

	windows := MinWindows + r.Intn(MaxWindows-MinWindows+1)
	b.Decorations = make([]Decoration, 0, windows+len(decorationRules))
	for w := 0; w < windows; w++ {
		b.Decorations = append(b.Decorations, drawWindow(r, fp))
	}

	for _, rule := range decorationRules {
		roll := r.Float64()
		d := rule.build(r)
		if roll < rule.chance && complexity > rule.gate {
			b.Decorations = append(b.Decorations, d)
		}
	}
	return b
}

// drawWindow picks a face and a point on it. The three coordinate draws happen
// regardless of face; the face's own axis is then snapped onto the shell.
func drawWindow(r *Rand, fp r3.Vector) Decoration {
	face := Face(r.Intn(int(faceCount)))
	p := r3.Vector{
		X: r.Centered(fp.X),
		Y: r.Centered(fp.Y),
		Z: r.Centered(fp.Z),
	}
	switch face {
	case FaceFront:
		p.Z = fp.Z / 2
	case FaceBack:
		p.Z = -fp.Z / 2
	case FaceLeft:
		p.X = -fp.X / 2
	case FaceRight:
		p.X = fp.X / 2
	case FaceTop:
		p.Y = fp.Y / 2
	case FaceBottom:
		p.Y = -fp.Y / 2
	}
	return Decoration{Kind: DecorWindow, Face: face, Local: p}
}
