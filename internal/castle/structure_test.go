package castle

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLayerGrid(t *testing.T) {
	l := GenerateLayer(3, 1.6, 0.45, NewRand(7))
	require.Len(t, l.Blocks, BlocksInLayer)
	assert.Equal(t, 3, l.Depth)
	assert.Equal(t, 30.0, l.Offset().Y)

	seen := map[[2]int]bool{}
	for _, b := range l.Blocks {
		seen[b.Cell] = true
		assert.Equal(t, float64(b.Cell[0]*CellSpacing-8), b.Position.X)
		assert.Equal(t, float64(b.Cell[1]*CellSpacing-8), b.Position.Z)
		assert.Zero(t, b.Position.Y)
	}
	assert.Len(t, seen, BlocksInLayer)
}

func TestGenerateLayerBlockBounds(t *testing.T) {
	for seed := uint64(1); seed <= 40; seed++ {
		l := GenerateLayer(int(seed%5), 1, 0.8, NewRand(seed))
		for _, b := range l.Blocks {
			fp := b.Footprint
			assert.True(t, fp.X >= 2 && fp.X <= 4, "width %v", fp.X)
			assert.True(t, fp.Y >= 4 && fp.Y <= 8, "height %v", fp.Y)
			assert.True(t, fp.Z >= 2 && fp.Z <= 4, "depth %v", fp.Z)

			// cavity stays inside the shell
			assert.LessOrEqual(t, b.Cavity.X, fp.X-2*ShellWall+1e-9)
			assert.LessOrEqual(t, b.Cavity.Z, fp.Z-2*ShellWall+1e-9)
			assert.LessOrEqual(t, b.CavityOffset.Y+b.Cavity.Y/2, fp.Y/2-ShellWall+1e-9)
			assert.GreaterOrEqual(t, b.CavityOffset.Y, 0.0)

			n := b.Windows()
			assert.True(t, n >= MinWindows && n <= MaxWindows, "windows %d", n)
			for _, d := range b.Decorations {
				if d.Kind != DecorWindow {
					continue
				}
				assert.LessOrEqual(t, math.Abs(d.Local.X), fp.X/2+1e-9)
				assert.LessOrEqual(t, math.Abs(d.Local.Y), fp.Y/2+1e-9)
				assert.LessOrEqual(t, math.Abs(d.Local.Z), fp.Z/2+1e-9)
				assert.True(t, onFace(d, fp), "window not on face %d: %v", d.Face, d.Local)
			}
			for _, d := range b.Decorations {
				if d.Kind == DecorStairs {
					assert.True(t, d.Levels >= MinStairLevels && d.Levels <= MaxStairLevels)
				}
			}
		}
	}
}

func onFace(d Decoration, fp r3.Vector) bool {
	switch d.Face {
	case FaceFront:
		return d.Local.Z == fp.Z/2
	case FaceBack:
		return d.Local.Z == -fp.Z/2
	case FaceLeft:
		return d.Local.X == -fp.X/2
	case FaceRight:
		return d.Local.X == fp.X/2
	case FaceTop:
		return d.Local.Y == fp.Y/2
	case FaceBottom:
		return d.Local.Y == -fp.Y/2
	}
	return false
}

func TestGenerateLayerDeterministic(t *testing.T) {
	a := GenerateLayer(4, 1.8, 0.5, NewRand(99))
	b := GenerateLayer(4, 1.8, 0.5, NewRand(99))
	assert.Equal(t, a, b)

	c := GenerateLayer(4, 1.8, 0.5, NewRand(100))
	assert.NotEqual(t, a.Blocks, c.Blocks)
}

func TestGenerateLayerComplexityGates(t *testing.T) {
	var stairs, balconies, ornaments int
	for seed := uint64(1); seed <= 20; seed++ {
		for _, b := range GenerateLayer(0, 1, 0, NewRand(seed)).Blocks {
			assert.False(t, b.Has(DecorStairs))
			assert.False(t, b.Has(DecorBalcony))
			if b.Has(DecorRoofOrnament) {
				ornaments++
			}
		}
		for _, b := range GenerateLayer(0, 1, 1, NewRand(seed)).Blocks {
			if b.Has(DecorStairs) {
				stairs++
			}
			if b.Has(DecorBalcony) {
				balconies++
			}
		}
	}
	assert.Positive(t, ornaments, "ornaments are ungated")
	assert.Positive(t, stairs)
	assert.Positive(t, balconies)

	// Between the two gates only balconies can appear.
	for _, b := range GenerateLayer(0, 1, 0.4, NewRand(5)).Blocks {
		assert.False(t, b.Has(DecorStairs))
	}
}

func TestGenerateLayerStreamIndependentOfComplexity(t *testing.T) {
	lo, hi := NewRand(31), NewRand(31)
	GenerateLayer(0, 1, 0, lo)
	GenerateLayer(0, 1, 1, hi)
	assert.Equal(t, lo.NextU64(), hi.NextU64())
}

func TestGenerateLayerClampsInputs(t *testing.T) {
	l := GenerateLayer(-2, 0, 7, NewRand(1))
	assert.Equal(t, 0, l.Depth)
	assert.Positive(t, l.Scale)
	assert.Equal(t, 1.0, l.Complexity)

	l = GenerateLayer(1, -3, -0.5, NewRand(1))
	assert.Positive(t, l.Scale)
	assert.Equal(t, 0.0, l.Complexity)

	l = GenerateLayer(1, math.NaN(), math.NaN(), NewRand(1))
	assert.Positive(t, l.Scale)
	assert.Equal(t, 0.0, l.Complexity)
}

func TestLayerNodeRegistersBlockMaterials(t *testing.T) {
	reg := NewThemeRegistry()
	l := GenerateLayer(2, 1.4, 0.9, NewRand(3))
	n := layerNode(l, ThemeGoldenHorizon.PrimaryColor, reg)

	assert.Equal(t, NodeLayer, n.Kind)
	assert.Equal(t, 1.4, n.Scale.X)
	assert.Equal(t, 20.0, n.Position.Y)
	assert.Equal(t, BlocksInLayer, n.Count(NodeBlock))
	assert.Positive(t, reg.Len())

	reg.Apply(ThemeAzureDepths)
	n.Walk(func(c *Node) bool {
		if c.Mesh != nil {
			assert.Equal(t, ThemeAzureDepths.PrimaryColor, c.Mesh.Material.Color, c.Name)
			assert.Equal(t, ThemeAzureDepths.PrimaryColor, c.Mesh.Material.Emissive, c.Name)
		}
		return true
	})
}
