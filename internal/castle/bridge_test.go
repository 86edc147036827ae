package castle

import (
	"math"
	"os"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castle/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func vecNear(t *testing.T, want, got r3.Vector, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-9, msgAndArgs...)
}

func TestNewBridgeAlongX(t *testing.T) {
	b := NewBridge(r3.Vector{}, r3.Vector{X: 10})
	assert.InDelta(t, 10.0, b.Length, 1e-12)
	vecNear(t, r3.Vector{X: 5}, b.Midpoint)
	vecNear(t, r3.Vector{X: 1}, b.Orientation.Forward)
	vecNear(t, r3.Vector{Y: 1}, b.Orientation.Up)

	// Rails sit either side of the span, perpendicular to it.
	vecNear(t, r3.Vector{Z: -RailOffset}, b.Rails[0])
	vecNear(t, r3.Vector{Z: RailOffset}, b.Rails[1])
	assert.False(t, b.Degenerate())
}

func TestNewBridgeSloped(t *testing.T) {
	start, end := r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{X: -4, Y: 6, Z: 9}
	b := NewBridge(start, end)
	assert.InDelta(t, end.Sub(start).Norm(), b.Length, 1e-12)

	o := b.Orientation
	assert.InDelta(t, 1.0, o.Forward.Norm(), 1e-9)
	assert.InDelta(t, 1.0, o.Right.Norm(), 1e-9)
	assert.InDelta(t, 0.0, o.Forward.Dot(o.Right), 1e-9)
	assert.InDelta(t, 0.0, o.Forward.Dot(o.Up), 1e-9)

	// Forward points at the end.
	vecNear(t, end, b.Midpoint.Add(o.Forward.Mul(b.Length/2)))

	for _, r := range b.Rails {
		assert.InDelta(t, RailOffset, r.Norm(), 1e-9)
		assert.Zero(t, r.Y)
	}
}

func TestNewBridgeDegenerate(t *testing.T) {
	p := r3.Vector{X: 2, Y: 2, Z: 2}
	b := NewBridge(p, p)
	assert.True(t, b.Degenerate())
	assert.Zero(t, b.Length)
	assert.Equal(t, IdentityBasis(), b.Orientation)
	vecNear(t, r3.Vector{X: RailOffset}, b.Rails[0])
}

func TestNewBridgeVertical(t *testing.T) {
	b := NewBridge(r3.Vector{}, r3.Vector{Y: 4})
	assert.InDelta(t, 4.0, b.Length, 1e-12)
	vecNear(t, r3.Vector{Y: 1}, b.Orientation.Forward)
	vecNear(t, r3.Vector{X: RailOffset}, b.Rails[0])
	vecNear(t, r3.Vector{X: -RailOffset}, b.Rails[1])
	for _, v := range []float64{b.Orientation.Up.X, b.Orientation.Up.Y, b.Orientation.Up.Z} {
		assert.False(t, math.IsNaN(v))
	}
}

func TestSampleBridgeEndpoints(t *testing.T) {
	layers := make([]*StructureLayer, 12)
	for i := range layers {
		layers[i] = GenerateLayer(i, 1+0.2*float64(i), 0.5, NewRand(uint64(i+1)))
	}
	bridges := SampleBridgeEndpoints(layers, DefaultBridges, DefaultLayerSpan, NewRand(8))
	require.Len(t, bridges, DefaultBridges)

	maxY := float64((DefaultLayerSpan-1)*LevelHeight) + BridgeMaxLift
	for _, b := range bridges {
		for _, p := range []r3.Vector{b.Start, b.End} {
			assert.GreaterOrEqual(t, p.Y, 0.0)
			assert.Less(t, p.Y, maxY)
		}
	}

	again := SampleBridgeEndpoints(layers, DefaultBridges, DefaultLayerSpan, NewRand(8))
	assert.Equal(t, bridges, again)
}

func TestSampleBridgeEndpointsEdges(t *testing.T) {
	assert.Nil(t, SampleBridgeEndpoints(nil, 4, 10, NewRand(1)))

	one := []*StructureLayer{GenerateLayer(0, 1, 0, NewRand(1))}
	assert.Empty(t, SampleBridgeEndpoints(one, 0, 10, NewRand(1)))
	// Span wider than the layer list falls back to what exists.
	assert.Len(t, SampleBridgeEndpoints(one, 3, 10, NewRand(1)), 3)
}

func TestSampleBridgeEndpointsKeepsSelfPairs(t *testing.T) {
	// With no blocks both endpoints land on the layer origin unlifted.
	bare := []*StructureLayer{{Depth: 2, Scale: 1}}
	got := SampleBridgeEndpoints(bare, 3, 1, NewRand(5))
	require.Len(t, got, 3)
	for _, b := range got {
		assert.True(t, b.Degenerate())
		assert.Equal(t, bare[0].Offset(), b.Start)
		assert.Equal(t, IdentityBasis(), b.Orientation)
	}

	// A single block: every bridge is a self-pair and every pair repeats.
	l := GenerateLayer(0, 1, 0, NewRand(1))
	l.Blocks = l.Blocks[:1]
	got = SampleBridgeEndpoints([]*StructureLayer{l}, 4, 1, NewRand(5))
	require.Len(t, got, 4)
	for _, b := range got {
		assert.InDelta(t, b.Start.X, b.End.X, 1e-12)
		assert.InDelta(t, b.Start.Z, b.End.Z, 1e-12)
		assert.LessOrEqual(t, b.Length, BridgeMaxLift)
	}
}

func TestBridgeNode(t *testing.T) {
	b := NewBridge(r3.Vector{}, r3.Vector{X: 6})
	n := bridgeNode(b, 2)
	assert.Equal(t, "bridge-2", n.Name)
	require.Len(t, n.Children, 3)

	span := n.Children[0].Mesh.Geometry
	assert.Equal(t, BoxGeometry(BridgeWidth, BridgeThickness, 6), span)
	// Rails land ±RailOffset along the node's local X.
	assert.InDelta(t, RailOffset, n.Children[1].Position.X, 1e-9)
	assert.InDelta(t, -RailOffset, n.Children[2].Position.X, 1e-9)
	assert.Equal(t, Palette.BridgeRail, n.Children[1].Mesh.Material.Color)
}
