package geometry

import (
	"os"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"castle/internal/castle"
	"castle/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func TestBuildFrameCollectsScene(t *testing.T) {
	sc, _ := castle.BuildScene(castle.SceneParams{Seed: 11, Layers: 2, PointLights: 5, Lanterns: 3, Houses: 2})
	f := BuildFrame(sc, 0)

	assert.Len(t, f.Points, 5)
	assert.Zero(t, f.Dropped)
	require.Len(t, f.Sprites, 1)
	assert.Same(t, sc.Field, f.Sprites[0].Field)
	assert.InDelta(t, 1, f.SunDir.Len(), 1e-5)
	assert.Equal(t, float32(sc.Fog.Density), f.FogDensity)

	meshes := 0
	sc.Root.Walk(func(n *castle.Node) bool {
		if n.Mesh != nil {
			meshes++
		}
		return true
	})
	assert.Equal(t, meshes, len(f.Opaque)+len(f.Transparent))
	assert.NotEmpty(t, f.Transparent)
	for i := 1; i < len(f.Transparent); i++ {
		assert.GreaterOrEqual(t, f.Transparent[i-1].Depth, f.Transparent[i].Depth)
	}
}

func TestBuildFrameCapsPointLights(t *testing.T) {
	sc, _ := castle.BuildScene(castle.SceneParams{Seed: 3, Layers: 1, PointLights: 40})
	f := BuildFrame(sc, 32)
	assert.Len(t, f.Points, 32)
	assert.Equal(t, 8, f.Dropped)
}

func TestBuildFramePointLightsFollowRoot(t *testing.T) {
	sc, _ := castle.BuildScene(castle.SceneParams{Seed: 3, Layers: 1, PointLights: 1})
	sc.PointLights[0].Position = r3.Vector{X: 2}
	sc.Root.Position = r3.Vector{Y: 5}

	f := BuildFrame(sc, 0)
	require.Len(t, f.Points, 1)
	assert.InDelta(t, 2, f.Points[0].Position.X(), 1e-5)
	assert.InDelta(t, 5, f.Points[0].Position.Y(), 1e-5)
}
