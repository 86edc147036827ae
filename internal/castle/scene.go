package castle

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/golang/geo/r3"
	"github.com/google/uuid"

	"castle/internal/logging"
)

// sceneNamespace roots the deterministic scene IDs.
var sceneNamespace = uuid.MustParse("6f1d3c0e-5a0b-4c8e-9a57-2f4f0c6b8d21")

// SceneParams sizes a castle. Zero values take the defaults; a negative
// Bridges count builds no bridges.
type SceneParams struct {
	Seed            uint64
	Themes          []Theme
	Layers          int
	Bridges         int
	BridgeLayerSpan int
	PointLights     int
	Lanterns        int
	Houses          int
	Particles       FieldConfig
	Aspect          float64
}

func (p SceneParams) withDefaults() SceneParams {
	if len(p.Themes) == 0 {
		p.Themes = DefaultThemes()
	}
	if p.Layers <= 0 {
		p.Layers = DefaultLayers
	}
	if p.Bridges < 0 {
		p.Bridges = 0
	} else if p.Bridges == 0 {
		p.Bridges = DefaultBridges
	}
	if p.BridgeLayerSpan <= 0 {
		p.BridgeLayerSpan = DefaultLayerSpan
	}
	if p.PointLights <= 0 {
		p.PointLights = DefaultPointLights
	}
	if p.Lanterns <= 0 {
		p.Lanterns = DefaultLanterns
	}
	if p.Houses <= 0 {
		p.Houses = DefaultHouses
	}
	return p
}

// Scene is the assembled castle plus everything animated each frame.
type Scene struct {
	ID     uuid.UUID
	Seed   uint64
	Themes []Theme

	Root    *Node
	Layers  []*StructureLayer
	Bridges []Bridge
	Field   *ParticleField

	Ambient     *Light
	Sun         *Node
	PointLights []*Node
	Lanterns    []*Lantern
	Houses      []*Node

	Camera  *Camera
	Fog     *Fog
	Overlay *Overlay

	// Clock is the animation time, advanced by the driver.
	Clock time.Duration

	noise *perlin.Perlin
}

// sceneID hashes the seed into a stable UUID.
func sceneID(seed uint64) uuid.UUID {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seed)
	return uuid.NewSHA1(sceneNamespace, b[:])
}

// BuildScene assembles a complete castle from p. It is a pure function of p:
// the same seed gives the same geometry, lights and particles. Every element
// that follows the world theme is registered on the returned registry.
func BuildScene(p SceneParams) (*Scene, *ThemeRegistry) {
	p = p.withDefaults()
	log := logging.For("scene")
	start := time.Now()

	theme := p.Themes[0]
	reg := NewThemeRegistry()
	sc := &Scene{
		ID:      sceneID(p.Seed),
		Seed:    p.Seed,
		Themes:  append([]Theme(nil), p.Themes...),
		Root:    NewNode(NodeGroup, "castle"),
		Camera:  NewCamera(p.Aspect),
		Fog:     &Fog{Color: Palette.Black, Density: theme.FogDensity},
		Overlay: NewOverlay(theme),
		noise:   perlin.NewPerlin(2, 2, 3, int64(p.Seed^0x1A7E)),
	}
	reg.RegisterFog(sc.Fog)

	sc.buildLights(p, theme, reg)

	// Each layer gets its own stream so inserting a layer leaves the others intact.
	sc.Layers = make([]*StructureLayer, 0, p.Layers)
	for i := 0; i < p.Layers; i++ {
		lr := NewRand(mixSeed(p.Seed, 0x1A, i))
		l := GenerateLayer(i, 1+0.2*float64(i), 0.3+0.05*float64(i), lr)
		sc.Layers = append(sc.Layers, l)
		sc.Root.Add(layerNode(l, theme.PrimaryColor, reg))
	}

	sc.Bridges = SampleBridgeEndpoints(sc.Layers, p.Bridges, p.BridgeLayerSpan, NewRand(p.Seed^0xB41D))
	for i, b := range sc.Bridges {
		sc.Root.Add(bridgeNode(b, i))
	}

	sc.Field = NewParticleField(p.Particles, NewRand(p.Seed^0x9A47))
	sc.Field.SetColor(theme.ParticleColor)
	reg.RegisterParticles(sc.Field)
	pn := NewNode(NodeParticles, "particles")
	pn.Particles = sc.Field
	sc.Root.Add(pn)

	lr := NewRand(p.Seed ^ 0x1A27)
	for i := 0; i < p.Lanterns; i++ {
		pos := lr.CenteredVec(LanternSpread)
		speed := 0.005 + 0.01*lr.Float64()
		l := newLantern(i, pos, speed, theme.PrimaryColor, reg)
		sc.Lanterns = append(sc.Lanterns, l)
		sc.Root.Add(l.Node, l.Halo)
	}

	hr := NewRand(p.Seed ^ 0x4005)
	for i := 0; i < p.Houses; i++ {
		h := houseNode(i)
		h.Position = hr.CenteredVec(HouseSpread)
		h.Yaw = hr.Float64() * math.Pi
		sc.Houses = append(sc.Houses, h)
		sc.Root.Add(h)
	}

	log.Info("scene %s built in %s: %d layers, %d blocks, %d bridges, %d particles, %d themed elements",
		sc.ID, time.Since(start).Round(time.Microsecond), len(sc.Layers), sc.Root.Count(NodeBlock),
		len(sc.Bridges), sc.Field.Len(), reg.Len())
	return sc, reg
}

func (sc *Scene) buildLights(p SceneParams, theme Theme, reg *ThemeRegistry) {
	sc.Ambient = &Light{Kind: LightAmbient, Color: theme.AmbientColor, Intensity: AmbientIntensity}
	amb := NewNode(NodeLight, "ambient")
	amb.Light = sc.Ambient
	reg.RegisterAmbient(sc.Ambient)

	sc.Sun = NewNode(NodeLight, "sun")
	sc.Sun.Light = &Light{Kind: LightDirectional, Color: theme.PrimaryColor, Intensity: 1}
	sc.Sun.Position = r3.Vector{X: 1, Y: 1, Z: 1}
	reg.RegisterPrimary(sc.Sun.Light)
	sc.Root.Add(amb, sc.Sun)

	r := NewRand(p.Seed ^ 0x11E7)
	for i := 0; i < p.PointLights; i++ {
		n := NewNode(NodeLight, fmt.Sprintf("point-%d", i))
		n.Light = &Light{Kind: LightPoint, Color: theme.PrimaryColor, Intensity: 1, Range: PointLightRange}
		n.Position = r.CenteredVec(LightSpread)
		reg.RegisterPrimary(n.Light)
		sc.PointLights = append(sc.PointLights, n)
		sc.Root.Add(n)
	}
}

// animate applies the continuous per-frame motion for time t. rot scales the
// per-tick rotation increments.
func (sc *Scene) animate(t, rot float64) {
	sc.Root.Yaw = wrapAngle(sc.Root.Yaw + SceneRotationPerTick*rot)

	sc.Sun.Position.X = math.Sin(t) * SunOrbit
	sc.Sun.Position.Z = math.Cos(t) * SunOrbit

	for i, n := range sc.PointLights {
		fi := float64(i)
		n.Position = r3.Vector{
			X: math.Sin(t+fi) * PointLightOrbit,
			Y: math.Cos(t+fi) * PointLightOrbit,
			Z: math.Sin(t+2*fi) * PointLightOrbit,
		}
	}

	for _, h := range sc.Houses {
		h.Yaw = wrapAngle(h.Yaw + HouseSpinPerTick*rot)
	}

	for _, l := range sc.Lanterns {
		u := t*l.Speed*60 + l.Phase
		off := r3.Vector{
			X: clampF(sc.noise.Noise2D(u, l.Phase), -1, 1) * LanternBob * 0.5,
			Y: clampF(sc.noise.Noise1D(u), -1, 1) * LanternBob,
			Z: clampF(sc.noise.Noise2D(l.Phase, u), -1, 1) * LanternBob * 0.5,
		}
		l.place(l.Anchor.Add(off))
	}
}

// scrollCamera follows the scroll position down through the layers.
func (sc *Scene) scrollCamera(pos float64) {
	sc.Camera.Position = r3.Vector{
		X: math.Sin(pos*0.001) * 2,
		Y: -pos * 0.005,
		Z: CameraStartZ + pos*0.01,
	}
	sc.Camera.Yaw = math.Sin(pos*0.0005) * 0.05
	sc.Overlay.SetDepth(pos)
}
