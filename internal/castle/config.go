package castle

import "time"

// Layer grid.
const (
	LayerGrid     = 5  // blocks per layer side
	CellSpacing   = 4  // world units between block centres
	LevelHeight   = 10 // vertical distance between layer depths
	BlocksInLayer = LayerGrid * LayerGrid
)

// Building shell footprint (outer box) and cavity (inner box), as min + range per axis.
var (
	FootprintMin   = [3]float64{2, 4, 2}
	FootprintRange = [3]float64{2, 4, 2}
	CavityMin      = [3]float64{1, 3, 1}
	CavityRange    = [3]float64{1.5, 3, 1.5}
)

const (
	CavityLift = 1.5 // cavity is raised inside the shell
	ShellWall  = 0.1 // minimum wall thickness kept around the cavity
)

// Decorations.
const (
	MinWindows      = 3
	MaxWindows      = 10
	MinStairLevels  = 2
	MaxStairLevels  = 4
	StairRise       = 0.2
	BalconyHeight   = 2.5
	OrnamentHeight  = 3.0
	OrnamentSegment = 8
)

// Bridges.
const (
	BridgeWidth      = 0.8
	BridgeThickness  = 0.5
	RailOffset       = 0.4
	RailHeight       = 0.3
	RailWidth        = 0.1
	BridgeMaxLift    = 2.0
	DefaultBridges   = 16
	DefaultLayerSpan = 10
)

// Particle field.
const (
	DefaultParticles  = 400
	ParticleHalfSpan  = 10.0
	ParticleMaxSpeed  = 0.01
	ParticleDecay     = 0.001
	ParticleResetGlow = 0.5
	ParticleGlowFloor = 0.1
	ParticleBounce    = -0.5
	ParticleSize      = 0.02
	ParticleOpacity   = 0.8
)

// Scene dressing.
const (
	DefaultLayers      = 30
	DefaultPointLights = 30
	DefaultLanterns    = 60
	DefaultHouses      = 25
	PointLightRange    = 50.0
	PointLightOrbit    = 15.0
	SunOrbit           = 10.0
	AmbientIntensity   = 0.5
	LanternSpread      = 15.0
	LanternBob         = 0.35
	HouseSpread        = 100.0
	LightSpread        = 20.0
	CameraStartZ       = 10.0
)

// Timing.
const (
	PhysicsInterval      = 50 * time.Millisecond
	NominalFPS           = 60
	NominalFrame         = time.Second / NominalFPS
	MaxPhysicsCatchUp    = 8
	OverlayDuration      = 500 * time.Millisecond
	SceneRotationPerTick = 0.001
	HouseSpinPerTick     = 0.005
)
