package castle

import "github.com/golang/geo/r3"

type Particle struct {
	Position r3.Vector
	Velocity r3.Vector
	Glow     float64 // (0,1], decays each tick and resets at the floor
	Color    RGB
}

// FieldConfig tunes a ParticleField. Zero values take the defaults.
type FieldConfig struct {
	Count     int
	HalfSpan  float64
	MaxSpeed  float64
	Decay     float64
	GlowFloor float64
	GlowReset float64
	Size      float64
}

func (c FieldConfig) withDefaults() FieldConfig {
	if c.Count <= 0 {
		c.Count = DefaultParticles
	}
	if c.HalfSpan <= 0 {
		c.HalfSpan = ParticleHalfSpan
	}
	if c.MaxSpeed <= 0 {
		c.MaxSpeed = ParticleMaxSpeed
	}
	if c.Decay <= 0 {
		c.Decay = ParticleDecay
	}
	if c.GlowFloor <= 0 {
		c.GlowFloor = ParticleGlowFloor
	}
	if c.GlowReset <= c.GlowFloor || c.GlowReset > 1 {
		c.GlowReset = clampF(ParticleResetGlow, c.GlowFloor, 1)
	}
	if c.Size <= 0 {
		c.Size = ParticleSize
	}
	return c
}

// ParticleField is a fixed population of drifting glowing points inside an
// axis-aligned cube centred on the origin.
type ParticleField struct {
	cfg   FieldConfig
	p     []Particle
	color RGB
	ticks uint64
}

func NewParticleField(cfg FieldConfig, r *Rand) *ParticleField {
	cfg = cfg.withDefaults()
	pf := &ParticleField{
		cfg:   cfg,
		p:     make([]Particle, cfg.Count),
		color: Hex(0xffffff),
	}
	span := 2 * cfg.HalfSpan
	for i := range pf.p {
		pos := r.CenteredVec(span)
		vel := r.CenteredVec(2 * cfg.MaxSpeed)
		glow := 0.5 + 0.5*r.Float64()
		pf.p[i] = Particle{Position: pos, Velocity: vel, Glow: glow, Color: pf.color}
	}
	return pf
}

// Tick advances one physics step. A particle past the boundary has its
// velocity on that axis reversed and damped; the position is not pulled back,
// so it may overshoot for a few ticks.
func (pf *ParticleField) Tick() {
	b := pf.cfg.HalfSpan
	for i := range pf.p {
		p := &pf.p[i]
		p.Position = p.Position.Add(p.Velocity)
		if p.Position.X > b || p.Position.X < -b {
			p.Velocity.X *= ParticleBounce
		}
		if p.Position.Y > b || p.Position.Y < -b {
			p.Velocity.Y *= ParticleBounce
		}
		if p.Position.Z > b || p.Position.Z < -b {
			p.Velocity.Z *= ParticleBounce
		}
		if p.Glow > pf.cfg.GlowFloor {
			p.Glow -= pf.cfg.Decay
		} else {
			p.Glow = pf.cfg.GlowReset
		}
	}
	pf.ticks++
}

// SetColor recolours the whole field.
func (pf *ParticleField) SetColor(c RGB) {
	pf.color = c
	for i := range pf.p {
		pf.p[i].Color = c
	}
}

func (pf *ParticleField) Color() RGB { return pf.color }

// Particles exposes the live population; callers must not retain it across ticks.
func (pf *ParticleField) Particles() []Particle { return pf.p }

func (pf *ParticleField) Len() int { return len(pf.p) }

func (pf *ParticleField) Ticks() uint64 { return pf.ticks }

func (pf *ParticleField) Config() FieldConfig { return pf.cfg }

// Clone returns an independent copy.
func (pf *ParticleField) Clone() *ParticleField {
	c := *pf
	c.p = append([]Particle(nil), pf.p...)
	return &c
}

// SpriteData appends the render stream for the field into buf.
// Format: [x, y, z, size, r, g, b, a] * N.
func (pf *ParticleField) SpriteData(buf []float32) []float32 {
	buf = buf[:0]
	size := float32(pf.cfg.Size)
	for _, p := range pf.p {
		rc, gc, bc := p.Color.Floats()
		a := float32(clampF(ParticleOpacity*p.Glow, 0, 1))
		buf = append(buf,
			float32(p.Position.X), float32(p.Position.Y), float32(p.Position.Z),
			size, rc, gc, bc, a)
	}
	return buf
}
