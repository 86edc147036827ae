package castle

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParticleFieldDefaults(t *testing.T) {
	pf := NewParticleField(FieldConfig{}, NewRand(4))
	require.Equal(t, DefaultParticles, pf.Len())

	for _, p := range pf.Particles() {
		assert.LessOrEqual(t, math.Abs(p.Position.X), ParticleHalfSpan)
		assert.LessOrEqual(t, math.Abs(p.Position.Y), ParticleHalfSpan)
		assert.LessOrEqual(t, math.Abs(p.Position.Z), ParticleHalfSpan)
		assert.LessOrEqual(t, math.Abs(p.Velocity.X), ParticleMaxSpeed)
		assert.LessOrEqual(t, math.Abs(p.Velocity.Y), ParticleMaxSpeed)
		assert.LessOrEqual(t, math.Abs(p.Velocity.Z), ParticleMaxSpeed)
		assert.True(t, p.Glow >= 0.5 && p.Glow < 1, "glow %v", p.Glow)
	}
}

func TestParticleFieldReplay(t *testing.T) {
	a := NewParticleField(FieldConfig{Count: 50}, NewRand(12))
	b := NewParticleField(FieldConfig{Count: 50}, NewRand(12))
	for i := 0; i < 300; i++ {
		a.Tick()
	}
	for i := 0; i < 300; i++ {
		b.Tick()
	}
	assert.Equal(t, a.Particles(), b.Particles())
	assert.Equal(t, uint64(300), a.Ticks())
}

func TestParticleFieldCloneIsIndependent(t *testing.T) {
	a := NewParticleField(FieldConfig{Count: 10}, NewRand(2))
	c := a.Clone()
	a.Tick()
	assert.NotEqual(t, a.Particles(), c.Particles())
	c.Tick()
	assert.Equal(t, a.Particles(), c.Particles())
}

func TestParticleGlowSawtooth(t *testing.T) {
	pf := NewParticleField(FieldConfig{Count: 1}, NewRand(1))
	p := &pf.Particles()[0]
	p.Glow = ParticleGlowFloor + ParticleDecay/2

	pf.Tick()
	// Still above the floor, so it decays past it.
	assert.InDelta(t, ParticleGlowFloor-ParticleDecay/2, p.Glow, 1e-12)

	pf.Tick()
	// At or below the floor it is re-lit instead of decaying.
	assert.Equal(t, ParticleResetGlow, p.Glow)

	pf.Tick()
	assert.InDelta(t, ParticleResetGlow-ParticleDecay, p.Glow, 1e-12)

	for i := 0; i < 2000; i++ {
		pf.Tick()
		assert.True(t, p.Glow > 0 && p.Glow <= 1, "glow %v", p.Glow)
	}
}

func TestParticleBoundaryReflection(t *testing.T) {
	pf := NewParticleField(FieldConfig{Count: 1}, NewRand(1))
	p := &pf.Particles()[0]
	p.Position = r3.Vector{X: ParticleHalfSpan - 0.001}
	p.Velocity = r3.Vector{X: 0.004, Y: 0.002}

	pf.Tick()
	// The step that crosses is kept; only the velocity flips and damps.
	assert.InDelta(t, ParticleHalfSpan+0.003, p.Position.X, 1e-12)
	assert.InDelta(t, -0.002, p.Velocity.X, 1e-12)
	assert.InDelta(t, 0.002, p.Velocity.Y, 1e-12)

	pf.Tick()
	assert.InDelta(t, ParticleHalfSpan+0.001, p.Position.X, 1e-12)
	// Still outside, so it flips again.
	assert.InDelta(t, 0.001, p.Velocity.X, 1e-12)
}

func TestParticleSpriteData(t *testing.T) {
	pf := NewParticleField(FieldConfig{Count: 3}, NewRand(9))
	pf.SetColor(Hex(0xff0000))
	buf := pf.SpriteData(make([]float32, 0, 4))
	require.Len(t, buf, 3*8)

	p := pf.Particles()[1]
	assert.Equal(t, Hex(0xff0000), p.Color)
	row := buf[8:16]
	assert.Equal(t, float32(p.Position.X), row[0])
	assert.Equal(t, float32(ParticleSize), row[3])
	assert.Equal(t, []float32{1, 0, 0}, row[4:7])
	assert.InDelta(t, ParticleOpacity*p.Glow, float64(row[7]), 1e-6)

	// Reuses the caller's storage.
	again := pf.SpriteData(buf)
	assert.Equal(t, &buf[0], &again[0])
}
