package castle

import (
	"math"

	"github.com/golang/geo/r3"
)

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// mixSeed derives a child stream seed from a parent seed and two integer salts.
func mixSeed(seed uint64, a, b int) uint64 {
	h := seed
	h ^= uint64(uint32(a)) * 0x9E3779B185EBCA87
	h ^= uint64(uint32(b)) * 0xC2B2AE3D27D4EB4F
	return splitmix64(h)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rand is a tiny deterministic RNG (xorshift64*).
// Every generation step takes one explicitly; nothing reads a global source.
type Rand struct {
	s uint64
}

func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: seed}
}

func (r *Rand) NextU64() uint64 {
	x := r.s
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.s = x
	return x * 2685821657736338717
}

func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.NextU64() % uint64(n))
}

func (r *Rand) Range(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// Float64 returns a value in [0,1).
func (r *Rand) Float64() float64 {
	return float64(r.NextU64()>>11) * (1.0 / (1 << 53))
}

// RangeF returns a value in [min,max).
func (r *Rand) RangeF(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + (max-min)*r.Float64()
}

// Centered returns a value in [-span/2, span/2).
func (r *Rand) Centered(span float64) float64 {
	return (r.Float64() - 0.5) * span
}

// CenteredVec draws a vector with each axis in [-span/2, span/2).
func (r *Rand) CenteredVec(span float64) r3.Vector {
	return r3.Vector{X: r.Centered(span), Y: r.Centered(span), Z: r.Centered(span)}
}

var (
	axisX = r3.Vector{X: 1}
	axisY = r3.Vector{Y: 1}
	axisZ = r3.Vector{Z: 1}
)

const (
	epsilon = 1e-9
	halfPi  = math.Pi / 2
)

// Basis is a rotation expressed as three orthonormal axes.
type Basis struct {
	Right, Up, Forward r3.Vector
}

func IdentityBasis() Basis {
	return Basis{Right: axisX, Up: axisY, Forward: axisZ}
}

// IsZero reports whether the basis was never initialised.
func (b Basis) IsZero() bool {
	return b == Basis{}
}

// LookAtBasis orients Forward from `from` towards `to`.
// Coincident points give the identity. A vertical direction keeps world X as Right.
func LookAtBasis(from, to r3.Vector) Basis {
	dir := to.Sub(from)
	n := dir.Norm()
	if n < epsilon {
		return IdentityBasis()
	}
	fwd := dir.Mul(1 / n)
	right := axisY.Cross(fwd)
	if right.Norm() < epsilon {
		right = axisX
	} else {
		right = right.Normalize()
	}
	up := fwd.Cross(right).Normalize()
	return Basis{Right: right, Up: up, Forward: fwd}
}

// Apply rotates v from local into parent space.
func (b Basis) Apply(v r3.Vector) r3.Vector {
	return b.Right.Mul(v.X).Add(b.Up.Mul(v.Y)).Add(b.Forward.Mul(v.Z))
}

// wrapAngle keeps accumulated rotations bounded.
func wrapAngle(a float64) float64 {
	return math.Mod(a, 2*math.Pi)
}
