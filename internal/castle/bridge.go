package castle

import (
	"fmt"

	"github.com/golang/geo/r3"

	"castle/internal/logging"
)

// Bridge is a straight walkway between two points.
type Bridge struct {
	Start, End  r3.Vector
	Length      float64
	Midpoint    r3.Vector
	Orientation Basis        // Forward runs along the span
	Rails       [2]r3.Vector // rail offsets from the midpoint
}

// NewBridge derives the placement of a bridge from its endpoints. It never
// fails: coincident endpoints give a zero-length bridge with identity orientation.
func NewBridge(start, end r3.Vector) Bridge {
	mid := start.Add(end).Mul(0.5)
	basis := LookAtBasis(mid, end)
	lateral := basis.Right
	// Rails stay horizontal; a vertical span has no horizontal lateral axis.
	lateral.Y = 0
	if lateral.Norm() < epsilon {
		lateral = axisX
	} else {
		lateral = lateral.Normalize()
	}
	return Bridge{
		Start:       start,
		End:         end,
		Length:      end.Sub(start).Norm(),
		Midpoint:    mid,
		Orientation: basis,
		Rails: [2]r3.Vector{
			lateral.Mul(RailOffset),
			lateral.Mul(-RailOffset),
		},
	}
}

func (b Bridge) Degenerate() bool { return b.Length < epsilon }

// SampleBridgeEndpoints draws count bridges between random blocks of the first
// layerSpan layers. Each endpoint is lifted by up to BridgeMaxLift. A bridge
// may start and end on the same block and two bridges may coincide.
func SampleBridgeEndpoints(layers []*StructureLayer, count, layerSpan int, r *Rand) []Bridge {
	if len(layers) == 0 || count <= 0 {
		return nil
	}
	layerSpan = clamp(layerSpan, 1, len(layers))
	log := logging.For("bridge")

	pick := func() (r3.Vector, string) {
		li := r.Intn(layerSpan)
		l := layers[li]
		if len(l.Blocks) == 0 {
			return l.Offset(), fmt.Sprintf("%d/-", li)
		}
		bi := r.Intn(len(l.Blocks))
		p := l.WorldPosition(l.Blocks[bi].Position)
		p.Y += r.Float64() * BridgeMaxLift
		return p, fmt.Sprintf("%d/%d", li, bi)
	}

	out := make([]Bridge, 0, count)
	seen := make(map[[2]string]bool, count)
	for i := 0; i < count; i++ {
		s, sk := pick()
		e, ek := pick()
		if sk == ek {
			log.Debug("bridge %d starts and ends on block %s", i, sk)
		}
		key := [2]string{sk, ek}
		if seen[key] || seen[[2]string{ek, sk}] {
			log.Debug("bridge %d duplicates an earlier pair %s-%s", i, sk, ek)
		}
		seen[key] = true
		out = append(out, NewBridge(s, e))
	}
	return out
}
