package desktop

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"castle/internal/castle"
)

const (
	sampleRate   = 44100
	channelCount = 2
	chimeSeconds = 0.9
)

// chimeRoots gives each world its own note; worlds past the table wrap around.
var chimeRoots = []float64{523.25, 440.00, 392.00, 659.25, 587.33, 349.23}

// Chime plays a short FM bell whenever the world theme changes.
// A nil *Chime is silent.
type Chime struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64
}

// NewChime opens the audio device. Callers treat an error as "no sound".
func NewChime(volume float64) (*Chime, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, err
	}
	return &Chime{ctx: ctx, ready: ready, volume: clampF(volume, 0, 1)}, nil
}

// Attach plays the chime for every theme transition on bus.
func (c *Chime) Attach(bus *castle.EventBus) {
	if c == nil {
		return
	}
	bus.Subscribe(castle.EventThemeChanged, func(ev castle.Event) { c.Play(ev.To) })
}

// Play starts the chime for world index idx without blocking.
func (c *Chime) Play(idx int) {
	if c == nil || c.volume <= 0 {
		return
	}
	select {
	case <-c.ready:
	default:
		return
	}
	samples := chimeSamples(idx)
	go func() {
		player := c.ctx.NewPlayer(bytes.NewReader(samples))
		player.SetVolume(c.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

// chimeSamples renders a two-note bell: the world's root, then its fifth,
// as interleaved stereo float32 little-endian frames.
func chimeSamples(idx int) []byte {
	if idx < 0 {
		idx = -idx
	}
	root := chimeRoots[idx%len(chimeRoots)]
	total := int(chimeSeconds * sampleRate)
	mix := make([]float64, total)

	notes := []struct {
		freq  float64
		start int
		gain  float64
	}{
		{root, 0, 0.30},
		{root * 1.5, int(0.12 * sampleRate), 0.22},
	}
	for _, n := range notes {
		for j := 0; n.start+j < total; j++ {
			t := float64(j) / sampleRate
			env := bell(t)
			s := fm(t, n.freq, 3.5, 4.5*env) * env * n.gain
			s += math.Sin(2*math.Pi*n.freq*2*t) * env * 0.05
			mix[n.start+j] += s
		}
	}

	buf := make([]byte, total*channelCount*4)
	for i, s := range mix {
		v := math.Float32bits(float32(math.Tanh(s)))
		for ch := 0; ch < channelCount; ch++ {
			binary.LittleEndian.PutUint32(buf[(i*channelCount+ch)*4:], v)
		}
	}
	return buf
}

// bell is a struck envelope: a 4 ms linear attack, then exponential decay.
func bell(t float64) float64 {
	const attack, decay = 0.004, 0.22
	if t < attack {
		return t / attack
	}
	return math.Exp(-(t - attack) / decay)
}

// fm is a two-operator FM voice.
func fm(t, carrier, ratio, index float64) float64 {
	return math.Sin(2*math.Pi*carrier*t + index*math.Sin(2*math.Pi*carrier*ratio*t))
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
