package synth

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/vsariola/enginesound"
)

type (
	// Graph is the whole render path: two engine voices (throttle and
	// release) summed by a Mixer and placed in 3D by a Spatializer. The
	// audio goroutine calls Render; the control goroutine only calls the
	// Set* methods, which just publish values into parameter handles.
	Graph struct {
		Throttle *Engine
		Release  *Engine

		mixer   *Mixer
		spatial *Spatializer
		mono    []float32
		frames  int
		faults  atomic.Uint64
	}

	GraphConfig struct {
		SampleRate int
		MaxFrames  int // longest chunk rendered at once; longer buffers are split
		Spatial    SpatialConfig
		Motion     Motion // initial emitter motion
	}
)

const (
	throttleChannel = 0
	releaseChannel  = 1
)

// DefaultMaxFrames is enough for 40 ms at 48 kHz.
const DefaultMaxFrames = 2048

func NewGraph(config GraphConfig, throttle, release *enginesound.EngineProfile) (*Graph, error) {
	if config.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %v", config.SampleRate)
	}
	if throttle == nil || release == nil {
		return nil, errors.New("both throttle and release profiles are needed")
	}
	if config.MaxFrames <= 0 {
		config.MaxFrames = DefaultMaxFrames
	}
	ret := &Graph{
		Throttle: NewEngine(throttle, config.SampleRate),
		Release:  NewEngine(release, config.SampleRate),
		spatial:  NewSpatializer(config.Spatial, config.Motion),
		mono:     make([]float32, config.MaxFrames),
		frames:   config.MaxFrames,
	}
	ret.mixer = NewMixer(config.MaxFrames, ret.Throttle, ret.Release)
	ret.SetMix(0.5)
	return ret, nil
}

// SetRPM sets the target RPM of both voices.
func (g *Graph) SetRPM(rpm float64) {
	g.Throttle.SetRPM(rpm)
	g.Release.SetRPM(rpm)
}

// SetMix sets the throttle/release balance: 0 is all release, 1 all throttle.
// The gains follow an equal-power law, so the loudness stays constant.
func (g *Graph) SetMix(mix float64) {
	throttle, release := MixGains(mix)
	g.mixer.Channel(throttleChannel).SetGain(throttle)
	g.mixer.Channel(releaseChannel).SetGain(release)
}

// MixGains maps the mix in [0, 1] to the gains of the throttle and release
// voices.
func MixGains(mix float64) (throttle, release float64) {
	if math.IsNaN(mix) {
		mix = 0.5
	}
	mix = min(max(mix, 0), 1)
	return math.Sqrt(mix), math.Sqrt(1 - mix)
}

// SetMotion sets the position and velocity of the emitter.
func (g *Graph) SetMotion(position, velocity enginesound.Vec3) {
	g.spatial.SetMotion(position, velocity)
}

// Faults returns how many chunks were silenced because rendering them
// failed. Safe to call from any goroutine.
func (g *Graph) Faults() uint64 {
	return g.faults.Load()
}

// Render fills buffer completely. It never allocates, blocks or panics.
func (g *Graph) Render(buffer enginesound.AudioBuffer) {
	for len(buffer) > 0 {
		n := min(len(buffer), g.frames)
		g.renderChunk(buffer[:n])
		buffer = buffer[n:]
	}
}

func (g *Graph) renderChunk(out enginesound.AudioBuffer) {
	defer func() {
		if recover() != nil {
			// the chunk is dropped, the next one renders normally
			clear(out)
			g.faults.Add(1)
		}
	}()
	mono := g.mono[:len(out)]
	rate := g.spatial.Update()
	g.mixer.Render(mono, rate)
	g.spatial.Apply(mono, out)
}
