package synth

import (
	"math"

	"github.com/vsariola/enginesound"
)

type (
	// Engine synthesizes a continuous engine tone from an EngineProfile. For
	// the current RPM, it plays the two loops whose recorded RPMs bracket it,
	// resampling both so that their pitch matches the current RPM, and blends
	// them with an equal-power crossfade.
	//
	// SetRPM is safe to call from the control goroutine at any time. Everything
	// else is owned by the audio goroutine.
	Engine struct {
		profile    *enginesound.EngineProfile
		target     *enginesound.Float
		outputRate float64
		rpm        float64     // smoothed rpm, audio goroutine only
		loops      []loopState // one per loop of the profile
	}

	// Source is anything that can render a mono signal. rate is a pitch
	// multiplier imposed from outside (e.g. Doppler); 1 means no change.
	Source interface {
		Render(out []float32, rate float64)
	}

	loopState struct {
		phase  float64 // read cursor in frames, in [0, len(Frames))
		gain   float64 // gain reached at the end of the last buffer
		target float64
	}
)

// silence is the gain below which a fading loop is considered inaudible and
// no longer rendered.
const silence = 1e-4

// NewEngine creates an engine voice rendering at outputRate Hz. The voice
// starts at the profile's BaseRPM with the loops around it already playing.
func NewEngine(profile *enginesound.EngineProfile, outputRate int) *Engine {
	ret := &Engine{
		profile:    profile,
		target:     enginesound.NewFloat(profile.BaseRPM),
		outputRate: float64(outputRate),
		rpm:        profile.BaseRPM,
		loops:      make([]loopState, len(profile.Samples)),
	}
	ret.retarget()
	for i := range ret.loops {
		ret.loops[i].gain = ret.loops[i].target
	}
	return ret
}

// SetRPM sets the RPM the engine will smoothly approach. Non-blocking; only
// the latest value set before a buffer is rendered matters.
func (e *Engine) SetRPM(rpm float64) {
	e.target.Set(rpm)
}

// CurrentRPM returns the smoothed RPM as of the end of the last rendered
// buffer. Audio goroutine only.
func (e *Engine) CurrentRPM() float64 {
	return e.rpm
}

// CrossfadeGains returns the equal-power gains of the lower and upper loop for
// interpolation weight t, clamped to [0, 1]. low² + high² == 1 always.
func CrossfadeGains(t float64) (low, high float64) {
	t = min(max(t, 0), 1)
	return math.Sqrt(1 - t), math.Sqrt(t)
}

// Render overwrites out with the next len(out) frames of the engine tone.
func (e *Engine) Render(out []float32, rate float64) {
	clear(out)
	if len(out) == 0 || len(e.loops) == 0 {
		return
	}
	if !(rate > 0) || math.IsInf(rate, 0) {
		rate = 1
	}
	dur := float64(len(out)) / e.outputRate
	prev := e.rpm
	if target := e.target.Get(); !math.IsNaN(target) && !math.IsInf(target, 0) {
		// an engine does not run backwards
		target = max(target, 0)
		// exponential approach, never overshoots
		e.rpm += (target - e.rpm) * (1 - math.Exp(-dur/e.profile.Smoothing))
	}
	e.retarget()
	for i := range e.loops {
		l := &e.loops[i]
		s := &e.profile.Samples[i]
		g0, g1 := l.gain, l.target
		if s.AttackTime > 0 {
			g1 = g0 + (l.target-g0)*(1-math.Exp(-dur/s.AttackTime))
		}
		if l.target == 0 && g1 < silence {
			g1 = 0
		}
		l.gain = g1
		if g0 == 0 && g1 == 0 {
			continue
		}
		renderLoop(out, s, l, g0, g1, prev, e.rpm, float64(s.SampleRate)/e.outputRate*rate)
	}
}

// retarget sets the target gains of all loops for the current rpm.
func (e *Engine) retarget() {
	for i := range e.loops {
		e.loops[i].target = 0
	}
	lo, hi, t := e.profile.Bracket(e.rpm)
	if lo == hi {
		e.loops[lo].target = 1
		return
	}
	e.loops[lo].target, e.loops[hi].target = CrossfadeGains(t)
}

// renderLoop adds one loop to out, with the gain ramping linearly from g0 to
// g1 and the rpm from rpm0 to rpm1 over the buffer. scale converts the loop's
// pitch ratio into a read cursor advance per output frame.
func renderLoop(out []float32, s *enginesound.LoopSample, l *loopState, g0, g1, rpm0, rpm1, scale float64) {
	inv := 1 / float64(len(out))
	phase := l.phase
	for k := range out {
		x := float64(k+1) * inv
		out[k] += float32(g0+(g1-g0)*x) * s.At(phase)
		rpm := rpm0 + (rpm1-rpm0)*x
		phase = s.Advance(phase, rpm/s.RPM*scale)
	}
	l.phase = phase
}
