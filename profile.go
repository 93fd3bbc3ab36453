package enginesound

import (
	"fmt"
	"math"
	"sort"
)

type (
	// LoopSample is a short recording of an engine running at a constant
	// RPM, meant to be played as a seamless loop. Frames are mono samples in
	// [-1, 1] at SampleRate. A LoopSample is never modified after loading and
	// is shared read-only by the audio goroutine.
	LoopSample struct {
		Name       string  // file the loop was loaded from, used in diagnostics
		RPM        float64 // engine speed the loop was recorded at
		AttackTime float64 // time constant (s) for fading this loop in and out
		SampleRate int
		Frames     []float32
	}

	// EngineProfile is a set of loops of one engine voice, sorted by ascending
	// RPM. BaseRPM is the idle RPM the voice starts at and Smoothing is the
	// time constant (s) of the exponential approach of the RPM towards the
	// target RPM.
	EngineProfile struct {
		BaseRPM   float64
		Smoothing float64
		Samples   []LoopSample
	}
)

// BuildProfile validates the loops and returns a profile with the loops
// sorted by RPM. The input slice is not modified. RPMs need to be unique, so
// that two neighbouring loops always span a non-empty RPM range.
func BuildProfile(baseRPM, smoothing float64, entries []LoopSample) (*EngineProfile, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Err: ErrEmptyLibrary}
	}
	if !(smoothing > 0) || math.IsInf(smoothing, 0) {
		return nil, &ConfigError{Err: fmt.Errorf("%w: smoothing must be positive, got %v", ErrInvalidConfig, smoothing)}
	}
	if !(baseRPM > 0) || math.IsInf(baseRPM, 0) {
		return nil, &ConfigError{Err: fmt.Errorf("%w: base rpm must be positive, got %v", ErrInvalidConfig, baseRPM)}
	}
	samples := make([]LoopSample, len(entries))
	copy(samples, entries)
	for _, s := range samples {
		if err := s.validate(); err != nil {
			return nil, &ConfigError{File: s.Name, RPM: s.RPM, Err: err}
		}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].RPM < samples[j].RPM })
	for i := 1; i < len(samples); i++ {
		if samples[i].RPM == samples[i-1].RPM {
			return nil, &ConfigError{File: samples[i].Name, RPM: samples[i].RPM, Err: ErrDuplicateRPM}
		}
	}
	return &EngineProfile{BaseRPM: baseRPM, Smoothing: smoothing, Samples: samples}, nil
}

func (s *LoopSample) validate() error {
	switch {
	case len(s.Frames) == 0:
		return ErrEmptySample
	case !(s.RPM > 0) || math.IsInf(s.RPM, 0):
		return fmt.Errorf("%w: rpm must be positive, got %v", ErrInvalidSample, s.RPM)
	case !(s.AttackTime >= 0) || math.IsInf(s.AttackTime, 0):
		return fmt.Errorf("%w: attack time must be non-negative, got %v", ErrInvalidSample, s.AttackTime)
	case s.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidSample, s.SampleRate)
	}
	return nil
}

// At returns the loop value at fractional frame position pos, linearly
// interpolating between the neighbouring frames. The loop wraps, so At(pos)
// == At(pos + len(Frames)) for any pos.
func (s *LoopSample) At(pos float64) float32 {
	n := len(s.Frames)
	if n == 0 {
		return 0
	}
	pos = wrap(pos, float64(n))
	i := int(pos)
	frac := float32(pos - float64(i))
	j := i + 1
	if j == n {
		j = 0
	}
	a := s.Frames[i]
	return a + (s.Frames[j]-a)*frac
}

// Advance moves the read position pos by delta frames, in either direction,
// and wraps it back into [0, len(Frames)).
func (s *LoopSample) Advance(pos, delta float64) float64 {
	if len(s.Frames) == 0 {
		return 0
	}
	return wrap(pos+delta, float64(len(s.Frames)))
}

// Bracket finds the two neighbouring loops whose RPMs bracket rpm and the
// interpolation weight t in [0, 1] between them: t = 0 means all of lo, t = 1
// all of hi. Outside the range of the profile, lo == hi is the nearest loop
// and t = 0; there is no extrapolation.
func (p *EngineProfile) Bracket(rpm float64) (lo, hi int, t float64) {
	n := len(p.Samples)
	if n == 0 {
		return 0, 0, 0
	}
	if !(rpm > p.Samples[0].RPM) { // also catches NaN
		return 0, 0, 0
	}
	if rpm >= p.Samples[n-1].RPM {
		return n - 1, n - 1, 0
	}
	// hi is the first loop with RPM >= rpm; 1 <= hi <= n-1 here
	hi = sort.Search(n, func(i int) bool { return p.Samples[i].RPM >= rpm })
	lo = hi - 1
	t = (rpm - p.Samples[lo].RPM) / (p.Samples[hi].RPM - p.Samples[lo].RPM)
	return lo, hi, min(max(t, 0), 1)
}

// wrap returns x modulo n, in [0, n).
func wrap(x, n float64) float64 {
	if x >= 0 && x < n {
		return x
	}
	x = math.Mod(x, n)
	if x < 0 {
		x += n
	}
	if !(x < n) { // -tiny + n rounds up to n; NaN restarts the loop
		return 0
	}
	return x
}
