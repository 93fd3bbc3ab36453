package control

import (
	"math"
	"time"
)

// Phase returns the angle in [0, 2π) of a periodic signal after elapsed time.
// It is computed from the total elapsed time rather than accumulated tick by
// tick, so it does not drift however irregular the ticks are.
func Phase(elapsed, period time.Duration, offset float64) float64 {
	if period <= 0 {
		return 0
	}
	cycles := float64(elapsed)/float64(period) + offset
	cycles -= math.Floor(cycles)
	return cycles * 2 * math.Pi
}

// TargetRPM oscillates sinusoidally between idle and idle+span.
func TargetRPM(phase, idle, span float64) float64 {
	return idle + (math.Sin(phase)*0.5+0.5)*span
}

// Mix is the throttle/release balance for a phase, in [0, 1]. The inner
// cosine bends the phase so the blend does not follow a plain sinusoid: the
// release takes longer than the attack.
func Mix(phase, shift, bend float64) float64 {
	return math.Cos(phase+math.Cos(phase+shift)*bend+shift)*0.5 + 0.5
}
