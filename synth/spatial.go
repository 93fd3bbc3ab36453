package synth

import (
	"math"

	"github.com/vsariola/enginesound"
)

type (
	// SpatialConfig is passed through to the Spatializer unchanged. Distances
	// are in meters, speed in m/s.
	SpatialConfig struct {
		Listener          enginesound.Vec3 // fixed listener position
		ReferenceDistance float64          // distance at which the gain is 1
		MaxDistance       float64          // beyond this the source is silent
		SpeedOfSound      float64
	}

	// Motion is the position and velocity of the emitter. The two travel
	// together through one Param, so the audio goroutine never sees a new
	// position with an old velocity.
	Motion struct {
		Position enginesound.Vec3
		Velocity enginesound.Vec3
	}

	// Spatializer places one mono emitter in 3D relative to a fixed
	// listener: inverse-distance attenuation, equal-power stereo pan and a
	// Doppler pitch factor.
	Spatializer struct {
		config SpatialConfig
		motion *enginesound.Param[Motion]
		gains  [2]float32 // gains at the end of the last buffer
		next   [2]float32
	}
)

const (
	minDoppler = 0.5
	maxDoppler = 2
)

func DefaultSpatialConfig() SpatialConfig {
	return SpatialConfig{ReferenceDistance: 1, MaxDistance: 1000, SpeedOfSound: 343}
}

func NewSpatializer(config SpatialConfig, initial Motion) *Spatializer {
	ret := &Spatializer{config: config, motion: enginesound.NewParam(initial)}
	ret.Update()
	ret.gains = ret.next
	return ret
}

// SetMotion publishes a new position and velocity of the emitter.
// Non-blocking; may be called at any cadence.
func (s *Spatializer) SetMotion(position, velocity enginesound.Vec3) {
	s.motion.Set(Motion{Position: position, Velocity: velocity})
}

// Motion returns the latest published motion.
func (s *Spatializer) Motion() Motion {
	return s.motion.Get()
}

// Update reads the latest motion, computes the channel gains for the next
// Apply and returns the Doppler pitch factor for the next buffer.
func (s *Spatializer) Update() (rate float64) {
	m := s.motion.Get()
	att, pan, rate := s.config.Params(m)
	// equal-power pan: pan -1 = left, 0 = center, 1 = right
	angle := (pan + 1) * math.Pi / 4
	s.next = [2]float32{float32(att * math.Cos(angle)), float32(att * math.Sin(angle))}
	return rate
}

// Params computes the attenuation, stereo pan in [-1, 1] and Doppler pitch
// factor for an emitter with motion m.
func (c SpatialConfig) Params(m Motion) (attenuation, pan, doppler float64) {
	rel := m.Position.Sub(c.Listener)
	dist := rel.Len()
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		return 0, 0, 1
	}
	ref := c.ReferenceDistance
	if !(ref > 0) {
		ref = 1
	}
	if c.MaxDistance > 0 && dist >= c.MaxDistance {
		attenuation = 0
	} else {
		attenuation = ref / max(dist, ref)
	}
	doppler = 1
	if dist > 0 {
		pan = rel[0] / dist
		if c.SpeedOfSound > 0 {
			// radial velocity, positive when moving away from the listener
			vr := m.Velocity.Dot(rel) / dist
			d := float64(maxDoppler) // approaching at or above the speed of sound
			if c.SpeedOfSound+vr > 0 {
				d = c.SpeedOfSound / (c.SpeedOfSound + vr)
			}
			doppler = min(max(d, minDoppler), maxDoppler)
		}
	}
	return attenuation, pan, doppler
}

// Apply pans and attenuates the mono signal into out, ramping from the
// previous gains to the ones computed by the last Update. len(out) must equal
// len(mono).
func (s *Spatializer) Apply(mono []float32, out enginesound.AudioBuffer) {
	if len(mono) == 0 {
		return
	}
	g0, g1 := s.gains, s.next
	inv := 1 / float32(len(mono))
	for i, v := range mono {
		x := float32(i+1) * inv
		out[i] = [2]float32{
			v * (g0[0] + (g1[0]-g0[0])*x),
			v * (g0[1] + (g1[1]-g0[1])*x),
		}
	}
	s.gains = g1
}
