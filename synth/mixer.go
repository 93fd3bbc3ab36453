package synth

import (
	"math"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/enginesound"
)

type (
	// Mixer sums a fixed set of sources, each with its own gain. The output is
	// not clipped; the audio backend clamps when converting to the device
	// format.
	Mixer struct {
		channels []*Channel
		scratch  []float32
	}

	// Channel is one input of a Mixer. SetGain may be called from the control
	// goroutine.
	Channel struct {
		source Source
		gain   *enginesound.Float
		last   float32 // gain applied at the end of the previous buffer
	}
)

// NewMixer creates a mixer for buffers of at most maxFrames frames. All
// channels start at unity gain.
func NewMixer(maxFrames int, sources ...Source) *Mixer {
	ret := &Mixer{scratch: make([]float32, maxFrames)}
	for _, s := range sources {
		ret.channels = append(ret.channels, &Channel{source: s, gain: enginesound.NewFloat(1), last: 1})
	}
	return ret
}

// Channel returns the i:th input of the mixer, in the order given to NewMixer.
func (m *Mixer) Channel(i int) *Channel {
	return m.channels[i]
}

// SetGain sets the linear gain of the channel. Non-blocking.
func (c *Channel) SetGain(gain float64) {
	c.gain.Set(gain)
}

func (c *Channel) Gain() float64 {
	return c.gain.Get()
}

// Render overwrites out with the sum of all channels. len(out) must not
// exceed the maxFrames given to NewMixer.
func (m *Mixer) Render(out []float32, rate float64) {
	clear(out)
	buf := m.scratch[:len(out)]
	for _, c := range m.channels {
		c.source.Render(buf, rate)
		g := float32(c.gain.Get())
		if g != g || g > math.MaxFloat32 || g < -math.MaxFloat32 { // NaN or Inf
			g = c.last
		}
		if g != c.last {
			// ramp to the new gain over the buffer
			inv := 1 / float32(len(buf))
			for i := range buf {
				buf[i] *= c.last + (g-c.last)*float32(i+1)*inv
			}
			c.last = g
		} else if g != 1 {
			vek32.MulNumber_Inplace(buf, g)
		}
		vek32.Add_Inplace(out, buf)
	}
}
