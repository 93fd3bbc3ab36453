package synth_test

import (
	"math"
	"testing"

	"github.com/vsariola/enginesound"
	"github.com/vsariola/enginesound/synth"
)

func TestSpatialParams(t *testing.T) {
	c := synth.DefaultSpatialConfig()
	tests := []struct {
		name        string
		motion      synth.Motion
		attenuation float64
		pan         float64
		doppler     float64
	}{
		{"in front, near", synth.Motion{Position: enginesound.Vec3{0, 0, -0.5}}, 1, 0, 1},
		{"in front, 8 m", synth.Motion{Position: enginesound.Vec3{0, 0, -8}}, 1.0 / 8, 0, 1},
		{"far right", synth.Motion{Position: enginesound.Vec3{10, 0, 0}}, 0.1, 1, 1},
		{"left", synth.Motion{Position: enginesound.Vec3{-4, 0, 0}}, 0.25, -1, 1},
		{"beyond max distance", synth.Motion{Position: enginesound.Vec3{2000, 0, 0}}, 0, 1, 1},
		{"receding", synth.Motion{Position: enginesound.Vec3{10, 0, 0}, Velocity: enginesound.Vec3{34.3, 0, 0}}, 0.1, 1, 343 / (343 + 34.3)},
		{"approaching", synth.Motion{Position: enginesound.Vec3{10, 0, 0}, Velocity: enginesound.Vec3{-34.3, 0, 0}}, 0.1, 1, 343 / (343 - 34.3)},
		{"passing sideways", synth.Motion{Position: enginesound.Vec3{0, 0, -8}, Velocity: enginesound.Vec3{30, 0, 0}}, 1.0 / 8, 0, 1},
		{"supersonic approach", synth.Motion{Position: enginesound.Vec3{10, 0, 0}, Velocity: enginesound.Vec3{-400, 0, 0}}, 0.1, 1, 2},
		{"at the speed of sound", synth.Motion{Position: enginesound.Vec3{10, 0, 0}, Velocity: enginesound.Vec3{-343, 0, 0}}, 0.1, 1, 2},
		{"fast recession", synth.Motion{Position: enginesound.Vec3{10, 0, 0}, Velocity: enginesound.Vec3{1000, 0, 0}}, 0.1, 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, pan, doppler := c.Params(tt.motion)
			if math.Abs(att-tt.attenuation) > 1e-9 {
				t.Errorf("attenuation: got %v, want %v", att, tt.attenuation)
			}
			if math.Abs(pan-tt.pan) > 1e-9 {
				t.Errorf("pan: got %v, want %v", pan, tt.pan)
			}
			if math.Abs(doppler-tt.doppler) > 1e-9 {
				t.Errorf("doppler: got %v, want %v", doppler, tt.doppler)
			}
		})
	}
}

func TestSpatializerPansEqualPower(t *testing.T) {
	s := synth.NewSpatializer(synth.DefaultSpatialConfig(), synth.Motion{Position: enginesound.Vec3{0, 0, -1}})
	mono := []float32{1, 1, 1, 1}
	out := make(enginesound.AudioBuffer, len(mono))
	s.Update()
	s.Apply(mono, out)
	l, r := float64(out[3][0]), float64(out[3][1])
	if math.Abs(l-r) > 1e-6 || math.Abs(l*l+r*r-1) > 1e-6 {
		t.Fatalf("center: got L=%v R=%v, want equal power", l, r)
	}
	s.SetMotion(enginesound.Vec3{2, 0, 0}, enginesound.Vec3{})
	s.Update()
	s.Apply(mono, out)
	if l, r := out[3][0], out[3][1]; math.Abs(float64(l)) > 1e-6 || math.Abs(float64(r)-0.5) > 1e-6 {
		t.Fatalf("right at 2 m: got L=%v R=%v, want 0, 0.5", l, r)
	}
	// both gains fall from 0.707 over the buffer
	if out[0][0] <= out[3][0] || out[0][1] <= out[3][1] {
		t.Fatalf("gains should ramp over the buffer, got %v", out)
	}
}

func TestSpatializerMotionIsNotTorn(t *testing.T) {
	s := synth.NewSpatializer(synth.DefaultSpatialConfig(), synth.Motion{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			v := float64(i)
			s.SetMotion(enginesound.Vec3{v, v, v}, enginesound.Vec3{-v, -v, -v})
		}
	}()
	for {
		select {
		case <-done:
			return
		default:
		}
		m := s.Motion()
		for i := range m.Position {
			if m.Position[i] != m.Position[0] || m.Velocity[i] != -m.Position[0] {
				t.Fatalf("torn motion: %+v", m)
			}
		}
	}
}
