package synth_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vsariola/enginesound/synth"
)

type constSource float32

func (c constSource) Render(out []float32, rate float64) {
	for i := range out {
		out[i] = float32(c)
	}
}

func TestMixerSumsWithGains(t *testing.T) {
	m := synth.NewMixer(8, constSource(0.5), constSource(-0.25), constSource(2))
	out := make([]float32, 8)
	m.Render(out, 1)
	want := []float32{2.25, 2.25, 2.25, 2.25, 2.25, 2.25, 2.25, 2.25}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unity gain mix mismatch (-want +got):\n%s", diff)
	}
	m.Channel(0).SetGain(2)
	m.Channel(2).SetGain(0)
	m.Render(out, 1) // ramps to the new gains
	if got := out[len(out)-1]; math.Abs(float64(got-0.75)) > 1e-6 {
		t.Fatalf("end of ramp: got %v, want 0.75", got)
	}
	m.Render(out, 1)
	want = []float32{0.75, 0.75, 0.75, 0.75, 0.75, 0.75, 0.75, 0.75}
	if diff := cmp.Diff(want, out, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Fatalf("mix after gain change mismatch (-want +got):\n%s", diff)
	}
}

func TestMixerDoesNotClip(t *testing.T) {
	m := synth.NewMixer(4, constSource(0.9), constSource(0.9))
	out := make([]float32, 4)
	m.Render(out, 1)
	for i, v := range out {
		if math.Abs(float64(v-1.8)) > 1e-6 {
			t.Fatalf("frame %d: got %v, want 1.8", i, v)
		}
	}
}

func TestMixerGainRampIsMonotonic(t *testing.T) {
	m := synth.NewMixer(64, constSource(1))
	m.Channel(0).SetGain(0)
	out := make([]float32, 64)
	m.Render(out, 1)
	for i := 1; i < len(out); i++ {
		if out[i] > out[i-1] {
			t.Fatalf("ramp not monotonic at frame %d: %v > %v", i, out[i], out[i-1])
		}
	}
	if out[0] >= 1 || out[len(out)-1] != 0 {
		t.Fatalf("ramp should go from below 1 to 0, got %v .. %v", out[0], out[len(out)-1])
	}
}

func TestMixerIgnoresNaNGain(t *testing.T) {
	m := synth.NewMixer(4, constSource(1))
	m.Channel(0).SetGain(math.NaN())
	out := make([]float32, 4)
	m.Render(out, 1)
	for i, v := range out {
		if v != 1 {
			t.Fatalf("frame %d: got %v, want 1", i, v)
		}
	}
}
