package enginesound_test

import (
	"math"
	"sync"
	"testing"

	"github.com/vsariola/enginesound"
)

func TestParamLatestWins(t *testing.T) {
	p := enginesound.NewParam([2]float64{1, 2})
	if got := p.Get(); got != [2]float64{1, 2} {
		t.Fatalf("initial value: got %v", got)
	}
	for i := 0; i < 10; i++ {
		p.Set([2]float64{float64(i), float64(-i)})
	}
	if got := p.Get(); got != [2]float64{9, -9} {
		t.Fatalf("latest value: got %v, want [9 -9]", got)
	}
	var zero enginesound.Param[int]
	if got := zero.Get(); got != 0 {
		t.Fatalf("zero Param: got %v, want 0", got)
	}
}

func TestParamConcurrentReadsAreConsistent(t *testing.T) {
	type pair struct{ a, b float64 }
	p := enginesound.NewParam(pair{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 20000; i++ {
			p.Set(pair{float64(i), -float64(i)})
		}
	}()
	last := 0.0
	for i := 0; i < 20000; i++ {
		v := p.Get()
		if v.a != -v.b {
			t.Fatalf("torn read: %+v", v)
		}
		if v.a < last {
			t.Fatalf("went back in time: %v after %v", v.a, last)
		}
		last = v.a
	}
	wg.Wait()
}

func TestFloat(t *testing.T) {
	f := enginesound.NewFloat(3900)
	if got := f.Get(); got != 3900 {
		t.Fatalf("got %v, want 3900", got)
	}
	for _, v := range []float64{-0.5, 1e300, math.Inf(-1)} {
		f.Set(v)
		if got := f.Get(); got != v {
			t.Fatalf("got %v, want %v", got, v)
		}
	}
	f.Set(math.NaN())
	if got := f.Get(); !math.IsNaN(got) {
		t.Fatalf("got %v, want NaN", got)
	}
	allocs := testing.AllocsPerRun(100, func() {
		f.Set(f.Get() + 1)
	})
	if allocs != 0 {
		t.Fatalf("Float allocated %v times per run", allocs)
	}
}
