package enginesound

import (
	"math"
	"sync/atomic"
)

type (
	// Param is a latest-value cell for passing a control parameter from the
	// control goroutine to the audio goroutine without locking. There is no
	// queue: a Set overwrites whatever was there, and Get returns the most
	// recent complete value. A value is never observed half-written, as every
	// Set publishes a fresh copy behind an atomic pointer; the audio side only
	// loads the pointer and copies the value, so it never allocates.
	Param[T any] struct {
		p atomic.Pointer[T]
	}

	// Float is a Param specialized for float64, stored as its bit pattern
	// in an atomic word. Neither Set nor Get allocate.
	Float struct {
		bits atomic.Uint64
	}
)

func NewParam[T any](initial T) *Param[T] {
	ret := &Param[T]{}
	ret.Set(initial)
	return ret
}

// Set publishes v. Should only be called from one goroutine.
func (p *Param[T]) Set(v T) {
	p.p.Store(&v)
}

// Get returns the latest published value, or the zero value if Set was never
// called.
func (p *Param[T]) Get() (ret T) {
	if v := p.p.Load(); v != nil {
		ret = *v
	}
	return
}

func NewFloat(initial float64) *Float {
	ret := &Float{}
	ret.Set(initial)
	return ret
}

func (f *Float) Set(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *Float) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}
