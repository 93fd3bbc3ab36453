package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/vsariola/enginesound"
	"github.com/vsariola/enginesound/oto"
)

type (
	// Backend is an audio output the player can be run on.
	Backend struct {
		Name string
		Open func(o BackendOptions) (enginesound.AudioContext, error)
	}

	BackendOptions struct {
		SampleRate int    // 0 lets the backend choose
		Format     string // "float32le" or "int16le"; only oto honours it
		MaxFrames  int
		Latency    time.Duration
	}
)

const DefaultSampleRate = 48000

// Backends lists the available audio outputs, the default first. Build tags
// can add more.
var Backends = []Backend{{Name: oto.Backend, Open: openOto}}

func FindBackend(name string) (Backend, error) {
	names := make([]string, len(Backends))
	for i, b := range Backends {
		if b.Name == name {
			return b, nil
		}
		names[i] = b.Name
	}
	return Backend{}, fmt.Errorf("unknown audio backend %q, available: %s", name, strings.Join(names, ", "))
}

func openOto(o BackendOptions) (enginesound.AudioContext, error) {
	rate := o.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	format := oto.Float32LE
	switch o.Format {
	case "", oto.Float32LE.String():
	case oto.Int16LE.String():
		format = oto.Int16LE
	default:
		return nil, &enginesound.DeviceError{Backend: oto.Backend, Err: fmt.Errorf("unknown sample format %q", o.Format)}
	}
	c, err := oto.NewContext(rate, format, o.Latency, o.MaxFrames)
	if err != nil {
		return nil, err
	}
	return c, nil
}
