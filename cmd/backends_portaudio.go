//go:build portaudio

package cmd

import (
	"github.com/vsariola/enginesound"
	"github.com/vsariola/enginesound/portaudio"
)

func init() {
	Backends = append(Backends, Backend{Name: portaudio.Backend, Open: func(o BackendOptions) (enginesound.AudioContext, error) {
		c, err := portaudio.NewContext(o.SampleRate, o.MaxFrames)
		if err != nil {
			return nil, err
		}
		return c, nil
	}})
}
