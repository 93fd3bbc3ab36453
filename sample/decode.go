package sample

import (
	"fmt"
	"io"

	"github.com/gopxl/beep/v2/wav"
)

// Buffer is a decoded recording mixed down to mono, with values in [-1, 1].
type Buffer struct {
	SampleRate int
	BitDepth   int
	Channels   int
	Frames     []float32
}

const decodeChunk = 1024

// Decode reads a WAVE file. Integer formats of 8, 16 and 24 bits are scaled
// to [-1, 1] using their full range and multiple channels are averaged. A
// payload that is empty or not a supported WAVE file yields an empty Buffer
// and no error; the caller decides whether an empty recording is acceptable.
// An error is returned only if reading fails after the header was accepted.
func Decode(r io.Reader) (Buffer, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return Buffer{}, nil
	}
	defer s.Close()
	ret := Buffer{
		SampleRate: int(format.SampleRate),
		BitDepth:   format.Precision * 8,
		Channels:   format.NumChannels,
	}
	if n := s.Len(); n > 0 {
		ret.Frames = make([]float32, 0, n)
	}
	chunk := make([][2]float64, decodeChunk)
	for {
		n, ok := s.Stream(chunk)
		for _, f := range chunk[:n] {
			ret.Frames = append(ret.Frames, float32((f[0]+f[1])/2))
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return Buffer{}, fmt.Errorf("could not decode wav data: %w", err)
	}
	return ret, nil
}
