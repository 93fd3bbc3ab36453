package oto

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/enginesound"
)

type (
	// Context is the default audio output, on top of oto. oto pulls the
	// audio: its player goroutine calls Read, which renders the graph into a
	// pre-sized buffer and converts it to bytes.
	Context struct {
		context    *oto.Context
		sampleRate int
		format     Format
		maxFrames  int
	}

	// Stream is a playing oto player.
	Stream struct {
		player *oto.Player
		reader *reader
		err    *enginesound.StreamError
	}

	reader struct {
		renderer enginesound.Renderer
		buffer   enginesound.AudioBuffer
		format   Format
	}
)

const Backend = "oto"

// NewContext opens the audio device. Only one oto context can exist in a
// process. bufferSize is the device buffer length; 0 lets oto decide.
func NewContext(sampleRate int, format Format, bufferSize time.Duration, maxFrames int) (*Context, error) {
	if sampleRate <= 0 {
		return nil, &enginesound.DeviceError{Backend: Backend, Err: fmt.Errorf("invalid sample rate %v", sampleRate)}
	}
	if maxFrames <= 0 {
		maxFrames = 2048
	}
	otoFormat := oto.FormatFloat32LE
	if format == Int16LE {
		otoFormat = oto.FormatSignedInt16LE
	}
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       otoFormat,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, &enginesound.DeviceError{Backend: Backend, Err: fmt.Errorf("cannot create oto context: %w", err)}
	}
	<-ready
	return &Context{context: context, sampleRate: sampleRate, format: format, maxFrames: maxFrames}, nil
}

func (c *Context) SampleRate() int {
	return c.sampleRate
}

// Play starts pulling audio from r. r is called on oto's goroutine until the
// stream is closed.
func (c *Context) Play(r enginesound.Renderer) (enginesound.AudioStream, error) {
	if err := c.context.Err(); err != nil {
		return nil, &enginesound.DeviceError{Backend: Backend, Err: err}
	}
	rd := newReader(r, c.format, c.maxFrames)
	player := c.context.NewPlayer(rd)
	player.Play()
	return &Stream{player: player, reader: rd}, nil
}

// Err returns the error the player stopped with, if any. The same error is
// returned on every call.
func (s *Stream) Err() error {
	err := s.player.Err()
	if err == nil {
		return nil
	}
	if s.err == nil || s.err.Err != err {
		s.err = &enginesound.StreamError{Err: err}
	}
	return s.err
}

func (s *Stream) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

func newReader(r enginesound.Renderer, format Format, maxFrames int) *reader {
	return &reader{renderer: r, buffer: make(enginesound.AudioBuffer, maxFrames), format: format}
}

// Read fills p with whole frames, rendering at most len(buffer) frames at a
// time.
func (r *reader) Read(p []byte) (int, error) {
	size := r.format.BytesPerFrame()
	frames := len(p) / size
	n := 0
	for frames > 0 {
		chunk := min(frames, len(r.buffer))
		buf := r.buffer[:chunk]
		r.renderer.Render(buf)
		n += r.format.convert(buf, p[n:])
		frames -= chunk
	}
	return n, nil
}
