//go:build portaudio

package portaudio

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/gordonklaus/portaudio"
	"github.com/vsariola/enginesound"
)

type (
	// Context is an audio output on the default PortAudio device. PortAudio
	// pushes: it calls back on its own thread whenever it needs more frames.
	Context struct {
		sampleRate int
		frames     int
	}

	// Stream is a running PortAudio stream. The callback records underflows
	// and Err reports them.
	Stream struct {
		stream     *portaudio.Stream
		renderer   enginesound.Renderer
		underflows atomic.Uint64
		reported   uint64
		err        *enginesound.StreamError
	}
)

const Backend = "portaudio"

var errUnderflow = errors.New("output underflow")

// NewContext initializes PortAudio. A sampleRate of 0 uses the default rate
// of the default output device.
func NewContext(sampleRate, framesPerBuffer int) (*Context, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &enginesound.DeviceError{Backend: Backend, Err: err}
	}
	if sampleRate <= 0 {
		device, err := portaudio.DefaultOutputDevice()
		if err != nil {
			portaudio.Terminate()
			return nil, &enginesound.DeviceError{Backend: Backend, Err: fmt.Errorf("no default output device: %w", err)}
		}
		sampleRate = int(device.DefaultSampleRate)
	}
	return &Context{sampleRate: sampleRate, frames: framesPerBuffer}, nil
}

func (c *Context) SampleRate() int {
	return c.sampleRate
}

func (c *Context) Play(r enginesound.Renderer) (enginesound.AudioStream, error) {
	s := &Stream{renderer: r}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(c.sampleRate), c.frames, s.process)
	if err != nil {
		return nil, &enginesound.DeviceError{Backend: Backend, Err: fmt.Errorf("cannot open stream: %w", err)}
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, &enginesound.DeviceError{Backend: Backend, Err: fmt.Errorf("cannot start stream: %w", err)}
	}
	s.stream = stream
	return s, nil
}

// Close releases PortAudio. Streams must be closed first.
func (c *Context) Close() error {
	return portaudio.Terminate()
}

func (s *Stream) process(out []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
	if flags&portaudio.OutputUnderflow != 0 {
		s.underflows.Add(1)
	}
	if len(out) < 2 {
		return
	}
	// the interleaved stereo samples are laid out exactly as [][2]float32
	buffer := unsafe.Slice((*[2]float32)(unsafe.Pointer(&out[0])), len(out)/2)
	s.renderer.Render(buffer)
}

// Err returns a *enginesound.StreamError if the device has underflowed since
// the previous report. Otherwise the last reported error is returned again.
func (s *Stream) Err() error {
	if n := s.underflows.Load(); n != s.reported {
		s.err = &enginesound.StreamError{Err: fmt.Errorf("%w (%d times)", errUnderflow, n-s.reported)}
		s.reported = n
	}
	if s.err == nil {
		return nil
	}
	return s.err
}

func (s *Stream) Close() error {
	if err := s.stream.Stop(); err != nil {
		s.stream.Close()
		return fmt.Errorf("cannot stop portaudio stream: %w", err)
	}
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("cannot close portaudio stream: %w", err)
	}
	return nil
}
