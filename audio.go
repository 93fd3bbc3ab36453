package enginesound

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length, each
	// sample represented by [2]float32. [0] is left channel, [1] is right.
	// Its memory layout is identical to an interleaved []float32.
	AudioBuffer [][2]float32

	// Renderer fills an AudioBuffer completely. Render is called from the
	// audio goroutine of the backend and must not block, allocate or take
	// locks.
	Renderer interface {
		Render(buffer AudioBuffer)
	}

	// AudioContext is an audio I/O layer: it knows the device sample rate and
	// starts pulling audio from a Renderer once per device period.
	AudioContext interface {
		SampleRate() int
		Play(r Renderer) (AudioStream, error)
	}

	// AudioStream is a running output stream. Err reports the latest runtime
	// error of the stream (underrun, device loss); such errors are not fatal
	// and the stream keeps pulling audio. Close stops the stream and returns
	// only after the renderer will no longer be called.
	AudioStream interface {
		Err() error
		Close() error
	}
)

// Fill fills the buffer with silence.
func (b AudioBuffer) Fill(v [2]float32) {
	for i := range b {
		b[i] = v
	}
}
