package enginesound

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLibrary  = errors.New("engine profile has no loop samples")
	ErrDuplicateRPM  = errors.New("duplicate loop sample rpm")
	ErrEmptySample   = errors.New("loop sample has no frames")
	ErrInvalidSample = errors.New("invalid loop sample")
	ErrInvalidConfig = errors.New("invalid engine configuration")
)

type (
	// ConfigError is returned when the sample library or the engine profile
	// cannot be built. It names the voice, the file and the rpm tag involved,
	// whichever are known.
	ConfigError struct {
		Voice string
		File  string
		RPM   float64
		Err   error
	}

	// DeviceError is returned when no output device can be opened or the
	// stream configuration is not supported. Fatal at startup.
	DeviceError struct {
		Backend string
		Err     error
	}

	// StreamError is a runtime error reported by the audio I/O layer during
	// playback. It is never fatal: the stream keeps running.
	StreamError struct {
		Err error
	}
)

func (e *ConfigError) Error() string {
	msg := "config error"
	if e.Voice != "" {
		msg += fmt.Sprintf(" in voice %q", e.Voice)
	}
	if e.File != "" {
		msg += fmt.Sprintf(" (file %v)", e.File)
	}
	if e.RPM != 0 {
		msg += fmt.Sprintf(" (rpm %v)", e.RPM)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device error (%s): %v", e.Backend, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

func (e *StreamError) Error() string { return fmt.Sprintf("audio stream error: %v", e.Err) }

func (e *StreamError) Unwrap() error { return e.Err }
