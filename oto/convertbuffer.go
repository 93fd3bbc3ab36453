package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/enginesound"
)

// Format is the sample format of the bytes handed to the audio device.
type Format int

const (
	Float32LE Format = iota
	Int16LE
)

// BytesPerFrame returns the size of one interleaved stereo frame.
func (f Format) BytesPerFrame() int {
	if f == Int16LE {
		return 4
	}
	return 8
}

func (f Format) String() string {
	if f == Int16LE {
		return "int16le"
	}
	return "float32le"
}

func clamp(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	case v != v: // NaN
		return 0
	}
	return v
}

// FloatBufferToFloat32LE writes the buffer as interleaved little-endian
// float32, clamped to [-1, 1]. dst must hold 8 bytes per frame. Returns the
// number of bytes written.
func FloatBufferToFloat32LE(buffer enginesound.AudioBuffer, dst []byte) int {
	n := 0
	for _, frame := range buffer {
		binary.LittleEndian.PutUint32(dst[n:], math.Float32bits(clamp(frame[0])))
		binary.LittleEndian.PutUint32(dst[n+4:], math.Float32bits(clamp(frame[1])))
		n += 8
	}
	return n
}

// FloatBufferTo16BitLE writes the buffer as interleaved little-endian int16,
// clamped to [-1, 1]. dst must hold 4 bytes per frame. Returns the number of
// bytes written.
func FloatBufferTo16BitLE(buffer enginesound.AudioBuffer, dst []byte) int {
	n := 0
	for _, frame := range buffer {
		binary.LittleEndian.PutUint16(dst[n:], uint16(int16(clamp(frame[0])*math.MaxInt16)))
		binary.LittleEndian.PutUint16(dst[n+2:], uint16(int16(clamp(frame[1])*math.MaxInt16)))
		n += 4
	}
	return n
}

func (f Format) convert(buffer enginesound.AudioBuffer, dst []byte) int {
	if f == Int16LE {
		return FloatBufferTo16BitLE(buffer, dst)
	}
	return FloatBufferToFloat32LE(buffer, dst)
}
