// Package portaudio plays audio through PortAudio's callback API. It needs
// cgo and the PortAudio library, so it is only built with -tags portaudio.
package portaudio
