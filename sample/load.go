package sample

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/enginesound"
)

// Library is the immutable set of loops of both engine voices. It is built
// once at startup and must outlive the audio stream.
type Library struct {
	Throttle *enginesound.EngineProfile
	Release  *enginesound.EngineProfile
}

// Load decodes all the loop files of the config from fsys and builds the
// profiles of both voices. Any missing, unreadable or empty file is a
// *enginesound.ConfigError naming the voice, file and rpm.
func Load(fsys fs.FS, config Config, log logrus.FieldLogger) (*Library, error) {
	throttle, err := LoadVoice(fsys, "throttle", config.Throttle, log)
	if err != nil {
		return nil, err
	}
	release, err := LoadVoice(fsys, "release", config.Release, log)
	if err != nil {
		return nil, err
	}
	return &Library{Throttle: throttle, Release: release}, nil
}

func LoadVoice(fsys fs.FS, name string, config VoiceConfig, log logrus.FieldLogger) (*enginesound.EngineProfile, error) {
	entries := config.Entries()
	loops := make([]enginesound.LoopSample, 0, len(entries))
	for _, e := range entries {
		buf, err := readFile(fsys, e.File)
		if err != nil {
			return nil, &enginesound.ConfigError{Voice: name, File: e.File, RPM: e.RPM, Err: err}
		}
		log.WithFields(logrus.Fields{
			"voice":    name,
			"file":     e.File,
			"rpm":      e.RPM,
			"rate":     buf.SampleRate,
			"bits":     buf.BitDepth,
			"channels": buf.Channels,
			"frames":   len(buf.Frames),
		}).Debug("decoded loop")
		loops = append(loops, enginesound.LoopSample{
			Name:       e.File,
			RPM:        e.RPM,
			AttackTime: *e.Attack,
			SampleRate: buf.SampleRate,
			Frames:     buf.Frames,
		})
	}
	profile, err := enginesound.BuildProfile(config.BaseRPM, config.Smoothing, loops)
	if err != nil {
		var cerr *enginesound.ConfigError
		if errors.As(err, &cerr) {
			cerr.Voice = name
		}
		return nil, err
	}
	return profile, nil
}

func readFile(fsys fs.FS, name string) (Buffer, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Buffer{}, fmt.Errorf("could not open loop: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
