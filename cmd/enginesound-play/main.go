package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/enginesound"
	"github.com/vsariola/enginesound/cmd"
	"github.com/vsariola/enginesound/control"
	"github.com/vsariola/enginesound/sample"
	"github.com/vsariola/enginesound/synth"
	"github.com/vsariola/enginesound/version"
)

func main() {
	samplesDir := flag.String("samples", ".", "Directory the loop files of the profile are relative to.")
	profileFile := flag.String("profile", "", "Engine profile (.yml or .json). By default, the built-in canyoncar profile is used.")
	backendName := flag.String("backend", cmd.Backends[0].Name, "Audio backend.")
	rate := flag.Int("rate", 0, "Output sample rate in Hz. 0 lets the backend choose.")
	format := flag.String("format", "float32le", "Sample format of the oto backend: float32le or int16le.")
	latency := flag.Duration("latency", 0, "Device buffer length. 0 lets the backend choose.")
	duration := flag.Duration("duration", control.DefaultConfig().Duration, "How long to play. 0 plays until interrupted.")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String("enginesound-play"))
		os.Exit(0)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	config := sample.DefaultConfig()
	if *profileFile != "" {
		data, err := os.ReadFile(*profileFile)
		if err != nil {
			log.WithError(err).Fatal("could not read profile")
		}
		if config, err = sample.ParseConfig(data); err != nil {
			log.WithError(err).WithField("file", *profileFile).Fatal("could not parse profile")
		}
	}
	library, err := sample.Load(os.DirFS(*samplesDir), config, log)
	if err != nil {
		fatal(log, "could not load the sample library", err)
	}

	loopConfig := control.DefaultConfig()
	loopConfig.Duration = *duration

	backend, err := cmd.FindBackend(*backendName)
	if err != nil {
		log.WithError(err).Fatal("invalid backend")
	}
	audioContext, err := backend.Open(cmd.BackendOptions{
		SampleRate: *rate,
		Format:     *format,
		MaxFrames:  synth.DefaultMaxFrames,
		Latency:    *latency,
	})
	if err != nil {
		fatal(log, "could not open the audio device", err)
	}
	if c, ok := audioContext.(io.Closer); ok {
		defer c.Close()
	}
	graph, loop := build(log, library, loopConfig, audioContext.SampleRate())

	stream, err := audioContext.Play(graph)
	if err != nil {
		fatal(log, "could not start playback", err)
	}
	log.WithFields(logrus.Fields{"backend": backend.Name, "rate": audioContext.SampleRate()}).Info("playing")
	loop.Stream = stream
	loop.Faults = graph

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = loop.Run(ctx)
	if cerr := stream.Close(); cerr != nil {
		log.WithError(cerr).Warn("could not close the audio stream")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("control loop failed")
	}
}

func build(log *logrus.Logger, library *sample.Library, config control.Config, sampleRate int) (*synth.Graph, *control.Loop) {
	graph, err := synth.NewGraph(synth.GraphConfig{
		SampleRate: sampleRate,
		MaxFrames:  synth.DefaultMaxFrames,
		Spatial:    synth.DefaultSpatialConfig(),
		Motion:     synth.Motion{Position: enginesound.Vec3{config.StartPosition, 0, config.Depth}},
	}, library.Throttle, library.Release)
	if err != nil {
		log.WithError(err).Fatal("could not build the render graph")
	}
	loop, err := control.NewLoop(config, graph, log)
	if err != nil {
		log.WithError(err).Fatal("invalid control loop configuration")
	}
	return graph, loop
}

// fatal logs the error with the fields of the typed errors and exits.
func fatal(log *logrus.Logger, msg string, err error) {
	entry := log.WithError(err)
	var cerr *enginesound.ConfigError
	if errors.As(err, &cerr) {
		entry = entry.WithFields(logrus.Fields{"voice": cerr.Voice, "file": cerr.File, "rpm": cerr.RPM})
	}
	var derr *enginesound.DeviceError
	if errors.As(err, &derr) {
		entry = entry.WithField("backend", derr.Backend)
	}
	entry.Fatal(msg)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Plays a synthesized engine passing by the listener.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
