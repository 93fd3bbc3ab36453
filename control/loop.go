package control

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/enginesound"
)

type (
	// Target receives the control values. All methods must be non-blocking:
	// they are called once per tick and only publish values to the render
	// side.
	Target interface {
		SetRPM(rpm float64)
		SetMix(mix float64)
		SetMotion(position, velocity enginesound.Vec3)
	}

	// FaultCounter reports how many times rendering has failed so far.
	FaultCounter interface {
		Faults() uint64
	}

	// Config drives the demo scenario: the emitter starts at (StartPosition,
	// 0, Depth) and accelerates along +x, while the RPM and the
	// throttle/release mix follow periodic curves.
	Config struct {
		Interval      time.Duration
		Duration      time.Duration // <= 0 runs until cancelled
		Period        time.Duration
		PhaseOffset   float64 // in cycles
		IdleRPM       float64
		RPMRange      float64
		Acceleration  float64 // m/s², along +x
		StartPosition float64
		Depth         float64
		MixShift      float64
		MixBend       float64
	}

	// State is what a Step computed and pushed to the Target.
	State struct {
		RPM  float64
		Mix  float64
		Body Body
	}

	// Loop is the control side of the engine: it runs on its own goroutine,
	// ticks at a fixed interval and publishes new parameters to the Target.
	// It also watches the health of the audio stream and logs problems.
	// Stream and Faults are optional.
	Loop struct {
		Config Config
		Target Target
		Stream interface{ Err() error }
		Faults FaultCounter
		Log    logrus.FieldLogger

		body       Body
		lastErr    error
		lastFaults uint64
	}
)

func DefaultConfig() Config {
	return Config{
		Interval:      10 * time.Millisecond,
		Duration:      60 * time.Second,
		Period:        10 * time.Second,
		PhaseOffset:   0.75,
		IdleRPM:       3800,
		RPMRange:      10000,
		Acceleration:  1.4,
		StartPosition: -8,
		Depth:         -8,
		MixShift:      -0.5,
		MixBend:       0.8,
	}
}

func (c *Config) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: control interval %v", enginesound.ErrInvalidConfig, c.Interval)
	}
	if c.Period <= 0 {
		return fmt.Errorf("%w: control period %v", enginesound.ErrInvalidConfig, c.Period)
	}
	for _, v := range []float64{c.PhaseOffset, c.IdleRPM, c.RPMRange, c.Acceleration, c.StartPosition, c.Depth, c.MixShift, c.MixBend} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite control parameter", enginesound.ErrInvalidConfig)
		}
	}
	return nil
}

func NewLoop(config Config, target Target, log logrus.FieldLogger) (*Loop, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loop{
		Config: config,
		Target: target,
		Log:    log.WithField("component", "control"),
		body:   Body{Position: enginesound.Vec3{config.StartPosition, 0, config.Depth}},
	}, nil
}

// Body returns the current state of the emitter.
func (l *Loop) Body() Body {
	return l.body
}

// Step advances the emitter by dt seconds and pushes the values for the
// given elapsed time to the Target.
func (l *Loop) Step(elapsed time.Duration, dt float64) State {
	c := &l.Config
	l.body.Integrate(enginesound.Vec3{c.Acceleration, 0, 0}, dt)
	phase := Phase(elapsed, c.Period, c.PhaseOffset)
	s := State{
		RPM:  TargetRPM(phase, c.IdleRPM, c.RPMRange),
		Mix:  Mix(phase, c.MixShift, c.MixBend),
		Body: l.body,
	}
	l.Target.SetMotion(s.Body.Position, s.Body.Velocity)
	l.Target.SetRPM(s.RPM)
	l.Target.SetMix(s.Mix)
	return s
}

// Run ticks until Config.Duration has elapsed (returning nil) or ctx is
// cancelled (returning ctx.Err()). The time step of each tick is measured
// from the wall clock, so a late tick moves the emitter further.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Config.Interval)
	defer ticker.Stop()
	start := time.Now()
	last := start
	l.Step(0, 0)
	l.Log.WithFields(logrus.Fields{"interval": l.Config.Interval, "duration": l.Config.Duration}).Info("control loop started")
	for {
		select {
		case <-ctx.Done():
			l.Log.Info("control loop cancelled")
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			s := l.Step(elapsed, now.Sub(last).Seconds())
			last = now
			l.checkHealth()
			if l.Config.Duration > 0 && elapsed >= l.Config.Duration {
				l.Log.WithFields(logrus.Fields{"rpm": s.RPM, "x": s.Body.Position[0]}).Info("control loop finished")
				return nil
			}
		}
	}
}

// checkHealth logs each new stream error and any render faults since the
// previous tick. Neither stops the loop.
func (l *Loop) checkHealth() {
	if l.Stream != nil {
		if err := l.Stream.Err(); err != nil && err != l.lastErr {
			l.Log.WithError(err).Warn("audio stream reported an error")
			l.lastErr = err
		}
	}
	if l.Faults != nil {
		if n := l.Faults.Faults(); n != l.lastFaults {
			l.Log.WithFields(logrus.Fields{"new": n - l.lastFaults, "total": n}).Warn("render faults, output was silenced")
			l.lastFaults = n
		}
	}
}

