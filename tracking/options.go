package tracking

import (
	"time"

	"github.com/theoremus-urban-solutions/yatriq/config"
)

// Options are the step timings of a simulator.
type Options struct {
	InitialDelay time.Duration
	MinStep      time.Duration
	MaxStep      time.Duration
}

// DefaultOptions: first step after 3s, then every 8 to 12s.
func DefaultOptions() Options {
	return Options{
		InitialDelay: 3 * time.Second,
		MinStep:      8 * time.Second,
		MaxStep:      12 * time.Second,
	}
}

// OptionsFromConfig converts the simulator section of the app config.
func OptionsFromConfig(cfg config.SimulatorConfig) Options {
	return Options{
		InitialDelay: time.Duration(cfg.InitialDelayMS) * time.Millisecond,
		MinStep:      time.Duration(cfg.MinStepMS) * time.Millisecond,
		MaxStep:      time.Duration(cfg.MaxStepMS) * time.Millisecond,
	}
}

// StartOption adjusts a single session.
type StartOption func(*startConfig)

type startConfig struct {
	delayMinutes int
	subscribers  []func(Snapshot)
}

// WithDelay starts the session already delayed by minutes.
func WithDelay(minutes int) StartOption {
	return func(c *startConfig) { c.delayMinutes = minutes }
}

// WithSubscriber registers fn before the first step can fire.
func WithSubscriber(fn func(Snapshot)) StartOption {
	return func(c *startConfig) {
		if fn != nil {
			c.subscribers = append(c.subscribers, fn)
		}
	}
}
