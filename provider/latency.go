package provider

import (
	"time"

	"github.com/theoremus-urban-solutions/yatriq/config"
	"github.com/theoremus-urban-solutions/yatriq/model"
)

// LatencyModel yields the simulated latency of one call.
type LatencyModel interface {
	Latency(c model.Capability) time.Duration
}

// FixedLatency is a constant latency per capability. Missing entries are zero.
type FixedLatency map[model.Capability]time.Duration

func (f FixedLatency) Latency(c model.Capability) time.Duration { return f[c] }

// DefaultLatency returns the latencies of the sample backend.
func DefaultLatency() FixedLatency {
	return FixedLatency{
		model.CapSchedules: 800 * time.Millisecond,
		model.CapSeat:      400 * time.Millisecond,
		model.CapTatkal:    300 * time.Millisecond,
		model.CapSentiment: 500 * time.Millisecond,
		model.CapTracking:  600 * time.Millisecond,
		model.CapBookings:  300 * time.Millisecond,
		model.CapPNR:       400 * time.Millisecond,
		model.CapDraft:     200 * time.Millisecond,
		model.CapChat:      1200 * time.Millisecond,
		model.CapPlanner:   2000 * time.Millisecond,
	}
}

// LatencyFromConfig overlays the configured milliseconds on the defaults.
func LatencyFromConfig(cfg config.LatencyConfig) FixedLatency {
	lat := DefaultLatency()
	set := func(c model.Capability, ms int) {
		if ms > 0 {
			lat[c] = time.Duration(ms) * time.Millisecond
		}
	}
	set(model.CapSchedules, cfg.Schedules)
	set(model.CapSeat, cfg.Seat)
	set(model.CapTatkal, cfg.Tatkal)
	set(model.CapSentiment, cfg.Sentiment)
	set(model.CapTracking, cfg.Tracking)
	set(model.CapBookings, cfg.Bookings)
	set(model.CapPNR, cfg.PNR)
	set(model.CapDraft, cfg.Draft)
	set(model.CapChat, cfg.Chat)
	set(model.CapPlanner, cfg.Planner)
	return lat
}
