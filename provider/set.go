package provider

import (
	"github.com/theoremus-urban-solutions/yatriq/store"
)

// Set is one adapter per capability over a shared Runtime.
type Set struct {
	Runtime   *Runtime
	Schedules *Schedules
	Seat      *Seat
	Tatkal    *Tatkal
	Sentiment *Sentiment
	Tracking  *Tracking
	Bookings  *Bookings
	Chat      *Chat
	Planner   *Planner
}

// NewSet wires the adapters. bookings must not be nil; seed may be.
func NewSet(rt *Runtime, bookings store.BookingStore, seed PositionSeed) *Set {
	return &Set{
		Runtime:   rt,
		Schedules: &Schedules{rt: rt},
		Seat:      &Seat{rt: rt},
		Tatkal:    &Tatkal{rt: rt},
		Sentiment: &Sentiment{rt: rt},
		Tracking:  &Tracking{rt: rt, seed: seed},
		Bookings:  &Bookings{rt: rt, store: bookings},
		Chat:      &Chat{rt: rt},
		Planner:   &Planner{rt: rt},
	}
}

// WithRoutes makes the tracking adapter follow r. Call it before the set is
// used.
func (s *Set) WithRoutes(r RouteSource) *Set {
	s.Tracking.routes = r
	return s
}
