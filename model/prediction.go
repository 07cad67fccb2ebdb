package model

import "strings"

// Capability names one external predictive or lookup source.
type Capability string

const (
	CapSchedules Capability = "schedules"
	CapSeat      Capability = "seat"
	CapTatkal    Capability = "tatkal"
	CapSentiment Capability = "sentiment"
	CapTracking  Capability = "tracking"
	CapBookings  Capability = "bookings"
	CapPNR       Capability = "pnr"
	CapDraft     Capability = "draft"
	CapChat      Capability = "chat"
	CapPlanner   Capability = "planner"
)

// SeatPrediction is the seat-confirmation forecast for a train.
type SeatPrediction struct {
	Probability int      `json:"probability"`
	Band        string   `json:"band"`
	Insights    []string `json:"insights"`
}

// Confidence buckets the probability: high from 70, medium from 40.
func (p SeatPrediction) Confidence() string {
	switch {
	case p.Probability >= 70:
		return "high"
	case p.Probability >= 40:
		return "medium"
	}
	return "low"
}

// Window is a clock-time booking window, e.g. 10:00-10:02.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TatkalPrediction suggests when to hit the tatkal window.
type TatkalPrediction struct {
	BestWindows []Window `json:"bestWindows"`
	Note        string   `json:"note"`
}

// Sentiment summarises recent rider feedback.
type Sentiment struct {
	Tag      string   `json:"tag"`
	Reason   string   `json:"reason"`
	Snippets []string `json:"snippets"`
}

// InsightQuery scopes the three predictive lookups of one train.
type InsightQuery struct {
	TrainNo    string `json:"trainNo" validate:"required"`
	Date       string `json:"date,omitempty"`
	Class      string `json:"class,omitempty"`
	Quota      string `json:"quota,omitempty"`
	WindowDays int    `json:"windowDays,omitempty"`
}

// Key is the entity key used for coalescing. It is the train number alone
// when no date, class or quota narrows the query.
func (q InsightQuery) Key() string {
	parts := []string{strings.TrimSpace(q.TrainNo)}
	if q.Date == "" && q.Class == "" && q.Quota == "" {
		return parts[0]
	}
	parts = append(parts, q.Date, strings.ToUpper(q.Class), strings.ToUpper(q.Quota))
	return strings.Join(parts, "|")
}

// CompositeInsight bundles the three predictions of a train. Each field
// succeeds or fails on its own.
type CompositeInsight struct {
	TrainNo   string                   `json:"trainNo"`
	Seat      Result[SeatPrediction]   `json:"seat"`
	Tatkal    Result[TatkalPrediction] `json:"tatkal"`
	Sentiment Result[Sentiment]        `json:"sentiment"`
}

// Available counts the fields that resolved ok.
func (c CompositeInsight) Available() int {
	n := 0
	for _, ok := range []bool{c.Seat.IsOK(), c.Tatkal.IsOK(), c.Sentiment.IsOK()} {
		if ok {
			n++
		}
	}
	return n
}

// AllFailed reports whether no field resolved.
func (c CompositeInsight) AllFailed() bool { return c.Available() == 0 }
