package model

import (
	"strings"
	"time"
)

// Booking is a reservation known to the booking source.
type Booking struct {
	PNR       string `json:"pnr"`
	TrainNo   string `json:"trainNo"`
	TrainName string `json:"trainName"`
	From      string `json:"from"`
	To        string `json:"to"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Class     string `json:"class"`
	Coach     string `json:"coach"`
	Seat      string `json:"seat"`
}

// BookingState is the coarse class of a booking status string.
type BookingState string

const (
	BookingConfirmed  BookingState = "confirmed"
	BookingWaitlisted BookingState = "waitlisted"
	BookingRAC        BookingState = "rac"
	BookingCancelled  BookingState = "cancelled"
	BookingUnknown    BookingState = "unknown"
)

// State classifies Status ("Confirmed", "WL/23", "RAC", "Cancelled").
func (b Booking) State() BookingState {
	s := strings.TrimSpace(b.Status)
	switch {
	case strings.EqualFold(s, "Confirmed"):
		return BookingConfirmed
	case strings.HasPrefix(strings.ToUpper(s), "WL/"):
		return BookingWaitlisted
	case strings.EqualFold(s, "RAC"):
		return BookingRAC
	case strings.EqualFold(s, "Cancelled"):
		return BookingCancelled
	}
	return BookingUnknown
}

// BookingDraft is an unsubmitted journey plan.
type BookingDraft struct {
	ID        string    `json:"id"`
	TrainNo   string    `json:"trainNo" validate:"required"`
	From      string    `json:"from" validate:"required"`
	To        string    `json:"to" validate:"required"`
	Date      string    `json:"date,omitempty"`
	Class     string    `json:"class,omitempty"`
	Quota     string    `json:"quota,omitempty"`
	Saved     bool      `json:"saved"`
	CreatedAt time.Time `json:"createdAt"`
}

// Leg is one direction of a round trip.
type Leg struct {
	TrainNo string `json:"trainNo"`
	DepTime string `json:"depTime"`
	Class   string `json:"class"`
}

// RoundTripBundle is a priced outbound/return pair.
type RoundTripBundle struct {
	ID                int     `json:"id"`
	City              string  `json:"city"`
	Days              int     `json:"days"`
	Priority          string  `json:"priority"`
	TotalFare         float64 `json:"totalFare"`
	TotalDuration     int     `json:"totalDuration"`
	ConfirmationScore float64 `json:"confirmationScore"`
	Outbound          Leg     `json:"outbound"`
	Return            Leg     `json:"return"`
}

// RoundTripPrefs drive the round-trip planner.
type RoundTripPrefs struct {
	City     string `json:"city" validate:"required"`
	Days     int    `json:"days" validate:"gte=1,lte=30"`
	Budget   int    `json:"budget" validate:"gte=1,lte=3"`
	Class    string `json:"class,omitempty"`
	Priority string `json:"priority" validate:"omitempty,oneof=cheapest confirmation fastest"`
}
