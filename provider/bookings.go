package provider

import (
	"context"

	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/store"
)

// PNRQuery is a ten digit passenger name record.
type PNRQuery struct {
	PNR string `json:"pnr" validate:"required,numeric,len=10"`
}

// Bookings reads and writes the booking source.
type Bookings struct {
	rt    *Runtime
	store store.BookingStore
}

// Recent lists the user's bookings, newest first.
func (b *Bookings) Recent(ctx context.Context) model.Result[[]model.Booking] {
	return call(ctx, b.rt, model.CapBookings, nil, func() ([]model.Booking, error) {
		return b.store.Recent(ctx)
	})
}

// PNR looks a booking up. An unknown PNR fails with NotFound.
func (b *Bookings) PNR(ctx context.Context, q PNRQuery) model.Result[model.Booking] {
	return call(ctx, b.rt, model.CapPNR, q, func() (model.Booking, error) {
		return b.store.ByPNR(ctx, q.PNR)
	})
}

// SaveDraft stores a journey plan and returns it with its id.
func (b *Bookings) SaveDraft(ctx context.Context, d model.BookingDraft) model.Result[model.BookingDraft] {
	return call(ctx, b.rt, model.CapDraft, d, func() (model.BookingDraft, error) {
		return b.store.SaveDraft(ctx, d)
	})
}
