package store

import (
	"context"
	"sort"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// BookingStore is implemented by MemoryStore and SQLiteStore.
type BookingStore interface {
	// Recent lists bookings by journey date, newest first.
	Recent(ctx context.Context) ([]model.Booking, error)
	// ByPNR fails with a model.NotFound error for unknown PNRs.
	ByPNR(ctx context.Context, pnr string) (model.Booking, error)
	// SaveDraft assigns an id and creation time and marks the draft saved.
	SaveDraft(ctx context.Context, d model.BookingDraft) (model.BookingDraft, error)
	Close() error
}

func sortRecent(bs []model.Booking) {
	sort.SliceStable(bs, func(i, j int) bool {
		if bs[i].Date != bs[j].Date {
			return bs[i].Date > bs[j].Date
		}
		return bs[i].PNR < bs[j].PNR
	})
}
