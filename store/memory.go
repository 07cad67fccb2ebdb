package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// MemoryStore is an in-process BookingStore.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking
	drafts   []model.BookingDraft
	now      func() time.Time
}

// NewMemoryStore returns a store holding seed.
func NewMemoryStore(seed []model.Booking) *MemoryStore {
	s := &MemoryStore{bookings: make(map[string]model.Booking, len(seed)), now: time.Now}
	for _, b := range seed {
		s.bookings[b.PNR] = b
	}
	return s
}

func (s *MemoryStore) Recent(ctx context.Context) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sortRecent(out)
	return out, nil
}

func (s *MemoryStore) ByPNR(ctx context.Context, pnr string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[pnr]
	if !ok {
		return model.Booking{}, model.NewError(model.NotFound, "store.ByPNR", nil)
	}
	return b, nil
}

func (s *MemoryStore) SaveDraft(ctx context.Context, d model.BookingDraft) (model.BookingDraft, error) {
	d.ID = uuid.NewString()
	d.Saved = true
	d.CreatedAt = s.now().UTC()
	s.mu.Lock()
	s.drafts = append(s.drafts, d)
	s.mu.Unlock()
	return d, nil
}

// Drafts returns the saved drafts in save order.
func (s *MemoryStore) Drafts() []model.BookingDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.BookingDraft(nil), s.drafts...)
}

func (s *MemoryStore) Close() error { return nil }
