package feed

import (
	"context"
	"log/slog"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// Seed places trains from a live feed when tracking starts.
type Seed struct {
	client *Client
	source string
	logger *slog.Logger
}

// NewSeed reads positions from source, a URL or file path.
func NewSeed(client *Client, source string, logger *slog.Logger) *Seed {
	if client == nil {
		client = NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seed{client: client, source: source, logger: logger}
}

// Position returns the index on path and delay in minutes of trainNo. ok is
// false when the feed is unreachable, does not carry the train, or reports
// a stop that is not on path.
func (s *Seed) Position(ctx context.Context, trainNo string, path model.Path) (index, delayMinutes int, ok bool) {
	b, err := s.client.Fetch(ctx, s.source)
	if err != nil {
		s.logger.Warn("feed: fetch failed", "source", s.source, "error", err)
		return 0, 0, false
	}
	statuses, err := Decode(b)
	if err != nil {
		s.logger.Warn("feed: decode failed", "source", s.source, "error", err)
		return 0, 0, false
	}
	for _, v := range statuses {
		if v.TrainNo != trainNo {
			continue
		}
		index, ok := v.IndexIn(path)
		if !ok {
			s.logger.Warn("feed: stop not on route", "train", trainNo, "stop", v.StopID)
			return 0, 0, false
		}
		return index, v.DelaySeconds / 60, true
	}
	return 0, 0, false
}
