package insight

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/yatriq/coalesce"
	"github.com/theoremus-urban-solutions/yatriq/model"
)

// SeatSource, TatkalSource and SentimentSource are the provider calls a
// Fetcher fans out to. The provider adapters satisfy them.
type SeatSource interface {
	Predict(ctx context.Context, q model.InsightQuery) model.Result[model.SeatPrediction]
}

type TatkalSource interface {
	Predict(ctx context.Context, q model.InsightQuery) model.Result[model.TatkalPrediction]
}

type SentimentSource interface {
	Get(ctx context.Context, q model.InsightQuery) model.Result[model.Sentiment]
}

// Fetcher builds composite insights.
type Fetcher struct {
	coalescer *coalesce.Coalescer
	seat      SeatSource
	tatkal    TatkalSource
	sentiment SentimentSource
	logger    *slog.Logger
}

// NewFetcher returns a fetcher over c. logger may be nil.
func NewFetcher(c *coalesce.Coalescer, seat SeatSource, tatkal TatkalSource, sentiment SentimentSource, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{coalescer: c, seat: seat, tatkal: tatkal, sentiment: sentiment, logger: logger}
}

// Fetch issues the three lookups concurrently and waits for all of them.
func (f *Fetcher) Fetch(ctx context.Context, q model.InsightQuery) model.CompositeInsight {
	key := q.Key()
	out := model.CompositeInsight{TrainNo: q.TrainNo}

	// members never return an error; the group is only a WaitGroup here
	var g errgroup.Group
	g.Go(func() error {
		out.Seat = coalesce.Request(ctx, f.coalescer, model.CapSeat, key, func(ctx context.Context) model.Result[model.SeatPrediction] {
			return f.seat.Predict(ctx, q)
		})
		return nil
	})
	g.Go(func() error {
		out.Tatkal = coalesce.Request(ctx, f.coalescer, model.CapTatkal, key, func(ctx context.Context) model.Result[model.TatkalPrediction] {
			return f.tatkal.Predict(ctx, q)
		})
		return nil
	})
	g.Go(func() error {
		out.Sentiment = coalesce.Request(ctx, f.coalescer, model.CapSentiment, key, func(ctx context.Context) model.Result[model.Sentiment] {
			return f.sentiment.Get(ctx, q)
		})
		return nil
	})
	_ = g.Wait()

	if n := out.Available(); n < 3 {
		f.logger.Warn("insight: partial composite", "train", q.TrainNo, "available", n,
			"seat", out.Seat.Kind(), "tatkal", out.Tatkal.Kind(), "sentiment", out.Sentiment.Kind())
	}
	return out
}

// Invalidate drops the cached lookups of q so the next Fetch asks the
// providers again.
func (f *Fetcher) Invalidate(q model.InsightQuery) {
	key := q.Key()
	for _, c := range []model.Capability{model.CapSeat, model.CapTatkal, model.CapSentiment} {
		f.coalescer.Invalidate(c, key)
	}
}
