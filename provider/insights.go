package provider

import (
	"context"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// Seat predicts the confirmation probability of a waitlisted ticket.
type Seat struct {
	rt *Runtime
}

func (s *Seat) Predict(ctx context.Context, q model.InsightQuery) model.Result[model.SeatPrediction] {
	return call(ctx, s.rt, model.CapSeat, q, func() (model.SeatPrediction, error) {
		if rec, ok := lookupTrain(q.TrainNo); ok {
			p := rec.seat
			p.Insights = append([]string(nil), p.Insights...)
			return p, nil
		}
		band := "uncertain"
		if s.rt.float64() > 0.5 {
			band = "likely"
		}
		return model.SeatPrediction{
			Probability: s.rt.intN(100),
			Band:        band,
			Insights:    []string{"Moderate availability for this route", "Consider flexible dates"},
		}, nil
	})
}

// Tatkal suggests the best minutes of the tatkal booking window.
type Tatkal struct {
	rt *Runtime
}

func (t *Tatkal) Predict(ctx context.Context, q model.InsightQuery) model.Result[model.TatkalPrediction] {
	return call(ctx, t.rt, model.CapTatkal, q, func() (model.TatkalPrediction, error) {
		if rec, ok := lookupTrain(q.TrainNo); ok {
			p := rec.tatkal
			p.BestWindows = append([]model.Window(nil), p.BestWindows...)
			return p, nil
		}
		return model.TatkalPrediction{
			BestWindows: []model.Window{{Start: "10:00", End: "10:02"}},
			Note:        "Standard tatkal timing",
		}, nil
	})
}

// Sentiment summarises rider feedback over the query window (7 days when
// unset).
type Sentiment struct {
	rt *Runtime
}

func (s *Sentiment) Get(ctx context.Context, q model.InsightQuery) model.Result[model.Sentiment] {
	return call(ctx, s.rt, model.CapSentiment, q, func() (model.Sentiment, error) {
		if rec, ok := lookupTrain(q.TrainNo); ok {
			v := rec.sentiment
			v.Snippets = append([]string(nil), v.Snippets...)
			return v, nil
		}
		return model.Sentiment{
			Tag:      "neutral",
			Reason:   "Limited recent feedback",
			Snippets: []string{"Average service", "Standard amenities"},
		}, nil
	})
}
