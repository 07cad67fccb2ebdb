package provider

import (
	"context"
	"sort"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// Planner prices round-trip bundles.
type Planner struct {
	rt *Runtime
}

// Plan returns the bundles for prefs. Fares scale with the budget tier
// (fare × budget × 0.8) and confirmation scores move by up to ±5. Bundles are
// ordered by prefs.Priority, confirmation when unset.
func (p *Planner) Plan(ctx context.Context, prefs model.RoundTripPrefs) model.Result[[]model.RoundTripBundle] {
	return call(ctx, p.rt, model.CapPlanner, prefs, func() ([]model.RoundTripBundle, error) {
		priority := prefs.Priority
		if priority == "" {
			priority = "confirmation"
		}
		out := make([]model.RoundTripBundle, 0, len(roundTripTemplates))
		for _, tmpl := range roundTripTemplates {
			b := tmpl
			b.City = prefs.City
			b.Days = prefs.Days
			b.Priority = priority
			b.TotalFare = tmpl.TotalFare * float64(prefs.Budget) * 0.8
			b.ConfirmationScore = min(100, max(0, tmpl.ConfirmationScore+p.rt.float64()*10-5))
			if prefs.Class != "" {
				b.Outbound.Class = prefs.Class
				b.Return.Class = prefs.Class
			}
			out = append(out, b)
		}
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			switch priority {
			case "cheapest":
				return a.TotalFare < b.TotalFare
			case "fastest":
				return a.TotalDuration < b.TotalDuration
			}
			return a.ConfirmationScore > b.ConfirmationScore
		})
		return out, nil
	})
}
