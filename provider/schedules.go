package provider

import (
	"context"
	"sort"
	"strings"

	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/utils"
)

// Schedules searches the train catalogue.
type Schedules struct {
	rt *Runtime
}

// Search returns the trains running between criteria.From and criteria.To,
// matched by station code or city. Every row carries a fresh relevance score;
// rows are ordered by criteria.SortBy (relevance when empty).
func (s *Schedules) Search(ctx context.Context, criteria model.SearchCriteria) model.Result[[]model.Train] {
	return call(ctx, s.rt, model.CapSchedules, criteria, func() ([]model.Train, error) {
		out := []model.Train{}
		for _, rec := range catalogue {
			t := rec.train
			if !stationMatches(t.From, criteria.From) || !stationMatches(t.To, criteria.To) {
				continue
			}
			t.Classes = append([]string(nil), t.Classes...)
			fares := make(map[string]int, len(t.Fares))
			for k, v := range t.Fares {
				fares[k] = v
			}
			t.Fares = fares
			t.Relevance = s.rt.float64() * 100
			out = append(out, t)
		}
		sortTrains(out, criteria.SortBy, criteria.Class)
		return out, nil
	})
}

func stationMatches(st model.Station, q string) bool {
	q = strings.TrimSpace(q)
	return strings.EqualFold(st.Code, q) || strings.EqualFold(st.City, q) || strings.EqualFold(st.Name, q)
}

func sortTrains(trains []model.Train, by, class string) {
	var less func(a, b model.Train) bool
	switch by {
	case model.SortDuration:
		less = func(a, b model.Train) bool { return a.DurationMin < b.DurationMin }
	case model.SortFare:
		less = func(a, b model.Train) bool { return a.FareFor(class) < b.FareFor(class) }
	case model.SortDeparture:
		less = func(a, b model.Train) bool {
			am, _ := utils.ClockMinutes(a.DepTime)
			bm, _ := utils.ClockMinutes(b.DepTime)
			return am < bm
		}
	default:
		less = func(a, b model.Train) bool { return a.Relevance > b.Relevance }
	}
	sort.SliceStable(trains, func(i, j int) bool { return less(trains[i], trains[j]) })
}
