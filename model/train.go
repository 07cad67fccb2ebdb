package model

import "strings"

// Station identifies a railway station.
type Station struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Train is one row of a schedule search.
type Train struct {
	TrainNo     string         `json:"trainNo"`
	TrainName   string         `json:"trainName"`
	Type        string         `json:"type"`
	From        Station        `json:"from"`
	To          Station        `json:"to"`
	DepTime     string         `json:"depTime"`
	ArrTime     string         `json:"arrTime"`
	DurationMin int            `json:"durationMin"`
	Classes     []string       `json:"classes"`
	Fares       map[string]int `json:"fares"`
	Status      string         `json:"status"`
	DelayMin    int            `json:"delayMin"`
	Relevance   float64        `json:"searchRelevance"`
}

// LowestFare is the cheapest fare across classes, or 0 without fares.
func (t Train) LowestFare() int {
	low := 0
	for _, f := range t.Fares {
		if low == 0 || f < low {
			low = f
		}
	}
	return low
}

// FareFor returns the fare of class, falling back to the lowest fare.
func (t Train) FareFor(class string) int {
	if f, ok := t.Fares[strings.ToUpper(class)]; ok {
		return f
	}
	return t.LowestFare()
}

// Sort orders for a search.
const (
	SortRelevance = "relevance"
	SortDuration  = "duration"
	SortFare      = "fare"
	SortDeparture = "departure"
)

// SearchCriteria are the inputs of a schedule search.
type SearchCriteria struct {
	From       string `json:"from" validate:"required"`
	To         string `json:"to" validate:"required"`
	Date       string `json:"date,omitempty"`
	Class      string `json:"class,omitempty"`
	Quota      string `json:"quota,omitempty"`
	Passengers int    `json:"passengers,omitempty" validate:"gte=0,lte=6"`
	SortBy     string `json:"sortBy,omitempty" validate:"omitempty,oneof=relevance duration fare departure"`
}
