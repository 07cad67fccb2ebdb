package model

import "time"

// StationPoint is one stop on a tracked path.
type StationPoint struct {
	Code    string  `json:"stationCode"`
	StopID  string  `json:"stopId,omitempty"`
	Name    string  `json:"stationName"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	ETA     string  `json:"eta"`
	Visited bool    `json:"visited"`
}

// FeedStopID is the stop identifier used in GTFS feeds, falling back to Code.
func (p StationPoint) FeedStopID() string {
	if p.StopID != "" {
		return p.StopID
	}
	return p.Code
}

// Path is an ordered, fixed-length station sequence.
type Path []StationPoint

// Clone copies the path so callers never share backing arrays.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// MarkVisited sets Visited from the current index: stations before it are
// visited, the rest are not.
func (p Path) MarkVisited(currentIndex int) {
	for i := range p {
		p[i].Visited = i < currentIndex
	}
}

// Status of a tracking session.
type Status string

const (
	StatusIdle    Status = "Idle"
	StatusRunning Status = "Running"
	StatusArrived Status = "Arrived"
)

// TrackingState is a snapshot of a train's simulated progress.
type TrackingState struct {
	TrainNo      string    `json:"trainNo"`
	Path         Path      `json:"path"`
	CurrentIndex int       `json:"currentIndex"`
	Status       Status    `json:"status"`
	Delayed      bool      `json:"delayed"`
	DelayMinutes int       `json:"delayMin"`
	Steps        int       `json:"steps"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Current returns the station at CurrentIndex.
func (s TrackingState) Current() (StationPoint, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Path) {
		return StationPoint{}, false
	}
	return s.Path[s.CurrentIndex], true
}

// Next returns the station after CurrentIndex, if any.
func (s TrackingState) Next() (StationPoint, bool) {
	i := s.CurrentIndex + 1
	if i < 0 || i >= len(s.Path) {
		return StationPoint{}, false
	}
	return s.Path[i], true
}

// Clone deep-copies the state.
func (s TrackingState) Clone() TrackingState {
	s.Path = s.Path.Clone()
	return s
}

// TrackingFix is what the live-tracking provider reports for a train.
type TrackingFix struct {
	TrainNo      string `json:"trainNo"`
	Path         Path   `json:"path"`
	CurrentIndex int    `json:"currentIndex"`
	DelayMinutes int    `json:"delayMin"`
	Status       Status `json:"status"`
}
