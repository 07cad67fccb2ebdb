package yatriq

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/tracking"
)

// SearchResponse is the body of GET /api/trains.
type SearchResponse struct {
	Trains []model.Train `json:"trains"`
	Count  int           `json:"count"`
}

// StartTrackingRequest is the optional body of POST /api/tracking/{trainNo}.
// Without a path the tracking provider locates the train.
type StartTrackingRequest struct {
	Path         model.Path `json:"path,omitempty"`
	InitialIndex int        `json:"initialIndex,omitempty"`
	DelayMinutes int        `json:"delayMin,omitempty"`
}

// DelayRequest is the body of PUT /api/tracking/{trainNo}/delay.
type DelayRequest struct {
	Minutes int `json:"minutes"`
}

// IntentRequest is the body of POST /api/intent. Chat selects the assistant
// provider instead of the local classifier.
type IntentRequest struct {
	Text string `json:"text"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	Chat bool   `json:"chat,omitempty"`
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.client.Stations())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	passengers, err := parseNonNegativeInt("passengers", q.Get("passengers"), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	trains, err := s.client.SearchTrains(r.Context(), model.SearchCriteria{
		From:       param(q, "from"),
		To:         param(q, "to"),
		Date:       param(q, "date"),
		Class:      param(q, "class"),
		Quota:      param(q, "quota"),
		Passengers: passengers,
		SortBy:     strings.ToLower(param(q, "sort")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Trains: trains, Count: len(trains)})
}

func insightQuery(r *http.Request) model.InsightQuery {
	q := r.URL.Query()
	return model.InsightQuery{
		TrainNo: chi.URLParam(r, "trainNo"),
		Date:    param(q, "date"),
		Class:   param(q, "class"),
		Quota:   param(q, "quota"),
	}
}

// handleInsight answers 200 even when every prediction failed; the failures
// are carried per field.
func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.client.GetCompositeInsight(r.Context(), insightQuery(r)))
}

func (s *Server) handleInvalidateInsight(w http.ResponseWriter, r *http.Request) {
	s.client.InvalidateInsight(insightQuery(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartTracking(w http.ResponseWriter, r *http.Request) {
	var req StartTrackingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	var opts []tracking.StartOption
	if req.DelayMinutes > 0 {
		opts = append(opts, tracking.WithDelay(req.DelayMinutes))
	}
	st, err := s.client.StartTracking(r.Context(), chi.URLParam(r, "trainNo"), req.Path, req.InitialIndex, opts...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleTrackingState(w http.ResponseWriter, r *http.Request) {
	trainNo := chi.URLParam(r, "trainNo")
	st, ok := s.client.TrackingState(trainNo)
	if !ok {
		writeError(w, notTracked("TrackingState", trainNo))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStopTracking(w http.ResponseWriter, r *http.Request) {
	trainNo := chi.URLParam(r, "trainNo")
	if !s.client.StopTracking(trainNo) {
		writeError(w, notTracked("StopTracking", trainNo))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrackingDelay(w http.ResponseWriter, r *http.Request) {
	var req DelayRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Minutes < 0 {
		writeError(w, &QueryError{Msg: "minutes must be a non-negative integer"})
		return
	}
	trainNo := chi.URLParam(r, "trainNo")
	if !s.client.SetTrackingDelay(trainNo, req.Minutes) {
		writeError(w, notTracked("SetTrackingDelay", trainNo))
		return
	}
	st, _ := s.client.TrackingState(trainNo)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleTrackingFeed(w http.ResponseWriter, r *http.Request) {
	b, err := s.client.TrackingFeed(chi.URLParam(r, "trainNo"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ictx := model.IntentContext{From: req.From, To: req.To}
	if !req.Chat {
		writeJSON(w, http.StatusOK, s.client.ClassifyIntent(req.Text, ictx))
		return
	}
	in, err := s.client.Chat(r.Context(), req.Text, ictx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.client.Suggestions())
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := s.client.GetBookings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (s *Server) handlePNR(w http.ResponseWriter, r *http.Request) {
	b, err := s.client.LookupPNR(r.Context(), chi.URLParam(r, "pnr"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var d model.BookingDraft
	if err := decodeBody(r, &d); err != nil {
		writeError(w, err)
		return
	}
	saved, err := s.client.SaveDraft(r.Context(), d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleRoundTrip(w http.ResponseWriter, r *http.Request) {
	prefs := model.RoundTripPrefs{Budget: 2, Days: 3}
	if err := decodeBody(r, &prefs); err != nil {
		writeError(w, err)
		return
	}
	bundles, err := s.client.PlanRoundTrip(r.Context(), prefs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundles)
}

func notTracked(op, trainNo string) error {
	return model.NewError(model.NotFound, op, fmt.Errorf("train %s is not tracked", trainNo))
}
