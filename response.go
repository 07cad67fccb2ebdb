package yatriq

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Kind    string         `json:"kind,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch model.KindOf(err) {
	case model.InvalidInput:
		return http.StatusBadRequest
	case model.NotFound:
		return http.StatusNotFound
	case model.ProviderUnavailable:
		return http.StatusServiceUnavailable
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{
		Error: err.Error(),
		Kind:  string(model.KindOf(err)),
	})
}
