package yatriq

import (
	"net/http"
	"time"
)

// Health summarizes the client for /api/health.
type Health struct {
	Status           string    `json:"status"`
	StartedAt        time.Time `json:"startedAt"`
	UptimeSeconds    int64     `json:"uptimeSeconds"`
	CachedLookups    int       `json:"cachedLookups"`
	TrackingSessions int       `json:"trackingSessions"`
}

// Health reports uptime, cache size and active simulations.
func (c *Client) Health() Health {
	return Health{
		Status:           "ok",
		StartedAt:        c.started,
		UptimeSeconds:    int64(c.clock.Since(c.started) / time.Second),
		CachedLookups:    c.coalescer.Len(),
		TrackingSessions: c.simulator.Active(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.client.Health())
}
