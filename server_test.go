package yatriq

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/yatriq/feed"
	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/provider"
)

func newTestServer(t *testing.T, opts Options) (*Client, *httptest.Server) {
	t.Helper()
	c := newTestClient(t, opts)
	ts := httptest.NewServer(NewServer(c, 0, []string{"*"}).Router([]string{"*"}))
	t.Cleanup(ts.Close)
	return c, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, ts.URL+"/api/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[Health](t, resp).Status)
}

func TestServer_Search(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	resp := do(t, http.MethodGet, ts.URL+"/api/trains?from=NDLS&to=HBJ&sort=fare", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[SearchResponse](t, resp)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "22691", body.Trains[0].TrainNo)

	resp = do(t, http.MethodGet, ts.URL+"/api/trains?from=NDLS", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(model.InvalidInput), decode[ErrorResponse](t, resp).Kind)

	resp = do(t, http.MethodGet, ts.URL+"/api/trains?from=NDLS&to=HBJ&passengers=-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_InsightAlwaysOK(t *testing.T) {
	failures := provider.NewFailureInjector()
	failures.Fail(model.CapSeat, model.ProviderUnavailable)
	failures.Fail(model.CapTatkal, model.ProviderUnavailable)
	failures.Fail(model.CapSentiment, model.ProviderUnavailable)
	c, ts := newTestServer(t, Options{Failures: failures})

	resp := do(t, http.MethodGet, ts.URL+"/api/trains/12951/insight", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	in := decode[model.CompositeInsight](t, resp)
	assert.True(t, in.AllFailed())
	assert.Equal(t, model.ProviderUnavailable, in.Seat.Kind())

	failures.Reset()
	resp = do(t, http.MethodDelete, ts.URL+"/api/trains/12951/insight", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/trains/12951/insight", "")
	in = decode[model.CompositeInsight](t, resp)
	assert.Equal(t, 3, in.Available())
	assert.EqualValues(t, 2, c.providers.Runtime.Calls(model.CapSeat))
}

func TestServer_TrackingLifecycle(t *testing.T) {
	_, ts := newTestServer(t, Options{Clock: clockwork.NewFakeClock(), Seed: fixedSeed{index: 1}})
	base := ts.URL + "/api/tracking/12951"

	resp := do(t, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPost, base, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	st := decode[model.TrackingState](t, resp)
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, model.StatusRunning, st.Status)

	resp = do(t, http.MethodPut, base+"/delay", `{"minutes": 20}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st = decode[model.TrackingState](t, resp)
	assert.True(t, st.Delayed)
	assert.Equal(t, 20, st.DelayMinutes)

	resp = do(t, http.MethodGet, base+"/feed.pb", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-protobuf", resp.Header.Get("Content-Type"))
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	statuses, err := feed.Decode(b)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.EqualValues(t, 1200, statuses[0].DelaySeconds)

	resp = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_StartTrackingRejectsBadPath(t *testing.T) {
	_, ts := newTestServer(t, Options{Clock: clockwork.NewFakeClock()})

	body := `{"path": [{"stationCode": "NDLS"}, {"stationCode": "BPL"}], "initialIndex": 5}`
	resp := do(t, http.MethodPost, ts.URL+"/api/tracking/12951", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/tracking/12951", `{"unknown": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Intent(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	resp := do(t, http.MethodPost, ts.URL+"/api/intent", `{"text": "fastest to BPL"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	in := decode[model.Intent](t, resp)
	require.Equal(t, model.IntentSearchRefinement, in.Kind)
	assert.Equal(t, "BPL", in.Search.To)
	assert.Equal(t, "duration", in.Search.SortBy)

	resp = do(t, http.MethodPost, ts.URL+"/api/intent", `{"text": "", "chat": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/intent/suggestions", "")
	assert.Len(t, decode[[]string](t, resp), 5)
}

func TestServer_Bookings(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	resp := do(t, http.MethodGet, ts.URL+"/api/bookings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Booking](t, resp), 2)

	resp = do(t, http.MethodGet, ts.URL+"/api/bookings/4567891234", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "12951", decode[model.Booking](t, resp).TrainNo)

	resp = do(t, http.MethodGet, ts.URL+"/api/bookings/0000000000", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/bookings/drafts", `{"trainNo": "12951", "from": "NDLS", "to": "CSTM"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, decode[model.BookingDraft](t, resp).ID)

	resp = do(t, http.MethodPost, ts.URL+"/api/bookings/drafts", `{"trainNo": "12951"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_RoundTripDefaults(t *testing.T) {
	_, ts := newTestServer(t, Options{})

	resp := do(t, http.MethodPost, ts.URL+"/api/planner/round-trip", `{"city": "Mumbai"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bundles := decode[[]model.RoundTripBundle](t, resp)
	require.NotEmpty(t, bundles)
	assert.Equal(t, 3, bundles[0].Days)
	assert.Equal(t, "confirmation", bundles[0].Priority)
}

func TestServer_Metrics(t *testing.T) {
	_, ts := newTestServer(t, Options{})
	do(t, http.MethodGet, ts.URL+"/api/trains/12951/insight", "")

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "yatriq_provider_calls_total")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(model.NewError(model.InvalidInput, "op", nil)))
	assert.Equal(t, http.StatusNotFound, statusFor(model.NewError(model.NotFound, "op", nil)))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(model.NewError(model.ProviderUnavailable, "op", nil)))
	assert.Equal(t, http.StatusBadRequest, statusFor(&QueryError{Msg: "bad"}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestParseNonNegativeInt(t *testing.T) {
	v, err := parseNonNegativeInt("n", "", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = parseNonNegativeInt("n", " 12 ", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	for _, bad := range []string{"-1", "abc", "1.5"} {
		_, err = parseNonNegativeInt("n", bad, 0)
		var qe *QueryError
		assert.ErrorAs(t, err, &qe, bad)
	}
}
