package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_JSON(t *testing.T) {
	b, err := json.Marshal(OK(SeatPrediction{Probability: 85, Band: "likely"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":{"probability":85,"band":"likely","insights":null}}`, string(b))

	b, err = json.Marshal(Failed[SeatPrediction](ProviderUnavailable))
	require.NoError(t, err)
	assert.JSONEq(t, `{"failed":"provider_unavailable"}`, string(b))

	var r Result[Sentiment]
	require.NoError(t, json.Unmarshal([]byte(`{"failed":"not_found"}`), &r))
	assert.Equal(t, NotFound, r.Kind())
	assert.Error(t, json.Unmarshal([]byte(`{}`), &r))
}

func TestResult_FromError(t *testing.T) {
	r := FromError(1, nil)
	v, ok := r.Value()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.NoError(t, r.Err())

	r = FromError(0, NewError(NotFound, "lookup", nil))
	assert.Equal(t, NotFound, r.Kind())
	assert.ErrorIs(t, r.Err(), ErrNotFound)

	r = FromError(0, errors.New("boom"))
	assert.Equal(t, ProviderUnavailable, r.Kind())
	assert.Equal(t, ProviderUnavailable, Failed[int]("").Kind())
}

func TestError_IsAndKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(InvalidInput, "Start", errors.New("empty path")))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, InvalidInput, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, "Start: invalid_input: empty path", errors.Unwrap(err).Error())
}

func TestBooking_State(t *testing.T) {
	cases := map[string]BookingState{
		"Confirmed": BookingConfirmed,
		"WL/23":     BookingWaitlisted,
		"rac":       BookingRAC,
		"Cancelled": BookingCancelled,
		"":          BookingUnknown,
	}
	for status, want := range cases {
		assert.Equal(t, want, Booking{Status: status}.State(), status)
	}
}

func TestInsightQuery_Key(t *testing.T) {
	assert.Equal(t, "12951", InsightQuery{TrainNo: " 12951 "}.Key())
	assert.Equal(t, "12951|2025-01-15|3A|", InsightQuery{TrainNo: "12951", Date: "2025-01-15", Class: "3a"}.Key())
	assert.NotEqual(t,
		InsightQuery{TrainNo: "12951", Quota: "TQ"}.Key(),
		InsightQuery{TrainNo: "12951", Class: "TQ"}.Key())
}

func TestPath_MarkVisitedAndClone(t *testing.T) {
	p := Path{{Code: "A"}, {Code: "B"}, {Code: "C"}}
	p.MarkVisited(2)
	assert.True(t, p[0].Visited)
	assert.True(t, p[1].Visited)
	assert.False(t, p[2].Visited)

	st := TrackingState{Path: p, CurrentIndex: 1}
	cp := st.Clone()
	cp.Path[0].Code = "X"
	assert.Equal(t, "A", st.Path[0].Code)

	cur, ok := st.Current()
	require.True(t, ok)
	assert.Equal(t, "B", cur.Code)
	next, ok := st.Next()
	require.True(t, ok)
	assert.Equal(t, "C", next.Code)

	st.CurrentIndex = 2
	_, ok = st.Next()
	assert.False(t, ok)
}

func TestTrain_Fares(t *testing.T) {
	tr := Train{Fares: map[string]int{"2A": 2890, "3A": 2095}}
	assert.Equal(t, 2095, tr.LowestFare())
	assert.Equal(t, 2890, tr.FareFor("2a"))
	assert.Equal(t, 2095, tr.FareFor("SL"))
	assert.Zero(t, Train{}.LowestFare())
}

func TestCompositeInsight_Available(t *testing.T) {
	c := CompositeInsight{
		Seat:      OK(SeatPrediction{}),
		Tatkal:    Failed[TatkalPrediction](ProviderUnavailable),
		Sentiment: Failed[Sentiment](ProviderUnavailable),
	}
	assert.Equal(t, 1, c.Available())
	assert.False(t, c.AllFailed())
	c.Seat = Failed[SeatPrediction](InvalidInput)
	assert.True(t, c.AllFailed())
}
