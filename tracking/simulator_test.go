package tracking

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

var fixedSteps = Options{InitialDelay: 3 * time.Second, MinStep: 10 * time.Second, MaxStep: 10 * time.Second}

func testPath(n int) model.Path {
	codes := []string{"NDLS", "GGN", "AGC", "GWL", "JBP", "CSTM"}
	p := make(model.Path, n)
	for i := range p {
		p[i] = model.StationPoint{Code: codes[i%len(codes)], Lat: 28 - float64(i), Lng: 77 + float64(i)/2}
	}
	return p
}

func assertVisitedMatchesIndex(t *testing.T, st model.TrackingState) {
	t.Helper()
	for i, p := range st.Path {
		assert.Equal(t, i < st.CurrentIndex, p.Visited, "station %d with index %d", i, st.CurrentIndex)
	}
}

func TestSession_AdvancesToArrival(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))
	defer sim.Close()

	snaps := make(chan Snapshot, 10)
	sess, err := sim.Start("12951", testPath(4), 0, WithSubscriber(func(s Snapshot) { snaps <- s }))
	require.NoError(t, err)
	assert.Equal(t, model.StatusRunning, sess.State().Status)
	assertVisitedMatchesIndex(t, sess.State())

	wait := fixedSteps.InitialDelay
	for want := 1; want <= 3; want++ {
		clock.BlockUntil(1)
		clock.Advance(wait)
		snap := <-snaps
		assert.Equal(t, want, snap.CurrentIndex)
		assert.Equal(t, want, snap.Steps)
		assertVisitedMatchesIndex(t, snap)
		wait = fixedSteps.MinStep
	}

	<-sess.Done()
	final := sess.State()
	assert.Equal(t, model.StatusArrived, final.Status)
	assert.Equal(t, 3, final.CurrentIndex)

	// nothing is scheduled after arrival
	clock.BlockUntil(0)
	clock.Advance(time.Hour)
	select {
	case s := <-snaps:
		t.Fatalf("unexpected step after arrival: %+v", s)
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, final, sess.State())
}

func TestSession_StopCancelsPendingStep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))

	snaps := make(chan Snapshot, 10)
	sess, err := sim.Start("12951", testPath(6), 2, WithSubscriber(func(s Snapshot) { snaps <- s }))
	require.NoError(t, err)
	before := sess.State()

	clock.BlockUntil(1)
	sess.Stop()
	clock.Advance(time.Hour)

	select {
	case s := <-snaps:
		t.Fatalf("step after stop: %+v", s)
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, before, sess.State())
	assert.True(t, sess.Stopped())
	assert.Equal(t, 0, sim.Active())

	sess.Stop()
	assert.False(t, sim.Stop("12951"))
}

func TestSession_StopMidRun(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))

	snaps := make(chan Snapshot, 10)
	_, err := sim.Start("12423", testPath(5), 0, WithSubscriber(func(s Snapshot) { snaps <- s }))
	require.NoError(t, err)

	clock.BlockUntil(1)
	clock.Advance(fixedSteps.InitialDelay)
	assert.Equal(t, 1, (<-snaps).CurrentIndex)

	clock.BlockUntil(1)
	require.True(t, sim.Stop("12423"))
	clock.Advance(time.Hour)
	_, ok := sim.State("12423")
	assert.False(t, ok)
	assert.Empty(t, snaps)
}

func TestStart_RejectsInvalidInput(t *testing.T) {
	sim := New(fixedSteps, WithClock(clockwork.NewFakeClock()))
	defer sim.Close()

	tests := []struct {
		name  string
		key   string
		path  model.Path
		index int
	}{
		{"empty path", "12951", nil, 0},
		{"negative index", "12951", testPath(3), -1},
		{"index past end", "12951", testPath(3), 3},
		{"empty key", "", testPath(3), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := sim.Start(tt.key, tt.path, tt.index)
			require.Error(t, err)
			assert.Nil(t, sess)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			assert.Equal(t, model.InvalidInput, model.KindOf(err))
			assert.Equal(t, 0, sim.Active())
		})
	}
}

func TestStart_ArrivedImmediately(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))
	defer sim.Close()

	single, err := sim.Start("a", testPath(1), 0)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArrived, single.State().Status)
	<-single.Done()

	last, err := sim.Start("b", testPath(4), 3)
	require.NoError(t, err)
	st := last.State()
	assert.Equal(t, model.StatusArrived, st.Status)
	assertVisitedMatchesIndex(t, st)
	<-last.Done()

	// no timers were created
	clock.BlockUntil(0)
}

func TestStop_ArrivedSessionStaysRegistered(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))
	defer sim.Close()

	sess, err := sim.Start("12951", testPath(1), 0)
	require.NoError(t, err)

	assert.True(t, sim.Stop("12951"))
	assert.False(t, sess.Stopped())
	st, ok := sim.State("12951")
	require.True(t, ok)
	assert.Equal(t, model.StatusArrived, st.Status)
	assert.Equal(t, 1, sim.Active())

	// arrived by stepping, not at start
	clock.BlockUntil(0)
	stepped, err := sim.Start("12423", testPath(2), 0)
	require.NoError(t, err)
	clock.BlockUntil(1)
	clock.Advance(fixedSteps.InitialDelay)
	<-stepped.Done()
	assert.False(t, stepped.Stop())
	st, ok = sim.State("12423")
	require.True(t, ok)
	assert.Equal(t, model.StatusArrived, st.Status)
	assert.Equal(t, 2, sim.Active())
}

func TestStop_LogsOnlyWhenHalted(t *testing.T) {
	var buf bytes.Buffer
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	defer sim.Close()

	_, err := sim.Start("arrived", testPath(1), 0)
	require.NoError(t, err)
	require.True(t, sim.Stop("arrived"))
	assert.NotContains(t, buf.String(), "tracking: stopped")

	_, err = sim.Start("running", testPath(4), 0)
	require.NoError(t, err)
	clock.BlockUntil(1)
	require.True(t, sim.Stop("running"))
	assert.Equal(t, 1, strings.Count(buf.String(), "tracking: stopped"))
}

func TestStart_RestartReplacesSession(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))
	defer sim.Close()

	first, err := sim.Start("12951", testPath(6), 0)
	require.NoError(t, err)
	clock.BlockUntil(1)

	second, err := sim.Start("12951", testPath(3), 1)
	require.NoError(t, err)

	assert.True(t, first.Stopped())
	assert.False(t, second.Stopped())
	assert.Equal(t, 1, sim.Active())
	got, ok := sim.Session("12951")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Len(t, got.State().Path, 3)
}

func TestSession_DelayDoesNotChangeAdvancement(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))
	defer sim.Close()

	snaps := make(chan Snapshot, 4)
	sess, err := sim.Start("12951", testPath(3), 0, WithDelay(5), WithSubscriber(func(s Snapshot) { snaps <- s }))
	require.NoError(t, err)
	assert.True(t, sess.State().Delayed)
	assert.Equal(t, 5, sess.State().DelayMinutes)

	require.True(t, sim.SetDelay("12951", 0))
	assert.False(t, sess.State().Delayed)
	require.True(t, sim.SetDelay("12951", 12))

	clock.BlockUntil(1)
	clock.Advance(fixedSteps.InitialDelay)
	snap := <-snaps
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.True(t, snap.Delayed)
	assert.Equal(t, 12, snap.DelayMinutes)
	assert.Equal(t, model.StatusRunning, snap.Status)

	assert.False(t, sim.SetDelay("unknown", 3))
}

func TestSession_UnsubscribeAndSnapshotsAreCopies(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))
	defer sim.Close()

	sess, err := sim.Start("12951", testPath(4), 0)
	require.NoError(t, err)

	first := make(chan Snapshot, 4)
	second := make(chan Snapshot, 4)
	unsubscribe := sess.Subscribe(func(s Snapshot) {
		s.Path[0].Code = "MUTATED"
		first <- s
	})
	sess.Subscribe(func(s Snapshot) { second <- s })

	clock.BlockUntil(1)
	clock.Advance(fixedSteps.InitialDelay)
	<-first
	assert.Equal(t, "NDLS", (<-second).Path[0].Code)
	assert.Equal(t, "NDLS", sess.State().Path[0].Code)

	unsubscribe()
	clock.BlockUntil(1)
	clock.Advance(fixedSteps.MinStep)
	<-second
	assert.Empty(t, first)
}

func TestSimulator_Close(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sim := New(fixedSteps, WithClock(clock))

	a, err := sim.Start("a", testPath(4), 0)
	require.NoError(t, err)
	b, err := sim.Start("b", testPath(4), 1)
	require.NoError(t, err)
	clock.BlockUntil(2)

	sim.Close()
	assert.True(t, a.Stopped())
	assert.True(t, b.Stopped())
	assert.Equal(t, 0, sim.Active())
}

func TestNextStep_StaysInRange(t *testing.T) {
	sim := New(DefaultOptions(), WithRand(rand.New(rand.NewPCG(7, 9))))
	for i := 0; i < 200; i++ {
		d := sim.nextStep()
		assert.GreaterOrEqual(t, d, 8*time.Second)
		assert.LessOrEqual(t, d, 12*time.Second)
	}
	assert.Equal(t, time.Second, New(Options{MinStep: time.Second, MaxStep: time.Second}).nextStep())
}

func TestLocate(t *testing.T) {
	st := model.TrackingState{Path: testPath(3), CurrentIndex: 1}
	loc, ok := Locate(st)
	require.True(t, ok)
	assert.Equal(t, "GGN", loc.StationCode)
	assert.Equal(t, "AGC", loc.NextCode)
	assert.Equal(t, 1, loc.StopsAway)
	assert.InDelta(t, 0.5, loc.Progress, 0.01)
	assert.Greater(t, loc.RemainingKM, 0.0)
	assert.Contains(t, loc.Distance, "1 stop")

	st.CurrentIndex = 2
	loc, ok = Locate(st)
	require.True(t, ok)
	assert.Equal(t, "arrived", loc.Distance)
	assert.InDelta(t, 1.0, loc.Progress, 1e-9)
	assert.Empty(t, loc.NextCode)
	assert.Greater(t, loc.Bearing, 0.0)

	_, ok = Locate(model.TrackingState{})
	assert.False(t, ok)
}
