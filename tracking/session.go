package tracking

import (
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/yatriq/model"
)

// Snapshot is a deep copy of a session's state at one instant.
type Snapshot = model.TrackingState

// Session is the simulation of one train. Only its own goroutine advances
// the state.
type Session struct {
	key string
	sim *Simulator

	mu      sync.Mutex
	state   model.TrackingState
	subs    map[int]func(Snapshot)
	nextSub int
	stopped bool

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Key is the train number the session tracks.
func (s *Session) Key() string { return s.key }

// State returns a copy of the current state.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for every later step. fn runs on the session
// goroutine and must not call Stop of the same session.
func (s *Session) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetDelay records a delay. Advancement timing is unchanged.
func (s *Session) SetDelay(minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.state.DelayMinutes = max(0, minutes)
	s.state.Delayed = minutes > 0
	s.state.UpdatedAt = s.sim.clock.Now()
}

// Stop cancels the pending step and waits for the session goroutine to
// exit. Once it returns the state no longer changes. Stopping twice, or
// after arrival, is a no-op: an arrived session stays registered so its
// final state can be read. halted reports whether this call stopped it.
func (s *Session) Stop() (halted bool) {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.state.Status == model.StatusArrived {
			s.mu.Unlock()
			return
		}
		s.stopped = true
		s.mu.Unlock()
		close(s.stopCh)
		s.sim.forget(s)
		halted = true
	})
	<-s.done
	return halted
}

// Done is closed when the session stops advancing, by Stop or by arrival.
func (s *Session) Done() <-chan struct{} { return s.done }

// Stopped reports whether Stop was called.
func (s *Session) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Session) run(wait time.Duration) {
	defer close(s.done)
	defer s.sim.metrics.SessionEnded()

	for {
		t := s.sim.clock.NewTimer(wait)
		select {
		case <-s.stopCh:
			t.Stop()
			return
		case <-t.Chan():
		}

		snap, subs, ok := s.step()
		if !ok {
			return
		}
		s.sim.metrics.Step()
		for _, fn := range subs {
			fn(snap.Clone())
		}
		if snap.Status == model.StatusArrived {
			s.sim.logger.Info("tracking: arrived", "train", s.key, "station", snap.Path[snap.CurrentIndex].Code, "steps", snap.Steps)
			return
		}
		wait = s.sim.nextStep()
	}
}

// step advances one station. ok is false when the session was stopped
// while the timer fired.
func (s *Session) step() (snap Snapshot, subs []func(Snapshot), ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.state.CurrentIndex >= len(s.state.Path)-1 {
		return Snapshot{}, nil, false
	}
	s.state.CurrentIndex++
	s.state.Path.MarkVisited(s.state.CurrentIndex)
	s.state.Steps++
	s.state.UpdatedAt = s.sim.clock.Now()
	if s.state.CurrentIndex == len(s.state.Path)-1 {
		s.state.Status = model.StatusArrived
	}
	subs = make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.state.Clone(), subs, true
}
