package tracking

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/theoremus-urban-solutions/yatriq/metrics"
	"github.com/theoremus-urban-solutions/yatriq/model"
)

// Simulator keeps one session per train number.
type Simulator struct {
	opts    Options
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *metrics.Recorder

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Simulator.
type Option func(*Simulator)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Simulator) { s.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Simulator) { s.metrics = m }
}

// WithRand sets the source of step intervals.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

// New returns a simulator using opts for every session.
func New(opts Options, o ...Option) *Simulator {
	s := &Simulator{
		opts:     opts,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sessions: map[string]*Session{},
	}
	for _, fn := range o {
		fn(s)
	}
	return s
}

// Start begins simulating key along path from initialIndex. An empty path or
// an index outside it fails with InvalidInput and creates nothing. A session
// already running for key is stopped first. A single-station path, or a
// start at the last station, is Arrived at once and never steps.
func (s *Simulator) Start(key string, path model.Path, initialIndex int, opts ...StartOption) (*Session, error) {
	const op = "tracking.Start"
	switch {
	case key == "":
		return nil, model.NewError(model.InvalidInput, op, errors.New("empty train number"))
	case len(path) == 0:
		return nil, model.NewError(model.InvalidInput, op, errors.New("empty path"))
	case initialIndex < 0 || initialIndex >= len(path):
		return nil, model.NewError(model.InvalidInput, op, fmt.Errorf("initial index %d outside path of %d stations", initialIndex, len(path)))
	}

	var cfg startConfig
	for _, fn := range opts {
		fn(&cfg)
	}

	state := model.TrackingState{
		TrainNo:      key,
		Path:         path.Clone(),
		CurrentIndex: initialIndex,
		Status:       model.StatusRunning,
		DelayMinutes: max(0, cfg.delayMinutes),
		Delayed:      cfg.delayMinutes > 0,
		UpdatedAt:    s.clock.Now(),
	}
	state.Path.MarkVisited(initialIndex)
	arrived := initialIndex == len(path)-1
	if arrived {
		state.Status = model.StatusArrived
	}

	sess := &Session{
		key:    key,
		sim:    s,
		state:  state,
		subs:   map[int]func(Snapshot){},
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, fn := range cfg.subscribers {
		sess.subs[sess.nextSub] = fn
		sess.nextSub++
	}

	s.mu.Lock()
	prev := s.sessions[key]
	s.sessions[key] = sess
	s.mu.Unlock()
	if prev != nil {
		prev.Stop()
	}

	if arrived {
		close(sess.done)
		s.logger.Info("tracking: started at destination", "train", key, "stations", len(path))
		return sess, nil
	}
	s.metrics.SessionStarted()
	s.logger.Info("tracking: started", "train", key, "stations", len(path), "index", initialIndex)
	go sess.run(s.opts.InitialDelay)
	return sess, nil
}

// Session returns the session of key.
func (s *Simulator) Session(key string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	return sess, ok
}

// State returns a copy of the state of key.
func (s *Simulator) State(key string) (Snapshot, bool) {
	sess, ok := s.Session(key)
	if !ok {
		return Snapshot{}, false
	}
	return sess.State(), true
}

// SetDelay sets the delay of key. It reports whether a session exists.
func (s *Simulator) SetDelay(key string, minutes int) bool {
	sess, ok := s.Session(key)
	if ok {
		sess.SetDelay(minutes)
	}
	return ok
}

// Stop stops and removes the session of key. An arrived session is left in
// place. It reports whether one existed.
func (s *Simulator) Stop(key string) bool {
	sess, ok := s.Session(key)
	if ok && sess.Stop() {
		s.logger.Info("tracking: stopped", "train", key)
	}
	return ok
}

// Active is the number of sessions, arrived ones included.
func (s *Simulator) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops every session.
func (s *Simulator) Close() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.Unlock()
	for _, sess := range all {
		sess.Stop()
	}
}

// forget drops sess from the registry unless key was restarted meanwhile.
func (s *Simulator) forget(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[sess.key] == sess {
		delete(s.sessions, sess.key)
	}
}

func (s *Simulator) nextStep() time.Duration {
	lo, hi := s.opts.MinStep, s.opts.MaxStep
	if hi <= lo {
		return lo
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return lo + time.Duration(s.rng.Int64N(int64(hi-lo)+1))
}
