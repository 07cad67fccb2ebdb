package provider

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"github.com/theoremus-urban-solutions/yatriq/metrics"
	"github.com/theoremus-urban-solutions/yatriq/model"
)

var (
	validate   = validator.New()
	errTimeout = errors.New("provider deadline exceeded")
)

// Runtime is the environment every adapter call runs in.
type Runtime struct {
	clock    clockwork.Clock
	latency  LatencyModel
	jitter   time.Duration
	timeout  time.Duration
	failures *FailureInjector
	logger   *slog.Logger
	metrics  *metrics.Recorder

	rngMu sync.Mutex
	rng   *rand.Rand

	calls sync.Map // model.Capability -> *atomic.Int64
}

// Option configures a Runtime.
type Option func(*Runtime)

func WithClock(clock clockwork.Clock) Option {
	return func(r *Runtime) { r.clock = clock }
}

func WithLatency(m LatencyModel) Option {
	return func(r *Runtime) { r.latency = m }
}

// WithJitter spreads each latency uniformly by up to ±d.
func WithJitter(d time.Duration) Option {
	return func(r *Runtime) { r.jitter = d }
}

// WithTimeout caps each call. Calls whose latency exceeds it fail with
// ProviderUnavailable once the timeout elapses.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) { r.timeout = d }
}

func WithFailures(f *FailureInjector) Option {
	return func(r *Runtime) { r.failures = f }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Runtime) { r.metrics = m }
}

// WithRand sets the random source; use a seeded one for repeatable output.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runtime) { r.rng = rng }
}

// NewRuntime builds a runtime with the default latencies on the real clock.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		clock:   clockwork.NewRealClock(),
		latency: DefaultLatency(),
		logger:  slog.Default(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calls is the number of invocations of capability c so far.
func (r *Runtime) Calls(c model.Capability) int64 {
	if v, ok := r.calls.Load(c); ok {
		return v.(*atomic.Int64).Load()
	}
	return 0
}

func (r *Runtime) countCall(c model.Capability) {
	v, _ := r.calls.LoadOrStore(c, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

func (r *Runtime) intN(n int) int {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.IntN(n)
}

func (r *Runtime) float64() float64 {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Float64()
}

func (r *Runtime) delay(c model.Capability) time.Duration {
	d := r.latency.Latency(c)
	if r.jitter > 0 {
		r.rngMu.Lock()
		d += time.Duration(r.rng.Int64N(int64(2*r.jitter)+1)) - r.jitter
		r.rngMu.Unlock()
	}
	if d < 0 {
		return 0
	}
	return d
}

// wait blocks for the latency of c, bounded by the timeout and ctx.
func (r *Runtime) wait(ctx context.Context, c model.Capability) error {
	d := r.delay(c)
	timedOut := false
	if r.timeout > 0 && d > r.timeout {
		d, timedOut = r.timeout, true
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := r.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.Chan():
		if timedOut {
			return errTimeout
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call runs one adapter invocation: validate, wait, apply injected
// failures, then compute the answer.
func call[T any](ctx context.Context, r *Runtime, c model.Capability, params any, body func() (T, error)) (res model.Result[T]) {
	r.countCall(c)
	start := r.clock.Now()
	defer func() {
		outcome := "ok"
		if !res.IsOK() {
			outcome = string(res.Kind())
		}
		r.metrics.ProviderCall(string(c), outcome, r.clock.Since(start))
	}()

	if params != nil {
		if err := validate.Struct(params); err != nil {
			r.logger.Debug("provider: rejected input", "capability", c, "error", err)
			return model.Failed[T](model.InvalidInput)
		}
	}
	if err := r.wait(ctx, c); err != nil {
		r.logger.Warn("provider: call abandoned", "capability", c, "error", err)
		return model.Failed[T](model.ProviderUnavailable)
	}
	if kind, ok := r.failures.failure(c); ok {
		r.logger.Warn("provider: injected failure", "capability", c, "kind", kind)
		return model.Failed[T](kind)
	}
	v, err := body()
	if err != nil {
		if model.KindOf(err) != model.NotFound {
			r.logger.Warn("provider: call failed", "capability", c, "error", err)
		}
		return model.FromError(v, err)
	}
	return model.OK(v)
}
