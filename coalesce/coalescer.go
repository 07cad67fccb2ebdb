package coalesce

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/theoremus-urban-solutions/yatriq/metrics"
	"github.com/theoremus-urban-solutions/yatriq/model"
)

type entry struct {
	value      any
	insertedAt time.Time
}

// Coalescer is the keyed in-flight deduplicator and result cache. It owns its
// cache exclusively; create one per client session and Close it at the end.
type Coalescer struct {
	mu      sync.Mutex
	entries map[string]entry
	epochs  map[string]uint64
	closed  bool

	group  singleflight.Group
	ctx    context.Context
	cancel context.CancelFunc

	clock   clockwork.Clock
	policy  ExpiryPolicy
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// Option configures a Coalescer.
type Option func(*Coalescer)

// WithClock sets the clock used to stamp entries.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Coalescer) { c.clock = clock }
}

// WithPolicy sets the expiry policy.
func WithPolicy(p ExpiryPolicy) Option {
	return func(c *Coalescer) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coalescer) { c.logger = logger }
}

// WithMetrics records lookups on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Coalescer) { c.metrics = r }
}

// New creates an empty coalescer.
func New(opts ...Option) *Coalescer {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coalescer{
		entries: map[string]entry{},
		epochs:  map[string]uint64{},
		ctx:     ctx,
		cancel:  cancel,
		clock:   clockwork.NewRealClock(),
		policy:  NoExpiry{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request returns the shared outcome for (capability, key). fetch runs at
// most once per epoch of the key; it receives the coalescer's lifecycle
// context, not the caller's. If ctx ends first the caller gets
// ProviderUnavailable while the shared call keeps running for other waiters.
func Request[T any](ctx context.Context, c *Coalescer, capability model.Capability, key string, fetch func(context.Context) model.Result[T]) model.Result[T] {
	v := c.do(ctx, capability, key, func(fctx context.Context) any { return fetch(fctx) })
	switch r := v.(type) {
	case model.Result[T]:
		return r
	case model.ErrorKind:
		return model.Failed[T](r)
	}
	c.logger.Error("coalescer: cached value has unexpected type", "capability", capability, "key", key)
	return model.Failed[T](model.ProviderUnavailable)
}

func (c *Coalescer) do(ctx context.Context, capability model.Capability, key string, fetch func(context.Context) any) any {
	k := memoKey(string(capability), key)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return model.ProviderUnavailable
	}
	if v, ok := c.lookupLocked(capability, k); ok {
		c.mu.Unlock()
		c.metrics.Lookup(string(capability), metrics.LookupHit)
		return v
	}
	c.mu.Unlock()

	ch := c.group.DoChan(k, func() (any, error) {
		c.mu.Lock()
		// a flight that finished after our first lookup may already have filled it
		if v, ok := c.lookupLocked(capability, k); ok {
			c.mu.Unlock()
			return v, nil
		}
		epoch := c.epochs[k]
		c.mu.Unlock()

		c.metrics.Lookup(string(capability), metrics.LookupMiss)
		c.logger.Debug("coalescer: fetching", "capability", capability, "key", key)
		v := fetch(c.ctx)

		c.mu.Lock()
		if !c.closed && c.epochs[k] == epoch {
			c.entries[k] = entry{value: v, insertedAt: c.clock.Now()}
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.Lookup(string(capability), metrics.LookupShared)
		}
		return res.Val
	case <-ctx.Done():
		c.logger.Debug("coalescer: waiter gave up", "capability", capability, "key", key, "error", ctx.Err())
		return model.ProviderUnavailable
	}
}

// lookupLocked returns a settled, unexpired entry. Caller holds c.mu.
func (c *Coalescer) lookupLocked(capability model.Capability, k string) (any, bool) {
	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if c.policy.Expired(e.insertedAt, c.clock.Now()) {
		delete(c.entries, k)
		c.metrics.Lookup(string(capability), metrics.LookupExpired)
		return nil, false
	}
	return e.value, true
}

// Invalidate drops the entry for (capability, key). A call still in flight
// for the key finishes for its current waiters but its outcome is not
// cached, and new requests start a fresh call.
func (c *Coalescer) Invalidate(capability model.Capability, key string) {
	k := memoKey(string(capability), key)
	c.mu.Lock()
	delete(c.entries, k)
	c.epochs[k]++
	c.mu.Unlock()
	c.group.Forget(k)
}

// Cached reports whether a settled entry exists for (capability, key).
func (c *Coalescer) Cached(capability model.Capability, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[memoKey(string(capability), key)]
	return ok
}

// Len is the number of settled entries.
func (c *Coalescer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close cancels in-flight calls and drops the cache. Requests after Close
// fail with ProviderUnavailable.
func (c *Coalescer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.entries = map[string]entry{}
	c.mu.Unlock()
	c.cancel()
}

func memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}
