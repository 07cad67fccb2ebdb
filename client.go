package yatriq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/theoremus-urban-solutions/yatriq/coalesce"
	"github.com/theoremus-urban-solutions/yatriq/config"
	"github.com/theoremus-urban-solutions/yatriq/feed"
	"github.com/theoremus-urban-solutions/yatriq/gtfs"
	"github.com/theoremus-urban-solutions/yatriq/insight"
	"github.com/theoremus-urban-solutions/yatriq/intent"
	"github.com/theoremus-urban-solutions/yatriq/metrics"
	"github.com/theoremus-urban-solutions/yatriq/model"
	"github.com/theoremus-urban-solutions/yatriq/provider"
	"github.com/theoremus-urban-solutions/yatriq/store"
	"github.com/theoremus-urban-solutions/yatriq/tracking"
)

// Options configure a Client. Every field is optional.
type Options struct {
	// Config defaults to config.Default().
	Config *config.AppConfig
	Clock  clockwork.Clock
	Rand   *rand.Rand
	Logger *slog.Logger
	// Registry receives the client's metrics; a private one is created when nil.
	Registry *prometheus.Registry
	// Store replaces the configured booking source. The caller keeps
	// ownership and closes it.
	Store    store.BookingStore
	Latency  provider.LatencyModel
	Failures *provider.FailureInjector
	Seed     provider.PositionSeed
	Routes   provider.RouteSource
}

// Client is one user session of the travel core. It is safe for concurrent
// use; Close ends the session.
type Client struct {
	cfg       config.AppConfig
	clock     clockwork.Clock
	logger    *slog.Logger
	registry  *prometheus.Registry
	started   time.Time
	ownsStore bool

	store     store.BookingStore
	providers *provider.Set
	coalescer *coalesce.Coalescer
	insights  *insight.Fetcher
	simulator *tracking.Simulator
}

// New builds a client. It opens the SQLite booking store when
// bookings.sqlitePath is set, reads positions from tracking.feedURL and
// indexes routes from tracking.gtfsPath.
func New(ctx context.Context, opts Options) (*Client, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	c := &Client{
		cfg:      cfg,
		clock:    opts.Clock,
		logger:   opts.Logger,
		registry: opts.Registry,
		store:    opts.Store,
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}
	c.started = c.clock.Now()
	rec := metrics.New(c.registry)

	if c.store == nil {
		s, err := openStore(ctx, cfg.Bookings)
		if err != nil {
			return nil, err
		}
		c.store, c.ownsStore = s, true
	}

	feeds := feed.NewClient()
	seed := opts.Seed
	if seed == nil && cfg.Tracking.FeedURL != "" {
		seed = feed.NewSeed(feeds, cfg.Tracking.FeedURL, c.logger)
	}
	routes := opts.Routes
	if routes == nil && cfg.Tracking.GTFSPath != "" {
		r, err := loadRoutes(ctx, feeds, cfg.Tracking.GTFSPath)
		if err != nil {
			c.closeOwnedStore()
			return nil, err
		}
		c.logger.Info("gtfs routes loaded", "source", cfg.Tracking.GTFSPath, "trains", len(r.Trains()))
		routes = r
	}

	latency := opts.Latency
	if latency == nil {
		latency = provider.LatencyFromConfig(cfg.Providers.LatencyMS)
	}
	rtOpts := []provider.Option{
		provider.WithClock(c.clock),
		provider.WithLatency(latency),
		provider.WithJitter(time.Duration(cfg.Providers.JitterMS) * time.Millisecond),
		provider.WithTimeout(time.Duration(cfg.Providers.TimeoutMS) * time.Millisecond),
		provider.WithFailures(opts.Failures),
		provider.WithLogger(c.logger),
		provider.WithMetrics(rec),
	}
	simOpts := []tracking.Option{
		tracking.WithClock(c.clock),
		tracking.WithLogger(c.logger),
		tracking.WithMetrics(rec),
	}
	if opts.Rand != nil {
		rtOpts = append(rtOpts, provider.WithRand(opts.Rand))
		simOpts = append(simOpts, tracking.WithRand(rand.New(rand.NewPCG(opts.Rand.Uint64(), opts.Rand.Uint64()))))
	}

	c.providers = provider.NewSet(provider.NewRuntime(rtOpts...), c.store, seed)
	if routes != nil {
		c.providers.WithRoutes(routes)
	}
	c.coalescer = coalesce.New(
		coalesce.WithClock(c.clock),
		coalesce.WithPolicy(coalesce.PolicyFromConfig(cfg.Cache.Policy, cfg.Cache.TTLSeconds)),
		coalesce.WithLogger(c.logger),
		coalesce.WithMetrics(rec),
	)
	c.insights = insight.NewFetcher(c.coalescer, c.providers.Seat, c.providers.Tatkal, c.providers.Sentiment, c.logger)
	c.simulator = tracking.New(tracking.OptionsFromConfig(cfg.Simulator), simOpts...)
	return c, nil
}

func openStore(ctx context.Context, cfg config.BookingsConfig) (store.BookingStore, error) {
	if cfg.SQLitePath == "" {
		return store.NewMemoryStore(provider.SampleBookings()), nil
	}
	s, err := store.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := s.Seed(ctx, provider.SampleBookings()); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func loadRoutes(ctx context.Context, feeds *feed.Client, src string) (*gtfs.Routes, error) {
	b, err := feeds.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch gtfs %s: %w", src, err)
	}
	return gtfs.FromBytes(b)
}

func (c *Client) closeOwnedStore() {
	if c.ownsStore {
		_ = c.store.Close()
	}
}

// resultValue turns a failed Result into an *model.Error for op.
func resultValue[T any](op string, r model.Result[T]) (T, error) {
	v, ok := r.Value()
	if !ok {
		return v, model.NewError(r.Kind(), op, nil)
	}
	return v, nil
}

// SearchTrains runs a schedule search. Results are never cached since every
// search reranks.
func (c *Client) SearchTrains(ctx context.Context, criteria model.SearchCriteria) ([]model.Train, error) {
	return resultValue("SearchTrains", c.providers.Schedules.Search(ctx, criteria))
}

// GetCompositeInsight returns the seat, tatkal and sentiment predictions of
// a train. Each field may fail on its own; the call itself never does.
func (c *Client) GetCompositeInsight(ctx context.Context, q model.InsightQuery) model.CompositeInsight {
	return c.insights.Fetch(ctx, q)
}

// InvalidateInsight forgets the cached predictions of q.
func (c *Client) InvalidateInsight(q model.InsightQuery) {
	c.insights.Invalidate(q)
}

// StartTracking starts simulating trainNo. With a nil path the tracking
// provider supplies the route, current station and delay; otherwise the
// simulation starts from initialIndex of path. A running simulation of the
// same train is replaced.
func (c *Client) StartTracking(ctx context.Context, trainNo string, path model.Path, initialIndex int, opts ...tracking.StartOption) (model.TrackingState, error) {
	const op = "StartTracking"
	if strings.TrimSpace(trainNo) == "" {
		return model.TrackingState{}, model.NewError(model.InvalidInput, op, errors.New("empty train number"))
	}
	if path == nil {
		fix, err := resultValue(op, coalesce.Request(ctx, c.coalescer, model.CapTracking, trainNo,
			func(ctx context.Context) model.Result[model.TrackingFix] {
				return c.providers.Tracking.Track(ctx, provider.TrackQuery{TrainNo: trainNo})
			}))
		if err != nil {
			return model.TrackingState{}, err
		}
		path, initialIndex = fix.Path, fix.CurrentIndex
		opts = append([]tracking.StartOption{tracking.WithDelay(fix.DelayMinutes)}, opts...)
	}
	sess, err := c.simulator.Start(trainNo, path, initialIndex, opts...)
	if err != nil {
		return model.TrackingState{}, err
	}
	return sess.State(), nil
}

// StopTracking stops the simulation of trainNo and forgets its provider fix,
// so the next start asks the provider again.
func (c *Client) StopTracking(trainNo string) bool {
	c.coalescer.Invalidate(model.CapTracking, trainNo)
	return c.simulator.Stop(trainNo)
}

// TrackingState returns the current simulated state of trainNo.
func (c *Client) TrackingState(trainNo string) (model.TrackingState, bool) {
	return c.simulator.State(trainNo)
}

// WatchTracking calls fn after every step of trainNo's simulation. fn must
// not stop the same train.
func (c *Client) WatchTracking(trainNo string, fn func(model.TrackingState)) (unsubscribe func(), err error) {
	sess, ok := c.simulator.Session(trainNo)
	if !ok {
		return nil, notTracked("WatchTracking", trainNo)
	}
	return sess.Subscribe(fn), nil
}

// SetTrackingDelay records a delay for trainNo.
func (c *Client) SetTrackingDelay(trainNo string, minutes int) bool {
	return c.simulator.SetDelay(trainNo, minutes)
}

// TrackingFeed encodes the state of trainNo as a GTFS-Realtime feed.
func (c *Client) TrackingFeed(trainNo string) ([]byte, error) {
	st, ok := c.simulator.State(trainNo)
	if !ok {
		return nil, notTracked("TrackingFeed", trainNo)
	}
	return feed.Marshal(st, feed.EncodeOptions{AgencyID: c.cfg.Tracking.AgencyID, Now: c.clock.Now()})
}

// ClassifyIntent maps free text to an intent without any provider call.
func (c *Client) ClassifyIntent(text string, ictx model.IntentContext) model.Intent {
	return intent.Classify(text, ictx)
}

// Chat asks the assistant, which answers with a classified intent after its
// latency.
func (c *Client) Chat(ctx context.Context, text string, ictx model.IntentContext) (model.Intent, error) {
	return resultValue("Chat", c.providers.Chat.Reply(ctx, provider.ChatQuery{Text: text, Context: ictx}))
}

// GetBookings lists the user's bookings.
func (c *Client) GetBookings(ctx context.Context) ([]model.Booking, error) {
	return resultValue("GetBookings", c.providers.Bookings.Recent(ctx))
}

// LookupPNR returns the booking of a ten digit PNR.
func (c *Client) LookupPNR(ctx context.Context, pnr string) (model.Booking, error) {
	return resultValue("LookupPNR", c.providers.Bookings.PNR(ctx, provider.PNRQuery{PNR: pnr}))
}

// SaveDraft stores a journey plan.
func (c *Client) SaveDraft(ctx context.Context, d model.BookingDraft) (model.BookingDraft, error) {
	return resultValue("SaveDraft", c.providers.Bookings.SaveDraft(ctx, d))
}

// PlanRoundTrip prices round-trip bundles for prefs.
func (c *Client) PlanRoundTrip(ctx context.Context, prefs model.RoundTripPrefs) ([]model.RoundTripBundle, error) {
	return resultValue("PlanRoundTrip", c.providers.Planner.Plan(ctx, prefs))
}

// Suggestions are example assistant prompts.
func (c *Client) Suggestions() []string {
	return intent.Suggestions()
}

// Stations is the station directory.
func (c *Client) Stations() []model.Station {
	return append([]model.Station(nil), provider.Stations...)
}

// Gatherer exposes the client's metrics.
func (c *Client) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Close stops every simulation, cancels in-flight provider calls and closes
// the booking store when the client opened it.
func (c *Client) Close() error {
	c.simulator.Close()
	c.coalescer.Close()
	if c.ownsStore {
		return c.store.Close()
	}
	return nil
}
