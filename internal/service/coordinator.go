package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/mirchandani-mohnish/ytanalytics/internal/model"
	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

// CoordinatorConfig tunes one query coordinator. Zero values select the
// defaults from the original deployment (10-minute refresh, 5-second budgets).
type CoordinatorConfig struct {
	RefreshPeriod    time.Duration
	CycleTimeout     time.Duration
	AggregateTimeout time.Duration
	IdleEvictAfter   time.Duration
	MaxResults       int
}

func (c CoordinatorConfig) withDefaults() CoordinatorConfig {
	if c.RefreshPeriod <= 0 {
		c.RefreshPeriod = 10 * time.Minute
	}
	if c.CycleTimeout <= 0 {
		c.CycleTimeout = 60 * time.Second
	}
	if c.AggregateTimeout <= 0 {
		c.AggregateTimeout = 5 * time.Second
	}
	if c.IdleEvictAfter <= 0 {
		c.IdleEvictAfter = 30 * time.Minute
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 10
	}
	return c
}

// Coordinator owns one query's lifecycle: subscriber registry, periodic
// refresh, fan-out/fan-in enrichment, and broadcast. All state is owned by a
// single event-loop goroutine; registration and timer ticks are serialized
// through its mailbox, so no lock ever guards the subscriber list or the
// cached result.
type Coordinator struct {
	query    string
	cfg      CoordinatorConfig
	yt       *youtube.Client
	enricher *Enricher
	logger   zerolog.Logger

	events  chan any
	done    chan struct{}
	onEvict func(*Coordinator)

	// Read-only snapshots for /api/stats; only the loop writes them.
	subCount    atomic.Int64
	hasResult   atomic.Bool
	lastRefresh atomic.Int64 // unix seconds, 0 until first success

	// Loop-owned state. Never touched outside run.
	subs       []*Subscriber
	last       *model.AggregateResult
	refreshing bool
}

// CoordinatorInfo is a point-in-time view of one coordinator for /api/stats.
type CoordinatorInfo struct {
	Query       string     `json:"query"`
	Subscribers int        `json:"subscribers"`
	HasResult   bool       `json:"hasResult"`
	LastRefresh *time.Time `json:"lastRefresh,omitempty"`
}

type evRegister struct{ sub *Subscriber }

type evUnregister struct{ sub *Subscriber }

type evRefreshDone struct {
	result *model.AggregateResult
	err    error
}

func newCoordinator(query string, cfg CoordinatorConfig, yt *youtube.Client, enricher *Enricher, logger zerolog.Logger, onEvict func(*Coordinator)) *Coordinator {
	return &Coordinator{
		query:    query,
		cfg:      cfg.withDefaults(),
		yt:       yt,
		enricher: enricher,
		logger: logger.With().
			Str("component", "coordinator").
			Str("query_hash", queryHash(query)).
			Logger(),
		events:   make(chan any, 16),
		done:     make(chan struct{}),
		onEvict:  onEvict,
	}
}

// Query returns the coordinator's query string.
func (c *Coordinator) Query() string { return c.query }

// Register adds a subscriber. It reports false if the coordinator has already
// shut down, in which case the caller must fetch a fresh coordinator from the
// registry and retry.
func (c *Coordinator) Register(sub *Subscriber) bool {
	select {
	case c.events <- evRegister{sub: sub}:
		return true
	case <-c.done:
		return false
	}
}

// Unregister removes a subscriber and closes its update stream.
func (c *Coordinator) Unregister(sub *Subscriber) {
	select {
	case c.events <- evUnregister{sub: sub}:
	case <-c.done:
	}
}

// Info returns a stats snapshot without touching loop-owned state.
func (c *Coordinator) Info() CoordinatorInfo {
	info := CoordinatorInfo{
		Query:       c.query,
		Subscribers: int(c.subCount.Load()),
		HasResult:   c.hasResult.Load(),
	}
	if ts := c.lastRefresh.Load(); ts > 0 {
		t := time.Unix(ts, 0).UTC()
		info.LastRefresh = &t
	}
	return info
}

// run is the coordinator's event loop. ctx is the registry's lifecycle
// context; cancelling it stops every coordinator.
func (c *Coordinator) run(ctx context.Context) {
	Metrics.ActiveCoordinators.Inc()
	defer Metrics.ActiveCoordinators.Dec()
	defer c.shutdown()

	ticker := time.NewTicker(c.cfg.RefreshPeriod)
	defer ticker.Stop()

	// Armed from the start: a coordinator that never gains a subscriber
	// evicts itself the same way one abandoned later does.
	idle := time.NewTimer(c.cfg.IdleEvictAfter)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-c.events:
			switch ev := ev.(type) {
			case evRegister:
				c.handleRegister(ctx, ev.sub, idle)
			case evUnregister:
				c.handleUnregister(ev.sub, idle)
			case evRefreshDone:
				c.handleRefreshDone(ev)
			}

		case <-ticker.C:
			// Dropped outright while a cycle is in flight: at most one
			// refresh runs concurrently per query.
			if len(c.subs) > 0 && !c.refreshing {
				c.startRefresh(ctx)
			}

		case <-idle.C:
			if len(c.subs) == 0 {
				c.logger.Info().
					Dur("idle_after", c.cfg.IdleEvictAfter).
					Msg("coordinator idle, evicting")
				if c.onEvict != nil {
					c.onEvict(c)
				}
				return
			}
		}
	}
}

func (c *Coordinator) handleRegister(ctx context.Context, sub *Subscriber, idle *time.Timer) {
	c.subs = append(c.subs, sub)
	c.subCount.Store(int64(len(c.subs)))
	Metrics.ActiveSubscribers.Inc()
	stopTimer(idle)

	if c.last != nil {
		// Late joiner gets the cached result immediately instead of waiting
		// out the rest of the period.
		sub.deliver(c.last)
	}
	if c.last == nil && !c.refreshing {
		c.startRefresh(ctx)
	}
}

func (c *Coordinator) handleUnregister(sub *Subscriber, idle *time.Timer) {
	// A handle registered more than once holds several slots; unregistering
	// drops all of them, and the shared channel is closed exactly once.
	kept := c.subs[:0]
	closed := false
	for _, s := range c.subs {
		if s.id != sub.id {
			kept = append(kept, s)
			continue
		}
		if !closed {
			close(s.ch)
			closed = true
		}
		Metrics.ActiveSubscribers.Dec()
	}
	c.subs = kept
	c.subCount.Store(int64(len(c.subs)))
	if len(c.subs) == 0 {
		stopTimer(idle)
		idle.Reset(c.cfg.IdleEvictAfter)
	}
}

// startRefresh launches one refresh cycle. The loop keeps processing
// registrations and ticks while the cycle runs; completion comes back as an
// event, so broadcast is serialized with everything else.
func (c *Coordinator) startRefresh(ctx context.Context) {
	c.refreshing = true
	go func() {
		start := time.Now()
		cctx, cancel := context.WithTimeout(ctx, c.cfg.CycleTimeout)
		defer cancel()

		res, err := runAnalysis(cctx, c.yt, c.enricher, c.query, c.cfg.MaxResults, c.cfg.AggregateTimeout)
		Metrics.RefreshDuration.Observe(time.Since(start).Seconds())

		select {
		case c.events <- evRefreshDone{result: res, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (c *Coordinator) handleRefreshDone(ev evRefreshDone) {
	c.refreshing = false

	if ev.err != nil {
		outcome := "upstream_error"
		if errors.Is(ev.err, context.DeadlineExceeded) {
			outcome = "aborted"
		}
		Metrics.RefreshCycles.WithLabelValues(outcome).Inc()
		var ue *youtube.UpstreamError
		evt := c.logger.Warn().Err(ev.err)
		if errors.As(ev.err, &ue) {
			evt = evt.Int("upstream_status", ue.Status)
		}
		// Previous cached result stays current; subscribers see the failure
		// only as the absence of an update.
		evt.Msg("refresh cycle failed")
		return
	}

	Metrics.RefreshCycles.WithLabelValues("success").Inc()
	c.last = ev.result
	c.hasResult.Store(true)
	c.lastRefresh.Store(ev.result.GeneratedAt.Unix())

	// Snapshot-at-broadcast-time: exactly the members present now.
	for _, sub := range c.subs {
		if sub.deliver(ev.result) {
			Metrics.Broadcasts.Inc()
		}
	}

	c.logger.Debug().
		Int("items", len(ev.result.Items)).
		Int("subscribers", len(c.subs)).
		Msg("refresh cycle complete")
}

// shutdown closes every subscriber stream and rejects registrations that
// raced with the loop's exit.
func (c *Coordinator) shutdown() {
	close(c.done)
	for {
		select {
		case ev := <-c.events:
			if reg, ok := ev.(evRegister); ok {
				close(reg.sub.ch)
			}
		default:
			closed := make(map[uint64]struct{}, len(c.subs))
			for _, s := range c.subs {
				if _, done := closed[s.id]; !done {
					close(s.ch)
					closed[s.id] = struct{}{}
				}
				Metrics.ActiveSubscribers.Dec()
			}
			c.subs = nil
			c.subCount.Store(0)
			return
		}
	}
}

// stopTimer stops t and drains a pending fire so a later Reset starts clean.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
