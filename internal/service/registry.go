package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

// Registry is the process-wide map from query string to its coordinator.
// Coordinators are created lazily on first subscription and remove themselves
// after sitting idle past the configured grace period.
//
// The lock covers only insert/lookup/remove; it is never held across a
// refresh cycle or a broadcast.
type Registry struct {
	mu           sync.Mutex
	coordinators map[string]*Coordinator

	cfg      CoordinatorConfig
	yt       *youtube.Client
	enricher *Enricher
	logger   zerolog.Logger

	// lifecycleCtx parents every coordinator loop. It is independent of any
	// request context, so coordinators survive the request that created them.
	lifecycleCtx    context.Context
	lifecycleCancel context.CancelFunc
}

func NewRegistry(cfg CoordinatorConfig, yt *youtube.Client, enricher *Enricher, logger zerolog.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		coordinators:    make(map[string]*Coordinator),
		cfg:             cfg.withDefaults(),
		yt:              yt,
		enricher:        enricher,
		logger:          logger,
		lifecycleCtx:    ctx,
		lifecycleCancel: cancel,
	}
}

// GetOrCreate returns the coordinator for the query, creating and starting it
// on first use. Concurrent calls with the same query get the same instance.
func (r *Registry) GetOrCreate(query string) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.coordinators[query]; ok {
		return c
	}

	c := newCoordinator(query, r.cfg, r.yt, r.enricher, r.logger, r.remove)
	r.coordinators[query] = c
	go c.run(r.lifecycleCtx)

	r.logger.Info().
		Str("query_hash", queryHash(query)).
		Int("coordinators", len(r.coordinators)).
		Msg("coordinator created")
	return c
}

// Register subscribes sub to the query's coordinator, creating one if needed.
// It retries if it races with an idle eviction.
func (r *Registry) Register(query string, sub *Subscriber) *Coordinator {
	for {
		c := r.GetOrCreate(query)
		if c.Register(sub) {
			return c
		}
	}
}

// remove drops a coordinator from the map, but only the exact instance that
// asked — a replacement created in the meantime stays.
func (r *Registry) remove(c *Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.coordinators[c.query]; ok && current == c {
		delete(r.coordinators, c.query)
	}
}

// Len returns the number of live coordinators.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.coordinators)
}

// Snapshot returns stats for every live coordinator, ordered by query.
func (r *Registry) Snapshot() []CoordinatorInfo {
	r.mu.Lock()
	infos := make([]CoordinatorInfo, 0, len(r.coordinators))
	for _, c := range r.coordinators {
		infos = append(infos, c.Info())
	}
	r.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Query < infos[j].Query })
	return infos
}

// Close stops every coordinator and prevents new ones from doing useful work.
func (r *Registry) Close() {
	r.lifecycleCancel()
}

// queryHash produces a short, irreversible log token for a query string, so
// search terms never appear in logs verbatim.
func queryHash(query string) string {
	h := sha256.Sum256([]byte(query))
	return hex.EncodeToString(h[:])[:12]
}
