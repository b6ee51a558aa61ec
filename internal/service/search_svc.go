package service

import (
	"context"
	"sync"
	"time"

	"github.com/mirchandani-mohnish/ytanalytics/internal/analysis"
	"github.com/mirchandani-mohnish/ytanalytics/internal/model"
	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

// maxResultsCap bounds how many items one cycle may fan out, whatever the
// caller asks for. The Data API caps search pages at 50 anyway.
const maxResultsCap = 25

// SearchService runs the enrichment pipeline synchronously for one-shot
// requests. Coordinators reuse the same pipeline for their refresh cycles.
type SearchService struct {
	yt                *youtube.Client
	enricher          *Enricher
	aggregateTimeout  time.Duration
	defaultMaxResults int
}

func NewSearchService(yt *youtube.Client, enricher *Enricher, aggregateTimeout time.Duration, defaultMaxResults int) *SearchService {
	if defaultMaxResults <= 0 {
		defaultMaxResults = 10
	}
	return &SearchService{
		yt:                yt,
		enricher:          enricher,
		aggregateTimeout:  aggregateTimeout,
		defaultMaxResults: defaultMaxResults,
	}
}

// Analyze searches the query and returns one fully enriched aggregate result.
// maxResults <= 0 selects the configured default.
func (s *SearchService) Analyze(ctx context.Context, query string, maxResults int) (*model.AggregateResult, error) {
	if maxResults <= 0 {
		maxResults = s.defaultMaxResults
	}
	return runAnalysis(ctx, s.yt, s.enricher, query, maxResults, s.aggregateTimeout)
}

// WordStats returns only the word-frequency view of a query's current
// results, sampled over the same pipeline.
func (s *SearchService) WordStats(ctx context.Context, query string) (*model.WordStatsResponse, error) {
	res, err := s.Analyze(ctx, query, s.defaultMaxResults)
	if err != nil {
		return nil, err
	}
	stats := res.WordStats
	if stats == nil {
		stats = map[string]int{}
	}
	return &model.WordStatsResponse{
		Query:     query,
		WordStats: stats,
		Sampled:   len(res.Items),
	}, nil
}

// runAnalysis is the shared fan-out/fan-in pipeline: search, enrich every
// stub concurrently, join, aggregate. Search failure aborts the whole run;
// per-item failures only exclude that item.
func runAnalysis(ctx context.Context, yt *youtube.Client, enricher *Enricher, query string, maxResults int, aggregateTimeout time.Duration) (*model.AggregateResult, error) {
	if maxResults > maxResultsCap {
		maxResults = maxResultsCap
	}

	stubs, err := yt.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	// Fan out one enrichment step per stub. Results land in a fixed slot per
	// item so upstream ordering survives the concurrency.
	results := make([]EnrichResult, len(stubs))
	var wg sync.WaitGroup
	for i := range stubs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = enricher.Enrich(ctx, stubs[i])
		}(i)
	}
	wg.Wait()

	// Fan in: only items that completed contribute records and averages.
	items := make([]model.VideoRecord, 0, len(results))
	descriptions := make([]string, 0, len(results))
	var gradeSum, easeSum float64
	for _, r := range results {
		if r.Status != EnrichOK {
			continue
		}
		items = append(items, *r.Record)
		descriptions = append(descriptions, r.Record.Description)
		gradeSum += r.Record.GradeLevel
		easeSum += r.Record.ReadingEase
	}

	var gradeAvg, easeAvg float64
	if len(items) > 0 {
		gradeAvg = gradeSum / float64(len(items))
		easeAvg = easeSum / float64(len(items))
	}

	return &model.AggregateResult{
		Query:          query,
		Items:          items,
		GradeLevelAvg:  gradeAvg,
		ReadingEaseAvg: easeAvg,
		Sentiment:      classifyWithTimeout(ctx, aggregateTimeout, descriptions),
		WordStats:      wordStatsWithTimeout(ctx, aggregateTimeout, descriptions),
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// classifyWithTimeout runs the sentiment classifier under a budget and
// degrades to the neutral tag when it is exceeded.
func classifyWithTimeout(ctx context.Context, budget time.Duration, texts []string) string {
	done := make(chan string, 1)
	go func() {
		done <- analysis.ClassifySentiment(texts)
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case tag := <-done:
		return tag
	case <-timer.C:
		return analysis.SentimentNeutral
	case <-ctx.Done():
		return analysis.SentimentNeutral
	}
}

// wordStatsWithTimeout runs the word-frequency aggregator under a budget;
// on expiry the result simply omits word stats.
func wordStatsWithTimeout(ctx context.Context, budget time.Duration, texts []string) map[string]int {
	done := make(chan map[string]int, 1)
	go func() {
		done <- analysis.WordStats(texts)
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case stats := <-done:
		return stats
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}
}
