package service

import (
	"context"
	"errors"
	"time"

	"github.com/mirchandani-mohnish/ytanalytics/internal/analysis"
	"github.com/mirchandani-mohnish/ytanalytics/internal/model"
	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

// EnrichStatus is the terminal state of one item enrichment step.
type EnrichStatus int

const (
	EnrichOK EnrichStatus = iota
	EnrichFailed
	EnrichTimeout
)

func (s EnrichStatus) String() string {
	switch s {
	case EnrichOK:
		return "ok"
	case EnrichTimeout:
		return "timeout"
	default:
		return "failed"
	}
}

// EnrichResult is the tagged outcome of one item enrichment step. Record is
// set only when Status is EnrichOK.
type EnrichResult struct {
	Record *model.VideoRecord
	Status EnrichStatus
	Err    error
}

// Enricher turns one search stub into one enriched VideoRecord: full detail
// fetch (Redis-cached), readability scoring, and per-item sentiment, all
// under a per-item deadline.
type Enricher struct {
	yt          *youtube.Client
	cache       *CacheService
	itemTimeout time.Duration
}

func NewEnricher(yt *youtube.Client, cache *CacheService, itemTimeout time.Duration) *Enricher {
	if itemTimeout <= 0 {
		itemTimeout = 5 * time.Second
	}
	return &Enricher{yt: yt, cache: cache, itemTimeout: itemTimeout}
}

// Enrich runs one item enrichment step. It always returns a terminal result;
// a timeout or failure yields no record rather than an incomplete one.
func (e *Enricher) Enrich(ctx context.Context, stub youtube.SearchItem) EnrichResult {
	ctx, cancel := context.WithTimeout(ctx, e.itemTimeout)
	defer cancel()

	detail, err := e.fetchDetail(ctx, stub.VideoID)
	if err != nil {
		status := EnrichFailed
		if errors.Is(err, context.DeadlineExceeded) {
			status = EnrichTimeout
		}
		Metrics.EnrichOutcomes.WithLabelValues(status.String()).Inc()
		return EnrichResult{Status: status, Err: err}
	}

	readability := analysis.Score(detail.Description)

	record := &model.VideoRecord{
		VideoID:      stub.VideoID,
		Title:        stub.Title,
		Description:  detail.Description,
		ThumbnailURL: stub.ThumbnailURL,
		ChannelTitle: stub.ChannelTitle,
		PublishedAt:  stub.PublishedAt,
		ViewCount:    detail.ViewCount,
		GradeLevel:   readability.GradeLevel,
		ReadingEase:  readability.ReadingEase,
		Sentiment:    analysis.ClassifySentiment([]string{detail.Description}),
	}
	Metrics.EnrichOutcomes.WithLabelValues(EnrichOK.String()).Inc()
	return EnrichResult{Record: record, Status: EnrichOK}
}

func (e *Enricher) fetchDetail(ctx context.Context, videoID string) (*youtube.VideoDetail, error) {
	if e.cache != nil {
		if detail, err := e.cache.GetDetail(ctx, videoID); err == nil && detail != nil {
			Metrics.CacheHits.Inc()
			return detail, nil
		}
	}
	Metrics.CacheMisses.Inc()

	detail, err := e.yt.FetchDetail(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		// Best effort; a failed cache write never fails the item.
		_ = e.cache.SetDetail(ctx, videoID, detail)
	}
	return detail, nil
}
