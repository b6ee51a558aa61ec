package model

import "time"

// VideoRecord is one enriched search result. Records are built fresh on every
// refresh cycle and never mutated afterwards, so subscribers can hold a result
// without observing half-updated items.
type VideoRecord struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	ChannelTitle string    `json:"channelTitle,omitempty"`
	PublishedAt  time.Time `json:"publishedAt"`
	ViewCount    *int64    `json:"viewCount,omitempty"`

	// Flesch–Kincaid grade level and Flesch reading ease of the description.
	// Always finite and non-negative; items whose enrichment timed out never
	// make it into a result at all.
	GradeLevel  float64 `json:"fleschKincaidGradeLevel"`
	ReadingEase float64 `json:"fleschReadingScore"`

	// Sentiment tag of this description alone.
	Sentiment string `json:"sentiment,omitempty"`
}

// AggregateResult is the merged, broadcastable summary of one refresh cycle
// for a single query. The two averages cover only items that completed
// enrichment; with zero completed items both default to 0.0.
type AggregateResult struct {
	Query          string         `json:"query"`
	Items          []VideoRecord  `json:"items"`
	GradeLevelAvg  float64        `json:"fleschKincaidGradeLevelAvg"`
	ReadingEaseAvg float64        `json:"fleschReadingScoreAvg"`
	Sentiment      string         `json:"sentiment"`
	WordStats      map[string]int `json:"wordStats,omitempty"`
	GeneratedAt    time.Time      `json:"generatedAt"`
}

// WordStatsResponse is the API response for word-frequency lookups.
type WordStatsResponse struct {
	Query     string         `json:"query"`
	WordStats map[string]int `json:"wordStats"`
	Sampled   int            `json:"sampledVideos"`
}
