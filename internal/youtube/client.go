// Package youtube is a minimal client for the YouTube Data API v3, covering
// the two calls the analytics pipeline needs: video search and per-video
// detail lookup.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// UpstreamError reports a failed call to the YouTube API: either a transport
// failure (Err set) or a non-success HTTP status (Status set).
type UpstreamError struct {
	Op     string // "search" or "videos"
	Status int    // HTTP status, 0 on transport failure
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("youtube %s: unexpected status %d", e.Op, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// SearchItem is one raw video stub from a search response, before enrichment.
type SearchItem struct {
	VideoID      string
	Title        string
	Description  string
	ThumbnailURL string
	ChannelTitle string
	PublishedAt  time.Time
}

// VideoDetail is the full snippet of one video.
type VideoDetail struct {
	Description string `json:"description"`
	ViewCount   *int64 `json:"viewCount,omitempty"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client for the given API base URL and key. An empty
// baseURL falls back to the public Data API endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Wire types, trimmed to the fields we read.

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

type snippet struct {
	PublishedAt  time.Time `json:"publishedAt"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channelTitle"`
	Thumbnails   struct {
		Default struct {
			URL string `json:"url"`
		} `json:"default"`
	} `json:"thumbnails"`
}

type videosResponse struct {
	Items []struct {
		Snippet    snippet `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Search returns up to maxResults video stubs for the query, newest first.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchItem, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("key", c.apiKey)

	var resp searchResponse
	if err := c.get(ctx, "search", params, &resp); err != nil {
		return nil, err
	}

	items := make([]SearchItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID == "" {
			continue
		}
		items = append(items, SearchItem{
			VideoID:      it.ID.VideoID,
			Title:        it.Snippet.Title,
			Description:  it.Snippet.Description,
			ThumbnailURL: it.Snippet.Thumbnails.Default.URL,
			ChannelTitle: it.Snippet.ChannelTitle,
			PublishedAt:  it.Snippet.PublishedAt,
		})
	}
	return items, nil
}

// FetchDetail returns the full snippet of one video. Search responses
// truncate descriptions, so enrichment always re-fetches them here.
func (c *Client) FetchDetail(ctx context.Context, videoID string) (*VideoDetail, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", videoID)
	params.Set("key", c.apiKey)

	var resp videosResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, &UpstreamError{Op: "videos", Err: fmt.Errorf("video %s not found", videoID)}
	}

	detail := &VideoDetail{Description: resp.Items[0].Snippet.Description}
	if vc := resp.Items[0].Statistics.ViewCount; vc != "" {
		if n, err := strconv.ParseInt(vc, 10, 64); err == nil {
			detail.ViewCount = &n
		}
	}
	return detail, nil
}

func (c *Client) get(ctx context.Context, op string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+op+"?"+params.Encode(), nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &UpstreamError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
