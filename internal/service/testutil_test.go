package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

// fakeUpstream is an httptest-backed stand-in for the YouTube Data API.
type fakeUpstream struct {
	srv *httptest.Server

	mu           sync.Mutex
	videoIDs     []string
	descriptions map[string]string
	detailDelays map[string]time.Duration
	searchDelay  time.Duration
	failSearch   bool

	searchCalls         atomic.Int64
	concurrentSearches  atomic.Int64
	maxConcurrentSearch atomic.Int64
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{
		descriptions: make(map[string]string),
		detailDelays: make(map[string]time.Duration),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/search", f.handleSearch)
	mux.HandleFunc("/videos", f.handleVideos)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) client() *youtube.Client {
	return youtube.NewClient(f.srv.URL, "test-key")
}

func (f *fakeUpstream) addVideo(id, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videoIDs = append(f.videoIDs, id)
	f.descriptions[id] = description
}

func (f *fakeUpstream) setSearchDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchDelay = d
}

func (f *fakeUpstream) setDetailDelay(id string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailDelays[id] = d
}

func (f *fakeUpstream) setFailSearch(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSearch = fail
}

func (f *fakeUpstream) handleSearch(w http.ResponseWriter, r *http.Request) {
	cur := f.concurrentSearches.Add(1)
	defer f.concurrentSearches.Add(-1)
	for {
		max := f.maxConcurrentSearch.Load()
		if cur <= max || f.maxConcurrentSearch.CompareAndSwap(max, cur) {
			break
		}
	}
	f.searchCalls.Add(1)

	f.mu.Lock()
	delay := f.searchDelay
	fail := f.failSearch
	ids := append([]string(nil), f.videoIDs...)
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		http.Error(w, "upstream down", http.StatusInternalServerError)
		return
	}

	items := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{
			"id": map[string]any{"videoId": id},
			"snippet": map[string]any{
				"publishedAt":  "2024-05-01T00:00:00Z",
				"title":        "title " + id,
				"description":  "stub",
				"channelTitle": "channel " + id,
				"thumbnails":   map[string]any{"default": map[string]any{"url": ""}},
			},
		})
	}
	json.NewEncoder(w).Encode(map[string]any{"items": items})
}

func (f *fakeUpstream) handleVideos(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	f.mu.Lock()
	delay := f.detailDelays[id]
	description, ok := f.descriptions[id]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if !ok {
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"items": []map[string]any{
			{
				"snippet":    map[string]any{"title": "title " + id, "description": description},
				"statistics": map[string]any{"viewCount": "100"},
			},
		},
	})
}

// eventually polls cond until it returns true or the deadline passes.
func eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}
