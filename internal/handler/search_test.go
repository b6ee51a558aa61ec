package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mirchandani-mohnish/ytanalytics/internal/model"
	"github.com/mirchandani-mohnish/ytanalytics/internal/service"
	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

const fakeSearchBody = `{
	"items": [
		{
			"id": {"videoId": "vid-1"},
			"snippet": {
				"publishedAt": "2024-05-01T00:00:00Z",
				"title": "A cooking video",
				"description": "stub",
				"channelTitle": "Kitchen Channel",
				"thumbnails": {"default": {"url": ""}}
			}
		}
	]
}`

const fakeVideosBody = `{
	"items": [
		{
			"snippet": {"title": "A cooking video", "description": "A happy and wonderful cooking tutorial."},
			"statistics": {"viewCount": "42"}
		}
	]
}`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fakeSearchBody))
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fakeVideosBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	yt := youtube.NewClient(srv.URL, "test-key")
	enricher := service.NewEnricher(yt, nil, 2*time.Second)
	svc := service.NewSearchService(yt, enricher, 2*time.Second, 10)

	app := fiber.New()
	h := NewSearchHandler(svc)
	app.Get("/api/search", h.Search)
	ws := NewWordStatsHandler(svc)
	app.Get("/api/wordstats", ws.GetWordStats)
	return app
}

func TestSearchHandler_OK(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=cooking", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var res model.AggregateResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Query != "cooking" {
		t.Errorf("query = %q", res.Query)
	}
	if len(res.Items) != 1 || res.Items[0].VideoID != "vid-1" {
		t.Fatalf("items = %+v", res.Items)
	}
	if res.Items[0].Description != "A happy and wonderful cooking tutorial." {
		t.Errorf("description = %q", res.Items[0].Description)
	}
	if res.Sentiment == "" {
		t.Error("sentiment missing")
	}
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchHandler_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	yt := youtube.NewClient(srv.URL, "test-key")
	enricher := service.NewEnricher(yt, nil, time.Second)
	svc := service.NewSearchService(yt, enricher, time.Second, 10)

	app := fiber.New()
	app.Get("/api/search", NewSearchHandler(svc).Search)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=cooking", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestWordStatsHandler_OK(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/wordstats?q=cooking", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var res model.WordStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.WordStats["cooking"] == 0 {
		t.Errorf("wordStats = %+v, want cooking counted", res.WordStats)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"golang", "golang"},
		{"  go   tutorial  ", "go tutorial"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := normalizeQuery(tt.in); got != tt.want {
			t.Errorf("normalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
