package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestGiphyService_RandomGIF(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.URL.Query().Get("q"); got != "cats" {
			t.Errorf("query tag = %q, want %q", got, "cats")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{"url": "https://giphy.com/gifs/a", "images": {"original": {"url": "https://media.giphy.com/a.gif"}}},
			{"url": "https://giphy.com/gifs/b", "images": {"original": {"url": "https://media.giphy.com/b.gif"}}},
			{"url": "https://giphy.com/gifs/c", "images": {"original": {"url": ""}}}
		]}`))
	}))
	defer server.Close()

	svc := NewGiphyService("test-key", server.URL)

	gif, err := svc.RandomGIF(context.Background(), "cats")
	if err != nil {
		t.Fatalf("RandomGIF() error = %v", err)
	}
	if gif.URL == "" || gif.Source == "" {
		t.Errorf("RandomGIF() = %+v, want url and source set", gif)
	}

	// Second draw for the same tag is served from the cache.
	if _, err := svc.RandomGIF(context.Background(), "cats"); err != nil {
		t.Fatalf("RandomGIF() second call error = %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestGiphyService_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	svc := NewGiphyService("test-key", server.URL)
	if _, err := svc.RandomGIF(context.Background(), "nothing"); err == nil {
		t.Fatal("RandomGIF() error = nil, want error for empty results")
	}
}

func TestGiphyService_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewGiphyService("test-key", server.URL)
	if _, err := svc.RandomGIF(context.Background(), "cats"); err == nil {
		t.Fatal("RandomGIF() error = nil, want error for upstream failure")
	}
}
