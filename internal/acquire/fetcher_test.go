package acquire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFetcherFetchText(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><h1>Data Analyst</h1><p>SQL, Excel</p></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(FetcherConfig{UserAgent: "finder-test"}, zap.NewNop())
	text, err := f.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Data Analyst SQL, Excel" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotAgent != "finder-test" {
		t.Fatalf("expected custom user agent, got %q", gotAgent)
	}
}

func TestFetcherDecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<p>R\xe9sum\xe9</p>"))
	}))
	defer srv.Close()

	text, err := NewFetcher(FetcherConfig{}, nil).FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Résumé" {
		t.Fatalf("expected decoded text, got %q", text)
	}
}

func TestFetcherBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher(FetcherConfig{}, nil).FetchText(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected bad status error, got %v", err)
	}
}

func TestFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := NewFetcher(FetcherConfig{Timeout: 50 * time.Millisecond}, nil)
	start := time.Now()
	_, err := f.FetchText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("fetch did not honour timeout, took %v", elapsed)
	}
}

func TestFetcherLimitsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<p>" + strings.Repeat("a", 64) + "</p><p>tail</p>"))
	}))
	defer srv.Close()

	text, err := NewFetcher(FetcherConfig{MaxBodyBytes: 16}, nil).FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(text, "tail") {
		t.Fatalf("expected body to be truncated, got %q", text)
	}
}

func TestNewFetcherDefaults(t *testing.T) {
	f := NewFetcher(FetcherConfig{}, nil)
	if f.HTTPClient.Timeout != 5*time.Second {
		t.Fatalf("expected default 5s timeout, got %v", f.HTTPClient.Timeout)
	}
	if f.UserAgent == "" {
		t.Fatalf("expected default user agent")
	}
}
