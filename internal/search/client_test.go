package search

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(ClientConfig{Endpoint: srv.URL + "/", Token: "secret"}, zap.NewNop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientSearch(t *testing.T) {
	var got Request
	var auth, path string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"rewritten_query": "Java developer, collaboration",
			"results": [
				{"Assessment Name": "Java 8 (New)", "URL": "https://catalog.example/java", "Test Type(s)": "K, K", "Duration": 18, "Remote Testing Support": true, "Adaptive Support": false, "Job Levels": ["Mid-Professional", "Professional"]},
				{"Assessment Name": "Verify G+", "LLM Explanation": "General ability."}
			],
			"fallback": null
		}`))
	})

	resp, err := client.Search(context.Background(), Request{Query: "  Java developer  ", TopK: 40, Debug: true, DoRerank: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/search" {
		t.Fatalf("unexpected path %q", path)
	}
	if auth != "Bearer secret" {
		t.Fatalf("unexpected authorization header %q", auth)
	}
	if got.Query != "  Java developer  " || got.TopK != MaxTopK || got.Debug || !got.DoRerank || got.IncludeExplanations {
		t.Fatalf("unexpected request payload: %+v", got)
	}

	if resp.RewrittenQuery != "Java developer, collaboration" {
		t.Fatalf("unexpected rewritten query %q", resp.RewrittenQuery)
	}
	if resp.Fallback != "" {
		t.Fatalf("expected empty fallback, got %q", resp.Fallback)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}

	first := resp.Results[0]
	if first.Name != "Java 8 (New)" || first.URL != "https://catalog.example/java" {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if first.Duration != "18" || first.RemoteTesting != "Yes" || first.Adaptive != "No" {
		t.Fatalf("expected stringified values, got %+v", first)
	}
	if first.JobLevels != "Mid-Professional, Professional" {
		t.Fatalf("expected joined job levels, got %q", first.JobLevels)
	}
	if first.IRT != "" || first.Description != "" {
		t.Fatalf("expected missing fields to stay empty: %+v", first)
	}
	if resp.Results[1].Explanation != "General ability." {
		t.Fatalf("unexpected explanation: %q", resp.Results[1].Explanation)
	}
}

func TestClientSearchGzip(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"results": [], "fallback": "Try a broader description."}`))
		_ = gz.Close()
	})

	resp, err := client.Search(context.Background(), Request{Query: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 0 || resp.Fallback != "Try a broader description." {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientSearchBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index not loaded", http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), Request{Query: "x"})
	if err == nil || !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "index not loaded") {
		t.Fatalf("expected bad status error, got %v", err)
	}
}

func TestClientSearchMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	if _, err := client.Search(context.Background(), Request{Query: "x"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClientSearchRejectsBlankQuery(t *testing.T) {
	called := false
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })

	if _, err := client.Search(context.Background(), Request{Query: " \n\t"}); err == nil {
		t.Fatal("expected error for blank query")
	}
	if called {
		t.Fatal("expected no backend call for blank query")
	}
}

func TestNewValidatesEndpoint(t *testing.T) {
	if _, err := New(ClientConfig{}, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	for _, endpoint := range []string{"localhost:8000", "ftp://host", "http://"} {
		if _, err := New(ClientConfig{Endpoint: endpoint}, nil); err == nil {
			t.Fatalf("expected error for endpoint %q", endpoint)
		}
	}
}

func TestClampTopK(t *testing.T) {
	cases := map[int]int{0: DefaultTopK, 1: MinTopK, 5: 5, 12: 12, 15: 15, 99: MaxTopK, -3: MinTopK}
	for in, expect := range cases {
		if got := ClampTopK(in); got != expect {
			t.Fatalf("ClampTopK(%d) = %d, want %d", in, got, expect)
		}
	}
}
