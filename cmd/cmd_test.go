package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/acquire"
	"github.com/spigell/assessment-finder/internal/finder"
	"github.com/spigell/assessment-finder/internal/search"
)

func parseFindFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "find"}
	registerFindFlags(c)
	if err := c.Flags().Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return c
}

func TestFindInputText(t *testing.T) {
	defaults := finder.Options{TopK: 10, Rerank: true, Fallback: true}
	in, err := findInput(parseFindFlags(t, "--text", "Java developer", "--top-k", "7", "--rerank=false"), defaults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if in.Mode != acquire.ModeText || in.Text != "Java developer" || !in.Triggered {
		t.Fatalf("unexpected input: %+v", in)
	}
	want := finder.Options{TopK: 7, Rerank: false, Fallback: true}
	if in.Options != want {
		t.Fatalf("expected options %+v, got %+v", want, in.Options)
	}
}

func TestFindInputURL(t *testing.T) {
	in, err := findInput(parseFindFlags(t, "--url", "https://example.com/job", "--explanations"), finder.Options{TopK: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if in.Mode != acquire.ModeURL || in.URL != "https://example.com/job" || in.Text != "" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if !in.Options.Explanations {
		t.Fatalf("expected explanations to be enabled")
	}
}

func TestFindInputRequiresSource(t *testing.T) {
	if _, err := findInput(parseFindFlags(t), finder.Options{}); err == nil {
		t.Fatalf("expected an error without --text or --url")
	}
}

func TestUIOptions(t *testing.T) {
	got := uiOptions(nil)
	want := finder.Options{TopK: search.DefaultTopK, Rerank: true, Fallback: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got = uiOptions(&UIConfig{TopK: 40, Explanations: true})
	want = finder.Options{TopK: search.MaxTopK, Explanations: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestHandleNext(t *testing.T) {
	if err := handleNext(PromptSearchAgain); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := handleNext(PromptExit); !errors.Is(err, errExit) {
		t.Fatalf("expected errExit, got %v", err)
	}
	if err := handleNext("unknown"); err == nil {
		t.Fatalf("expected an error for an unknown action")
	}
}

func TestNewFlowWithoutSearchEndpoint(t *testing.T) {
	config := &Config{Search: &SearchConfig{}}

	flow, err := newFlow(context.Background(), config, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := flow.Run(context.Background(), finder.Input{Mode: acquire.ModeText, Text: "Nurse", Triggered: true})
	if len(page.Notices) != 1 || page.Notices[0].Level != finder.LevelError {
		t.Fatalf("expected a single error notice, got %+v", page.Notices)
	}
}

func TestNewFlowRejectsInvalidEndpoint(t *testing.T) {
	config := &Config{Search: &SearchConfig{Endpoint: "ftp://search.local"}}

	if _, err := newFlow(context.Background(), config, zap.NewNop()); err == nil {
		t.Fatalf("expected an error for an invalid endpoint")
	}
}

func TestNewAIExplainerRejectsUnknownProvider(t *testing.T) {
	_, err := newAIExplainer(context.Background(), &AIConfig{Provider: "openai"}, zap.NewNop())
	if err == nil {
		t.Fatalf("expected an error for an unsupported provider")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if got, want := out.String(), app+" version: unknown\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNewSearcherReadsTokenFromEnv(t *testing.T) {
	t.Setenv(searchTokenEnv, "env-token")

	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	t.Cleanup(srv.Close)

	searcher, err := newSearcher(&SearchConfig{Endpoint: srv.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := searcher.Search(context.Background(), search.Request{Query: "Nurse"}); err != nil {
		t.Fatalf("unexpected search error: %v", err)
	}

	if auth != "Bearer env-token" {
		t.Fatalf("expected the env token to be sent, got %q", auth)
	}
}

func TestNewAIExplainerReadsKeyFromEnv(t *testing.T) {
	t.Setenv(geminiAPIKeyEnv, "")
	if _, err := newAIExplainer(context.Background(), &AIConfig{Gemini: &GeminiConfig{}}, zap.NewNop()); err == nil {
		t.Fatalf("expected an error without an api key")
	}

	t.Setenv(geminiAPIKeyEnv, "env-key")
	explainer, err := newAIExplainer(context.Background(), &AIConfig{Gemini: &GeminiConfig{}}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if explainer == nil {
		t.Fatalf("expected an explainer")
	}
}
