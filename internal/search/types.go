// Package search is the client side of the external recommendation
// service: it sends a job description and receives ranked assessments.
package search

import (
	"context"
	"errors"
)

const (
	// DebugDisabled is always sent as the debug flag; the UI never exposes it.
	DebugDisabled = false

	MinTopK     = 5
	MaxTopK     = 15
	DefaultTopK = 10
)

// ErrNotConfigured is returned when no search endpoint is set.
var ErrNotConfigured = errors.New("search endpoint is not configured")

// Request is built for every search trigger and discarded afterwards.
type Request struct {
	Query               string `json:"query"`
	TopK                int    `json:"top_k"`
	Debug               bool   `json:"debug"`
	IncludeExplanations bool   `json:"include_explanations"`
	DoRerank            bool   `json:"do_rerank"`
}

// Assessment is one recommended item. Every field may be empty when the
// backend omits it.
type Assessment struct {
	Name          string `mapstructure:"Assessment Name" json:"Assessment Name,omitempty"`
	URL           string `mapstructure:"URL" json:"URL,omitempty"`
	JobLevels     string `mapstructure:"Job Levels" json:"Job Levels,omitempty"`
	TestTypes     string `mapstructure:"Test Type(s)" json:"Test Type(s),omitempty"`
	RemoteTesting string `mapstructure:"Remote Testing Support" json:"Remote Testing Support,omitempty"`
	Adaptive      string `mapstructure:"Adaptive Support" json:"Adaptive Support,omitempty"`
	IRT           string `mapstructure:"IRT Support" json:"IRT Support,omitempty"`
	Duration      string `mapstructure:"Duration" json:"Duration,omitempty"`
	Description   string `mapstructure:"Description" json:"Description,omitempty"`
	Explanation   string `mapstructure:"LLM Explanation" json:"LLM Explanation,omitempty"`
}

// Response is the ranked result of one search. Results are in relevance order.
type Response struct {
	RewrittenQuery string       `mapstructure:"rewritten_query" json:"rewritten_query,omitempty"`
	Results        []Assessment `mapstructure:"results" json:"results"`
	Fallback       string       `mapstructure:"fallback" json:"fallback,omitempty"`
}

// Searcher is the recommendation capability consumed by the UI.
type Searcher interface {
	Search(ctx context.Context, req Request) (*Response, error)
}

// ClampTopK bounds k to [MinTopK, MaxTopK]; zero selects DefaultTopK.
func ClampTopK(k int) int {
	switch {
	case k == 0:
		return DefaultTopK
	case k < MinTopK:
		return MinTopK
	case k > MaxTopK:
		return MaxTopK
	default:
		return k
	}
}
