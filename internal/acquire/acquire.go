// Package acquire turns the user's input, raw text or a job posting URL,
// into the text that is sent to the search backend.
package acquire

import (
	"context"
	"errors"
	"strings"
)

// Mode selects how the input is interpreted.
type Mode string

const (
	ModeText Mode = "text"
	ModeURL  Mode = "url"
)

// ErrInvalidURL is returned for URLs without an http:// or https:// prefix.
var ErrInvalidURL = errors.New("please enter a valid URL (starting with http:// or https://)")

// TextFetcher downloads a page and returns its visible text.
type TextFetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// Outcome is the result of acquiring input. Exactly one of Warning and Err
// is set when acquisition did not produce text.
type Outcome struct {
	Text string
	// Fetched reports that Text was extracted from a URL.
	Fetched bool
	// Warning is a validation problem detected before any network call.
	Warning string
	// Err is a fetch or parse failure.
	Err error
}

// ParseMode maps user supplied values onto a Mode, defaulting to text.
func ParseMode(v string) Mode {
	if strings.EqualFold(strings.TrimSpace(v), string(ModeURL)) {
		return ModeURL
	}
	return ModeText
}

// ValidateURL reports whether rawURL may be fetched.
func ValidateURL(rawURL string) error {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return nil
	}
	return ErrInvalidURL
}

// Acquire resolves the input for the given mode. Text mode returns text
// verbatim. URL mode validates and fetches rawURL; an empty URL yields an
// empty outcome without a warning.
func Acquire(ctx context.Context, fetcher TextFetcher, mode Mode, text, rawURL string) Outcome {
	if mode != ModeURL {
		return Outcome{Text: text}
	}

	if rawURL == "" {
		return Outcome{}
	}

	if err := ValidateURL(rawURL); err != nil {
		return Outcome{Warning: err.Error()}
	}

	if fetcher == nil {
		return Outcome{Err: errors.New("url fetching is not configured")}
	}

	extracted, err := fetcher.FetchText(ctx, rawURL)
	if err != nil {
		return Outcome{Err: err}
	}

	return Outcome{Text: extracted, Fetched: true}
}
