package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultMaxBodyBytes = 5 << 20
	defaultUserAgent    = "spigell/assessment-finder"
)

// FetcherConfig configures page downloads.
type FetcherConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher downloads job posting pages with a single GET request.
type Fetcher struct {
	HTTPClient   *http.Client
	UserAgent    string
	maxBodyBytes int64
	logger       *zap.Logger
}

func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent:    userAgent,
		maxBodyBytes: maxBody,
		logger:       logger,
	}
}

// FetchText downloads rawURL and returns its visible text. It does not retry.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	f.logger.Debug("fetching page", zap.String("url", rawURL))

	start := time.Now()
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}

	text, err := ExtractText(body)
	if err != nil {
		return "", err
	}

	f.logger.Debug("page fetched",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("text_length", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return text, nil
}
