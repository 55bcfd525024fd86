package search

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/utils"
)

const (
	searchPath      = "/search"
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/assessment-finder"
	maxLogLength    = 200
)

// ClientConfig configures the HTTP search client.
type ClientConfig struct {
	Endpoint string
	Token    string
	// Timeout of zero means the call blocks until the backend answers.
	Timeout time.Duration
}

// Client calls the recommendation service over HTTP.
type Client struct {
	endpoint   string
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

func New(cfg ClientConfig, logger *zap.Logger) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid search endpoint %q", cfg.Endpoint)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint: endpoint,
		token:    strings.TrimSpace(cfg.Token),
		logger:   logger,
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		UserAgent: userAgent,
	}, nil
}

// Search posts req to the backend and decodes the ranked response.
func (c *Client) Search(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New("search query must not be empty")
	}
	req.TopK = ClampTopK(req.TopK)
	req.Debug = DebugDisabled

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	c.logger.Debug("search request",
		zap.String("query_preview", utils.TruncateForLog(req.Query, maxLogLength)),
		zap.Int("top_k", req.TopK),
		zap.Bool("include_explanations", req.IncludeExplanations),
		zap.Bool("do_rerank", req.DoRerank),
	)

	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := c.readJSON(resp)
	if err != nil {
		return nil, err
	}

	result, err := decodeResponse(raw)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("search response",
		zap.Int("results", len(result.Results)),
		zap.Bool("rewritten", result.RewrittenQuery != ""),
		zap.Bool("fallback", result.Fallback != ""),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

func (c *Client) readJSON(resp *http.Response) (map[string]any, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == contentEncoding {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(data), maxLogLength))
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	if raw == nil {
		return nil, errors.New("search backend returned an empty body")
	}

	return raw, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", c.UserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
}
