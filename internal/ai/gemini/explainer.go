package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/ai"
	"github.com/spigell/assessment-finder/internal/utils"
)

//go:embed prompt.md
var systemPrompt string

const (
	defaultMaxLogLength = 200
	maxQueryRunes       = 4000
	maxCacheEntries     = 512
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// Explainer asks Gemini why an assessment fits a job description. Answers
// are cached per job description and assessment.
type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int

	cacheMu sync.RWMutex
	cache   map[string]string
}

func NewExplainer(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Explainer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
		cache:     make(map[string]string),
	}
}

func (e *Explainer) Explain(ctx context.Context, query string, subject ai.Subject) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("job description is required")
	}
	if strings.TrimSpace(subject.Name) == "" {
		return "", errors.New("assessment name is required")
	}

	key := cacheKey(query, subject)

	e.cacheMu.RLock()
	cached, ok := e.cache[key]
	e.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	message, err := buildMessage(query, subject)
	if err != nil {
		return "", err
	}

	e.logger.Debug("gemini explanation request",
		zap.String("assessment", subject.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return "", err
	}

	e.logger.Debug("gemini explanation response",
		zap.String("assessment", subject.Name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	explanation := cleanResponse(raw)
	if explanation == "" {
		return "", errors.New("gemini returned an empty explanation")
	}

	e.cacheMu.Lock()
	if len(e.cache) >= maxCacheEntries {
		e.cache = make(map[string]string)
	}
	e.cache[key] = explanation
	e.cacheMu.Unlock()

	return explanation, nil
}

func buildMessage(query string, subject ai.Subject) (string, error) {
	if runes := []rune(query); len(runes) > maxQueryRunes {
		query = string(runes[:maxQueryRunes])
	}

	payload, err := json.MarshalIndent(map[string]string{
		"name":        subject.Name,
		"url":         subject.URL,
		"job_levels":  subject.JobLevels,
		"test_types":  subject.TestTypes,
		"duration":    subject.Duration,
		"description": subject.Description,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal assessment payload: %w", err)
	}

	return fmt.Sprintf("Job description:\n%s\n\nAssessment:\n%s\n\nExplanation:", query, payload), nil
}

// cleanResponse strips code fences and wrapping quotes some models add.
func cleanResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```text")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx != -1 {
			cleaned = cleaned[:idx]
		}
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, "\"")
	return strings.TrimSpace(cleaned)
}

func cacheKey(query string, subject ai.Subject) string {
	sum := sha256.Sum256([]byte(query + "\x00" + subject.Name + "\x00" + subject.URL))
	return fmt.Sprintf("%x", sum[:])
}
