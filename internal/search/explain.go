package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/ai"
)

type explainingSearcher struct {
	next      Searcher
	explainer ai.Explainer
	logger    *zap.Logger
}

// WithExplainer wraps next so that, when explanations are requested, items
// the backend left unexplained get one from explainer. Failures are logged
// and the item stays unexplained.
func WithExplainer(next Searcher, explainer ai.Explainer, logger *zap.Logger) Searcher {
	if explainer == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &explainingSearcher{next: next, explainer: explainer, logger: logger}
}

func (s *explainingSearcher) Search(ctx context.Context, req Request) (*Response, error) {
	resp, err := s.next.Search(ctx, req)
	if err != nil || resp == nil || !req.IncludeExplanations {
		return resp, err
	}

	limit := min(len(resp.Results), ClampTopK(req.TopK))
	explained := 0
	for i := 0; i < limit; i++ {
		item := &resp.Results[i]
		if strings.TrimSpace(item.Explanation) != "" {
			continue
		}

		explanation, err := s.explainer.Explain(ctx, req.Query, subjectOf(item))
		if err != nil {
			s.logger.Warn("explaining assessment failed",
				zap.String("assessment", item.Name),
				zap.Error(err),
			)
			continue
		}

		item.Explanation = explanation
		explained++
	}

	s.logger.Debug("explanations completed", zap.Int("explained", explained), zap.Int("considered", limit))

	return resp, nil
}

func subjectOf(a *Assessment) ai.Subject {
	return ai.Subject{
		Name:        a.Name,
		URL:         a.URL,
		JobLevels:   a.JobLevels,
		TestTypes:   a.TestTypes,
		Duration:    a.Duration,
		Description: a.Description,
	}
}
