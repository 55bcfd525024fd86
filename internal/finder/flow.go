package finder

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/acquire"
	"github.com/spigell/assessment-finder/internal/logger"
	"github.com/spigell/assessment-finder/internal/search"
)

// Flow runs one interaction: acquire the input, call the search
// capability and build the page. It holds no per-interaction state.
type Flow struct {
	fetcher  acquire.TextFetcher
	searcher search.Searcher
	logger   *zap.Logger
}

func NewFlow(fetcher acquire.TextFetcher, searcher search.Searcher, log *zap.Logger) *Flow {
	return &Flow{
		fetcher:  fetcher,
		searcher: searcher,
		logger:   logger.WithFields(log),
	}
}

// Run executes the interaction synchronously. It never fails: fetch and
// search errors are reported on the returned page.
func (f *Flow) Run(ctx context.Context, in Input) *Page {
	log := f.logger.With(zap.String(logger.FieldMode, string(in.Mode)))

	acq := acquire.Acquire(ctx, f.fetcher, in.Mode, in.Text, in.URL)
	switch {
	case acq.Warning != "":
		log.Info("input rejected", zap.String("reason", acq.Warning))
	case acq.Err != nil:
		log.Warn("fetching url failed", zap.String("url", in.URL), zap.Error(acq.Err))
	}

	if !in.Triggered || strings.TrimSpace(acq.Text) == "" {
		return Build(in, acq, nil)
	}

	res := f.search(ctx, in, acq.Text)
	if res.Err != nil {
		log.Warn("search failed", zap.Error(res.Err))
	} else {
		log.Info("search completed", zap.Int("results", len(res.Response.Results)))
	}

	return Build(in, acq, res)
}

func (f *Flow) search(ctx context.Context, in Input, text string) *SearchOutcome {
	if f.searcher == nil {
		return &SearchOutcome{Err: search.ErrNotConfigured}
	}

	resp, err := f.searcher.Search(ctx, search.Request{
		Query:               text,
		TopK:                search.ClampTopK(in.Options.TopK),
		Debug:               search.DebugDisabled,
		IncludeExplanations: in.Options.Explanations,
		DoRerank:            in.Options.Rerank,
	})
	if err != nil {
		return &SearchOutcome{Err: err}
	}
	if resp == nil {
		resp = &search.Response{}
	}

	return &SearchOutcome{Response: resp}
}
