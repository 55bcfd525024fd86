package ai

import "context"

// Subject is the assessment an explanation is requested for.
type Subject struct {
	Name        string
	URL         string
	JobLevels   string
	TestTypes   string
	Duration    string
	Description string
}

// Explainer produces a short natural-language reason why an assessment
// suits the given job description.
type Explainer interface {
	Explain(ctx context.Context, query string, subject Subject) (string, error)
}
