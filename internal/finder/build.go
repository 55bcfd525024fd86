package finder

import (
	"fmt"
	"strings"

	"github.com/spigell/assessment-finder/internal/acquire"
	"github.com/spigell/assessment-finder/internal/search"
)

const (
	msgFetched   = "Successfully extracted text from URL!"
	msgBlank     = "Please enter valid input before searching. Here are some sample descriptions you can copy and paste:"
	msgNoResults = "No relevant assessments found. Try rephrasing or simplifying your input."
)

// Examples are offered when the user triggers a search without input.
var Examples = []string{
	"Example 1: Software engineer with experience in Python, machine learning, and cloud computing.",
	"Example 2: Marketing manager skilled in digital campaigns, SEO, and content creation.",
	"Example 3: Project coordinator with expertise in Agile methodologies and team leadership.",
}

// AssessmentTypes is the legend of catalogue categories shown on the page.
var AssessmentTypes = []string{
	"Cognitive & Aptitude",
	"Background & Situational Judgement",
	"Skills & Competencies",
	"Development & Feedback",
	"Practical Exercises",
	"Knowledge & Expertise",
	"Personality & Behavioral Insights",
	"Simulated Scenarios",
}

// SearchOutcome is the result of invoking the search capability.
type SearchOutcome struct {
	Response *search.Response
	Err      error
}

// Build derives the page for one interaction. res is nil when the search
// capability was not invoked. Build performs no I/O.
func Build(in Input, acq acquire.Outcome, res *SearchOutcome) *Page {
	in.Options.TopK = search.ClampTopK(in.Options.TopK)
	page := &Page{Input: in}

	switch {
	case acq.Warning != "":
		page.Notices = append(page.Notices, Notice{Level: LevelWarning, Text: acq.Warning})
	case acq.Err != nil:
		page.Notices = append(page.Notices, Notice{Level: LevelError, Text: fmt.Sprintf("Unable to fetch text from URL: %v", acq.Err)})
	case acq.Fetched:
		page.Notices = append(page.Notices, Notice{Level: LevelSuccess, Text: msgFetched})
	}

	if !in.Triggered {
		return page
	}

	if strings.TrimSpace(acq.Text) == "" {
		page.Status = &Notice{Level: LevelWarning, Text: msgBlank}
		page.Examples = append([]string(nil), Examples...)
		return page
	}

	if res == nil {
		return page
	}

	page.Searched = true

	var resp search.Response
	if res.Err != nil {
		page.Notices = append(page.Notices, Notice{Level: LevelError, Text: fmt.Sprintf("Search failed: %v", res.Err)})
	} else if res.Response != nil {
		resp = *res.Response
	}

	page.RewrittenQuery = strings.TrimSpace(resp.RewrittenQuery)
	page.Items = buildItems(resp.Results, in.Options)

	fallback := strings.TrimSpace(resp.Fallback)
	switch {
	case len(page.Items) > 0:
		// The header counts everything the backend returned, not only the rendered items.
		page.Status = &Notice{Level: LevelSuccess, Text: fmt.Sprintf("Top %d recommended assessments:", len(resp.Results))}
	case fallback != "" && in.Options.Fallback:
		page.Status = &Notice{Level: LevelWarning, Text: fallback}
	default:
		page.Status = &Notice{Level: LevelWarning, Text: msgNoResults}
	}

	return page
}

func buildItems(results []search.Assessment, opts Options) []Item {
	limit := min(len(results), search.ClampTopK(opts.TopK))
	if limit == 0 {
		return nil
	}

	items := make([]Item, 0, limit)
	for i, r := range results[:limit] {
		url := orDefault(r.URL, inertURL)
		item := Item{
			Rank:          i + 1,
			Name:          orDefault(r.Name, untitled),
			URL:           url,
			Linked:        url != inertURL,
			JobLevels:     orDefault(r.JobLevels, placeholder),
			TestTypes:     FormatTestTypes(orDefault(r.TestTypes, placeholder)),
			RemoteTesting: orDefault(r.RemoteTesting, placeholder),
			Adaptive:      orDefault(r.Adaptive, placeholder),
			IRT:           orDefault(r.IRT, placeholder),
			Duration:      orDefault(r.Duration, placeholder),
			Description:   FormatDescription(r.Description),
		}
		if opts.Explanations {
			item.Explanation = strings.TrimSpace(r.Explanation)
		}
		items = append(items, item)
	}

	return items
}
