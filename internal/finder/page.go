package finder

import "github.com/spigell/assessment-finder/internal/acquire"

// Level is the severity of a Notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single message shown to the user.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Options are the feature toggles of one interaction.
type Options struct {
	TopK         int  `json:"top_k"`
	Rerank       bool `json:"rerank"`
	Fallback     bool `json:"fallback"`
	Explanations bool `json:"explanations"`
}

// Input is the form state of one interaction.
type Input struct {
	Mode    acquire.Mode `json:"mode"`
	Text    string       `json:"text,omitempty"`
	URL     string       `json:"url,omitempty"`
	Options Options      `json:"options"`
	// Triggered is set when the user asked for recommendations.
	Triggered bool `json:"triggered"`
}

// Item is one rendered assessment.
type Item struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Linked        bool   `json:"linked"`
	JobLevels     string `json:"job_levels"`
	TestTypes     string `json:"test_types"`
	RemoteTesting string `json:"remote_testing"`
	Adaptive      string `json:"adaptive"`
	IRT           string `json:"irt"`
	Duration      string `json:"duration"`
	Description   string `json:"description"`
	Explanation   string `json:"explanation,omitempty"`
}

// Page holds everything a presenter needs to draw one interaction.
type Page struct {
	Input Input `json:"input"`
	// Notices come from input acquisition and the search call, in order.
	Notices        []Notice `json:"notices,omitempty"`
	RewrittenQuery string   `json:"rewritten_query,omitempty"`
	// Status summarises the outcome: the results header, the fallback
	// message, the empty-result notice or the blank-input warning.
	Status   *Notice  `json:"status,omitempty"`
	Examples []string `json:"examples,omitempty"`
	Items    []Item   `json:"items,omitempty"`
	// Searched reports that the search capability was invoked.
	Searched bool `json:"searched"`
}
