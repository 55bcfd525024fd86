package webui

import (
	"github.com/spigell/assessment-finder/internal/finder"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	themeCookie = "theme"
)

// Themes lists the selectable themes in display order.
var Themes = []string{ThemeLight, ThemeDark}

// Defaults are the initial form values.
type Defaults struct {
	Theme   string
	Options finder.Options
}

// PageData is passed to index.html.
type PageData struct {
	Theme           string
	Themes          []string
	Page            *finder.Page
	AssessmentTypes []string
	TopKMin         int
	TopKMax         int
}

// APISearchRequest is the body of POST /api/search. Omitted toggles take
// the server defaults.
type APISearchRequest struct {
	Mode         string `json:"mode"`
	Text         string `json:"text"`
	URL          string `json:"url"`
	TopK         int    `json:"top_k"`
	Rerank       *bool  `json:"rerank"`
	Fallback     *bool  `json:"fallback"`
	Explanations *bool  `json:"explanations"`
}

// APIError is returned for rejected API requests.
type APIError struct {
	Error string `json:"error"`
}

func normalizeTheme(theme, def string) string {
	switch theme {
	case ThemeLight, ThemeDark:
		return theme
	}
	if def == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
