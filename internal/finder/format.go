package finder

import (
	"sort"
	"strings"
)

const (
	placeholder     = "N/A"
	untitled        = "Untitled"
	inertURL        = "#"
	descriptionSize = 1000
	ellipsis        = "..."
)

// FormatTestTypes splits a comma separated tag list, trims and deduplicates
// the tags and returns them sorted and joined with ", ".
func FormatTestTypes(raw string) string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return strings.Join(tags, ", ")
}

// FormatDescription keeps the first 1000 characters and appends an ellipsis.
func FormatDescription(s string) string {
	runes := []rune(s)
	if len(runes) > descriptionSize {
		runes = runes[:descriptionSize]
	}
	return string(runes) + ellipsis
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
