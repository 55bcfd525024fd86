package finder

import (
	"fmt"
	"io"
	"strings"
)

const divider = "----------------------------------------"

// WriteText renders the page as plain text for terminals.
func WriteText(w io.Writer, p *Page) error {
	var b strings.Builder

	for _, n := range p.Notices {
		writeNotice(&b, n)
	}

	if p.RewrittenQuery != "" {
		writeNotice(&b, Notice{Level: LevelInfo, Text: "AI Rewritten Query:\n\n" + p.RewrittenQuery})
	}

	if p.Status != nil {
		writeNotice(&b, *p.Status)
	}

	for _, example := range p.Examples {
		fmt.Fprintf(&b, "    %s\n", example)
	}

	for _, item := range p.Items {
		b.WriteString("\n")
		writeItem(&b, item)
		b.WriteString(divider + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeNotice(b *strings.Builder, n Notice) {
	fmt.Fprintf(b, "[%s] %s\n", n.Level, n.Text)
}

func writeItem(b *strings.Builder, item Item) {
	fmt.Fprintf(b, "%d. %s\n", item.Rank, item.Name)
	if item.Linked {
		fmt.Fprintf(b, "   %s\n", item.URL)
	}
	fmt.Fprintf(b, "- Job Levels: %s\n", item.JobLevels)
	fmt.Fprintf(b, "- Test Type(s): %s\n", item.TestTypes)
	fmt.Fprintf(b, "- Remote Testing Support: %s\n", item.RemoteTesting)
	fmt.Fprintf(b, "- Adaptive Support: %s\n", item.Adaptive)
	fmt.Fprintf(b, "- IRT Support: %s\n", item.IRT)
	fmt.Fprintf(b, "- Duration: %s\n", item.Duration)
	fmt.Fprintf(b, "- Description:\n> %s\n", item.Description)
	if item.Explanation != "" {
		fmt.Fprintf(b, "AI Explanation:\n> %s\n", item.Explanation)
	}
}
