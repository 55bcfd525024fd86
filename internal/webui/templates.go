package webui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/spigell/assessment-finder/internal/finder"
)

//go:embed templates/*.html
var templatesFS embed.FS

// TemplateManager manages HTML templates
type TemplateManager struct {
	templates *template.Template
}

// NewTemplateManager creates a new template manager
func NewTemplateManager() (*TemplateManager, error) {
	funcMap := template.FuncMap{
		"noticeClass": noticeClass,
		"noticeIcon":  noticeIcon,
		"isMode":      func(in finder.Input, mode string) bool { return string(in.Mode) == mode },
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &TemplateManager{
		templates: tmpl,
	}, nil
}

// Render renders a template to the writer. Output is buffered so that a
// failing template never produces a partial page.
func (tm *TemplateManager) Render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := tm.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func noticeClass(level finder.Level) string {
	switch level {
	case finder.LevelSuccess, finder.LevelWarning, finder.LevelError:
		return "notice notice-" + string(level)
	default:
		return "notice notice-info"
	}
}

func noticeIcon(level finder.Level) string {
	switch level {
	case finder.LevelSuccess:
		return "✅"
	case finder.LevelWarning:
		return "⚠️"
	case finder.LevelError:
		return "❌"
	default:
		return "📝"
	}
}
