package webui

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/acquire"
	"github.com/spigell/assessment-finder/internal/finder"
	"github.com/spigell/assessment-finder/internal/search"
)

const maxAPIBodyBytes = 1 << 20

// handleIndex renders the form with the default toggles.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	in := finder.Input{Mode: acquire.ModeText, Options: s.defaults.Options}
	s.render(w, s.theme(r), finder.Build(in, acquire.Outcome{}, nil))
}

// handleFind runs one interaction from the submitted form.
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	theme := s.theme(r)
	if v := r.PostFormValue("theme"); v != "" {
		theme = normalizeTheme(v, theme)
		setThemeCookie(w, theme)
	}

	page := s.flow.Run(r.Context(), s.formInput(r))
	s.render(w, theme, page)
}

// handleTheme stores the chosen theme for the session.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	setThemeCookie(w, normalizeTheme(r.PostFormValue("theme"), s.defaults.Theme))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAPISearch runs one interaction from a JSON body and returns the page.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	var req APISearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAPIBodyBytes))
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeJSON(w, status, APIError{Error: "invalid request body"})
		return
	}

	in := finder.Input{
		Mode:      acquire.ParseMode(req.Mode),
		Text:      req.Text,
		URL:       req.URL,
		Options:   s.defaults.Options,
		Triggered: true,
	}
	if req.TopK != 0 {
		in.Options.TopK = req.TopK
	}
	if req.Rerank != nil {
		in.Options.Rerank = *req.Rerank
	}
	if req.Fallback != nil {
		in.Options.Fallback = *req.Fallback
	}
	if req.Explanations != nil {
		in.Options.Explanations = *req.Explanations
	}

	s.writeJSON(w, http.StatusOK, s.flow.Run(r.Context(), in))
}

// formInput reads the form state. Unchecked boxes are absent from a
// submitted form, so every toggle reads as false unless present.
func (s *Server) formInput(r *http.Request) finder.Input {
	topK, err := strconv.Atoi(r.PostFormValue("top_k"))
	if err != nil {
		topK = s.defaults.Options.TopK
	}

	return finder.Input{
		Mode: acquire.ParseMode(r.PostFormValue("mode")),
		Text: r.PostFormValue("text"),
		URL:  r.PostFormValue("url"),
		Options: finder.Options{
			TopK:         search.ClampTopK(topK),
			Rerank:       checked(r, "rerank"),
			Fallback:     checked(r, "fallback"),
			Explanations: checked(r, "explanations"),
		},
		Triggered: true,
	}
}

func checked(r *http.Request, name string) bool {
	switch r.PostFormValue(name) {
	case "", "0", "false", "off":
		return false
	default:
		return true
	}
}

func (s *Server) theme(r *http.Request) string {
	c, err := r.Cookie(themeCookie)
	if err != nil {
		return s.defaults.Theme
	}
	return normalizeTheme(c.Value, s.defaults.Theme)
}

func setThemeCookie(w http.ResponseWriter, theme string) {
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) render(w http.ResponseWriter, theme string, page *finder.Page) {
	data := PageData{
		Theme:           theme,
		Themes:          Themes,
		Page:            page,
		AssessmentTypes: finder.AssessmentTypes,
		TopKMin:         search.MinTopK,
		TopKMax:         search.MaxTopK,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.Render(w, "index.html", data); err != nil {
		s.logger.Error("rendering page failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding json failed", zap.Error(err))
	}
}
