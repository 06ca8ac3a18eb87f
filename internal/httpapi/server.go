package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/joelkehle/drug-landscape/internal/landscape"
	"github.com/joelkehle/drug-landscape/internal/logger"
	"github.com/joelkehle/drug-landscape/internal/palette"
	"github.com/joelkehle/drug-landscape/internal/report"
)

// Narrator produces optional prose for a report. narrative.Summarizer
// satisfies it.
type Narrator interface {
	Summarize(ctx context.Context, res *landscape.Result) (string, error)
}

type Options struct {
	PDF      report.PDFRenderer
	Narrator Narrator
	Colors   palette.Assigner
	Log      *logger.Logger
}

type Server struct {
	engine   *landscape.Engine
	pdf      report.PDFRenderer
	narrator Narrator
	colors   palette.Assigner
	log      *logger.Logger
}

func NewServer(engine *landscape.Engine, opts Options) http.Handler {
	colors := opts.Colors
	if colors == nil {
		colors = palette.NewMemo(nil)
	}
	s := &Server{
		engine:   engine,
		pdf:      opts.PDF,
		narrator: opts.Narrator,
		colors:   colors,
		log:      logger.OrNop(opts.Log),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/health", s.handleHealth)
	mux.HandleFunc("/v1/diseases", s.handleDiseases)
	mux.HandleFunc("/v1/landscape", s.handleLandscape)
	mux.HandleFunc("/v1/report", s.handleReport)
	return withRequestLog(s.log, mux)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var le *landscape.Error
	if !errors.As(err, &le) {
		le = &landscape.Error{Code: landscape.CodeInternal, Message: err.Error(), Status: http.StatusInternalServerError}
	}
	writeJSON(w, le.Status, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    le.Code,
			"message": le.Message,
		},
	})
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// parseSecondary defaults to true when the parameter is absent.
func parseSecondary(value string) (bool, error) {
	if strings.TrimSpace(value) == "" {
		return true, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, landscape.NewValidationError("secondary must be true or false")
	}
	return v, nil
}

func (s *Server) refresh(r *http.Request) (*landscape.Result, error) {
	q := r.URL.Query()
	secondary, err := parseSecondary(q.Get("secondary"))
	if err != nil {
		return nil, err
	}
	return s.engine.Refresh(r.Context(), q.Get("disease"), secondary)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"datasets": s.engine.Store().Counts(),
	})
}

func (s *Server) handleDiseases(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	all := s.engine.Diseases()
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	out := make([]string, 0, len(all))
	for _, d := range all {
		if query == "" || strings.Contains(strings.ToLower(d), query) {
			out = append(out, d)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "diseases": out})
}

func (s *Server) handleLandscape(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	res, err := s.refresh(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "md"
	}
	switch format {
	case "md", "html", "pdf":
	default:
		writeError(w, landscape.NewValidationError("format must be md, html or pdf"))
		return
	}
	if format == "pdf" && s.pdf == nil {
		writeError(w, landscape.NewUnavailableError("pdf rendering is not configured"))
		return
	}

	res, err := s.refresh(r)
	if err != nil {
		writeError(w, err)
		return
	}
	md := report.BuildMarkdown(res, report.Options{Colors: s.colors, Narrative: s.narrate(r.Context(), res)})
	title := "Drug Landscape: " + res.Disease

	switch format {
	case "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(md))
	case "html":
		doc, err := report.RenderHTML(title, md)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(doc))
	case "pdf":
		pdf, err := s.pdf.Render(r.Context(), title, md)
		if err != nil {
			s.log.Error("pdf render failed", "disease", res.Disease, "error", err)
			writeError(w, landscape.NewUnavailableError("pdf rendering failed"))
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", reportFileName(res.Disease)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

// narrate never fails the request; a narrator error only drops the overview.
func (s *Server) narrate(ctx context.Context, res *landscape.Result) string {
	if s.narrator == nil {
		return ""
	}
	text, err := s.narrator.Summarize(ctx, res)
	if err != nil {
		s.log.Warn("narrative unavailable", "disease", res.Disease, "error", err)
		return ""
	}
	return text
}

func reportFileName(disease string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(disease)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "landscape"
	}
	return name + "-landscape.pdf"
}
