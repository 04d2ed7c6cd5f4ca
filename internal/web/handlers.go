package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/quillan/vellum/internal/config"
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/ops"
	"github.com/quillan/vellum/internal/verrors"
)

// Handlers contains HTTP route handlers for the web UI. The ledger is not
// safe for concurrent use, so mutating and reading handlers take the mutex.
type Handlers struct {
	led      *ledger.Ledger
	cfg      *config.Config
	renderer *Renderer
	mu       sync.Mutex
}

// HandleList handles GET /entries — list ledger entries in chain order.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	}

	h.mu.Lock()
	result, err := ops.ListEntries(h.led, input)
	var status *ops.VerifyOutput
	if err == nil {
		status = ops.VerifyChain(h.led)
	}
	h.mu.Unlock()

	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Ledger",
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Length:     result.Length,
		Status:     status,
	})
}

// HandleDetail handles GET /entries/{index} — view a single ledger entry.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.renderer.renderError(w, r, verrors.NewInvalidRequest("index must be an integer"))
		return
	}

	h.mu.Lock()
	result, err := ops.FetchEntry(h.led, ops.FetchInput{Index: index})
	h.mu.Unlock()

	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	var rendered template.HTML
	if result.Entry.Point.SourceText != "" {
		rendered = renderMarkdown(result.Entry.Point.SourceText)
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Entry %d", result.Entry.Index),
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Entry:        result.Entry,
		RenderedHTML: rendered,
	})
}

// HandleVerify handles GET /verify — chain integrity check, JSON only.
func (h *Handlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	result := ops.VerifyChain(h.led)
	h.mu.Unlock()

	renderJSON(w, http.StatusOK, result)
}

// HandleEvent handles POST /events — score submitted text and record it
// against the logging policy.
func (h *Handlers) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, verrors.NewInvalidRequest("invalid form data"))
		return
	}

	input := ops.RecordInput{
		Text:     r.FormValue("text"),
		Markdown: formBool(r, "markdown"),
		Force:    formBool(r, "force"),
	}

	h.mu.Lock()
	result, err := ops.Record(h.led, h.cfg, input)
	h.mu.Unlock()

	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: return HTML fragment with the logging decision
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		class := "event-result skipped"
		if result.Logged {
			class = "event-result logged"
		}
		fmt.Fprintf(w, `<div class="%s">%s</div>`, class, template.HTMLEscapeString(result.Reason))
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, result)
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/entries", http.StatusFound)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// formBool parses a boolean form value.
func formBool(r *http.Request, name string) bool {
	s := r.FormValue(name)
	return s == "true" || s == "1" || s == "on"
}
