package web

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/quillan/vellum/internal/config"
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/ops"
)

func setupTest(t *testing.T) *Handlers {
	t.Helper()

	led, err := ledger.New()
	if err != nil {
		t.Fatalf("ledger.New: %v", err)
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	renderer := NewRenderer(templateSub, "test")

	return &Handlers{
		led:      led,
		cfg:      config.DefaultConfig(),
		renderer: renderer,
	}
}

// seedEntry appends a manually scored point and returns its view.
func seedEntry(t *testing.T, h *Handlers, description string) ops.EntryView {
	t.Helper()
	out, err := ops.AppendPoint(h.led, ops.AppendInput{
		Arousal: 80, Valence: -30, ImpactScope: 1,
		Description: description,
		SourceText:  "raw source",
	})
	if err != nil {
		t.Fatalf("seed entry %q: %v", description, err)
	}
	return out.Entry
}

// --- HandleList ---

func TestHandleList_Default(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "flagged incident alpha")

	req := httptest.NewRequest("GET", "/entries", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "flagged incident alpha") {
		t.Error("expected entry description in response")
	}
	if !strings.Contains(body, "Ledger Initialized") {
		t.Error("expected genesis entry in response")
	}
	if !strings.Contains(body, "chain intact") {
		t.Error("expected chain status in response")
	}
}

func TestHandleList_JSON(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "json entry")

	req := httptest.NewRequest("GET", "/entries", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var output map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &output); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	items := output["items"].([]any)
	if len(items) != 2 {
		t.Errorf("items = %d, want 2", len(items))
	}
}

func TestHandleList_TamperedChainShowsViolation(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "soon to be tampered")

	entry, _ := h.led.Entry(1)
	entry.Point.Valence = 50

	req := httptest.NewRequest("GET", "/entries", nil)
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "integrity violation") {
		t.Error("expected integrity violation notice in response")
	}
}

func TestHandleList_HtmxReturnsContentOnly(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "htmx entry")

	req := httptest.NewRequest("GET", "/entries", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("htmx response should not contain the layout shell")
	}
	if !strings.Contains(body, "htmx entry") {
		t.Error("expected entry description in fragment")
	}
}

// --- HandleDetail ---

func TestHandleDetail(t *testing.T) {
	h := setupTest(t)
	seeded := seedEntry(t, h, "detail entry")

	req := httptest.NewRequest("GET", "/entries/1", nil)
	req.SetPathValue("index", "1")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "detail entry") {
		t.Error("expected entry description in response")
	}
	if !strings.Contains(body, seeded.Hash) {
		t.Error("expected full entry hash in response")
	}
}

func TestHandleDetail_NotFound(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/9", nil)
	req.SetPathValue("index", "9")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDetail_NonIntegerIndex(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/abc", nil)
	req.SetPathValue("index", "abc")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDetail_JSONErrorNegotiation(t *testing.T) {
	h := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/9", nil)
	req.SetPathValue("index", "9")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error response is not JSON: %v", err)
	}
	errObj := payload["error"].(map[string]any)
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("error code = %v, want NOT_FOUND", errObj["code"])
	}
}

// --- HandleVerify ---

func TestHandleVerify(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "verified entry")

	req := httptest.NewRequest("GET", "/verify", nil)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var output map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &output); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if output["ok"] != true {
		t.Errorf("ok = %v, want true", output["ok"])
	}
	if output["length"].(float64) != 2 {
		t.Errorf("length = %v, want 2", output["length"])
	}
}

func TestHandleVerify_Tampered(t *testing.T) {
	h := setupTest(t)
	seedEntry(t, h, "tamper target")

	entry, _ := h.led.Entry(1)
	entry.PreviousHash = "deadbeef"

	req := httptest.NewRequest("GET", "/verify", nil)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)

	var output map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &output); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if output["ok"] != false {
		t.Fatal("tampered chain should not verify")
	}
	violation := output["violation"].(map[string]any)
	if violation["check"] != "linkage" {
		t.Errorf("violation check = %v, want linkage", violation["check"])
	}
}

// --- HandleEvent ---

func eventRequest(form url.Values) *http.Request {
	req := httptest.NewRequest("POST", "/events", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleEvent_LoggedRedirects(t *testing.T) {
	h := setupTest(t)

	req := eventRequest(url.Values{"text": {"URGENT HELP NEEDED NOW!"}})
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if h.led.Len() != 2 {
		t.Errorf("Len = %d, urgent event should be appended", h.led.Len())
	}
}

func TestHandleEvent_SkippedStaysOffChain(t *testing.T) {
	h := setupTest(t)

	req := eventRequest(url.Values{"text": {"Thank you for your help."}})
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if h.led.Len() != 1 {
		t.Errorf("Len = %d, calm event should stay off the chain", h.led.Len())
	}
}

func TestHandleEvent_ForceCheckbox(t *testing.T) {
	h := setupTest(t)

	req := eventRequest(url.Values{"text": {"Thank you for your help."}, "force": {"on"}})
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)

	if h.led.Len() != 2 {
		t.Errorf("Len = %d, forced event should be appended", h.led.Len())
	}
}

func TestHandleEvent_JSON(t *testing.T) {
	h := setupTest(t)

	req := eventRequest(url.Values{"text": {"hate hate hate"}})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var output map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &output); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if output["logged"] != true {
		t.Error("valence -30 should be logged")
	}
	if !strings.Contains(output["reason"].(string), "valence") {
		t.Errorf("reason = %v, want valence threshold mention", output["reason"])
	}
}

func TestHandleEvent_HtmxFragment(t *testing.T) {
	h := setupTest(t)

	req := eventRequest(url.Values{"text": {"URGENT HELP NEEDED NOW!"}})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event-result logged") {
		t.Errorf("fragment = %q, want logged event result", body)
	}
}

func TestHandleEvent_EmptyText(t *testing.T) {
	h := setupTest(t)

	req := eventRequest(url.Values{"text": {""}})
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- Server wiring ---

func TestSecurityHeaders(t *testing.T) {
	handler := securityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options header")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("missing Content-Security-Policy header")
	}
}

func TestNewServer_Routes(t *testing.T) {
	led, err := ledger.New()
	if err != nil {
		t.Fatalf("ledger.New: %v", err)
	}

	srv := NewServer(led, config.DefaultConfig(), "test", "127.0.0.1", 0)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("GET / status = %d, want 302 redirect", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/entries" {
		t.Errorf("redirect Location = %q, want /entries", loc)
	}
}
