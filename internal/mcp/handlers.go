package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quillan/vellum/internal/config"
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/ops"
	"github.com/quillan/vellum/internal/verrors"
)

// Handlers holds dependencies for MCP tool handlers. The ledger itself is not
// safe for concurrent use, so every tool call takes the handler mutex.
type Handlers struct {
	led *ledger.Ledger
	cfg *config.Config
	mu  sync.Mutex
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(led *ledger.Ledger, cfg *config.Config) *Handlers {
	return &Handlers{led: led, cfg: cfg}
}

// Request types for each tool

// ScoreRequest represents the arguments for point_score.
type ScoreRequest struct {
	Text     string `json:"text"`
	Markdown bool   `json:"markdown,omitempty"`
}

// RecordRequest represents the arguments for ledger_record.
type RecordRequest struct {
	Text     string `json:"text"`
	Markdown bool   `json:"markdown,omitempty"`
	Force    bool   `json:"force,omitempty"`
}

// AppendRequest represents the arguments for ledger_append.
// ImpactScope is a pointer so an omitted value defaults to 1 while an
// explicit zero is rejected by validation.
type AppendRequest struct {
	Arousal     int    `json:"arousal"`
	Valence     int    `json:"valence"`
	ImpactScope *int   `json:"impact_scope,omitempty"`
	Description string `json:"description"`
	SourceText  string `json:"source_text,omitempty"`
}

// ListRequest represents the arguments for ledger_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// EntryRequest represents the arguments for ledger_entry.
type EntryRequest struct {
	Index int `json:"index"`
}

// Handler implementations

// HandleScore handles the point_score tool call.
func (h *Handlers) HandleScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ScoreRequest](req)
	if err != nil {
		return errorResult(verrors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Score(h.cfg, ops.ScoreInput{
		Text:     input.Text,
		Markdown: input.Markdown,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecord handles the ledger_record tool call.
func (h *Handlers) HandleRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecordRequest](req)
	if err != nil {
		return errorResult(verrors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := ops.Record(h.led, h.cfg, ops.RecordInput{
		Text:     input.Text,
		Markdown: input.Markdown,
		Force:    input.Force,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAppend handles the ledger_append tool call.
func (h *Handlers) HandleAppend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AppendRequest](req)
	if err != nil {
		return errorResult(verrors.NewInvalidRequest(err.Error())), nil
	}

	impactScope := 1
	if input.ImpactScope != nil {
		impactScope = *input.ImpactScope
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := ops.AppendPoint(h.led, ops.AppendInput{
		Arousal:     input.Arousal,
		Valence:     input.Valence,
		ImpactScope: impactScope,
		Description: input.Description,
		SourceText:  input.SourceText,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleVerify handles the ledger_verify tool call.
func (h *Handlers) HandleVerify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return successResult(ops.VerifyChain(h.led))
}

// HandleList handles the ledger_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(verrors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := ops.ListEntries(h.led, ops.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEntry handles the ledger_entry tool call.
func (h *Handlers) HandleEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EntryRequest](req)
	if err != nil {
		return errorResult(verrors.NewInvalidRequest(err.Error())), nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	result, err := ops.FetchEntry(h.led, ops.FetchInput{Index: input.Index})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var vErr *verrors.VellumError
	if stderrors.As(err, &vErr) {
		errorObj := map[string]any{
			"code":    vErr.Code,
			"message": vErr.Message,
			"status":  vErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like wrapped error text
		if vErr.Code != verrors.ErrInternal && vErr.Details != nil {
			errorObj["details"] = vErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
