package ops

import (
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/verrors"
)

// ListInput contains parameters for the ListEntries operation.
type ListInput struct {
	Limit  int
	Offset int
}

// ListOutput contains the result of the ListEntries operation.
type ListOutput struct {
	Items      []EntrySummary `json:"items"`
	Pagination Pagination     `json:"pagination"`
	Length     int            `json:"length"`
}

// ListEntries returns entry summaries in chain order, paginated. Summaries
// never include the full source text.
func ListEntries(led *ledger.Ledger, input ListInput) (*ListOutput, error) {
	if input.Offset < 0 {
		return nil, verrors.NewInvalidRequest("offset must be non-negative")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	entries := led.Entries()
	total := len(entries)

	start := input.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]EntrySummary, 0, end-start)
	for _, e := range entries[start:end] {
		items = append(items, summarize(e))
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  input.Offset,
			HasMore: end < total,
			Total:   total,
		},
		Length: total,
	}, nil
}
