package ops

import (
	"strings"

	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/point"
	"github.com/quillan/vellum/internal/verrors"
)

// AppendInput contains parameters for the AppendPoint operation.
type AppendInput struct {
	Arousal     int
	Valence     int
	ImpactScope int
	Description string
	SourceText  string
}

// AppendOutput contains the result of the AppendPoint operation.
type AppendOutput struct {
	Entry  EntryView `json:"entry"`
	Length int       `json:"length"`
}

// AppendPoint constructs a point from explicit scores and appends it to the
// ledger, bypassing the text heuristic and the logging policy.
func AppendPoint(led *ledger.Ledger, input AppendInput) (*AppendOutput, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, verrors.NewInvalidRequest("description is required")
	}

	p, err := point.New(input.Arousal, input.Valence, input.ImpactScope, input.Description, input.SourceText)
	if err != nil {
		return nil, err
	}

	entry, err := led.Append(p)
	if err != nil {
		return nil, verrors.NewInternal(err)
	}

	return &AppendOutput{
		Entry:  viewEntry(entry),
		Length: led.Len(),
	}, nil
}
