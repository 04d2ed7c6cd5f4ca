package ops

import (
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/verrors"
)

// FetchInput contains parameters for the FetchEntry operation.
type FetchInput struct {
	Index int
}

// FetchOutput contains the result of the FetchEntry operation.
type FetchOutput struct {
	Entry EntryView `json:"entry"`
}

// FetchEntry returns one entry by chain index with its full point detail.
func FetchEntry(led *ledger.Ledger, input FetchInput) (*FetchOutput, error) {
	entry, ok := led.Entry(input.Index)
	if !ok {
		return nil, verrors.NewNotFound(input.Index)
	}

	return &FetchOutput{Entry: viewEntry(entry)}, nil
}
