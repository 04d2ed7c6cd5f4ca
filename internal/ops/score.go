package ops

import (
	"strings"

	"github.com/quillan/vellum/internal/config"
	"github.com/quillan/vellum/internal/point"
	"github.com/quillan/vellum/internal/scorer"
	"github.com/quillan/vellum/internal/verrors"
)

// ScoreInput contains parameters for the Score operation.
type ScoreInput struct {
	// Text is the free text to score
	Text string

	// Markdown strips markdown syntax before keyword counting
	Markdown bool
}

// ScoreOutput contains the result of the Score operation.
type ScoreOutput struct {
	Point PointView `json:"point"`
}

// Score runs the text heuristic and returns the resulting point without
// touching the ledger. Useful as a preview before Record.
func Score(cfg *config.Config, input ScoreInput) (*ScoreOutput, error) {
	p, err := scoreText(cfg, input.Text, input.Markdown)
	if err != nil {
		return nil, err
	}
	return &ScoreOutput{Point: viewPoint(p)}, nil
}

// scoreText validates the input text and runs the scorer with the
// configured lexicon.
func scoreText(cfg *config.Config, text string, markdown bool) (*point.Point, error) {
	if strings.TrimSpace(text) == "" {
		return nil, verrors.NewInvalidRequest("text is required")
	}
	if markdown {
		return scorer.ScoreMarkdown(text, cfg.Lexicon())
	}
	return scorer.Score(text, cfg.Lexicon())
}
