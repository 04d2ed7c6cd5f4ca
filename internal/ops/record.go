package ops

import (
	"fmt"

	"github.com/quillan/vellum/internal/config"
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/point"
	"github.com/quillan/vellum/internal/verrors"
)

// RecordInput contains parameters for the Record operation.
type RecordInput struct {
	// Text is the free text to score
	Text string

	// Markdown strips markdown syntax before keyword counting
	Markdown bool

	// Force appends the point regardless of the logging policy
	Force bool
}

// RecordOutput contains the result of the Record operation.
type RecordOutput struct {
	Point  PointView  `json:"point"`
	Logged bool       `json:"logged"`
	Reason string     `json:"reason"`
	Entry  *EntryView `json:"entry,omitempty"`
	Length int        `json:"length"`
}

// Record scores free text and appends the resulting point to the ledger if
// it passes the logging policy: high-arousal or strongly negative events are
// logged, the rest are reported but kept off the chain.
func Record(led *ledger.Ledger, cfg *config.Config, input RecordInput) (*RecordOutput, error) {
	p, err := scoreText(cfg, input.Text, input.Markdown)
	if err != nil {
		return nil, err
	}

	logged, reason := evaluatePolicy(cfg, p, input.Force)

	output := &RecordOutput{
		Point:  viewPoint(p),
		Logged: logged,
		Reason: reason,
	}

	if logged {
		entry, err := led.Append(p)
		if err != nil {
			return nil, verrors.NewInternal(err)
		}
		view := viewEntry(entry)
		output.Entry = &view
	}

	output.Length = led.Len()
	return output, nil
}

// evaluatePolicy decides whether a scored point belongs on the ledger.
func evaluatePolicy(cfg *config.Config, p *point.Point, force bool) (bool, string) {
	if force {
		return true, "append forced by caller"
	}
	if p.Arousal > cfg.LogArousalAbove {
		return true, fmt.Sprintf("arousal %d above threshold %d", p.Arousal, cfg.LogArousalAbove)
	}
	if p.Valence < cfg.LogValenceBelow {
		return true, fmt.Sprintf("valence %d below threshold %d", p.Valence, cfg.LogValenceBelow)
	}
	return false, fmt.Sprintf("arousal %d and valence %d within thresholds; not logged", p.Arousal, p.Valence)
}
