// Package scorer derives interaction points from free text using a fixed
// keyword heuristic. It is a producer of ledger payloads, not part of the
// chain itself; the policy here is deliberately simple and replaceable.
package scorer

import (
	"fmt"
	"strings"

	"github.com/quillan/vellum/internal/point"
)

// Scoring weights. Same text, same lexicon, same scores; the only
// nondeterminism in a scored point is its ID and timestamp.
const (
	baseArousal          = 5
	valenceWeight        = 10
	arousalWeight        = 20
	broadcastImpactScope = 1000

	descriptionPreviewRunes = 30
)

// Lexicon holds the keyword lists the heuristic counts.
type Lexicon struct {
	// Positive words add valenceWeight per occurrence
	Positive []string

	// Negative words subtract valenceWeight per occurrence
	Negative []string

	// Arousal cues add arousalWeight per occurrence on top of baseArousal
	Arousal []string

	// Broadcast phrases widen impact_scope to broadcastImpactScope
	Broadcast []string
}

// DefaultLexicon returns the built-in keyword lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive:  []string{"love", "happy", "great", "good", "thanks", "help"},
		Negative:  []string{"hate", "sad", "bad", "harm", "hurt", "delete"},
		Arousal:   []string{"!", "now", "urgent", "emergency", "help"},
		Broadcast: []string{"everyone", "all users"},
	}
}

// Score maps free text to an interaction point. Valence and arousal are
// clamped into their domains before construction, so the result always
// satisfies point validation.
func Score(text string, lx Lexicon) (*point.Point, error) {
	return score(text, text, lx)
}

// ScoreMarkdown scores the plain-text content of a markdown document, so
// emphasis and link syntax cannot hide keywords, while keeping the original
// markdown as the point's source text.
func ScoreMarkdown(src string, lx Lexicon) (*point.Point, error) {
	return score(StripMarkdown(src), src, lx)
}

// score counts keywords in counting but records source as the point's origin.
func score(counting, source string, lx Lexicon) (*point.Point, error) {
	lower := strings.ToLower(counting)

	valence := 0
	for _, w := range lx.Positive {
		valence += strings.Count(lower, w) * valenceWeight
	}
	for _, w := range lx.Negative {
		valence -= strings.Count(lower, w) * valenceWeight
	}

	arousal := baseArousal
	for _, w := range lx.Arousal {
		arousal += strings.Count(lower, w) * arousalWeight
	}

	impactScope := point.MinImpactScope
	for _, phrase := range lx.Broadcast {
		if strings.Contains(lower, phrase) {
			impactScope = broadcastImpactScope
			break
		}
	}

	valence = clamp(valence, point.MinValence, point.MaxValence)
	arousal = clamp(arousal, point.MinArousal, point.MaxArousal)

	return point.New(arousal, valence, impactScope, describe(source), source)
}

// describe builds the point description from the first 30 runes of the input.
func describe(text string) string {
	preview := []rune(text)
	if len(preview) > descriptionPreviewRunes {
		preview = preview[:descriptionPreviewRunes]
	}
	return fmt.Sprintf("Text analysis result for: '%s...'", string(preview))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
