package ops

import (
	"github.com/quillan/vellum/internal/ledger"
	"github.com/quillan/vellum/internal/point"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// PointView is the JSON projection of an interaction point used by every
// surface.
type PointView struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"timestamp"`
	Arousal     int    `json:"arousal"`
	Valence     int    `json:"valence"`
	ImpactScope int    `json:"impact_scope"`
	Description string `json:"description"`
	SourceText  string `json:"source_text,omitempty"`
	Coordinates [3]int `json:"coordinates"`
}

// EntrySummary is the lean list projection of a ledger entry: hashes and the
// point's coordinate tuple, without the full source text.
type EntrySummary struct {
	Index        int    `json:"index"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	Description  string `json:"description"`
	Coordinates  [3]int `json:"coordinates"`
	Timestamp    int64  `json:"timestamp"`
}

// EntryView carries the full point for single-entry outputs.
type EntryView struct {
	Index        int       `json:"index"`
	Hash         string    `json:"hash"`
	PreviousHash string    `json:"previous_hash"`
	Point        PointView `json:"point_data"`
}

func viewPoint(p *point.Point) PointView {
	return PointView{
		ID:          p.ID,
		Timestamp:   p.CreatedAt,
		Arousal:     p.Arousal,
		Valence:     p.Valence,
		ImpactScope: p.ImpactScope,
		Description: p.Description,
		SourceText:  p.SourceText,
		Coordinates: [3]int{p.Arousal, p.Valence, p.ImpactScope},
	}
}

func summarize(e *ledger.Entry) EntrySummary {
	return EntrySummary{
		Index:        e.Index,
		Hash:         e.Hash,
		PreviousHash: e.PreviousHash,
		Description:  e.Point.Description,
		Coordinates:  [3]int{e.Point.Arousal, e.Point.Valence, e.Point.ImpactScope},
		Timestamp:    e.Point.CreatedAt,
	}
}

func viewEntry(e *ledger.Entry) EntryView {
	return EntryView{
		Index:        e.Index,
		Hash:         e.Hash,
		PreviousHash: e.PreviousHash,
		Point:        viewPoint(e.Point),
	}
}
