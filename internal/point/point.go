package point

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/quillan/vellum/internal/verrors"
)

// Bounds for point construction. Validation happens once, at New; a Point
// that exists satisfies them.
const (
	MinArousal     = 0
	MaxArousal     = 100
	MinValence     = -50
	MaxValence     = 50
	MinImpactScope = 1
)

// Point is a validated record of one scored interaction event.
// Neither the ledger nor the scorer mutates a Point after construction.
type Point struct {
	// ID is a ULID that uniquely identifies this point
	ID string `json:"id"`

	// CreatedAt is the Unix timestamp when the point was created
	// (informational only, not part of validation)
	CreatedAt int64 `json:"timestamp"`

	// Arousal is the intensity score, in [0, 100]
	Arousal int `json:"arousal"`

	// Valence is the positivity score, in [-50, 50]
	Valence int `json:"valence"`

	// ImpactScope is the number of parties affected, at least 1
	ImpactScope int `json:"impact_scope"`

	// Description is a human-readable summary of the event
	Description string `json:"description"`

	// SourceText is the raw input the point was derived from, if any
	SourceText string `json:"source_text"`
}

// Coordinates is the derived (arousal, valence, impact_scope) 3-tuple,
// a display and grouping convenience.
type Coordinates struct {
	Arousal     int `json:"arousal"`
	Valence     int `json:"valence"`
	ImpactScope int `json:"impact_scope"`
}

// New validates all bounds and constructs a Point. It fails atomically with
// an INVALID_POINT error naming the violated constraint; no partially-valid
// point escapes.
func New(arousal, valence, impactScope int, description, sourceText string) (*Point, error) {
	if arousal < MinArousal || arousal > MaxArousal {
		return nil, verrors.NewInvalidPoint("arousal", arousal,
			fmt.Sprintf("must be in [%d, %d]", MinArousal, MaxArousal))
	}
	if valence < MinValence || valence > MaxValence {
		return nil, verrors.NewInvalidPoint("valence", valence,
			fmt.Sprintf("must be in [%d, %d]", MinValence, MaxValence))
	}
	if impactScope < MinImpactScope {
		return nil, verrors.NewInvalidPoint("impact_scope", impactScope,
			fmt.Sprintf("must be at least %d", MinImpactScope))
	}

	id, err := generateULID()
	if err != nil {
		return nil, verrors.NewInternal(err)
	}

	return &Point{
		ID:          id,
		CreatedAt:   time.Now().Unix(),
		Arousal:     arousal,
		Valence:     valence,
		ImpactScope: impactScope,
		Description: description,
		SourceText:  sourceText,
	}, nil
}

// Coords returns the derived coordinate tuple.
func (p *Point) Coords() Coordinates {
	return Coordinates{Arousal: p.Arousal, Valence: p.Valence, ImpactScope: p.ImpactScope}
}

// Record returns the canonical field map used for content hashing. The map
// and its nested coordinates slice are built fresh on every call, so no
// caller can reach ledger-owned state through the returned value.
func (p *Point) Record() map[string]any {
	return map[string]any{
		"id":           p.ID,
		"timestamp":    p.CreatedAt,
		"arousal":      p.Arousal,
		"valence":      p.Valence,
		"impact_scope": p.ImpactScope,
		"description":  p.Description,
		"source_text":  p.SourceText,
		"coordinates":  []int{p.Arousal, p.Valence, p.ImpactScope},
	}
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
