// Package ledger implements the append-only, tamper-evident valence ledger:
// a hash chain of interaction points. Each entry binds a point to the digest
// of its predecessor and to its own content digest, so any retroactive edit
// is detectable via Verify.
//
// The ledger is single-writer, in-memory, one instance per session. It
// provides tamper evidence, not tamper prevention: anything holding the
// entries can still mutate them directly, and only Verify exposes that.
package ledger

import (
	"fmt"

	"github.com/quillan/vellum/internal/canonical"
	"github.com/quillan/vellum/internal/point"
)

// GenesisPreviousHash is the sentinel previous-hash of the genesis entry.
const GenesisPreviousHash = "0"

const genesisDescription = "Ledger Initialized"

// Entry is one stored unit of the chain: an interaction point plus
// chain-linkage and content-hash metadata.
type Entry struct {
	// Index is the 0-based position, ledger-assigned and strictly sequential
	Index int `json:"index"`

	// Point is the interaction point owned by this entry
	Point *point.Point `json:"point_data"`

	// PreviousHash is the digest of the prior entry, or GenesisPreviousHash
	// for index 0
	PreviousHash string `json:"previous_hash"`

	// Hash is the digest of this entry's own content, computed last and
	// excluded from itself
	Hash string `json:"hash"`
}

// contentRecord is the canonical field map bound by Entry.Hash: every entry
// field except the hash itself.
func (e *Entry) contentRecord() map[string]any {
	return map[string]any{
		"index":         e.Index,
		"point_data":    e.Point.Record(),
		"previous_hash": e.PreviousHash,
	}
}

// ComputeHash returns the content digest of the entry, excluding Hash.
func (e *Entry) ComputeHash() (string, error) {
	return canonical.Hash(e.contentRecord())
}

// Check identifies which chain invariant a violation broke.
type Check string

const (
	// CheckLinkage means previous_hash did not match the predecessor's digest.
	CheckLinkage Check = "linkage"
	// CheckContent means the stored digest did not match the entry content.
	CheckContent Check = "content"
)

// Violation reports the first integrity failure Verify found.
type Violation struct {
	Index  int    `json:"index"`
	Check  Check  `json:"check"`
	Detail string `json:"detail"`
}

func (v *Violation) String() string {
	return fmt.Sprintf("entry %d: %s check failed: %s", v.Index, v.Check, v.Detail)
}

// Ledger owns an ordered sequence of entries. Index 0 is always the genesis
// entry. Entries are appended monotonically; there is no deletion and no
// reordering.
type Ledger struct {
	entries []*Entry
}

// New constructs a ledger with its genesis entry. The genesis point goes
// through the same validation path as user points.
func New() (*Ledger, error) {
	gp, err := point.New(0, 0, 1, genesisDescription, "")
	if err != nil {
		return nil, err
	}

	genesis := &Entry{
		Index:        0,
		Point:        gp,
		PreviousHash: GenesisPreviousHash,
	}
	hash, err := genesis.ComputeHash()
	if err != nil {
		return nil, err
	}
	genesis.Hash = hash

	return &Ledger{entries: []*Entry{genesis}}, nil
}

// Append links a new entry to the current last one and stores it. The
// returned *Entry is the stored entry itself, so callers can observe its
// assigned index and hash.
func (l *Ledger) Append(p *point.Point) (*Entry, error) {
	prev := l.entries[len(l.entries)-1]

	entry := &Entry{
		Index:        len(l.entries),
		Point:        p,
		PreviousHash: prev.Hash,
	}
	hash, err := entry.ComputeHash()
	if err != nil {
		return nil, err
	}
	entry.Hash = hash

	l.entries = append(l.entries, entry)
	return entry, nil
}

// Len returns the chain length, genesis included.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entry returns the entry at index i, or false if i is out of range.
func (l *Ledger) Entry(i int) (*Entry, bool) {
	if i < 0 || i >= len(l.entries) {
		return nil, false
	}
	return l.entries[i], true
}

// Entries returns the entries in order. The slice is a copy; the entries
// are the stored ones.
func (l *Ledger) Entries() []*Entry {
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Verify walks the whole chain and returns the first violation found, or nil
// if every entry passes both the chain-linkage and content-binding checks.
// A non-nil result is an observed outcome, not a failure of Verify itself:
// callers should refuse to trust the chain's data once it is reported.
func (l *Ledger) Verify() *Violation {
	for i, entry := range l.entries {
		if i == 0 {
			if entry.PreviousHash != GenesisPreviousHash {
				return &Violation{
					Index:  0,
					Check:  CheckLinkage,
					Detail: fmt.Sprintf("genesis previous_hash %q, want %q", entry.PreviousHash, GenesisPreviousHash),
				}
			}
		} else if entry.PreviousHash != l.entries[i-1].Hash {
			return &Violation{
				Index:  i,
				Check:  CheckLinkage,
				Detail: "previous_hash does not match predecessor digest",
			}
		}

		computed, err := entry.ComputeHash()
		if err != nil {
			return &Violation{
				Index:  i,
				Check:  CheckContent,
				Detail: fmt.Sprintf("rehash failed: %v", err),
			}
		}
		if computed != entry.Hash {
			return &Violation{
				Index:  i,
				Check:  CheckContent,
				Detail: "stored digest does not match entry content",
			}
		}
	}
	return nil
}
