package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillan/vellum/internal/scorer"
)

// Config holds application configuration.
type Config struct {
	// LogArousalAbove is the logging policy's arousal threshold: a scored
	// event is appended to the ledger when its arousal exceeds this value.
	LogArousalAbove int `json:"log_arousal_above,omitempty"`

	// LogValenceBelow is the logging policy's valence threshold: a scored
	// event is appended when its valence falls below this value.
	LogValenceBelow int `json:"log_valence_below,omitempty"`

	// PositiveWords replaces the scorer's default positive lexicon when set.
	PositiveWords []string `json:"positive_words,omitempty"`

	// NegativeWords replaces the scorer's default negative lexicon when set.
	NegativeWords []string `json:"negative_words,omitempty"`

	// ArousalCues replaces the scorer's default arousal cue list when set.
	ArousalCues []string `json:"arousal_cues,omitempty"`

	// BroadcastPhrases replaces the scorer's default broadcast phrases when set.
	BroadcastPhrases []string `json:"broadcast_phrases,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely. All tools
	// belonging to disabled types are excluded from registration.
	// Known types: "point", "ledger". Unknown type names are logged as warnings.
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration: the logging policy from
// the reference heuristic (arousal > 50 or valence < -20).
func DefaultConfig() *Config {
	return &Config{
		LogArousalAbove: 50,
		LogValenceBelow: -20,
	}
}

// Lexicon returns the scorer lexicon for this config: configured word lists
// replace the corresponding defaults, unset lists keep them.
func (c *Config) Lexicon() scorer.Lexicon {
	lx := scorer.DefaultLexicon()
	if len(c.PositiveWords) > 0 {
		lx.Positive = c.PositiveWords
	}
	if len(c.NegativeWords) > 0 {
		lx.Negative = c.NegativeWords
	}
	if len(c.ArousalCues) > 0 {
		lx.Arousal = c.ArousalCues
	}
	if len(c.BroadcastPhrases) > 0 {
		lx.Broadcast = c.BroadcastPhrases
	}
	return lx
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.vellum.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars (zero means unset); arrays are
// merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.LogArousalAbove = overlay.LogArousalAbove
	if result.LogArousalAbove == 0 {
		result.LogArousalAbove = base.LogArousalAbove
	}

	result.LogValenceBelow = overlay.LogValenceBelow
	if result.LogValenceBelow == 0 {
		result.LogValenceBelow = base.LogValenceBelow
	}

	result.PositiveWords = mergeStringSlice(base.PositiveWords, overlay.PositiveWords)
	result.NegativeWords = mergeStringSlice(base.NegativeWords, overlay.NegativeWords)
	result.ArousalCues = mergeStringSlice(base.ArousalCues, overlay.ArousalCues)
	result.BroadcastPhrases = mergeStringSlice(base.BroadcastPhrases, overlay.BroadcastPhrases)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
