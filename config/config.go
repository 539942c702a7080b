// Package config provides TOML configuration loading for quickdex.
//
// Configuration file location: ~/.quickdex/config.toml (or an explicit
// path). Missing file and missing fields fall back to built-in
// defaults, so a zero-config start works.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/poiesic/quickdex/rank"
)

// Config represents the complete quickdex configuration.
type Config struct {
	// DataDir is where the badger store lives.
	// Default: ~/.quickdex/data
	DataDir string `toml:"data_dir"`

	// Index controls harvesting and change detection.
	Index IndexConfig `toml:"index"`

	// Search controls query behavior.
	Search SearchConfig `toml:"search"`

	// Weights overrides individual scoring weights; omitted fields
	// keep their defaults.
	Weights WeightsConfig `toml:"weights"`
}

// IndexConfig controls harvesting and change detection.
type IndexConfig struct {
	// Folders are the watched roots. Default: the user's home folder.
	Folders []string `toml:"folders"`
	// Extensions restricts harvested files; empty means all files.
	Extensions []string `toml:"extensions"`
	// MaxDepth bounds recursion below each root. Default: 3.
	MaxDepth int `toml:"max_depth"`
	// IncludeHidden includes dot-prefixed entries.
	IncludeHidden bool `toml:"include_hidden"`
	// Commands harvests PATH executables. Default: true.
	Commands *bool `toml:"index_commands"`
	// DebounceMillis is the file-watch debounce window. Default: 500.
	DebounceMillis int `toml:"debounce_millis"`
}

// SearchConfig controls query behavior.
type SearchConfig struct {
	// MaxResults bounds the result list. Default: 20.
	MaxResults int `toml:"max_results"`
	// WebPrefix triggers the web-search short-circuit. Default: "g".
	WebPrefix string `toml:"web_prefix"`
	// WebURL is the search URL template with a %s terms marker.
	WebURL string `toml:"web_url"`
}

// WeightsConfig mirrors rank.Weights with pointer fields so an
// omitted key keeps its default instead of zeroing the weight.
type WeightsConfig struct {
	Abbreviation          *int32   `toml:"abbreviation"`
	Exact                 *int32   `toml:"exact"`
	Prefix                *int32   `toml:"prefix"`
	PrefixPerChar         *int32   `toml:"prefix_per_char"`
	Contains              *int32   `toml:"contains"`
	ContainsOffsetPenalty *int32   `toml:"contains_offset_penalty"`
	Initials              *int32   `toml:"initials"`
	Subsequence           *int32   `toml:"subsequence"`
	ConsecutiveBonus      *int32   `toml:"consecutive_bonus"`
	WordBoundaryBonus     *int32   `toml:"word_boundary_bonus"`
	CompactnessPenalty    *int32   `toml:"compactness_penalty"`
	WordFuzzyMultiplier   *int32   `toml:"word_fuzzy_multiplier"`
	WordFuzzyAllBonus     *int32   `toml:"word_fuzzy_all_bonus"`
	WordFuzzyBalanceBonus *int32   `toml:"word_fuzzy_balance_bonus"`
	FuzzyThreshold        *float64 `toml:"fuzzy_threshold"`
	FuzzyMultiplier       *int32   `toml:"fuzzy_multiplier"`
	ExactWordBonus        *int32   `toml:"exact_word_bonus"`
	UsagePerUse           *int32   `toml:"usage_per_use"`
	UsageCap              *int32   `toml:"usage_cap"`
	RecencyCap            *int32   `toml:"recency_cap"`
	RecencyDecayPerDay    *int32   `toml:"recency_decay_per_day"`
	PathMultiplier        *int32   `toml:"path_multiplier"`
	PathFuzzyThreshold    *float64 `toml:"path_fuzzy_threshold"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		DataDir: filepath.Join(home, ".quickdex", "data"),
		Index: IndexConfig{
			Folders:        []string{home},
			MaxDepth:       3,
			DebounceMillis: 500,
		},
		Search: SearchConfig{
			MaxResults: 20,
			WebPrefix:  "g",
			WebURL:     "https://duckduckgo.com/?q=%s",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".quickdex", "config.toml")
}

// Load reads the TOML file at path over the defaults. A missing file
// is not an error; it yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	cfg.applyFallbacks()
	return cfg, nil
}

// applyFallbacks restores defaults for zero-valued fields a partial
// file left unset.
func (c *Config) applyFallbacks() {
	def := Default()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if len(c.Index.Folders) == 0 {
		c.Index.Folders = def.Index.Folders
	}
	if c.Index.MaxDepth <= 0 {
		c.Index.MaxDepth = def.Index.MaxDepth
	}
	if c.Index.DebounceMillis <= 0 {
		c.Index.DebounceMillis = def.Index.DebounceMillis
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.WebPrefix == "" {
		c.Search.WebPrefix = def.Search.WebPrefix
	}
	if c.Search.WebURL == "" {
		c.Search.WebURL = def.Search.WebURL
	}
}

// IndexCommands reports whether PATH executables should be harvested.
func (c *IndexConfig) IndexCommands() bool {
	if c.Commands == nil {
		return true
	}
	return *c.Commands
}

// RankWeights merges the configured overrides onto the default
// weight table.
func (c *Config) RankWeights() rank.Weights {
	w := rank.DefaultWeights()
	o := c.Weights

	setI := func(dst *int32, src *int32) {
		if src != nil {
			*dst = *src
		}
	}
	setI(&w.Abbreviation, o.Abbreviation)
	setI(&w.Exact, o.Exact)
	setI(&w.Prefix, o.Prefix)
	setI(&w.PrefixPerChar, o.PrefixPerChar)
	setI(&w.Contains, o.Contains)
	setI(&w.ContainsOffsetPenalty, o.ContainsOffsetPenalty)
	setI(&w.Initials, o.Initials)
	setI(&w.Subsequence, o.Subsequence)
	setI(&w.ConsecutiveBonus, o.ConsecutiveBonus)
	setI(&w.WordBoundaryBonus, o.WordBoundaryBonus)
	setI(&w.CompactnessPenalty, o.CompactnessPenalty)
	setI(&w.WordFuzzyMultiplier, o.WordFuzzyMultiplier)
	setI(&w.WordFuzzyAllBonus, o.WordFuzzyAllBonus)
	setI(&w.WordFuzzyBalanceBonus, o.WordFuzzyBalanceBonus)
	setI(&w.FuzzyMultiplier, o.FuzzyMultiplier)
	setI(&w.ExactWordBonus, o.ExactWordBonus)
	setI(&w.UsagePerUse, o.UsagePerUse)
	setI(&w.UsageCap, o.UsageCap)
	setI(&w.RecencyCap, o.RecencyCap)
	setI(&w.RecencyDecayPerDay, o.RecencyDecayPerDay)
	setI(&w.PathMultiplier, o.PathMultiplier)
	if o.FuzzyThreshold != nil {
		w.FuzzyThreshold = *o.FuzzyThreshold
	}
	if o.PathFuzzyThreshold != nil {
		w.PathFuzzyThreshold = *o.PathFuzzyThreshold
	}
	return w
}
