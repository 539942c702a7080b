package rank

// Weights holds the named scoring constants. A Weights value is
// immutable for the duration of a search call; the engine reads it and
// never writes it. Callers typically load it from configuration and
// keep DefaultWeights for anything left at zero.
type Weights struct {
	// Abbreviation is awarded when the query is a known short-form and
	// the candidate contains its expansion.
	Abbreviation int32
	// Exact is awarded for a case-insensitive whole-name match.
	Exact int32
	// Prefix is the base score when the candidate starts with the query.
	Prefix int32
	// PrefixPerChar is added per query character on a prefix match.
	PrefixPerChar int32
	// Contains is the base score when the candidate contains the query.
	Contains int32
	// ContainsOffsetPenalty is subtracted per character of match offset.
	ContainsOffsetPenalty int32
	// Initials is awarded when the query matches the candidate's
	// word initials.
	Initials int32
	// Subsequence is the base score for an ordered-subsequence match.
	Subsequence int32
	// ConsecutiveBonus is added per character of the longest consecutive
	// run inside a subsequence match.
	ConsecutiveBonus int32
	// WordBoundaryBonus is added per subsequence hit that lands on a
	// word boundary.
	WordBoundaryBonus int32
	// CompactnessPenalty is subtracted per character of slack in the
	// subsequence match span.
	CompactnessPenalty int32
	// WordFuzzyMultiplier scales the average per-word similarity of the
	// word-alignment tier.
	WordFuzzyMultiplier int32
	// WordFuzzyAllBonus is added when every query word, including short
	// ones, found a candidate word.
	WordFuzzyAllBonus int32
	// WordFuzzyBalanceBonus is added when query and candidate word
	// counts differ by at most one.
	WordFuzzyBalanceBonus int32
	// FuzzyThreshold is the minimum whole-string similarity for the
	// global fuzzy fallback to fire.
	FuzzyThreshold float64
	// FuzzyMultiplier scales the whole-string similarity of the global
	// fuzzy fallback.
	FuzzyMultiplier int32
	// ExactWordBonus is added per query word that exactly equals some
	// candidate word.
	ExactWordBonus int32
	// UsagePerUse is added per recorded use, up to UsageCap.
	UsagePerUse int32
	// UsageCap bounds the total usage bonus.
	UsageCap int32
	// RecencyCap is the maximum recency bonus; zero disables recency.
	RecencyCap int32
	// RecencyDecayPerDay is subtracted from RecencyCap per day since
	// last use.
	RecencyDecayPerDay int32
	// PathMultiplier scales the path-segment match quality.
	PathMultiplier int32
	// PathFuzzyThreshold is the minimum Jaro-Winkler similarity for a
	// query word to fuzzily match a path segment.
	PathFuzzyThreshold float64
}

// DefaultWeights returns the tuning the launcher ships with. The
// absolute values are product-tuning constants; what matters, and what
// the tests pin down, is the relative ordering they induce: exact
// beats prefix beats contains beats every fuzzy tier, and the fuzzy
// ceiling plus all bonuses stays below the exact base.
func DefaultWeights() Weights {
	return Weights{
		Abbreviation:          900,
		Exact:                 1000,
		Prefix:                700,
		PrefixPerChar:         10,
		Contains:              500,
		ContainsOffsetPenalty: 5,
		Initials:              400,
		Subsequence:           250,
		ConsecutiveBonus:      12,
		WordBoundaryBonus:     10,
		CompactnessPenalty:    3,
		WordFuzzyMultiplier:   420,
		WordFuzzyAllBonus:     40,
		WordFuzzyBalanceBonus: 30,
		FuzzyThreshold:        0.55,
		FuzzyMultiplier:       380,
		ExactWordBonus:        30,
		UsagePerUse:           10,
		UsageCap:              100,
		RecencyCap:            80,
		RecencyDecayPerDay:    4,
		PathMultiplier:        300,
		PathFuzzyThreshold:    0.7,
	}
}
