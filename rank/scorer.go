package rank

import (
	"strings"
	"time"

	"github.com/poiesic/quickdex/cache"
)

const defaultDistanceCacheSize = 8192

// Scorer ranks candidate items against interactive queries. A Scorer
// is safe for concurrent use; the only shared state is the bounded
// distance cache, which carries its own lock.
//
// Scorers are constructed and owned by the indexing pipeline, never
// shared process-wide, so tests stay hermetic.
type Scorer struct {
	distances     *cache.Cache[string, int]
	abbreviations map[string][]string
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithDistanceCacheSize bounds the edit-distance memoization cache.
func WithDistanceCacheSize(n int) Option {
	return func(s *Scorer) {
		s.distances = cache.New[string, int](n)
	}
}

// WithAbbreviations replaces the built-in short-form table.
func WithAbbreviations(table map[string][]string) Option {
	return func(s *Scorer) {
		if table != nil {
			s.abbreviations = table
		}
	}
}

// NewScorer creates a scorer with the default abbreviation table and
// distance cache.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		distances:     cache.New[string, int](defaultDistanceCacheSize),
		abbreviations: defaultAbbreviations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score ranks one candidate against the query. Zero means no match;
// larger is better. The name score and the path-aware score are
// computed independently and the greater one wins, so an item whose
// name is unrelated can still surface through its location. Usage and
// recency bonuses apply to whichever base matched.
func (s *Scorer) Score(query, name, path string, useCount uint32, lastUsedAt time.Time, now time.Time, w Weights) int32 {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	n := strings.ToLower(name)

	nameBase := s.nameScore(q, name, n, w)
	base := nameBase
	if ps := s.pathScore(q, path, w); ps > base {
		base = ps
	}
	if base == 0 {
		return 0
	}

	// The exact-word bonus rewards the name match; a path-only hit
	// gets usage and recency bonuses alone.
	if nameBase > 0 {
		base += s.exactWordBonus(q, n, w)
	}
	base += usageBonus(useCount, w)
	base += recencyBonus(lastUsedAt, now, w)
	return base
}

// nameScore runs the tier pipeline against the display name. The query
// and name arrive pre-lowercased; the original name is kept for
// camel-case initials.
func (s *Scorer) nameScore(q, original, n string, w Weights) int32 {
	// Tier 1: known abbreviation.
	if expansions, ok := s.abbreviations[q]; ok {
		for _, exp := range expansions {
			if strings.Contains(n, exp) {
				return w.Abbreviation
			}
		}
	}

	// Tier 2: exact whole-name match.
	if n == q {
		return w.Exact
	}

	// Tier 3: prefix.
	if strings.HasPrefix(n, q) {
		return w.Prefix + w.PrefixPerChar*int32(len(q))
	}

	// Tier 4: contains, earlier offsets score higher.
	if off := strings.Index(n, q); off >= 0 {
		score := w.Contains - w.ContainsOffsetPenalty*int32(off)
		if score < w.Contains/2 {
			score = w.Contains / 2
		}
		return score
	}

	// Tier 5: word initials, including camel-case-internal ones.
	if len(q) >= 2 {
		if ini := initialsOf(original); len(ini) >= 2 && strings.HasPrefix(ini, q) {
			return w.Initials
		}
	}

	// Tier 6: ordered character subsequence.
	if score := subsequenceScore(q, n, w); score > 0 {
		return score
	}

	// Tier 7: per-word fuzzy alignment.
	if score := s.wordFuzzyScore(q, n, w); score > 0 {
		return score
	}

	// Tier 8: global fuzzy fallback, only reached when every structured
	// tier scored zero.
	return s.globalFuzzyScore(q, n, w)
}

// subsequenceScore checks that every query character appears in order
// in the candidate, then rates the match by consecutive-run length,
// word-boundary alignment and span compactness.
func subsequenceScore(q, n string, w Weights) int32 {
	qr := []rune(q)
	nr := []rune(n)
	if len(qr) == 0 || len(qr) > len(nr) {
		return 0
	}

	qi := 0
	first, last := -1, -1
	run, maxRun := 0, 0
	boundaryHits := 0
	prevMatched := false

	for i, r := range nr {
		if qi < len(qr) && r == qr[qi] {
			if first < 0 {
				first = i
			}
			last = i
			if prevMatched {
				run++
			} else {
				run = 1
			}
			if run > maxRun {
				maxRun = run
			}
			if i == 0 || wordSeparator(nr[i-1]) {
				boundaryHits++
			}
			prevMatched = true
			qi++
		} else {
			prevMatched = false
		}
	}

	if qi < len(qr) {
		return 0
	}

	span := last - first + 1
	score := w.Subsequence +
		w.ConsecutiveBonus*int32(maxRun) +
		w.WordBoundaryBonus*int32(boundaryHits) -
		w.CompactnessPenalty*int32(span-len(qr))
	if score < 1 {
		score = 1
	}
	return score
}

// wordFuzzyScore aligns query words against candidate words and scales
// the average similarity. Every significant query word must find a
// match for the tier to fire.
func (s *Scorer) wordFuzzyScore(q, n string, w Weights) int32 {
	queryWords := splitWords(q)
	candWords := splitWords(n)

	avg, allMatched, ok := s.alignWords(queryWords, candWords)
	if !ok {
		return 0
	}

	score := int32(avg * float64(w.WordFuzzyMultiplier))
	if score < 1 {
		return 0
	}
	if allMatched {
		score += w.WordFuzzyAllBonus
	}
	diff := len(queryWords) - len(candWords)
	if diff < 0 {
		diff = -diff
	}
	if diff <= 1 {
		score += w.WordFuzzyBalanceBonus
	}
	return score
}

// globalFuzzyScore is the last-resort tier: whole-string similarity,
// plus a per-word exact-or-fuzzy pass for queries whose word order
// differs from the candidate's.
func (s *Scorer) globalFuzzyScore(q, n string, w Weights) int32 {
	best := 0.0
	if sim := s.Similarity(q, n); sim >= w.FuzzyThreshold {
		best = sim
	}

	queryWords := splitWords(q)
	candWords := splitWords(n)
	if len(queryWords) > 0 && len(candWords) > 0 {
		var total float64
		for _, qw := range queryWords {
			wordBest := 0.0
			for _, cw := range candWords {
				if sim := s.Similarity(qw, cw); sim > wordBest {
					wordBest = sim
				}
			}
			total += wordBest
		}
		if avg := total / float64(len(queryWords)); avg >= w.FuzzyThreshold && avg > best {
			best = avg
		}
	}

	if best == 0 {
		return 0
	}
	return int32(best * float64(w.FuzzyMultiplier))
}

// exactWordBonus adds a fixed bonus per query word that exactly equals
// some candidate word.
func (s *Scorer) exactWordBonus(q, n string, w Weights) int32 {
	if w.ExactWordBonus == 0 {
		return 0
	}
	candWords := splitWords(n)
	var bonus int32
	for _, qw := range splitWords(q) {
		for _, cw := range candWords {
			if qw == cw {
				bonus += w.ExactWordBonus
				break
			}
		}
	}
	return bonus
}

func usageBonus(useCount uint32, w Weights) int32 {
	// Widen before multiplying; very large use counts must saturate at
	// the cap, not wrap.
	bonus := int64(useCount) * int64(w.UsagePerUse)
	if bonus > int64(w.UsageCap) {
		return w.UsageCap
	}
	return int32(bonus)
}

func recencyBonus(lastUsedAt, now time.Time, w Weights) int32 {
	if w.RecencyCap <= 0 || lastUsedAt.IsZero() {
		return 0
	}
	days := now.Sub(lastUsedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	bonus := w.RecencyCap - int32(days)*w.RecencyDecayPerDay
	if bonus < 0 {
		return 0
	}
	return bonus
}
