package rank

import (
	"math"
	"strings"
	"unicode"
)

// wordSeparator reports whether r splits text into words for the
// per-word tiers. Matches the splitting set used by the original
// launcher: space, dash, underscore, dot and parentheses.
func wordSeparator(r rune) bool {
	switch r {
	case ' ', '-', '_', '.', '(', ')':
		return true
	}
	return false
}

// splitWords lowercases s and splits it into non-empty words.
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), wordSeparator)
}

// initialsOf collects the lowercase word initials of s, treating both
// separators and camel-case transitions as word starts.
// "VisualStudio Code" yields "vsc".
func initialsOf(s string) string {
	var b strings.Builder
	prevSep := true
	prevLower := false
	for _, r := range s {
		if wordSeparator(r) {
			prevSep = true
			prevLower = false
			continue
		}
		if prevSep || (unicode.IsUpper(r) && prevLower) {
			b.WriteRune(unicode.ToLower(r))
		}
		prevSep = false
		prevLower = unicode.IsLower(r)
	}
	return b.String()
}

// defaultAbbreviations maps common short-forms to the expanded names
// they stand for. A query equal to a short-form scores near-maximum
// against any candidate containing one of its expansions.
var defaultAbbreviations = map[string][]string{
	"ff":     {"firefox"},
	"gc":     {"google chrome"},
	"vs":     {"visual studio"},
	"vsc":    {"visual studio code"},
	"vscode": {"visual studio code"},
	"np":     {"notepad"},
	"ps":     {"powershell", "photoshop"},
	"pp":     {"powerpoint"},
	"xl":     {"excel"},
	"tb":     {"thunderbird"},
	"st":     {"sublime text"},
	"ij":     {"intellij"},
	"wt":     {"terminal"},
}

// maxWordDistance is the edit-distance budget for aligning one query
// word against one candidate word: 1 for short words, else 35% of the
// query word length, rounded up.
func maxWordDistance(wordLen int) int {
	if wordLen <= 4 {
		return 1
	}
	return int(math.Ceil(float64(wordLen) * 0.35))
}

// Similarity ranks for the alignment priority order. Exact beats
// prefix beats reverse-prefix beats plain edit distance.
const (
	wordSimExact         = 1.0
	wordSimPrefix        = 0.9
	wordSimReversePrefix = 0.85
)

// alignWords finds, for every significant query word (length >= 2),
// its best-matching unused candidate word. It returns the average
// similarity over significant words, whether every query word
// (including short ones) found a match, and whether the alignment
// succeeded at all. Alignment fails when any significant query word
// has no acceptable candidate.
func (s *Scorer) alignWords(queryWords, candWords []string) (avg float64, allMatched bool, ok bool) {
	if len(queryWords) == 0 || len(candWords) == 0 {
		return 0, false, false
	}

	used := make([]bool, len(candWords))
	var total float64
	significant := 0
	matched := 0

	for _, qw := range queryWords {
		bestIdx := -1
		bestSim := 0.0

		for i, cw := range candWords {
			if used[i] {
				continue
			}
			sim := s.wordSimilarity(qw, cw)
			if sim > bestSim {
				bestSim = sim
				bestIdx = i
			}
		}

		if len(qw) < 2 {
			// Short words are optional; they only count toward the
			// all-matched bonus.
			if bestIdx >= 0 {
				used[bestIdx] = true
				matched++
			}
			continue
		}

		significant++
		if bestIdx < 0 {
			return 0, false, false
		}
		used[bestIdx] = true
		matched++
		total += bestSim
	}

	if significant == 0 {
		return 0, false, false
	}

	return total / float64(significant), matched == len(queryWords), true
}

// wordSimilarity scores one query word against one candidate word
// using the tier priority: exact, prefix, reverse prefix, bounded edit
// distance. Returns 0 when the words are too far apart.
func (s *Scorer) wordSimilarity(qw, cw string) float64 {
	if qw == cw {
		return wordSimExact
	}
	if strings.HasPrefix(cw, qw) {
		return wordSimPrefix
	}
	if strings.HasPrefix(qw, cw) {
		return wordSimReversePrefix
	}

	d := s.Distance(qw, cw)
	if d > maxWordDistance(len(qw)) {
		return 0
	}
	longest := len(qw)
	if len(cw) > longest {
		longest = len(cw)
	}
	return 1 - float64(d)/float64(longest)
}
