package rank

import (
	"strings"
)

// Distance returns the edit distance between a and b, counting
// insertions, deletions, substitutions and adjacent transpositions at
// cost 1 each. Comparison is case-insensitive. Results are memoized in
// the scorer's bounded cache.
func (s *Scorer) Distance(a, b string) int {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 0
	}

	// The distance is symmetric; normalize the key so both orders hit
	// the same cache entry.
	ka, kb := a, b
	if ka > kb {
		ka, kb = kb, ka
	}
	key := ka + "\x00" + kb

	if d, ok := s.distances.Get(key); ok {
		return d
	}

	d := editDistance(a, b)
	s.distances.Set(key, d)
	return d
}

// Similarity maps the edit distance of a and b onto [0, 1], where 1 is
// an exact (case-insensitive) match.
func (s *Scorer) Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(s.Distance(a, b))/float64(longest)
}

// editDistance computes the optimal-string-alignment distance on
// already-lowercased input. The common prefix and suffix are stripped
// first, which shrinks the DP table to the region that actually
// differs; the table itself is three rolling rows because the
// transposition case looks back two rows.
func editDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	// Strip common prefix.
	for len(ra) > 0 && len(rb) > 0 && ra[0] == rb[0] {
		ra = ra[1:]
		rb = rb[1:]
	}
	// Strip common suffix.
	for len(ra) > 0 && len(rb) > 0 && ra[len(ra)-1] == rb[len(rb)-1] {
		ra = ra[:len(ra)-1]
		rb = rb[:len(rb)-1]
	}

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	width := len(rb) + 1
	prev2 := make([]int, width)
	prev := make([]int, width)
	curr := make([]int, width)

	for j := 0; j < width; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			d := prev[j-1] + cost // substitution or match
			if del := prev[j] + 1; del < d {
				d = del
			}
			if ins := curr[j-1] + 1; ins < d {
				d = ins
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if tr := prev2[j-2] + 1; tr < d {
					d = tr
				}
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return prev[len(rb)]
}
