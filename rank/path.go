package rank

import (
	"strings"

	"github.com/xrash/smetrics"
)

// pathSegmentQuality ranks for non-fuzzy segment matches. Fuzzy
// matches score their similarity scaled below the contains rank.
const (
	segExact    = 1.0
	segPrefix   = 0.85
	segContains = 0.7
)

// pathScore treats the path as a sequence of segment tokens and
// requires every query word to match some segment. Single-word queries
// score against the directory only, so a file's own name does not leak
// into its path score. Returns 0 when any query word finds no segment.
func (s *Scorer) pathScore(q, path string, w Weights) int32 {
	if path == "" || w.PathMultiplier == 0 {
		return 0
	}

	queryWords := splitWords(q)
	if len(queryWords) == 0 {
		return 0
	}

	target := path
	if len(queryWords) == 1 {
		if idx := strings.LastIndexAny(path, `/\`); idx > 0 {
			target = path[:idx]
		}
	}

	segments := splitSegments(target)
	if len(segments) == 0 {
		return 0
	}

	var total float64
	for _, qw := range queryWords {
		best := 0.0
		for _, seg := range segments {
			quality := s.segmentQuality(qw, seg, w)
			if quality > best {
				best = quality
			}
		}
		if best == 0 {
			return 0
		}
		total += best
	}

	return int32(total / float64(len(queryWords)) * float64(w.PathMultiplier))
}

// segmentQuality rates one query word against one path segment:
// exact, prefix, contains, else Jaro-Winkler with the configured floor.
func (s *Scorer) segmentQuality(qw, seg string, w Weights) float64 {
	if seg == qw {
		return segExact
	}
	if strings.HasPrefix(seg, qw) {
		return segPrefix
	}
	if strings.Contains(seg, qw) {
		return segContains
	}
	if sim := smetrics.JaroWinkler(qw, seg, 0.7, 4); sim >= w.PathFuzzyThreshold {
		return sim * segContains
	}
	return 0
}

// splitSegments lowercases the path and splits it on both separator
// styles, dropping drive designators and empty parts.
func splitSegments(path string) []string {
	parts := strings.FieldsFunc(strings.ToLower(path), func(r rune) bool {
		return r == '/' || r == '\\'
	})
	segments := parts[:0]
	for _, p := range parts {
		if p == "" || strings.HasSuffix(p, ":") {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}
