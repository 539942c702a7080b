package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(t *testing.T, s *Scorer, query, name string) int32 {
	t.Helper()
	return s.Score(query, name, "", 0, time.Time{}, time.Now(), DefaultWeights())
}

func TestExactMatchScoresHighest(t *testing.T) {
	s := NewScorer()

	exact := score(t, s, "firefox", "Firefox")
	prefix := score(t, s, "fire", "Firefox")
	contains := score(t, s, "fox", "Firefox")
	fuzzy := score(t, s, "firefox", "Firebox")

	assert.Greater(t, exact, prefix)
	assert.Greater(t, prefix, contains)
	assert.Greater(t, contains, fuzzy)
	assert.Greater(t, fuzzy, int32(0))
}

func TestExactBeatsFuzzy(t *testing.T) {
	s := NewScorer()

	// Candidates reachable only through fuzzy tiers must always rank
	// below the exact match, whatever the bonuses add up to.
	exact := score(t, s, "terminal", "terminal")
	for _, fuzzyName := range []string{"termnial", "termial", "terminla"} {
		fuzzy := score(t, s, "terminal", fuzzyName)
		assert.Greater(t, exact, fuzzy, "exact must beat %q", fuzzyName)
		assert.Greater(t, fuzzy, int32(0), "%q should still match", fuzzyName)
	}
}

func TestContainsPenalizedByOffset(t *testing.T) {
	s := NewScorer()

	early := score(t, s, "port", "portfolio")
	late := score(t, s, "port", "annual report")

	// Both contain the query but the earlier offset wins. "portfolio"
	// is a prefix match, so compare two genuine substring hits too.
	assert.Greater(t, early, late)

	midA := score(t, s, "oo", "book")
	midB := score(t, s, "oo", "notebook")
	assert.Greater(t, midA, midB)
}

func TestInitialsMatch(t *testing.T) {
	s := NewScorer()

	spaced := score(t, s, "vsc", "Visual Studio Code")
	camel := score(t, s, "vsc", "VisualStudioCode")

	assert.Greater(t, spaced, int32(0))
	assert.Greater(t, camel, int32(0))
}

func TestAbbreviationLookup(t *testing.T) {
	s := NewScorer()
	w := DefaultWeights()

	got := s.Score("ff", "Mozilla Firefox", "", 0, time.Time{}, time.Now(), w)
	require.GreaterOrEqual(t, got, w.Abbreviation)
	assert.Less(t, got, w.Exact)
}

func TestSubsequenceMatch(t *testing.T) {
	s := NewScorer()

	compact := score(t, s, "mfox", "Mozilla Firefox")
	assert.Greater(t, compact, int32(0))

	// No ordered subsequence and nothing fuzzy-close: no match.
	assert.Zero(t, score(t, s, "zzz", "Mozilla Firefox"))
}

func TestPerWordFuzzyAlignment(t *testing.T) {
	s := NewScorer()
	w := DefaultWeights()

	// "firfox" is edit distance 1 from the word "firefox".
	got := s.wordFuzzyScore("firfox", "mozilla firefox", w)
	assert.Greater(t, got, int32(0))

	// Budget 1 for short words: "cde" cannot reach "xyz".
	assert.Zero(t, s.wordFuzzyScore("cde", "xyz document", w))

	// Every significant query word must find a candidate word.
	assert.Zero(t, s.wordFuzzyScore("firefox zebra", "mozilla firefox", w))
}

func TestTypoToleranceScenario(t *testing.T) {
	s := NewScorer()

	got := score(t, s, "firfox", "Mozilla Firefox")
	assert.Greater(t, got, int32(0), "one-letter typo must still match")
}

func TestColdStartScenario(t *testing.T) {
	s := NewScorer()

	report := score(t, s, "repo", "report.docx")
	tool := score(t, s, "repo", "reporting_tool.exe")
	budget := score(t, s, "repo", "budget.xlsx")

	assert.Greater(t, report, int32(0))
	assert.Greater(t, tool, int32(0))
	assert.Zero(t, budget)
}

func TestScoreMonotonicInUseCount(t *testing.T) {
	s := NewScorer()
	w := DefaultWeights()
	now := time.Now()

	prev := int32(-1)
	for _, uses := range []uint32{0, 1, 5, 10, 100, 100000} {
		got := s.Score("notes", "notes.txt", "", uses, time.Time{}, now, w)
		require.GreaterOrEqual(t, got, prev, "useCount %d decreased the score", uses)
		prev = got
	}
}

func TestRecencyBonusDecays(t *testing.T) {
	s := NewScorer()
	w := DefaultWeights()
	now := time.Now()

	fresh := s.Score("notes", "notes.txt", "", 0, now.Add(-time.Hour), now, w)
	stale := s.Score("notes", "notes.txt", "", 0, now.Add(-30*24*time.Hour), now, w)
	never := s.Score("notes", "notes.txt", "", 0, time.Time{}, now, w)

	assert.Greater(t, fresh, stale)
	assert.GreaterOrEqual(t, stale, never)

	disabled := w
	disabled.RecencyCap = 0
	flat := s.Score("notes", "notes.txt", "", 0, now.Add(-time.Hour), now, disabled)
	assert.Equal(t, never, flat)
}

func TestExactWordBonus(t *testing.T) {
	s := NewScorer()
	w := DefaultWeights()
	now := time.Now()

	withWord := s.Score("backup script", "backup script runner", "", 0, time.Time{}, now, w)
	without := s.Score("backup scrpt", "backup script runner", "", 0, time.Time{}, now, w)

	assert.Greater(t, withWord, without)
}

func TestExactWordBonusRequiresNameMatch(t *testing.T) {
	s := NewScorer()
	w := DefaultWeights()
	now := time.Now()

	noBonus := w
	noBonus.ExactWordBonus = 0

	// Every name tier misses "qqqq budget" against "budget.txt"; the
	// hit comes from the path segments alone, so sharing the word
	// "budget" with the file name must not add anything.
	got := s.Score("qqqq budget", "budget.txt", "/data/qqqq/budget.txt", 0, time.Time{}, now, w)
	base := s.Score("qqqq budget", "budget.txt", "/data/qqqq/budget.txt", 0, time.Time{}, now, noBonus)

	require.Greater(t, got, int32(0))
	assert.Equal(t, base, got)
}

func TestEmptyQueryScoresZero(t *testing.T) {
	s := NewScorer()
	assert.Zero(t, score(t, s, "", "anything"))
	assert.Zero(t, score(t, s, "   ", "anything"))
}

func TestInitialsOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Visual Studio Code", "vsc"},
		{"VisualStudioCode", "vsc"},
		{"reporting_tool", "rt"},
		{"my-photo.album", "mpa"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, initialsOf(tt.in), "initialsOf(%q)", tt.in)
	}
}
