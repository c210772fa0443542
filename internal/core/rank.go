package core

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes match fzf's own defaults for its matcher workers.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

var initScoring sync.Once

// Matcher scores card text against one query. A Matcher owns a scratch slab
// and must not be shared between goroutines.
type Matcher struct {
	pattern       []rune
	caseSensitive bool
	slab          *util.Slab
}

// NewMatcher prepares a query for scoring. Matching is smart-case: it is
// case-insensitive unless the query contains an upper-case rune.
func NewMatcher(query string) *Matcher {
	initScoring.Do(func() { algo.Init("default") })

	caseSensitive := hasUpper(query)
	if !caseSensitive {
		query = strings.ToLower(query)
	}
	return &Matcher{
		pattern:       []rune(query),
		caseSensitive: caseSensitive,
		slab:          util.MakeSlab(slab16Size, slab32Size),
	}
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// Score returns the fuzzy score of the query against text. A text that does
// not contain the query as a subsequence scores 0, as does every text for an
// empty query.
func (m *Matcher) Score(text string) int64 {
	res, _ := m.match(text, false)
	return res
}

// Positions returns the rune offsets in text that the query matched, or nil
// when there is no match.
func (m *Matcher) Positions(text string) []int {
	_, pos := m.match(text, true)
	return pos
}

func (m *Matcher) match(text string, withPos bool) (int64, []int) {
	if len(m.pattern) == 0 {
		return 0, nil
	}

	// Lowercasing ourselves and matching case-sensitively avoids fzf's
	// partial ASCII case folding in its skip fast path.
	if !m.caseSensitive {
		text = strings.ToLower(text)
	}
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(true, false, true, &chars, m.pattern, withPos, m.slab)
	if result.Score <= 0 {
		return 0, nil
	}

	var out []int
	if positions != nil {
		out = append([]int(nil), (*positions)...)
		sort.Ints(out)
	}
	return int64(result.Score), out
}

// ScoreAll scores every card against query. The result is index-aligned with
// cards. Identical (card, query) pairs always produce identical scores.
func ScoreAll(cards []string, query string) []int64 {
	m := NewMatcher(query)
	scores := make([]int64, len(cards))
	for i, card := range cards {
		scores[i] = m.Score(card)
	}
	return scores
}

// MatchPositions is a convenience wrapper for highlighting a single card.
func MatchPositions(card, query string) []int {
	return NewMatcher(query).Positions(card)
}

// Snapshot pairs each card position with its score.
func Snapshot(scores []int64) []Scored {
	snap := make([]Scored, len(scores))
	for i, s := range scores {
		snap[i] = Scored{Position: i, Score: s}
	}
	return snap
}

// SortOrder returns card positions ordered by ascending score. Equal scores
// keep their snapshot order, so an all-zero snapshot yields identity order.
// Display reads the result in reverse.
func SortOrder(snap []Scored) []int {
	sorted := make([]Scored, len(snap))
	copy(sorted, snap)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score < sorted[j].Score
	})

	order := make([]int, len(sorted))
	for i, s := range sorted {
		order[i] = s.Position
	}
	return order
}
