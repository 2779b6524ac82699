package fuzzy

import (
	"sort"
	"strings"
	"unicode"
)

// Item is a searchable label with attached data.
type Item struct {
	Text string
	Data any
}

// Result is a matched item.
type Result struct {
	Item  Item
	Score int

	// Matches holds the rune indices of matched characters in Item.Text.
	Matches []int
}

// Scoring weights.
const (
	baseScore        = 100
	consecutiveBonus = 20
	boundaryBonus    = 15
	startBonus       = 25
	prefixBonus      = 50
	shortTextLen     = 20
)

// Match returns the items matching query, best first. Ties keep the order
// of items. An empty query matches everything with a zero score. A limit
// of zero or less returns all matches.
func Match(query string, items []Item, limit int) []Result {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))

	var results []Result
	for _, item := range items {
		if len(q) == 0 {
			results = append(results, Result{Item: item})
			continue
		}
		if matches := positions(q, item.Text); matches != nil {
			results = append(results, Result{
				Item:    item,
				Score:   score(q, []rune(item.Text), matches),
				Matches: matches,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Best returns the highest ranked match.
func Best(query string, items []Item) (Result, bool) {
	results := Match(query, items, 1)
	if len(results) == 0 {
		return Result{}, false
	}
	return results[0], true
}

// positions finds q in text with a greedy left-to-right scan. It returns
// nil when some rune of q is missing.
func positions(q []rune, text string) []int {
	matches := make([]int, 0, len(q))
	i := 0
	for idx, r := range []rune(text) {
		if i == len(q) {
			break
		}
		if unicode.ToLower(r) == q[i] {
			matches = append(matches, idx)
			i++
		}
	}
	if i != len(q) {
		return nil
	}
	return matches
}

func score(q, text []rune, matches []int) int {
	s := baseScore
	for i, idx := range matches {
		if i > 0 && idx == matches[i-1]+1 {
			s += consecutiveBonus
		}
		if boundary(text, idx) {
			s += boundaryBonus
		}
	}

	first, last := matches[0], matches[len(matches)-1]
	if first == 0 {
		s += startBonus
	}
	s -= first
	s -= 2 * (last - first + 1 - len(matches))

	if len(text) < shortTextLen {
		s += shortTextLen - len(text)
	}
	if hasPrefix(text, q) {
		s += prefixBonus
	}
	return max(s, 1)
}

// boundary reports whether text[idx] starts a word: the first rune, a rune
// after a separator such as '-' or ' ', or an upper-case rune after a
// lower-case one.
func boundary(text []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev, cur := text[idx-1], text[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}

func hasPrefix(text, q []rune) bool {
	if len(text) < len(q) {
		return false
	}
	for i, r := range q {
		if unicode.ToLower(text[i]) != r {
			return false
		}
	}
	return true
}
