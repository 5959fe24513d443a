// Package similarity folds free text for matching and scores how closely a
// title answers a query.
package similarity

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
)

// Fold reduces s to a comparable form: transliterated to ASCII, case
// folded, "&" spelled out, punctuation dropped and whitespace collapsed.
// "Amélie" and "AMELIE" fold to the same string.
func Fold(s string) string {
	s = strings.ReplaceAll(s, "&", " and ")
	s = unidecode.Unidecode(s)
	s = cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '.' || r == '-' || r == '_' || r == ':':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Contains reports whether the folded needle occurs in the folded haystack.
// An empty needle never matches.
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return false
	}
	return strings.Contains(Fold(haystack), n)
}

// Score rates title against query between 0 and 1. Exact matches score 1,
// titles starting with the query score above titles merely containing it,
// and everything else is rated by edit distance.
func Score(query, title string) float64 {
	q, t := Fold(query), Fold(title)
	if q == "" || t == "" {
		return 0
	}
	if q == t {
		return 1
	}

	ratio := float64(len(q)) / float64(len(t))
	if ratio > 1 {
		ratio = 1 / ratio
	}
	switch {
	case strings.HasPrefix(t, q):
		return 0.8 + 0.15*ratio
	case strings.Contains(t, " "+q):
		return 0.7 + 0.15*ratio
	case strings.Contains(t, q):
		return 0.6 + 0.1*ratio
	}

	distance := levenshtein(q, t)
	longest := max(len([]rune(q)), len([]rune(t)))
	return 0.6 * (1 - float64(distance)/float64(longest))
}

// levenshtein is the edit distance between a and b, computed over two rows.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
