// Package similarity scores how close two free-text strings are after
// normalization. It backs answer checking and fuzzy category lookup.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/unicode/norm"
)

// Normalize keeps only letters, digits and underscores of any script and
// lower-cases them. Combining marks are dropped after decomposition so that
// "Café" and "cafe" normalize the same.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Score returns the similarity of a and b in [0,1], where 1 means the
// normalized strings are identical. It is one minus the Damerau-Levenshtein
// distance relative to the longer normalized string. A string with nothing
// left after normalization only matches the same raw text.
func Score(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		if strings.TrimSpace(a) == strings.TrimSpace(b) {
			return 1
		}
		return 0
	}
	if na == nb {
		return 1
	}
	longest := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	dist := edlib.DamerauLevenshteinDistance(na, nb)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}

// CloseEnough reports whether Score(a, b) reaches threshold.
func CloseEnough(a, b string, threshold float64) bool {
	return Score(a, b) >= threshold
}

// Best returns the index of the candidate most similar to s, or -1 if none
// reaches threshold. Ties go to the earliest candidate.
func Best(s string, candidates []string, threshold float64) int {
	best, bestScore := -1, -1.0
	for i, c := range candidates {
		if sc := Score(s, c); sc >= threshold && sc > bestScore {
			best, bestScore = i, sc
		}
	}
	return best
}
