package alerr

import "strings"

// maxSuggestDistance bounds how far a typo may be from a known name.
const maxSuggestDistance = 3

// editDistance is the Levenshtein distance between a and b, in runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			above := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(rb)]
}

// closest returns the option nearest to input, ignoring case. Ties go to
// the earlier option.
func closest(input string, options []string) (string, bool) {
	input = strings.ToLower(input)
	best, bestDist := "", maxSuggestDistance+1
	for _, opt := range options {
		if d := editDistance(input, strings.ToLower(opt)); d < bestDist {
			best, bestDist = opt, d
		}
	}
	return best, bestDist <= maxSuggestDistance
}

// SuggestSimilar returns "did you mean 'X'?" for the option closest to
// input, or "" when nothing is close enough.
func SuggestSimilar(input string, options []string) string {
	if match, ok := closest(input, options); ok {
		return "did you mean '" + match + "'?"
	}
	return ""
}
