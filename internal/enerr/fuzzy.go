package enerr

import "fmt"

// editDistance computes the Levenshtein distance between two strings using
// two rolling rows instead of a full matrix.
func editDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost

			curr[j] = ins
			if del < curr[j] {
				curr[j] = del
			}
			if sub < curr[j] {
				curr[j] = sub
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// ClosestMatch returns the option closest to input within an edit distance
// of 3. A distance of 3 catches common typos (missing or extra character,
// substitution, adjacent transposition) without matching unrelated words.
func ClosestMatch(input string, options []string) (string, bool) {
	const maxDistance = 3

	bestMatch := ""
	bestDist := maxDistance + 1

	for _, opt := range options {
		d := editDistance(input, opt)
		if d < bestDist {
			bestDist = d
			bestMatch = opt
		}
	}

	if bestDist <= maxDistance {
		return bestMatch, true
	}
	return "", false
}

// WithSuggestion attaches a "did you mean" hint when one of options is a
// close match for input. No context is added when nothing matches.
func (e *Error) WithSuggestion(input string, options []string) *Error {
	if match, ok := ClosestMatch(input, options); ok {
		return e.With("suggestion", fmt.Sprintf("did you mean '%s'?", match))
	}
	return e
}
