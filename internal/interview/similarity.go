package interview

import "strings"

// similarityThreshold is the share of the shorter question's tokens that may
// appear in the other before the two count as near-duplicates.
const similarityThreshold = 0.6

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// IsNearDuplicate reports whether candidate overlaps asked by more than the
// similarity threshold. Each token of asked that also occurs in candidate is
// counted, so repeated words count more than once.
func IsNearDuplicate(asked, candidate string) bool {
	a := tokenize(asked)
	b := tokenize(candidate)
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	inB := make(map[string]struct{}, len(b))
	for _, w := range b {
		inB[w] = struct{}{}
	}

	common := 0
	for _, w := range a {
		if _, ok := inB[w]; ok {
			common++
		}
	}

	return float64(common) > similarityThreshold*float64(min(len(a), len(b)))
}

// isRepeat reports whether candidate is an exact or near duplicate of any asked question.
func isRepeat(asked []string, candidate string) bool {
	for _, q := range asked {
		if q == candidate || IsNearDuplicate(q, candidate) {
			return true
		}
	}
	return false
}
