package scoring

import "strings"

// Normalize prepares a value for comparison by trimming surrounding
// whitespace and lowercasing.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Ratio computes a similarity ratio in [0, 1] between two strings as
// 2*LCS(a, b) / (len(a)+len(b)) over runes. Two empty strings count as
// identical. The measure is symmetric and deterministic.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			switch {
			case ra[i-1] == rb[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}

// Similarity scores two values on the 0-100 scale: both sides are normalized,
// the ratio is scaled by 100 and truncated toward zero.
func Similarity(a, b string) int {
	return int(Ratio(Normalize(a), Normalize(b)) * 100)
}
