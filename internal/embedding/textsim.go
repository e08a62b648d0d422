// Package embedding provides text-similarity scoring for the superset/subset
// and near-duplicate detectors. A real sentence-embedding model is used when
// available; otherwise similarity degrades deterministically to a
// character+word overlap heuristic (spec.md §4.2, §9).
package embedding

import (
	"strings"
)

// sequenceRatio is a Ratcliff/Obershelp "gestalt pattern matching" ratio,
// equivalent to Python's difflib.SequenceMatcher(None, a, b, autojunk=False)
// .ratio(): twice the total length of matching blocks divided by the
// combined length of a and b. difflib's default autojunk heuristic (which
// ignores very frequent characters once b has 200 or more characters) is not
// applied, so long inputs can score differently than difflib's default.
// No library in the reference pack implements this algorithm — see
// DESIGN.md for why it stays on a small standard-library implementation.
func sequenceRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	matched := matchingBlockLength(a, b)
	return 2.0 * float64(matched) / float64(len(a)+len(b))
}

// matchingBlockLength recursively finds the longest matching block between
// a and b, then recurses on the unmatched prefix and suffix, summing all
// matched lengths — the core of the Ratcliff/Obershelp algorithm.
func matchingBlockLength(a, b string) int {
	ai, bi, length := longestMatch(a, b)
	if length == 0 {
		return 0
	}
	total := length
	total += matchingBlockLength(a[:ai], b[:bi])
	total += matchingBlockLength(a[ai+length:], b[bi+length:])
	return total
}

// longestMatch finds the longest common substring between a and b, returning
// its start index in each and its length. Ties are broken by the earliest
// match in a, then in b, matching difflib's behavior.
func longestMatch(a, b string) (aStart, bStart, length int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// b2j maps each byte in b to the list of indices where it occurs, so the
	// inner loop only considers positions that could extend a match.
	b2j := make(map[byte][]int, len(b))
	for j := 0; j < len(b); j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	// j2len[j] holds the length of the match ending at b[j-1] for the
	// previous row of a; rebuilt each iteration of i.
	j2len := make(map[int]int)
	for i := 0; i < len(a); i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > length {
				aStart, bStart, length = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return aStart, bStart, length
}

// jaccardTokens computes the Jaccard similarity of the whitespace-tokenized
// word sets of a and b: |intersection| / |union|.
func jaccardTokens(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
