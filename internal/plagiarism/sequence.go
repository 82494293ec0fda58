package plagiarism

import (
	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/agext/levenshtein"
)

// Sequence scores files by token edit distance normalized by the longer
// stream: 1 - distance/max(len(a), len(b)). It is precise for near-verbatim
// copies and sensitive to large-scale reordering.
type Sequence struct{}

func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) Name() string { return "sequence" }

func (s *Sequence) CompareFiles(a, b *elements.JavaFile) float64 {
	return compareFiles(s, a, b)
}

func (s *Sequence) CompareTokens(a, b []string) float64 {
	if score, ok := edgeScore(a, b); ok {
		return score
	}
	longest := max(len(a), len(b))
	return 1 - float64(TokenDistance(a, b))/float64(longest)
}

// distinct tokens are stood in for by code points from the private use area
// upward, which never fall in the surrogate range
const (
	symbolBase  = 0xE000
	symbolLimit = 0x10FFFF
)

// TokenDistance is the unit-cost edit distance between two token streams.
func TokenDistance(a, b []string) int {
	ra, rb, ok := intern(a, b)
	if ok {
		return levenshtein.Distance(string(ra), string(rb), nil)
	}
	return editDistance(a, b)
}

// intern maps each distinct token to one rune so the streams can be compared
// as strings. ok is false when the vocabulary does not fit.
func intern(a, b []string) (ra, rb []rune, ok bool) {
	symbols := make(map[string]rune)
	convert := func(tokens []string) []rune {
		out := make([]rune, len(tokens))
		for i, t := range tokens {
			r, seen := symbols[t]
			if !seen {
				r = rune(symbolBase + len(symbols))
				symbols[t] = r
			}
			out[i] = r
		}
		return out
	}
	ra = convert(a)
	rb = convert(b)
	return ra, rb, symbolBase+len(symbols) <= symbolLimit
}

func editDistance(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
