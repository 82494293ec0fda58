package plagiarism

import (
	"github.com/RishiKendai/codeplag/internal/elements"
)

// DefaultMinTile is the shortest run of tokens counted as a tile.
const DefaultMinTile = 5

// Tiling scores files with Greedy String Tiling: the share of tokens covered
// by maximal common runs, 2*matched/(len(a)+len(b)).
type Tiling struct {
	MinTile int
}

func NewTiling() *Tiling {
	return &Tiling{MinTile: DefaultMinTile}
}

func (t *Tiling) Name() string { return "tiling" }

func (t *Tiling) CompareFiles(a, b *elements.JavaFile) float64 {
	return compareFiles(t, a, b)
}

func (t *Tiling) CompareTokens(a, b []string) float64 {
	if score, ok := edgeScore(a, b); ok {
		return score
	}

	// streams shorter than the minimum tile can still match as a whole
	minTile := max(1, min(t.MinTile, len(a), len(b)))
	covered := newTiler(a, b).cover(minTile)
	return 2 * float64(covered) / float64(len(a)+len(b))
}

// tiler holds two token streams and which of their tokens are already part
// of a tile.
type tiler struct {
	a, b  []string
	usedA []bool
	usedB []bool
}

func newTiler(a, b []string) *tiler {
	return &tiler{a: a, b: b, usedA: make([]bool, len(a)), usedB: make([]bool, len(b))}
}

// cover repeatedly marks the longest unmarked common run of at least
// minTile tokens and returns how many tokens of a ended up covered. Among
// runs of equal length the first in a, then in b, wins.
func (t *tiler) cover(minTile int) int {
	covered := 0
	for {
		length, startA, startB := t.longestRun()
		if length < minTile {
			return covered
		}
		for k := 0; k < length; k++ {
			t.usedA[startA+k] = true
			t.usedB[startB+k] = true
		}
		covered += length
	}
}

func (t *tiler) longestRun() (length, startA, startB int) {
	for i := range t.a {
		if t.usedA[i] {
			continue
		}
		for j := range t.b {
			if n := t.runAt(i, j); n > length {
				length, startA, startB = n, i, j
			}
		}
	}
	return length, startA, startB
}

// runAt is the length of the unmarked common run starting at a[i] and b[j].
func (t *tiler) runAt(i, j int) int {
	n := 0
	for i+n < len(t.a) && j+n < len(t.b) {
		if t.usedA[i+n] || t.usedB[j+n] || t.a[i+n] != t.b[j+n] {
			break
		}
		n++
	}
	return n
}
