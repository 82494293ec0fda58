package plagiarism

import (
	"sort"

	"github.com/RishiKendai/codeplag/internal/elements"
)

// GII (Global Inverted Index) maps a winnowed fingerprint to the indices of
// the files that contain it.
type GII map[uint64][]int

// BuildGII indexes the fingerprints of files. Fingerprints held by a single
// file cannot pair anything and are dropped.
func BuildGII(prints []map[uint64]struct{}) GII {
	gii := make(GII)
	for idx, set := range prints {
		for hash := range set {
			gii[hash] = append(gii[hash], idx)
		}
	}

	for hash, owners := range gii {
		if len(owners) < 2 {
			delete(gii, hash)
		}
	}
	return gii
}

// FilePrints computes the winnowed fingerprint set of each file.
func FilePrints(files []*elements.JavaFile) []map[uint64]struct{} {
	fp := NewFingerprint()
	prints := make([]map[uint64]struct{}, len(files))
	for i, f := range files {
		prints[i] = fp.Fingerprints(Tokens(f.Text()))
	}
	return prints
}

// Pair is an index pair into a corpus, I < J.
type Pair struct {
	I, J int
}

// AllPairs returns every i<j pair of an n-file corpus in order.
func AllPairs(n int) []Pair {
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j})
		}
	}
	return pairs
}

// CandidatePairs returns the pairs that share at least one fingerprint and
// whose overlap (shared / smaller set) reaches minOverlap, in index order.
func CandidatePairs(prints []map[uint64]struct{}, minOverlap float64) []Pair {
	gii := BuildGII(prints)

	// pair -> passes minOverlap
	checked := make(map[Pair]bool)
	for _, owners := range gii {
		for a := 0; a < len(owners); a++ {
			for b := a + 1; b < len(owners); b++ {
				p := Pair{I: min(owners[a], owners[b]), J: max(owners[a], owners[b])}
				if _, done := checked[p]; done {
					continue
				}
				checked[p] = calculateOverlap(prints[p.I], prints[p.J]) >= minOverlap
			}
		}
	}

	// files without fingerprints share no index entry but match each other
	var empty []int
	for i, hashes := range prints {
		if len(hashes) == 0 {
			empty = append(empty, i)
		}
	}
	for a := 0; a < len(empty); a++ {
		for b := a + 1; b < len(empty); b++ {
			checked[Pair{I: empty[a], J: empty[b]}] = true
		}
	}

	pairs := make([]Pair, 0, len(checked))
	for p, keep := range checked {
		if keep {
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
	return pairs
}

// calculateOverlap calculates shared_hashes / min(total_hashes_A, total_hashes_B).
// Two empty sets overlap fully.
func calculateOverlap(hashesA, hashesB map[uint64]struct{}) float64 {
	if len(hashesA) == 0 && len(hashesB) == 0 {
		return 1.0
	}
	minTotal := min(len(hashesA), len(hashesB))
	if minTotal == 0 {
		return 0.0
	}

	sharedCount := 0
	for hash := range hashesA {
		if _, ok := hashesB[hash]; ok {
			sharedCount++
		}
	}
	return float64(sharedCount) / float64(minTotal)
}
