package plagiarism

import (
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultKGram is the number of tokens hashed together.
	DefaultKGram = 5
	// DefaultWindow is the number of consecutive k-gram hashes a
	// representative is chosen from.
	DefaultWindow = 4
)

// Fingerprint scores files by the Jaccard similarity of their winnowed k-gram
// hash sets. It tolerates local reordering and insertions.
type Fingerprint struct {
	K      int
	Window int
}

func NewFingerprint() *Fingerprint {
	return &Fingerprint{K: DefaultKGram, Window: DefaultWindow}
}

func (f *Fingerprint) Name() string { return "fingerprint" }

func (f *Fingerprint) CompareFiles(a, b *elements.JavaFile) float64 {
	return compareFiles(f, a, b)
}

func (f *Fingerprint) CompareTokens(a, b []string) float64 {
	if score, ok := edgeScore(a, b); ok {
		return score
	}
	return jaccard(f.Fingerprints(a), f.Fingerprints(b))
}

// Fingerprints returns the set of hashes winnowing selects from tokens.
func (f *Fingerprint) Fingerprints(tokens []string) map[uint64]struct{} {
	selected := Winnow(tokens, f.K, f.Window)
	set := make(map[uint64]struct{}, len(selected))
	for _, h := range selected {
		set[h] = struct{}{}
	}
	return set
}

// KGramHashes hashes every run of k consecutive tokens. A stream shorter than
// k yields a single hash over all of its tokens.
func KGramHashes(tokens []string, k int) []uint64 {
	if len(tokens) == 0 {
		return nil
	}
	if k <= 0 {
		k = DefaultKGram
	}
	if len(tokens) < k {
		return []uint64{hashGram(tokens)}
	}
	hashes := make([]uint64, 0, len(tokens)-k+1)
	for i := 0; i+k <= len(tokens); i++ {
		hashes = append(hashes, hashGram(tokens[i:i+k]))
	}
	return hashes
}

func hashGram(tokens []string) uint64 {
	return xxhash.Sum64String(strings.Join(tokens, "\x00"))
}

// Winnow selects one representative hash per window of w consecutive k-gram
// hashes: the minimum, taking the rightmost on ties. A position selected by
// overlapping windows is recorded once.
func Winnow(tokens []string, k, w int) []uint64 {
	hashes := KGramHashes(tokens, k)
	if len(hashes) == 0 {
		return nil
	}
	if w <= 0 {
		w = DefaultWindow
	}
	if len(hashes) <= w {
		return []uint64{hashes[minRightmost(hashes, 0, len(hashes))]}
	}

	var selected []uint64
	last := -1
	for start := 0; start+w <= len(hashes); start++ {
		pos := minRightmost(hashes, start, start+w)
		if pos != last {
			selected = append(selected, hashes[pos])
			last = pos
		}
	}
	return selected
}

func minRightmost(hashes []uint64, lo, hi int) int {
	pos := lo
	for i := lo + 1; i < hi; i++ {
		if hashes[i] <= hashes[pos] {
			pos = i
		}
	}
	return pos
}

// jaccard is |A ∩ B| / |A ∪ B|.
func jaccard(a, b map[uint64]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	shared := 0
	for h := range a {
		if _, ok := b[h]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
