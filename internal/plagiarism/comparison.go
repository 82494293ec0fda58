package plagiarism

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/sourcegraph/conc/iter"
)

// MethodComparison is the score of one method pair.
type MethodComparison struct {
	FileA  string
	FileB  string
	A      *elements.Method
	B      *elements.Method
	Score  float64
	IndexA int
	IndexB int
}

// Name is "<fileA>:<methodA> <--> <fileB>:<methodB>".
func (m MethodComparison) Name() string {
	return fmt.Sprintf("%s:%s <--> %s:%s", m.FileA, m.A.Name, m.FileB, m.B.Name)
}

// Percent is the score as a whole percentage, truncated.
func (m MethodComparison) Percent() int { return percent(m.Score) }

func (m MethodComparison) Report() string {
	return fmt.Sprintf("%s Score %d", m.Name(), m.Percent())
}

// CompareMethods scores every method of a against every method of b with
// alg, over the methods' normalized text. The result holds exactly
// len(a.Methods())*len(b.Methods()) pairs in row-major order.
func CompareMethods(a, b *elements.JavaFile, alg Algorithm) []MethodComparison {
	methodsA, methodsB := a.Methods(), b.Methods()
	if len(methodsA) == 0 || len(methodsB) == 0 {
		return nil
	}
	tokensA := iter.Map(methodsA, func(m **elements.Method) []string { return Tokens((*m).Text()) })
	tokensB := iter.Map(methodsB, func(m **elements.Method) []string { return Tokens((*m).Text()) })

	pairs := make([]MethodComparison, 0, len(methodsA)*len(methodsB))
	for i := range methodsA {
		for j := range methodsB {
			pairs = append(pairs, MethodComparison{
				FileA:  a.Name(),
				FileB:  b.Name(),
				A:      methodsA[i],
				B:      methodsB[j],
				IndexA: i,
				IndexB: j,
			})
		}
	}
	iter.ForEach(pairs, func(p *MethodComparison) {
		p.Score = alg.CompareTokens(tokensA[p.IndexA], tokensB[p.IndexB])
	})
	return pairs
}

// FileComparison combines the whole-file score of two files with their
// retained method pairs.
type FileComparison struct {
	A         *elements.JavaFile
	B         *elements.JavaFile
	Algorithm string
	Threshold Threshold
	Score     float64
	// Methods holds the retained pairs, highest score first.
	Methods []MethodComparison
	// Examined is the number of method pairs scored before filtering.
	Examined int
}

// Compare scores a against b. The whole-file score is computed first and
// never depends on method filtering.
func Compare(a, b *elements.JavaFile, alg Algorithm, threshold Threshold) *FileComparison {
	c := &FileComparison{
		A:         a,
		B:         b,
		Algorithm: alg.Name(),
		Threshold: threshold,
		Score:     alg.CompareFiles(a, b),
	}

	all := CompareMethods(a, b, alg)
	c.Examined = len(all)
	c.Methods = FilterMethods(all, threshold)
	return c
}

// FilterMethods keeps the pairs threshold retains, sorted by descending score.
// Ties keep their cross-product order.
func FilterMethods(pairs []MethodComparison, threshold Threshold) []MethodComparison {
	retained := make([]MethodComparison, 0, len(pairs))
	for _, p := range pairs {
		if threshold.Retains(p.Score) {
			retained = append(retained, p)
		}
	}
	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].Score > retained[j].Score
	})
	return retained
}

// Name is "<fileA> <--> <fileB>".
func (c *FileComparison) Name() string {
	return c.A.Name() + " <--> " + c.B.Name()
}

// Percent is the whole-file score as a whole percentage, truncated.
func (c *FileComparison) Percent() int { return percent(c.Score) }

// Report renders the whole-file score followed by one line per retained
// method pair.
func (c *FileComparison) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Text Comparison Algorithm Score %d\n\n", c.Percent())
	sb.WriteString("Suspected Methods -> \n")
	for _, m := range c.Methods {
		sb.WriteString(m.Report())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func percent(score float64) int {
	return int(math.Floor(score*100 + 1e-9))
}
