package plagiarism

import (
	"errors"
	"testing"

	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = map[string]string{
	"empty":    "",
	"one":      "class A {}",
	"adder":    "class X { public int add(int a,int b){return a+b;} }",
	"printer":  "class P { void print(String s) { System.out.println(s); } }",
	"loop":     "class L { int sum(int[] xs) { int t = 0; for (int x : xs) { t += x; } return t; } }",
	"constant": "interface C { int VALUE = 7; }",
}

func allAlgorithms(t *testing.T) []Algorithm {
	t.Helper()
	var algs []Algorithm
	for _, name := range Algorithms() {
		alg, err := NewAlgorithm(name)
		require.NoError(t, err)
		algs = append(algs, alg)
	}
	return algs
}

func TestScoresStayInUnitRange(t *testing.T) {
	for _, alg := range allAlgorithms(t) {
		for nameA, a := range corpus {
			for nameB, b := range corpus {
				score := alg.CompareFiles(parser.Parse(nameA, a), parser.Parse(nameB, b))
				assert.GreaterOrEqual(t, score, 0.0, "%s %s/%s", alg.Name(), nameA, nameB)
				assert.LessOrEqual(t, score, 1.0, "%s %s/%s", alg.Name(), nameA, nameB)
			}
		}
	}
}

func TestSelfComparisonScoresOne(t *testing.T) {
	for _, alg := range allAlgorithms(t) {
		for name, src := range corpus {
			file := parser.Parse(name, src)
			assert.Equal(t, 1.0, alg.CompareFiles(file, file), "%s %s", alg.Name(), name)
		}
	}
}

func TestEmptyStreams(t *testing.T) {
	for _, alg := range allAlgorithms(t) {
		assert.Equal(t, 1.0, alg.CompareTokens(nil, nil), alg.Name())
		assert.Equal(t, 0.0, alg.CompareTokens(nil, []string{"x"}), alg.Name())
		assert.Equal(t, 0.0, alg.CompareTokens([]string{"x"}, []string{}), alg.Name())
	}
}

func TestFingerprintDisjointKGramsScoreZero(t *testing.T) {
	a := Tokens("class A { int f() { return 1; } }")
	b := Tokens("interface B { void g(String s) { s.trim(); } }")
	assert.Equal(t, 0.0, NewFingerprint().CompareTokens(a, b))
}

func TestFingerprintToleratesReordering(t *testing.T) {
	first := "int a() { return compute(1, 2, 3) + compute(4, 5, 6) * total; }\n"
	second := "void b() { System.out.println(helper(4, 5)); counter.increment(); }\n"
	a := parser.Parse("A.java", "class A {\n"+first+second+"}\n")
	b := parser.Parse("B.java", "class A {\n"+second+first+"}\n")

	fp := NewFingerprint().CompareFiles(a, b)
	seq := NewSequence().CompareFiles(a, b)
	assert.Less(t, seq, 1.0)
	assert.Greater(t, fp, seq)
}

func TestWinnow(t *testing.T) {
	assert.Nil(t, Winnow(nil, 5, 4))
	assert.Len(t, Winnow([]string{"a", "b"}, 5, 4), 1, "a stream shorter than k is one k-gram")

	tokens := Tokens("a b c d e f g h i j k l m n o p")
	selected := Winnow(tokens, 5, 4)
	all := KGramHashes(tokens, 5)
	assert.Len(t, all, len(tokens)-4)
	assert.NotEmpty(t, selected)
	assert.LessOrEqual(t, len(selected), len(all))
	for _, h := range selected {
		assert.Contains(t, all, h)
	}
	assert.Equal(t, selected, Winnow(tokens, 5, 4), "winnowing is deterministic")
}

func TestMinRightmostPrefersRightmostTie(t *testing.T) {
	assert.Equal(t, 2, minRightmost([]uint64{3, 1, 1, 2}, 0, 4))
	assert.Equal(t, 3, minRightmost([]uint64{5, 4, 4, 4}, 1, 4))
}

func TestSequenceInsertionLowersScore(t *testing.T) {
	base := "class A {\n  int f(int x) {\n    return x * 2;\n  }\n}\n"
	padded := "class A {\n  int f(int x) {\n    int unrelated = 42;\n    log(unrelated);\n    return x * 2;\n  }\n}\n"
	a := parser.Parse("A.java", base)
	b := parser.Parse("B.java", padded)

	seq := NewSequence()
	assert.Equal(t, 1.0, seq.CompareFiles(a, parser.Parse("C.java", base)))
	score := seq.CompareFiles(a, b)
	assert.Less(t, score, 1.0)
	assert.Greater(t, score, 0.0)

	more := parser.Parse("D.java", "class A {\n  int f(int x) {\n    int unrelated = 42;\n    log(unrelated);\n    unused();\n    return x * 2;\n  }\n}\n")
	assert.Less(t, seq.CompareFiles(a, more), score)
}

func TestTokenDistanceMatchesDynamicProgramming(t *testing.T) {
	cases := [][2]string{
		{"a b c", "a b c"},
		{"a b c", "a c"},
		{"x = y + 1 ;", "y = x - 1 ;"},
		{"", "a b"},
		{"if ( a ) { b ( ) ; }", "while ( a ) { b ( ) ; c ( ) ; }"},
	}
	for _, c := range cases {
		a, b := Tokens(c[0]), Tokens(c[1])
		assert.Equal(t, editDistance(a, b), TokenDistance(a, b), "%q vs %q", c[0], c[1])
	}
}

func TestTilingCountsSharedRuns(t *testing.T) {
	a := Tokens("foo(1, 2, 3); bar(4, 5, 6);")
	b := Tokens("bar(4, 5, 6); foo(1, 2, 3);")
	assert.Equal(t, 1.0, NewTiling().CompareTokens(a, b), "swapped statements are both tiled")

	c := Tokens("while (true) { }")
	assert.Equal(t, 0.0, NewTiling().CompareTokens(a, c))
}

func TestNewAlgorithm(t *testing.T) {
	assert.Equal(t, []string{"fingerprint", "sequence", "tiling"}, Algorithms())
	for _, name := range Algorithms() {
		alg, err := NewAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, name, alg.Name())
	}
	alg, err := NewAlgorithm(" Fingerprint ")
	require.NoError(t, err)
	assert.Equal(t, "fingerprint", alg.Name())

	_, err = NewAlgorithm("string")
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "algorithm", cerr.Field)
}

func TestRenamedMethodsFingerprintAsIdentical(t *testing.T) {
	a := parser.Parse("A.java", "class X { public int add(int a,int b){return a+b;} }")
	b := parser.Parse("B.java", "class X { public int sum(int x,int y){return x+y;} }")
	features := []normalize.Feature{normalize.StandardizeNames}
	require.NoError(t, normalize.Apply(a, features))
	require.NoError(t, normalize.Apply(b, features))

	require.Equal(t, a.Text(), b.Text())
	assert.InDelta(t, 1.0, NewFingerprint().CompareFiles(a, b), 1e-9)
}
