package plagiarism

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/lexer"
)

// Algorithm scores the similarity of two already-normalized files. Scores are
// in [0, 1] and deterministic for identical inputs.
type Algorithm interface {
	Name() string
	CompareFiles(a, b *elements.JavaFile) float64
	CompareTokens(a, b []string) float64
}

var registry = map[string]func() Algorithm{
	"fingerprint": func() Algorithm { return NewFingerprint() },
	"sequence":    func() Algorithm { return NewSequence() },
	"tiling":      func() Algorithm { return NewTiling() },
}

// NewAlgorithm builds the strategy registered under name. Strategies take no
// arguments.
func NewAlgorithm(name string) (Algorithm, error) {
	build, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &ConfigError{
			Field:  "algorithm",
			Value:  name,
			Reason: "must be one of " + strings.Join(Algorithms(), ", "),
		}
	}
	return build(), nil
}

// Algorithms lists the registered strategy names.
func Algorithms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tokens linearizes normalized source text into its token values.
func Tokens(text string) []string {
	return lexer.Values(text)
}

// ConfigError rejects an invalid setting before any work starts.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// edgeScore handles empty token streams: two empty streams are identical,
// an empty stream shares nothing with a non-empty one.
func edgeScore(a, b []string) (float64, bool) {
	switch {
	case len(a) == 0 && len(b) == 0:
		return 1.0, true
	case len(a) == 0 || len(b) == 0:
		return 0.0, true
	}
	return 0, false
}

func compareFiles(alg Algorithm, a, b *elements.JavaFile) float64 {
	return alg.CompareTokens(Tokens(a.Text()), Tokens(b.Text()))
}
