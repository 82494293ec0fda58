package plagiarism

import (
	"math"
	"strconv"
	"strings"
)

// Threshold is the optional minimum a method pair must exceed to be retained.
// The zero value is "no threshold": every pair is retained.
type Threshold struct {
	value float64
	set   bool
}

// NoThreshold retains every method pair.
func NoThreshold() Threshold { return Threshold{} }

// NewThreshold validates v, which must lie in [0, 1].
func NewThreshold(v float64) (Threshold, error) {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return Threshold{}, &ConfigError{
			Field:  "threshold",
			Value:  strconv.FormatFloat(v, 'g', -1, 64),
			Reason: "must be between 0 and 1",
		}
	}
	return Threshold{value: v, set: true}, nil
}

// ParseThreshold reads a threshold setting. An empty string means none; a
// value above 1 is read as a percentage.
func ParseThreshold(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoThreshold(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return Threshold{}, &ConfigError{Field: "threshold", Value: s, Reason: "not a number"}
	}
	if strings.HasSuffix(s, "%") || (v > 1 && v <= 100) {
		v /= 100
	}
	return NewThreshold(v)
}

// Value returns the configured minimum and whether one is set.
func (t Threshold) Value() (float64, bool) { return t.value, t.set }

// Retains reports whether a pair with the given score is kept.
func (t Threshold) Retains(score float64) bool {
	return !t.set || score > t.value
}

func (t Threshold) String() string {
	if !t.set {
		return "none"
	}
	return strconv.FormatFloat(t.value, 'f', -1, 64)
}
