package plagiarism

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoThresholdRetainsEverything(t *testing.T) {
	var zero Threshold
	assert.Equal(t, NoThreshold(), zero)
	for _, score := range []float64{0, 0.3, 1} {
		assert.True(t, zero.Retains(score))
	}
	_, set := zero.Value()
	assert.False(t, set)
	assert.Equal(t, "none", zero.String())
}

func TestNewThreshold(t *testing.T) {
	th, err := NewThreshold(0.6)
	require.NoError(t, err)
	v, set := th.Value()
	assert.True(t, set)
	assert.Equal(t, 0.6, v)
	assert.True(t, th.Retains(0.61))
	assert.False(t, th.Retains(0.6))
	assert.Equal(t, "0.6", th.String())

	for _, bad := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := NewThreshold(bad)
		var cerr *ConfigError
		require.True(t, errors.As(err, &cerr), "%v", bad)
		assert.Equal(t, "threshold", cerr.Field)
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		set  bool
	}{
		{in: "", set: false},
		{in: "  ", set: false},
		{in: "0.4", want: 0.4, set: true},
		{in: "1", want: 1, set: true},
		{in: "40", want: 0.4, set: true},
		{in: "75%", want: 0.75, set: true},
		{in: "0.5%", want: 0.005, set: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			th, err := ParseThreshold(tt.in)
			require.NoError(t, err)
			v, set := th.Value()
			assert.Equal(t, tt.set, set)
			assert.InDelta(t, tt.want, v, 1e-12)
		})
	}

	for _, bad := range []string{"abc", "150", "-3"} {
		_, err := ParseThreshold(bad)
		assert.Error(t, err, bad)
	}
}
