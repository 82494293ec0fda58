package plagiarism

import (
	"testing"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRiskLevel(t *testing.T) {
	assert.Equal(t, RiskClean, GetRiskLevel(0))
	assert.Equal(t, RiskClean, GetRiskLevel(0.29))
	assert.Equal(t, RiskSuspicious, GetRiskLevel(0.3))
	assert.Equal(t, RiskHighlySuspicious, GetRiskLevel(0.6))
	assert.Equal(t, RiskNearCopy, GetRiskLevel(0.85))
	assert.Equal(t, RiskNearCopy, GetRiskLevel(1))
}

func TestSubmissionScore(t *testing.T) {
	assert.Equal(t, 0.0, SubmissionScore(nil))
	assert.Equal(t, 0.0, SubmissionScore([]PeerScore{{Peer: "a", Score: 0.5}}))
	assert.InDelta(t, 0.6, SubmissionScore([]PeerScore{{Peer: "a", Score: 0.6}}), 1e-9)

	peers := []PeerScore{
		{Peer: "a", Score: 0.9},
		{Peer: "b", Score: 0.8},
		{Peer: "c", Score: 0.7},
		{Peer: "d", Score: 0.6},
		{Peer: "e", Score: 0.2},
	}
	assert.InDelta(t, 0.95, SubmissionScore(peers), 1e-9)

	saturated := []PeerScore{{"a", 1}, {"b", 1}, {"c", 1}, {"d", 1}}
	assert.Equal(t, 1.0, SubmissionScore(saturated))
}

func TestSummarize(t *testing.T) {
	a := elements.NewJavaFile("a/A.java")
	b := elements.NewJavaFile("b/B.java")
	c := elements.NewJavaFile("c/C.java")
	comparisons := []*FileComparison{
		{A: a, B: b, Score: 0.9},
		{A: a, B: c, Score: 0.1},
		{A: b, B: c, Score: 0.2},
	}

	summaries := Summarize(comparisons)
	require.Len(t, summaries, 3)

	assert.Equal(t, "a/A.java", summaries[0].File)
	assert.InDelta(t, 0.9, summaries[0].Score, 1e-9)
	assert.Equal(t, RiskNearCopy, summaries[0].Risk)
	assert.Equal(t, []string{"b/B.java"}, summaries[0].Peers)

	assert.Equal(t, "b/B.java", summaries[1].File)
	assert.Equal(t, "c/C.java", summaries[2].File)
	assert.Equal(t, 0.0, summaries[2].Score)
	assert.Equal(t, RiskClean, summaries[2].Risk)
	assert.Empty(t, summaries[2].Peers)
}
