package plagiarism

import (
	"math"
	"sort"
)

// Risk is the verdict attached to a score.
type Risk string

const (
	RiskClean            Risk = "clean"
	RiskSuspicious       Risk = "suspicious"
	RiskHighlySuspicious Risk = "highly suspicious"
	RiskNearCopy         Risk = "near copy"
)

// SignificantScore is the pair score from which a pair counts against both
// of its files.
const SignificantScore = 0.55

// GetRiskLevel returns risk level based on a score in [0, 1]
func GetRiskLevel(score float64) Risk {
	if score < 0.3 {
		return RiskClean
	} else if score < 0.6 {
		return RiskSuspicious
	} else if score < 0.85 {
		return RiskHighlySuspicious
	}
	return RiskNearCopy
}

// PeerScore is one file's similarity to another file of the corpus.
type PeerScore struct {
	Peer  string
	Score float64
}

// SubmissionScore calculates a file's suspicion using Top-K + boost formula:
// the mean of its three highest significant pair scores, raised by 0.05 per
// additional distinct peer (at most 0.15).
func SubmissionScore(peers []PeerScore) float64 {
	// Step 1: keep pairs where Score >= SignificantScore
	significant := make([]PeerScore, 0, len(peers))
	for _, p := range peers {
		if p.Score >= SignificantScore {
			significant = append(significant, p)
		}
	}
	if len(significant) == 0 {
		return 0.0
	}

	// Step 2: take top K=3 scores
	K := min(3, len(significant))
	sort.Slice(significant, func(i, j int) bool {
		return significant[i].Score > significant[j].Score
	})

	// Step 3: average of top K scores
	sum := 0.0
	for _, p := range significant[:K] {
		sum += p.Score
	}
	score := sum / float64(K)

	// Step 4: frequency boost over distinct peers
	distinct := make(map[string]bool)
	for _, p := range significant {
		distinct[p.Peer] = true
	}
	M := len(distinct)
	score += math.Min(0.15, 0.05*float64(M-1))

	return math.Max(0.0, math.Min(1.0, score))
}

// SubmissionSummary is the per-file verdict over a batch.
type SubmissionSummary struct {
	File  string   `json:"file"`
	Score float64  `json:"score"`
	Risk  Risk     `json:"risk"`
	Peers []string `json:"peers"`
}

// Summarize computes a SubmissionSummary for every file named in
// comparisons, ordered by descending score then name.
func Summarize(comparisons []*FileComparison) []SubmissionSummary {
	byFile := make(map[string][]PeerScore)
	for _, c := range comparisons {
		a, b := c.A.Path, c.B.Path
		byFile[a] = append(byFile[a], PeerScore{Peer: b, Score: c.Score})
		byFile[b] = append(byFile[b], PeerScore{Peer: a, Score: c.Score})
	}

	summaries := make([]SubmissionSummary, 0, len(byFile))
	for file, peers := range byFile {
		score := SubmissionScore(peers)
		flagged := make([]string, 0)
		for _, p := range peers {
			if p.Score >= SignificantScore {
				flagged = append(flagged, p.Peer)
			}
		}
		sort.Strings(flagged)
		summaries = append(summaries, SubmissionSummary{
			File:  file,
			Score: score,
			Risk:  GetRiskLevel(score),
			Peers: flagged,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Score != summaries[j].Score {
			return summaries[i].Score > summaries[j].Score
		}
		return summaries[i].File < summaries[j].File
	})
	return summaries
}
