package session

import (
	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/RishiKendai/codeplag/internal/plagiarism"
)

// NewPairReport flattens a file comparison. Files are named by their full
// corpus path; withText adds the plain-text report.
func NewPairReport(c *plagiarism.FileComparison, withText bool) models.PairReport {
	methods := make([]models.MethodPairReport, len(c.Methods))
	for i, m := range c.Methods {
		methods[i] = models.MethodPairReport{
			MethodA: m.A.Name,
			MethodB: m.B.Name,
			Name:    m.Name(),
			Score:   m.Score,
			Percent: m.Percent(),
		}
	}
	pr := models.PairReport{
		FileA:    c.A.Path,
		FileB:    c.B.Path,
		Score:    c.Score,
		Percent:  c.Percent(),
		Risk:     string(plagiarism.GetRiskLevel(c.Score)),
		Examined: c.Examined,
		Methods:  methods,
	}
	if withText {
		pr.Text = c.Report()
	}
	return pr
}

func NewSubmissionReports(summaries []plagiarism.SubmissionSummary) []models.SubmissionReport {
	reports := make([]models.SubmissionReport, len(summaries))
	for i, s := range summaries {
		reports[i] = models.SubmissionReport{
			File:  s.File,
			Score: s.Score,
			Risk:  string(s.Risk),
			Peers: s.Peers,
		}
	}
	return reports
}
