package models

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// ErrInvalidSubmission marks a submission that can never be stored.
var ErrInvalidSubmission = errors.New("invalid submission")

// Submission is one Java source file of a corpus, from the API or the
// Redis stream.
type Submission struct {
	SubmissionID string    `bson:"submissionId" json:"submissionId"`
	CorpusID     string    `bson:"corpusId" json:"corpusId"`
	Author       string    `bson:"author" json:"author"`
	FileName     string    `bson:"fileName" json:"fileName"`
	SourceCode   string    `bson:"sourceCode" json:"sourceCode"`
	Diagnostics  []string  `bson:"diagnostics,omitempty" json:"diagnostics,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Validate checks the fields every stored submission needs.
func (s *Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.CorpusID) == "":
		return fmt.Errorf("%w: corpusId is required", ErrInvalidSubmission)
	case strings.TrimSpace(s.FileName) == "":
		return fmt.Errorf("%w: fileName is required", ErrInvalidSubmission)
	case strings.ContainsAny(s.FileName, `/\`):
		return fmt.Errorf("%w: fileName must not contain a path", ErrInvalidSubmission)
	case !strings.HasSuffix(s.FileName, ".java"):
		return fmt.Errorf("%w: fileName must end in .java", ErrInvalidSubmission)
	case strings.ContainsAny(s.Author, `/\`):
		return fmt.Errorf("%w: author must not contain a path separator", ErrInvalidSubmission)
	}
	return nil
}

// Path identifies the submission inside its corpus: "<author>/<fileName>",
// or the submission id when no author is known.
func (s *Submission) Path() string {
	owner := s.Author
	if owner == "" {
		owner = s.SubmissionID
	}
	return path.Join(owner, s.FileName)
}

// NormalizedCopy is the normalized text of a submission, stored beside the
// untouched original.
type NormalizedCopy struct {
	CorpusID  string    `bson:"corpusId" json:"corpusId"`
	Path      string    `bson:"path" json:"path"`
	Text      string    `bson:"text" json:"text"`
	Features  []string  `bson:"features" json:"features"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
