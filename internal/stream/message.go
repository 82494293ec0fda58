package stream

import (
	"fmt"
	"strings"

	"github.com/RishiKendai/codeplag/internal/models"
)

// StreamMessage is a stream entry with its string fields.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission reads a submission from the entry fields submissionId,
// corpusId, author, fileName and sourceCode.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	get := func(key string) string { return strings.TrimSpace(msg.Fields[key]) }

	submission := &models.Submission{
		SubmissionID: get("submissionId"),
		CorpusID:     get("corpusId"),
		Author:       get("author"),
		FileName:     get("fileName"),
		SourceCode:   msg.Fields["sourceCode"],
	}
	if err := submission.Validate(); err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}
	return submission, nil
}
