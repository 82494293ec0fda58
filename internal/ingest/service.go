package ingest

import (
	"context"
	"fmt"

	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SubmissionStore persists accepted submissions.
type SubmissionStore interface {
	InsertSubmission(ctx context.Context, submission *models.Submission) error
}

type Service struct {
	store   SubmissionStore
	checker *parser.SyntaxChecker
}

// NewService creates the intake service. checker may be nil, in which case
// only regions the element parser kept opaque are recorded.
func NewService(store SubmissionStore, checker *parser.SyntaxChecker) *Service {
	return &Service{
		store:   store,
		checker: checker,
	}
}

// ProcessSubmission validates a submission, records its parse diagnostics
// and stores it. The source is stored untouched; normalization happens per
// session.
func (s *Service) ProcessSubmission(ctx context.Context, submission *models.Submission) error {
	if err := submission.Validate(); err != nil {
		return err
	}
	if submission.SubmissionID == "" {
		submission.SubmissionID = uuid.NewString()
	}

	submission.Diagnostics = s.diagnose(ctx, submission)

	if err := s.store.InsertSubmission(ctx, submission); err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}

	log.Info().
		Str("corpusId", submission.CorpusID).
		Str("submissionId", submission.SubmissionID).
		Str("path", submission.Path()).
		Int("diagnostics", len(submission.Diagnostics)).
		Msg("Submission stored")
	return nil
}

func (s *Service) diagnose(ctx context.Context, submission *models.Submission) []string {
	path := submission.Path()
	file := parser.Parse(path, submission.SourceCode)

	var diagnostics []string
	for _, d := range file.Diagnostics {
		diagnostics = append(diagnostics, d.Error())
	}
	if s.checker == nil {
		return diagnostics
	}

	syntaxErrs, err := s.checker.Check(ctx, path, []byte(submission.SourceCode))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Syntax check failed")
		return diagnostics
	}
	for _, d := range syntaxErrs {
		diagnostics = append(diagnostics, d.Error())
	}
	return diagnostics
}
