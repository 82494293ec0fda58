package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/metrics"
	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/RishiKendai/codeplag/internal/plagiarism"
	"github.com/rs/zerolog/log"
)

// ErrEmptyCorpus is returned for a corpus without submissions.
var ErrEmptyCorpus = errors.New("corpus has no submissions")

// Corpus loads the submissions of a corpus.
type Corpus interface {
	GetSubmissionsByCorpusID(ctx context.Context, corpusID string) ([]*models.Submission, error)
	CountSubmissionsByCorpusID(ctx context.Context, corpusID string) (int64, error)
}

// SinkFactory returns where the normalized copies of a corpus are stored. It
// may return nil to keep them in memory.
type SinkFactory func(corpusID string, features []normalize.Feature) normalize.Sink

// Options selects how a session compares its corpus.
type Options struct {
	Algorithm  plagiarism.Algorithm
	Features   []normalize.Feature
	Threshold  plagiarism.Threshold
	Prefilter  bool
	MinOverlap float64
}

// Runner executes sessions: load the corpus, normalize every submission,
// compare all pairs and store the report.
type Runner struct {
	corpus Corpus
	store  Store
	pool   *plagiarism.WorkerPool
	sinks  SinkFactory
}

func NewRunner(corpus Corpus, store Store, pool *plagiarism.WorkerPool, sinks SinkFactory) *Runner {
	return &Runner{
		corpus: corpus,
		store:  store,
		pool:   pool,
		sinks:  sinks,
	}
}

// Run executes one session. The report is stored whether the session
// completes or fails; a failed session also returns its error.
func (r *Runner) Run(ctx context.Context, sessionID, corpusID string, opts Options) (*models.SessionReport, error) {
	if opts.Algorithm == nil {
		return nil, &plagiarism.ConfigError{Field: "algorithm", Reason: "no algorithm selected"}
	}

	started := time.Now()
	report := &models.SessionReport{
		SessionID:   sessionID,
		CorpusID:    corpusID,
		Step:        models.StepStarted,
		Algorithm:   opts.Algorithm.Name(),
		Features:    featureNames(opts.Features),
		Threshold:   opts.Threshold.String(),
		Comparisons: []models.PairReport{},
		Submissions: []models.SubmissionReport{},
		StartedAt:   started,
	}
	logger := log.With().Str("sessionId", sessionID).Str("corpusId", corpusID).Logger()
	logger.Info().Str("algorithm", report.Algorithm).Msg("Session started")
	r.setStep(ctx, sessionID, models.StepStarted)

	r.setStep(ctx, sessionID, models.StepLoading)
	submissions, err := r.corpus.GetSubmissionsByCorpusID(ctx, corpusID)
	if err != nil {
		return report, r.fail(ctx, report, fmt.Errorf("failed to load corpus: %w", err))
	}
	if len(submissions) == 0 {
		return report, r.fail(ctx, report, ErrEmptyCorpus)
	}

	r.setStep(ctx, sessionID, models.StepNormalizing)
	files := r.normalize(ctx, report, submissions, opts)
	if err := ctx.Err(); err != nil {
		return report, r.fail(ctx, report, err)
	}

	r.setStep(ctx, sessionID, models.StepComparing)
	batch, err := plagiarism.RunBatch(ctx, r.pool, files, plagiarism.BatchOptions{
		Algorithm:  opts.Algorithm,
		Threshold:  opts.Threshold,
		Prefilter:  opts.Prefilter,
		MinOverlap: opts.MinOverlap,
	})
	if batch != nil {
		report.Pairs = batch.Pairs
		report.Skipped = batch.Skipped
		report.Unfinished = batch.Unfinished
		metrics.PairsCompared.WithLabelValues(report.Algorithm).Add(float64(len(batch.Comparisons)))
	}
	if err != nil {
		return report, r.fail(ctx, report, fmt.Errorf("comparison failed: %w", err))
	}

	for _, c := range batch.Comparisons {
		report.Comparisons = append(report.Comparisons, NewPairReport(c, false))
	}
	report.Submissions = NewSubmissionReports(plagiarism.Summarize(batch.Comparisons))
	report.Step = models.StepCompleted
	report.CompletedAt = time.Now()

	if err := r.store.SaveReport(ctx, report); err != nil {
		metrics.SessionCount.WithLabelValues("failed").Inc()
		return report, err
	}
	metrics.SessionCount.WithLabelValues("completed").Inc()
	metrics.SessionDuration.Observe(time.Since(started).Seconds())

	logger.Info().
		Int("files", report.Files).
		Int("compared", len(report.Comparisons)).
		Int("failures", len(report.Failures)).
		Dur("duration", time.Since(started)).
		Msg("Session completed")
	return report, nil
}

// normalize builds the normalized Element Model of every submission. A file
// whose copy could not be stored is excluded and listed in report.Failures.
func (r *Runner) normalize(ctx context.Context, report *models.SessionReport, submissions []*models.Submission, opts Options) []*elements.JavaFile {
	sources := make([]normalize.Source, len(submissions))
	for i, sub := range submissions {
		sources[i] = normalize.Source{Path: sub.Path(), Content: sub.SourceCode}
	}

	var sink normalize.Sink
	if r.sinks != nil {
		sink = r.sinks(report.CorpusID, opts.Features)
	}
	outcomes := normalize.New(opts.Features, sink).NormalizeAll(ctx, sources)

	files := make([]*elements.JavaFile, 0, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			log.Warn().
				Err(o.Err).
				Str("sessionId", report.SessionID).
				Str("path", sources[i].Path).
				Msg("Excluded file from session")
			report.Failures = append(report.Failures, models.FileFailure{File: sources[i].Path, Error: o.Err.Error()})
			continue
		}
		if o.Issues != nil {
			n := countIssues(o.Issues)
			report.Issues += n
			metrics.NormalizationIssues.Add(float64(n))
		}
		files = append(files, o.File)
	}
	report.Files = len(files)
	return files
}

func (r *Runner) fail(ctx context.Context, report *models.SessionReport, err error) error {
	report.Step = models.StepFailed
	report.Error = err.Error()
	report.CompletedAt = time.Now()
	metrics.SessionCount.WithLabelValues("failed").Inc()

	log.Error().Err(err).Str("sessionId", report.SessionID).Msg("Session failed")

	// the failure must be recorded even when ctx is what failed
	if serr := r.store.SaveReport(context.WithoutCancel(ctx), report); serr != nil {
		return errors.Join(err, serr)
	}
	return err
}

func (r *Runner) setStep(ctx context.Context, sessionID string, step models.Step) {
	if err := r.store.SetStep(ctx, sessionID, step); err != nil {
		log.Warn().Err(err).Str("sessionId", sessionID).Str("step", string(step)).Msg("Failed to update session status")
	}
}

func featureNames(features []normalize.Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	return names
}

func countIssues(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
