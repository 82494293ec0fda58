package plagiarism

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/rs/zerolog/log"
)

// ComparisonJob compares one file pair of a batch on the worker pool.
type ComparisonJob struct {
	// Ctx is the batch context; a cancelled batch skips the pair.
	Ctx        context.Context
	Pair       Pair
	A          *elements.JavaFile
	B          *elements.JavaFile
	Algorithm  Algorithm
	Threshold  Threshold
	ResultChan chan<- PairResult
	DoneChan   chan<- struct{}
}

// PairResult is the comparison of the corpus files at Pair.
type PairResult struct {
	Pair       Pair
	Comparison *FileComparison
}

// Execute executes the comparison job
func (j *ComparisonJob) Execute(ctx context.Context) error {
	// channels are sized for the whole batch, sends never block
	defer func() { j.DoneChan <- struct{}{} }()

	if err := j.Ctx.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	j.ResultChan <- PairResult{
		Pair:       j.Pair,
		Comparison: Compare(j.A, j.B, j.Algorithm, j.Threshold),
	}
	return nil
}

// BatchOptions configures a corpus batch.
type BatchOptions struct {
	Algorithm Algorithm
	Threshold Threshold
	// Prefilter skips pairs that share no winnowed fingerprint. Pairs of
	// files that both have no fingerprint are kept.
	Prefilter bool
	// MinOverlap is the fingerprint overlap a pair needs to pass the
	// prefilter.
	MinOverlap float64
}

// BatchResult holds the comparisons of a corpus, highest score first.
type BatchResult struct {
	Comparisons []*FileComparison
	// Pairs is the number of pairs in the corpus.
	Pairs int
	// Skipped counts pairs the prefilter ruled out.
	Skipped int
	// Unfinished counts pairs not compared because the batch was cancelled.
	Unfinished int
	Duration   time.Duration
}

// RunBatch compares every pair of files on pool. Pairs are independent; a
// cancelled ctx stops the batch between pairs and the comparisons finished
// so far are returned together with the context error.
func RunBatch(ctx context.Context, pool *WorkerPool, files []*elements.JavaFile, opts BatchOptions) (*BatchResult, error) {
	if opts.Algorithm == nil {
		return nil, &ConfigError{Field: "algorithm", Value: "", Reason: "no algorithm selected"}
	}
	started := time.Now()
	result := &BatchResult{Pairs: len(files) * (len(files) - 1) / 2}
	if len(files) < 2 {
		return result, nil
	}

	pairs := AllPairs(len(files))
	if opts.Prefilter {
		pairs = CandidatePairs(FilePrints(files), opts.MinOverlap)
		result.Skipped = result.Pairs - len(pairs)
		log.Debug().
			Int("pairs", result.Pairs).
			Int("candidates", len(pairs)).
			Msg("Prefiltered file pairs")
	}

	resultChan := make(chan PairResult, len(pairs))
	doneChan := make(chan struct{}, len(pairs))

	submitted := 0
	var submitErr error
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		job := &ComparisonJob{
			Ctx:        ctx,
			Pair:       pair,
			A:          files[pair.I],
			B:          files[pair.J],
			Algorithm:  opts.Algorithm,
			Threshold:  opts.Threshold,
			ResultChan: resultChan,
			DoneChan:   doneChan,
		}
		if err := pool.Submit(job); err != nil {
			log.Error().Err(err).Msg("Failed to submit job")
			submitErr = err
			break
		}
		submitted++
	}

	results := collectResults(ctx, resultChan, doneChan, submitted)

	sort.Slice(results, func(a, b int) bool {
		ra, rb := results[a], results[b]
		if ra.Comparison.Score != rb.Comparison.Score {
			return ra.Comparison.Score > rb.Comparison.Score
		}
		if ra.Pair.I != rb.Pair.I {
			return ra.Pair.I < rb.Pair.I
		}
		return ra.Pair.J < rb.Pair.J
	})
	result.Comparisons = make([]*FileComparison, len(results))
	for i, r := range results {
		result.Comparisons[i] = r.Comparison
	}
	result.Unfinished = len(pairs) - len(results)
	result.Duration = time.Since(started)

	if err := ctx.Err(); err != nil {
		log.Warn().
			Err(err).
			Int("compared", len(results)).
			Int("unfinished", result.Unfinished).
			Msg("Batch cancelled")
		return result, err
	}
	if submitErr != nil {
		return result, fmt.Errorf("failed to submit comparison: %w", submitErr)
	}

	log.Info().
		Str("algorithm", opts.Algorithm.Name()).
		Int("files", len(files)).
		Int("compared", len(results)).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("Batch completed")
	return result, nil
}

// collectResults gathers results until every submitted job has signalled
// completion or ctx is done.
func collectResults(ctx context.Context, resultChan <-chan PairResult, doneChan <-chan struct{}, expected int) []PairResult {
	results := make([]PairResult, 0, expected)
	done := 0
	for done < expected {
		select {
		case <-ctx.Done():
			return drain(resultChan, results)
		case r := <-resultChan:
			results = append(results, r)
		case <-doneChan:
			done++
		}
	}
	// every job sends its result before signalling completion
	return drain(resultChan, results)
}

func drain(resultChan <-chan PairResult, results []PairResult) []PairResult {
	for {
		select {
		case r := <-resultChan:
			results = append(results, r)
		default:
			return results
		}
	}
}
