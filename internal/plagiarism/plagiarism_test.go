package plagiarism

import (
	"context"
	"errors"
	"testing"

	"github.com/RishiKendai/codeplag/internal/elements"
	"github.com/RishiKendai/codeplag/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchCorpus() []*elements.JavaFile {
	return []*elements.JavaFile{
		parser.Parse("A.java", "class A { int f() { return 1; } }"),
		parser.Parse("B.java", "interface B { void g(String s) { s.trim(); } }"),
		parser.Parse("C.java", "class A { int f() { return 1; } }"),
	}
}

func TestRunBatchSortsByScore(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2)
	defer pool.Close()

	res, err := RunBatch(context.Background(), pool, batchCorpus(), BatchOptions{Algorithm: NewFingerprint()})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pairs)
	assert.Zero(t, res.Skipped)
	assert.Zero(t, res.Unfinished)
	require.Len(t, res.Comparisons, 3)

	assert.Equal(t, "A.java <--> C.java", res.Comparisons[0].Name())
	assert.Equal(t, 1.0, res.Comparisons[0].Score)
	assert.Equal(t, "A.java <--> B.java", res.Comparisons[1].Name())
	assert.Equal(t, "B.java <--> C.java", res.Comparisons[2].Name())
}

func TestRunBatchPrefilterSkipsDisjointPairs(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2)
	defer pool.Close()

	res, err := RunBatch(context.Background(), pool, batchCorpus(), BatchOptions{
		Algorithm: NewSequence(),
		Prefilter: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Comparisons, 1)
	assert.Equal(t, "A.java <--> C.java", res.Comparisons[0].Name())
}

func TestRunBatchPrefilterKeepsEmptyFiles(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2)
	defer pool.Close()

	files := append(batchCorpus(), parser.Parse("D.java", ""), parser.Parse("E.java", "\n\n"))
	res, err := RunBatch(context.Background(), pool, files, BatchOptions{
		Algorithm: NewSequence(),
		Prefilter: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Comparisons, 2)
	assert.Equal(t, 1.0, res.Comparisons[0].Score)
	assert.Equal(t, 1.0, res.Comparisons[1].Score)
	var names []string
	for _, c := range res.Comparisons {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"A.java <--> C.java", "D.java <--> E.java"}, names)
}

func TestRunBatchSmallCorpus(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1)
	defer pool.Close()

	res, err := RunBatch(context.Background(), pool, batchCorpus()[:1], BatchOptions{Algorithm: NewTiling()})
	require.NoError(t, err)
	assert.Zero(t, res.Pairs)
	assert.Empty(t, res.Comparisons)
}

func TestRunBatchRequiresAlgorithm(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1)
	defer pool.Close()

	_, err := RunBatch(context.Background(), pool, batchCorpus(), BatchOptions{})
	var cerr *ConfigError
	assert.True(t, errors.As(err, &cerr))
}

func TestRunBatchCancelled(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := RunBatch(ctx, pool, batchCorpus(), BatchOptions{Algorithm: NewFingerprint()})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Empty(t, res.Comparisons)
	assert.Equal(t, 3, res.Unfinished)
}

func TestRunBatchOnClosedPool(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 1)
	pool.Close()

	res, err := RunBatch(context.Background(), pool, batchCorpus(), BatchOptions{Algorithm: NewFingerprint()})
	require.ErrorIs(t, err, ErrPoolClosed)
	assert.Equal(t, 3, res.Unfinished)
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 0)
	assert.GreaterOrEqual(t, pool.Size(), 1)
	pool.Close()
	pool.Close()

	err := pool.Submit(&ComparisonJob{})
	assert.ErrorIs(t, err, ErrPoolClosed)
}
