package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmission(t *testing.T) {
	msg := &StreamMessage{ID: "1-0", Fields: map[string]string{
		"submissionId": "s1",
		"corpusId":     " course ",
		"author":       "alice",
		"fileName":     "Main.java",
		"sourceCode":   "  class Main {}\n",
	}}
	sub, err := ParseSubmission(msg)
	require.NoError(t, err)
	assert.Equal(t, "course", sub.CorpusID)
	assert.Equal(t, "alice/Main.java", sub.Path())
	assert.Equal(t, "  class Main {}\n", sub.SourceCode, "source is kept verbatim")

	_, err = ParseSubmission(&StreamMessage{ID: "2-0", Fields: map[string]string{"fileName": "Main.java"}})
	assert.ErrorIs(t, err, models.ErrInvalidSubmission)
	assert.ErrorContains(t, err, "2-0")
}

type deadLetters struct {
	entries []map[string]interface{}
	err     error
}

func (d *deadLetters) publish(_ context.Context, values map[string]interface{}) error {
	if d.err != nil {
		return d.err
	}
	d.entries = append(d.entries, values)
	return nil
}

func newTestHandler(dlq *deadLetters, opts ...RetryOption) *RetryHandler {
	opts = append([]RetryOption{WithBackoff(2, time.Millisecond, 4*time.Millisecond)}, opts...)
	h := NewRetryHandler(nil, "codeplag:dlq", opts...)
	h.publish = dlq.publish
	return h
}

func TestRetryEventuallySucceeds(t *testing.T) {
	dlq := &deadLetters{}
	calls := 0
	err := newTestHandler(dlq).RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, "1-0", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Empty(t, dlq.entries)
}

func TestRetryExhaustedGoesToDeadLetter(t *testing.T) {
	dlq := &deadLetters{}
	calls := 0
	boom := errors.New("mongo down")
	err := newTestHandler(dlq).RetryWithBackoff(context.Background(), func() error {
		calls++
		return boom
	}, "1-0", map[string]interface{}{"fileName": "A.java"})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	require.Len(t, dlq.entries, 1)
	assert.Equal(t, "A.java", dlq.entries[0]["fileName"])
	assert.Equal(t, "1-0", dlq.entries[0]["original_id"])
	assert.Equal(t, "mongo down", dlq.entries[0]["error"])
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	dlq := &deadLetters{}
	calls := 0
	err := newTestHandler(dlq, WithPermanentErrors(models.ErrInvalidSubmission)).RetryWithBackoff(context.Background(), func() error {
		calls++
		return models.ErrInvalidSubmission
	}, "1-0", nil)

	assert.ErrorIs(t, err, models.ErrInvalidSubmission)
	assert.Equal(t, 1, calls)
	assert.Len(t, dlq.entries, 1)
}

func TestRetryReportsDeadLetterFailure(t *testing.T) {
	dlq := &deadLetters{err: errors.New("redis down")}
	boom := errors.New("boom")
	err := newTestHandler(dlq).RetryWithBackoff(context.Background(), func() error { return boom }, "1-0", nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "dead letter queue")
}

func TestRetryStopsOnCancel(t *testing.T) {
	dlq := &deadLetters{}
	ctx, cancel := context.WithCancel(context.Background())
	err := newTestHandler(dlq).RetryWithBackoff(ctx, func() error {
		cancel()
		return errors.New("interrupted")
	}, "1-0", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dlq.entries, "cancelled messages stay pending")
}

func TestBackoffIsCapped(t *testing.T) {
	h := NewRetryHandler(nil, "dlq", WithBackoff(10, 100*time.Millisecond, time.Second))
	b := h.newBackOff()
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond, time.Second, time.Second}
	for i, d := range want {
		assert.Equal(t, d, b.NextBackOff(), "retry %d", i+1)
	}
	for i := 0; i < 80; i++ {
		b.NextBackOff()
	}
	assert.Equal(t, time.Second, b.NextBackOff())

	again := h.newBackOff()
	assert.Equal(t, 100*time.Millisecond, again.NextBackOff(), "each message starts from the base delay")
}

func TestDecodeFieldsKeepsStrings(t *testing.T) {
	fields := decodeFields(map[string]interface{}{"corpusId": "course", "attempt": 3})
	assert.Equal(t, map[string]string{"corpusId": "course"}, fields)
	assert.Equal(t, map[string]interface{}{"corpusId": "course"}, toValues(fields))
}

func TestRetentionMinID(t *testing.T) {
	now := time.UnixMilli(10_000_000)
	assert.Equal(t, "6400000-0", retentionMinID(now, time.Hour))
}

func TestNewConsumerDefaults(t *testing.T) {
	c := NewConsumer(nil, ConsumerOptions{Stream: "s", Group: "g", Name: "n"}, nil, nil)
	assert.Equal(t, int64(10), c.opts.BatchSize)
	assert.Equal(t, time.Minute, c.opts.ClaimIdle)
	assert.Equal(t, time.Hour, c.opts.CleanupInterval)
}
