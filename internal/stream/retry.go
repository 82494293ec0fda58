package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RetryHandler runs a message handler with exponential backoff and moves
// messages that keep failing to a dead letter stream.
type RetryHandler struct {
	client        *redis.Client
	deadLetterKey string
	maxRetries    int
	baseDelay     time.Duration
	maxDelay      time.Duration
	permanent     []error

	// publish writes a dead letter entry; XAdd on deadLetterKey by default.
	publish func(ctx context.Context, values map[string]interface{}) error
}

type RetryOption func(*RetryHandler)

// WithBackoff sets the number of retries after the first attempt and the
// delay bounds.
func WithBackoff(maxRetries int, base, maxDelay time.Duration) RetryOption {
	return func(h *RetryHandler) {
		h.maxRetries = maxRetries
		h.baseDelay = base
		h.maxDelay = maxDelay
	}
}

// WithPermanentErrors lists errors that are sent to the dead letter queue
// without retrying.
func WithPermanentErrors(errs ...error) RetryOption {
	return func(h *RetryHandler) {
		h.permanent = append(h.permanent, errs...)
	}
}

func NewRetryHandler(client *redis.Client, deadLetterKey string, opts ...RetryOption) *RetryHandler {
	h := &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
		maxRetries:    3,
		baseDelay:     500 * time.Millisecond,
		maxDelay:      10 * time.Second,
	}
	h.publish = h.xadd
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RetryWithBackoff calls fn until it succeeds, fails permanently or runs out
// of retries. A message that fails for good is written to the dead letter
// stream with its original fields. A cancelled ctx returns at once without
// dead-lettering.
func (h *RetryHandler) RetryWithBackoff(ctx context.Context, fn func() error, messageID string, fields map[string]interface{}) error {
	var err error
	b := h.newBackOff()
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			delay := b.NextBackOff()
			log.Debug().
				Str("message_id", messageID).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying message")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if h.isPermanent(err) {
			log.Warn().Err(err).Str("message_id", messageID).Msg("Permanent failure, skipping retries")
			break
		}
		log.Warn().Err(err).Str("message_id", messageID).Int("attempt", attempt+1).Msg("Message processing failed")
	}

	if dlqErr := h.sendToDeadLetter(ctx, messageID, fields, err); dlqErr != nil {
		return errors.Join(err, dlqErr)
	}
	return err
}

// newBackOff returns the delays between attempts: baseDelay doubling up to
// maxDelay, without jitter. The retry count bounds the attempts.
func (h *RetryHandler) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = h.baseDelay
	b.MaxInterval = h.maxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (h *RetryHandler) isPermanent(err error) bool {
	for _, p := range h.permanent {
		if errors.Is(err, p) {
			return true
		}
	}
	return false
}

func (h *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}, cause error) error {
	values := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		values[k] = v
	}
	values["original_id"] = messageID
	values["error"] = cause.Error()
	values["failed_at"] = time.Now().UTC().Format(time.RFC3339)

	if err := h.publish(ctx, values); err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("Failed to send message to dead letter queue")
		return fmt.Errorf("failed to send to dead letter queue: %w", err)
	}

	log.Warn().
		Str("message_id", messageID).
		Str("dlq", h.deadLetterKey).
		Msg("Message moved to dead letter queue")
	return nil
}

func (h *RetryHandler) xadd(ctx context.Context, values map[string]interface{}) error {
	return h.client.XAdd(ctx, &redis.XAddArgs{
		Stream: h.deadLetterKey,
		Values: values,
	}).Err()
}
