package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RishiKendai/codeplag/internal/metrics"
	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Processor stores a submission read from the stream.
type Processor interface {
	ProcessSubmission(ctx context.Context, submission *models.Submission) error
}

// ConsumerOptions configures a Consumer. Zero durations and counts take the
// defaults of NewConsumer.
type ConsumerOptions struct {
	Stream string
	Group  string
	Name   string

	// Retention is how long entries stay in the stream before trimming.
	Retention time.Duration

	BatchSize       int64
	Block           time.Duration
	ClaimIdle       time.Duration
	ClaimInterval   time.Duration
	CleanupInterval time.Duration
}

// Consumer reads submissions from a Redis stream through a consumer group
// and hands them to a Processor. Entries left pending by a crashed consumer
// are reclaimed once idle for ClaimIdle.
type Consumer struct {
	client    *redis.Client
	opts      ConsumerOptions
	processor Processor
	retry     *RetryHandler
	logger    zerolog.Logger

	lastClaim time.Time
}

func NewConsumer(client *redis.Client, opts ConsumerOptions, processor Processor, retry *RetryHandler) *Consumer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.Block <= 0 {
		opts.Block = time.Second
	}
	if opts.ClaimIdle <= 0 {
		opts.ClaimIdle = time.Minute
	}
	if opts.ClaimInterval <= 0 {
		opts.ClaimInterval = 30 * time.Second
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Hour
	}
	return &Consumer{
		client:    client,
		opts:      opts,
		processor: processor,
		retry:     retry,
		logger: log.With().
			Str("stream", opts.Stream).
			Str("group", opts.Group).
			Str("consumer", opts.Name).
			Logger(),
	}
}

// Start consumes until ctx is done and returns ctx.Err().
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to create consumer group")
	}

	c.reclaim(ctx)
	if c.opts.Retention > 0 {
		go c.trimPeriodically(ctx)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Since(c.lastClaim) > c.opts.ClaimInterval {
			c.reclaim(ctx)
		}
		if err := c.readBatch(ctx); err != nil && ctx.Err() == nil {
			c.logger.Error().Err(err).Msg("Error consuming submissions")
			sleep(ctx, time.Second)
		}
	}
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	// MKSTREAM creates the stream when no producer has written yet
	err := c.client.XGroupCreateMkStream(ctx, c.opts.Stream, c.opts.Group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

// reclaim takes over entries another consumer left pending and processes
// them.
func (c *Consumer) reclaim(ctx context.Context) {
	c.lastClaim = time.Now()
	start := "0-0"
	for {
		msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.opts.Stream,
			Group:    c.opts.Group,
			Consumer: c.opts.Name,
			MinIdle:  c.opts.ClaimIdle,
			Start:    start,
			Count:    c.opts.BatchSize,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				c.logger.Warn().Err(err).Msg("Failed to reclaim pending submissions")
			}
			return
		}
		if len(msgs) > 0 {
			c.logger.Info().Int("claimed", len(msgs)).Msg("Reclaimed pending submissions")
		}
		for i := range msgs {
			c.handle(ctx, &msgs[i])
		}
		if next == "0-0" || len(msgs) == 0 {
			return
		}
		start = next
	}
}

func (c *Consumer) readBatch(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.opts.Group,
		Consumer: c.opts.Name,
		Streams:  []string{c.opts.Stream, ">"},
		Count:    c.opts.BatchSize,
		Block:    c.opts.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, s := range streams {
		for i := range s.Messages {
			c.handle(ctx, &s.Messages[i])
		}
	}
	return nil
}

// handle stores one entry. Entries that cannot become a submission go
// straight to the dead letter stream; an entry interrupted by shutdown stays
// pending so that it is reclaimed later.
func (c *Consumer) handle(ctx context.Context, msg *redis.XMessage) {
	fields := decodeFields(msg.Values)
	logger := c.logger.With().Str("message_id", msg.ID).Str("corpusId", fields["corpusId"]).Logger()

	submission, err := ParseSubmission(&StreamMessage{ID: msg.ID, Fields: fields})
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected malformed submission")
		if dlqErr := c.retry.sendToDeadLetter(ctx, msg.ID, toValues(fields), err); dlqErr != nil {
			return
		}
		c.ack(ctx, msg.ID)
		return
	}

	err = c.retry.RetryWithBackoff(ctx, func() error {
		return c.processor.ProcessSubmission(ctx, submission)
	}, msg.ID, toValues(fields))
	switch {
	case err == nil:
		metrics.SubmissionsIngested.WithLabelValues("stream").Inc()
		c.ack(ctx, msg.ID)
	case ctx.Err() != nil:
		logger.Debug().Msg("Left submission pending on shutdown")
	default:
		// RetryWithBackoff already wrote the dead letter entry
		logger.Error().Err(err).Msg("Submission failed")
		c.ack(ctx, msg.ID)
	}
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.opts.Stream, c.opts.Group, id).Err(); err != nil {
		c.logger.Error().Err(err).Str("message_id", id).Msg("Failed to acknowledge message")
	}
}

func (c *Consumer) trimPeriodically(ctx context.Context) {
	ticker := time.NewTicker(c.opts.CleanupInterval)
	defer ticker.Stop()
	for {
		c.trim(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Consumer) trim(ctx context.Context) {
	minID := retentionMinID(time.Now(), c.opts.Retention)
	trimmed, err := c.client.XTrimMinID(ctx, c.opts.Stream, minID).Result()
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Error().Err(err).Msg("Failed to trim stream")
		}
		return
	}
	if trimmed > 0 {
		c.logger.Debug().Int64("trimmed", trimmed).Str("min_id", minID).Msg("Trimmed old submissions from stream")
	}
}

// retentionMinID is the smallest stream id kept when entries older than
// retention are dropped.
func retentionMinID(now time.Time, retention time.Duration) string {
	return fmt.Sprintf("%d-0", now.Add(-retention).UnixMilli())
}

// decodeFields keeps the string-valued fields of a stream entry.
func decodeFields(values map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	return fields
}

func toValues(fields map[string]string) map[string]interface{} {
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	return values
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
