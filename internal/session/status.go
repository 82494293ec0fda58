package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/codeplag/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned for a session that never existed or has expired.
var ErrNotFound = errors.New("session not found")

// Store keeps the step and report of each session. Nothing in a Store
// outlives the session TTL.
type Store interface {
	SetStep(ctx context.Context, sessionID string, step models.Step) error
	Step(ctx context.Context, sessionID string) (models.Step, error)
	SaveReport(ctx context.Context, report *models.SessionReport) error
	Report(ctx context.Context, sessionID string) (*models.SessionReport, error)
}

var validSteps = map[models.Step]bool{
	models.StepIdle:        true,
	models.StepInitiated:   true,
	models.StepStarted:     true,
	models.StepLoading:     true,
	models.StepNormalizing: true,
	models.StepComparing:   true,
	models.StepCompleted:   true,
	models.StepFailed:      true,
}

func ValidateStep(step models.Step) error {
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}
	return nil
}

func statusKey(sessionID string) string { return "codeplag:session_status:" + sessionID }
func reportKey(sessionID string) string { return "codeplag:session_report:" + sessionID }

// RedisStore is a Store whose keys expire after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) SetStep(ctx context.Context, sessionID string, step models.Step) error {
	if err := ValidateStep(step); err != nil {
		return err
	}

	rkey := statusKey(sessionID)
	err := s.client.Set(ctx, rkey, string(step), s.ttl).Err()
	if err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("sessionId", sessionID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("sessionId", sessionID).
		Msg("Status updated in Redis")

	return nil
}

func (s *RedisStore) Step(ctx context.Context, sessionID string) (models.Step, error) {
	step, err := s.client.Get(ctx, statusKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read status from Redis: %w", err)
	}
	return models.Step(step), nil
}

// SaveReport stores report and its step in one transaction.
func (s *RedisStore) SaveReport(ctx context.Context, report *models.SessionReport) error {
	if err := ValidateStep(report.Step); err != nil {
		return err
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, reportKey(report.SessionID), payload, s.ttl)
		pipe.Set(ctx, statusKey(report.SessionID), string(report.Step), s.ttl)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("sessionId", report.SessionID).Msg("Failed to store report in Redis")
		return fmt.Errorf("failed to store report in Redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Report(ctx context.Context, sessionID string) (*models.SessionReport, error) {
	payload, err := s.client.Get(ctx, reportKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report from Redis: %w", err)
	}

	var report models.SessionReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}
