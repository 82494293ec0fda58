package config

import (
	"fmt"
	"time"

	"github.com/RishiKendai/codeplag/internal/configs/env"
	"github.com/RishiKendai/codeplag/internal/normalize"
	"github.com/RishiKendai/codeplag/internal/plagiarism"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisDB                 int
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Concurrency
	MaxConcurrentCompute int
	WorkerCount          int

	// Computation
	ComputationTimeout time.Duration
	SessionTTL         time.Duration

	// Comparison defaults
	DefaultAlgorithm    string
	DefaultFeatures     []normalize.Feature
	MethodThreshold     plagiarism.Threshold
	PrefilterCandidates bool
	PrefilterMinOverlap float64

	// Normalized copies
	StoreNormalized bool

	// Logging
	LogLevel  string
	LogFormat string

	// Server
	ServerPort  string
	MetricsPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = env.GetEnvInt("REDIS_DB", 0)
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "codeplag:submissions")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "codeplag:group")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "codeplag:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_HOURS", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "codeplag")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Concurrency
	cfg.MaxConcurrentCompute = env.GetEnvInt("MAX_CONCURRENT_COMPUTE", 5)
	cfg.WorkerCount = env.GetEnvInt("WORKER_COUNT", 0)

	// Computation
	timeoutMinutes := env.GetEnvInt("COMPUTATION_TIMEOUT_MINUTES", 30)
	cfg.ComputationTimeout = time.Duration(timeoutMinutes) * time.Minute
	ttlHours := env.GetEnvInt("SESSION_TTL_HOURS", 12)
	cfg.SessionTTL = time.Duration(ttlHours) * time.Hour

	// Comparison defaults
	cfg.DefaultAlgorithm = env.GetEnv("DEFAULT_ALGORITHM", "fingerprint")
	features, err := normalize.ParseFeatures(env.GetEnvList("DEFAULT_FEATURES", []string{"all"}))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_FEATURES: %w", err)
	}
	cfg.DefaultFeatures = features
	threshold, err := plagiarism.ParseThreshold(env.GetEnv("METHOD_THRESHOLD", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid METHOD_THRESHOLD: %w", err)
	}
	cfg.MethodThreshold = threshold
	cfg.PrefilterCandidates = env.GetEnvBool("PREFILTER_CANDIDATES", false)
	cfg.PrefilterMinOverlap = env.GetEnvFloat("PREFILTER_MIN_OVERLAP", 0.0)

	// Normalized copies
	cfg.StoreNormalized = env.GetEnvBool("STORE_NORMALIZED", true)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")
	cfg.LogFormat = env.GetEnv("LOG_FORMAT", "json")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")
	cfg.MetricsPort = env.GetEnv("METRICS_PORT", "2112")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxConcurrentCompute <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_COMPUTE must be greater than 0")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_HOURS must be greater than 0")
	}
	if c.ComputationTimeout <= 0 {
		return fmt.Errorf("COMPUTATION_TIMEOUT_MINUTES must be greater than 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be greater than 0")
	}
	if c.PrefilterMinOverlap < 0 || c.PrefilterMinOverlap > 1 {
		return fmt.Errorf("PREFILTER_MIN_OVERLAP must be between 0 and 1")
	}
	if _, err := plagiarism.NewAlgorithm(c.DefaultAlgorithm); err != nil {
		return fmt.Errorf("invalid DEFAULT_ALGORITHM: %w", err)
	}
	return nil
}
