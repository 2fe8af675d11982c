package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/axiestudio/assistant-api/internal/config"
	"github.com/axiestudio/assistant-api/internal/conversation"
	"github.com/axiestudio/assistant-api/internal/knowledge"
	"github.com/axiestudio/assistant-api/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, falling back to in-memory stores", "error", err)
		return nil
	}
	return client
}

// BuildStateStore returns a Redis-backed session state store when a client is
// available, otherwise an in-memory store.
func BuildStateStore(client *redis.Client, cfg *appconfig.Config, logger *logging.Logger) conversation.StateStore {
	if client == nil {
		logger.Info("session state store: in-memory")
		return conversation.NewMemoryStateStore()
	}
	logger.Info("session state store: redis", "ttl", cfg.SessionTTL)
	return conversation.NewRedisStateStore(client, cfg.SessionTTL)
}

// BuildTranscriptStore returns a Redis-backed transcript store when a client
// is available, otherwise an in-memory store.
func BuildTranscriptStore(client *redis.Client, cfg *appconfig.Config, logger *logging.Logger) conversation.TranscriptStore {
	if client == nil {
		logger.Info("transcript store: in-memory")
		return conversation.NewMemoryTranscriptStore(cfg.TranscriptLimit)
	}
	logger.Info("transcript store: redis", "ttl", cfg.SessionTTL)
	return conversation.NewRedisTranscriptStore(client, cfg.SessionTTL, int64(cfg.TranscriptLimit))
}

// BuildKnowledge returns the knowledge source. With Redis available, document
// content can be overridden at runtime; otherwise the embedded content serves.
func BuildKnowledge(client *redis.Client, logger *logging.Logger) knowledge.Source {
	if client == nil {
		logger.Info("knowledge source: embedded content")
		return knowledge.NewLibrary(nil)
	}
	logger.Info("knowledge source: redis-backed with embedded fallback")
	return knowledge.NewLibrary(knowledge.NewRedisContent(client))
}
