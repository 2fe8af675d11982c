package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TranscriptStore is the append-only message log for a chat session.
type TranscriptStore interface {
	Append(ctx context.Context, sessionID string, msg Message) error
	List(ctx context.Context, sessionID string, limit int64) ([]Message, error)
}

const transcriptKeyPrefix = "chat_transcript:"

// RedisTranscriptStore keeps transcripts in Redis lists, trimmed to a bounded
// length with a sliding TTL.
type RedisTranscriptStore struct {
	redis       *redis.Client
	tracer      trace.Tracer
	ttl         time.Duration
	maxMessages int64
}

func NewRedisTranscriptStore(redisClient *redis.Client, ttl time.Duration, maxMessages int64) *RedisTranscriptStore {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	if maxMessages <= 0 {
		maxMessages = 250
	}
	return &RedisTranscriptStore{
		redis:       redisClient,
		tracer:      otel.Tracer("axie.internal.conversation.transcript"),
		ttl:         ttl,
		maxMessages: maxMessages,
	}
}

func (s *RedisTranscriptStore) Append(ctx context.Context, sessionID string, msg Message) error {
	if sessionID == "" {
		return errors.New("conversation: transcript sessionID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("conversation: marshal transcript message: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "conversation.transcript.append")
	defer span.End()

	key := transcriptKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	pipe.LTrim(ctx, key, -s.maxMessages, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("conversation: append transcript message: %w", err)
	}
	return nil
}

func (s *RedisTranscriptStore) List(ctx context.Context, sessionID string, limit int64) ([]Message, error) {
	if sessionID == "" {
		return nil, errors.New("conversation: transcript sessionID required")
	}
	if limit <= 0 {
		limit = s.maxMessages
	}

	ctx, span := s.tracer.Start(ctx, "conversation.transcript.list")
	defer span.End()

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), -limit, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("conversation: list transcript: %w", err)
	}

	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			// Skip corrupt entries rather than failing the whole read.
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func transcriptKey(sessionID string) string {
	return transcriptKeyPrefix + sessionID
}

// MemoryTranscriptStore is an in-memory TranscriptStore for tests and
// single-node dev.
type MemoryTranscriptStore struct {
	mu          sync.RWMutex
	transcripts map[string][]Message
	maxMessages int
}

func NewMemoryTranscriptStore(maxMessages int) *MemoryTranscriptStore {
	if maxMessages <= 0 {
		maxMessages = 250
	}
	return &MemoryTranscriptStore{
		transcripts: make(map[string][]Message),
		maxMessages: maxMessages,
	}
}

func (s *MemoryTranscriptStore) Append(_ context.Context, sessionID string, msg Message) error {
	if sessionID == "" {
		return errors.New("conversation: transcript sessionID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.transcripts[sessionID], msg)
	if len(list) > s.maxMessages {
		list = list[len(list)-s.maxMessages:]
	}
	s.transcripts[sessionID] = list
	return nil
}

func (s *MemoryTranscriptStore) List(_ context.Context, sessionID string, limit int64) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.transcripts[sessionID]
	if limit > 0 && int64(len(list)) > limit {
		list = list[int64(len(list))-limit:]
	}
	out := make([]Message, len(list))
	copy(out, list)
	return out, nil
}
