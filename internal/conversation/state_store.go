package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// SessionState carries the per-session counters owned by the classification
// pipeline. Counters only grow; Reset is the single manual exception.
type SessionState struct {
	ViolationCount       int
	OffTopicAttempts     int
	UserTurns            int
	LastBookingShownTurn int // 1-based user-turn index, 0 = never shown
}

// StateStore persists session classification state keyed by session id.
type StateStore interface {
	Get(ctx context.Context, sessionID string) (SessionState, error)
	Put(ctx context.Context, sessionID string, state SessionState) error
	Reset(ctx context.Context, sessionID string) error
}

// MemoryStateStore is an in-memory StateStore for tests and single-node dev.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]SessionState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]SessionState)}
}

func (s *MemoryStateStore) Get(_ context.Context, sessionID string) (SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[sessionID], nil
}

func (s *MemoryStateStore) Put(_ context.Context, sessionID string, state SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = state
	return nil
}

func (s *MemoryStateStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

const sessionStateKeyPrefix = "session_state:"

// RedisStateStore keeps session state in a Redis hash with a sliding TTL.
type RedisStateStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

func NewRedisStateStore(redisClient *redis.Client, ttl time.Duration) *RedisStateStore {
	if redisClient == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisStateStore{
		redis:  redisClient,
		tracer: otel.Tracer("axie.internal.conversation.session_state"),
		ttl:    ttl,
	}
}

func (s *RedisStateStore) Get(ctx context.Context, sessionID string) (SessionState, error) {
	if sessionID == "" {
		return SessionState{}, errors.New("conversation: session state sessionID required")
	}
	ctx, span := s.tracer.Start(ctx, "conversation.session_state.get")
	defer span.End()

	fields, err := s.redis.HGetAll(ctx, sessionStateKey(sessionID)).Result()
	if err != nil {
		return SessionState{}, fmt.Errorf("conversation: get session state: %w", err)
	}

	return SessionState{
		ViolationCount:       atoiField(fields, "violations"),
		OffTopicAttempts:     atoiField(fields, "off_topic"),
		UserTurns:            atoiField(fields, "user_turns"),
		LastBookingShownTurn: atoiField(fields, "booking_shown_turn"),
	}, nil
}

func (s *RedisStateStore) Put(ctx context.Context, sessionID string, state SessionState) error {
	if sessionID == "" {
		return errors.New("conversation: session state sessionID required")
	}
	ctx, span := s.tracer.Start(ctx, "conversation.session_state.put")
	defer span.End()

	key := sessionStateKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, key,
		"violations", state.ViolationCount,
		"off_topic", state.OffTopicAttempts,
		"user_turns", state.UserTurns,
		"booking_shown_turn", state.LastBookingShownTurn,
	)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("conversation: put session state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Reset(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "conversation.session_state.reset")
	defer span.End()

	if err := s.redis.Del(ctx, sessionStateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("conversation: reset session state: %w", err)
	}
	return nil
}

func sessionStateKey(sessionID string) string {
	return sessionStateKeyPrefix + sessionID
}

func atoiField(fields map[string]string, name string) int {
	v, err := strconv.Atoi(fields[name])
	if err != nil {
		return 0
	}
	return v
}
