package knowledge

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const contentKeyPrefix = "knowledge:docs:"

// RedisContent serves snippet content from Redis, falling back to the
// embedded defaults for snippets with no stored override. This lets content
// edits ship without a redeploy while the binary stays self-sufficient.
type RedisContent struct {
	client   *redis.Client
	tracer   trace.Tracer
	fallback ContentProvider
}

func NewRedisContent(client *redis.Client) *RedisContent {
	if client == nil {
		return nil
	}
	return &RedisContent{
		client:   client,
		tracer:   otel.Tracer("axie.internal.knowledge"),
		fallback: EmbeddedContent{},
	}
}

func (r *RedisContent) Content(ctx context.Context, lang, name string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "knowledge.content.get")
	defer span.End()

	val, err := r.client.Get(ctx, contentKey(lang, name)).Result()
	if err == nil && val != "" {
		return val, nil
	}
	if err != nil && err != redis.Nil {
		// Soft-fail to the embedded default; the caller treats knowledge as
		// best effort.
		return r.fallback.Content(ctx, lang, name)
	}
	return r.fallback.Content(ctx, lang, name)
}

// SetContent stores an override for one snippet.
func (r *RedisContent) SetContent(ctx context.Context, lang, name, content string) error {
	ctx, span := r.tracer.Start(ctx, "knowledge.content.set")
	defer span.End()

	if err := r.client.Set(ctx, contentKey(lang, name), content, 0).Err(); err != nil {
		return fmt.Errorf("knowledge: set snippet %s-%s: %w", name, lang, err)
	}
	return nil
}

func contentKey(lang, name string) string {
	return fmt.Sprintf("%s%s:%s", contentKeyPrefix, lang, name)
}
