package knowledge

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedContentReadsAllSnippets(t *testing.T) {
	provider := EmbeddedContent{}

	for _, name := range []string{"security", "company-info", "services"} {
		for _, lang := range []string{"sv", "en"} {
			content, err := provider.Content(context.Background(), lang, name)
			require.NoError(t, err, "%s-%s", name, lang)
			assert.NotEmpty(t, content)
		}
	}
}

func TestEmbeddedContentUnknownSnippet(t *testing.T) {
	_, err := EmbeddedContent{}.Content(context.Background(), "sv", "missing")
	assert.Error(t, err)
}

func TestRelevantContextMatchesServices(t *testing.T) {
	lib := NewLibrary(nil)

	block, err := lib.RelevantContext(context.Background(), "vad kostar en hemsida?", "sv")
	require.NoError(t, err)

	assert.Contains(t, block, "=== SERVICES INFORMATION ===")
	assert.NotContains(t, block, "=== SECURITY INFORMATION ===")
}

func TestRelevantContextMatchesMultipleSnippetsInOrder(t *testing.T) {
	lib := NewLibrary(nil)

	block, err := lib.RelevantContext(context.Background(), "what are your security rules and your prices for a website?", "en")
	require.NoError(t, err)

	security := strings.Index(block, "=== SECURITY INFORMATION ===")
	services := strings.Index(block, "=== SERVICES INFORMATION ===")
	require.Greater(t, security, -1)
	require.Greater(t, services, -1)
	assert.Less(t, security, services)
}

func TestRelevantContextInfoTriggerFallback(t *testing.T) {
	lib := NewLibrary(nil)

	// "leveranstid" is an info trigger but not a snippet keyword.
	block, err := lib.RelevantContext(context.Background(), "vad är er leveranstid?", "sv")
	require.NoError(t, err)

	assert.Contains(t, block, "=== COMPANY-INFO INFORMATION ===")
	assert.Contains(t, block, "=== SERVICES INFORMATION ===")
}

func TestRelevantContextNoMatch(t *testing.T) {
	lib := NewLibrary(nil)

	block, err := lib.RelevantContext(context.Background(), "hmm okej", "sv")
	require.NoError(t, err)
	assert.Empty(t, block)
}

type failingProvider struct{}

func (failingProvider) Content(context.Context, string, string) (string, error) {
	return "", assert.AnError
}

func TestRelevantContextProviderFailureDegrades(t *testing.T) {
	lib := NewLibrary(failingProvider{})

	block, err := lib.RelevantContext(context.Background(), "vad kostar en hemsida?", "sv")
	require.NoError(t, err)
	assert.Empty(t, block)
}

func TestRedisContentOverrideAndFallback(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	provider := NewRedisContent(client)
	ctx := context.Background()

	// No override stored; the embedded default serves.
	embedded, err := provider.Content(ctx, "sv", "services")
	require.NoError(t, err)
	assert.NotEmpty(t, embedded)

	require.NoError(t, provider.SetContent(ctx, "sv", "services", "uppdaterad tjänstelista"))

	got, err := provider.Content(ctx, "sv", "services")
	require.NoError(t, err)
	assert.Equal(t, "uppdaterad tjänstelista", got)
}

func TestRedisContentUnavailableFallsBackToEmbedded(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	provider := NewRedisContent(client)
	mr.Close()

	got, err := provider.Content(context.Background(), "en", "services")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
