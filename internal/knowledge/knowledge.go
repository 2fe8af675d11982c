// Package knowledge resolves company information snippets for the prompt
// assembler. Snippet keyword indexes live in code; snippet content comes from
// embedded defaults, optionally overridden per snippet in Redis.
package knowledge

import (
	"context"
	"embed"
	"fmt"
	"strings"
)

//go:embed data/*.txt
var dataFS embed.FS

// Source resolves the knowledge block for a message, or "" when nothing
// matches. Implementations must treat lookup failure as a soft condition.
type Source interface {
	RelevantContext(ctx context.Context, message, lang string) (string, error)
}

// snippetIndex describes one snippet: its name, language, and the keywords
// that make it relevant to a message.
type snippetIndex struct {
	name     string
	lang     string
	keywords []string
}

var snippetIndexes = []snippetIndex{
	{"security", "sv", []string{"säkerhet", "regler", "policy", "riktlinjer", "moderering", "hat", "spam", "olämpligt"}},
	{"company-info", "sv", []string{"axie studio", "företag", "om oss", "mission", "vision", "värderingar", "team", "kontakt", "certifiering"}},
	{"services", "sv", []string{"tjänster", "service", "hemsida", "website", "app", "bokning", "booking", "onboarding", "pris", "kostnad", "utveckling"}},
	{"security", "en", []string{"security", "rules", "policy", "guidelines", "moderation", "hate", "spam", "inappropriate"}},
	{"company-info", "en", []string{"axie studio", "company", "about us", "mission", "vision", "values", "team", "contact", "certification"}},
	{"services", "en", []string{"services", "service", "website", "app", "booking", "onboarding", "price", "cost", "development"}},
}

// infoTriggers widen the net: a message hitting one of these without hitting
// any snippet keywords still gets the company basics included.
var infoTriggers = map[string][]string{
	"sv": {
		"axie studio", "företag", "om er", "om oss", "vem är ni", "kontakt", "adress", "telefon",
		"tjänst", "service", "pris", "kostnad", "hemsida", "website", "app", "utveckling",
		"bokning", "booking", "onboarding", "konsultation",
		"hur fungerar", "process", "leveranstid", "timeline", "betalning",
		"teknologi", "platform", "cms", "databas", "hosting", "domän",
	},
	"en": {
		"axie studio", "company", "about you", "about us", "who are you", "contact", "address", "phone",
		"service", "services", "price", "cost", "website", "app", "development",
		"booking", "onboarding", "consultation",
		"how does", "process", "delivery time", "timeline", "payment",
		"technology", "platform", "cms", "database", "hosting", "domain",
	},
}

// ContentProvider returns the content of one snippet.
type ContentProvider interface {
	Content(ctx context.Context, lang, name string) (string, error)
}

// EmbeddedContent serves snippet content from the files compiled into the
// binary.
type EmbeddedContent struct{}

func (EmbeddedContent) Content(_ context.Context, lang, name string) (string, error) {
	data, err := dataFS.ReadFile(fmt.Sprintf("data/%s-%s.txt", name, lang))
	if err != nil {
		return "", fmt.Errorf("knowledge: read embedded snippet %s-%s: %w", name, lang, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Library matches messages to snippets and assembles the knowledge block. A
// provider failure for one snippet degrades to skipping it.
type Library struct {
	provider ContentProvider
}

// NewLibrary creates a snippet library over the given content provider. A nil
// provider falls back to embedded content.
func NewLibrary(provider ContentProvider) *Library {
	if provider == nil {
		provider = EmbeddedContent{}
	}
	return &Library{provider: provider}
}

// RelevantContext returns the concatenated content of every snippet whose
// keywords match the message, in index order. When no snippet matches but an
// info trigger does, the company basics are returned instead.
func (l *Library) RelevantContext(ctx context.Context, message, lang string) (string, error) {
	lower := strings.ToLower(message)

	var b strings.Builder
	for _, idx := range snippetIndexes {
		if idx.lang != lang {
			continue
		}
		if !containsAny(lower, idx.keywords) {
			continue
		}
		l.appendSnippet(ctx, &b, lang, idx.name)
	}

	if b.Len() == 0 && containsAny(lower, infoTriggers[lang]) {
		l.appendSnippet(ctx, &b, lang, "company-info")
		l.appendSnippet(ctx, &b, lang, "services")
	}

	return strings.TrimSpace(b.String()), nil
}

func (l *Library) appendSnippet(ctx context.Context, b *strings.Builder, lang, name string) {
	content, err := l.provider.Content(ctx, lang, name)
	if err != nil || content == "" {
		return
	}
	fmt.Fprintf(b, "\n=== %s INFORMATION ===\n%s\n", strings.ToUpper(name), content)
}

func containsAny(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
