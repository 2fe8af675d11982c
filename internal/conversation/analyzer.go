package conversation

import (
	"regexp"
	"strings"
)

// Stage is the coarse conversation phase.
type Stage string

const (
	StageGreeting    Stage = "greeting"
	StageInquiry     Stage = "inquiry"
	StageInterested  Stage = "interested"
	StageReadyToBook Stage = "ready_to_book"
	StageOffTopic    Stage = "off_topic"
)

// InterestLevel is an ordered engagement signal.
type InterestLevel int

const (
	InterestNone InterestLevel = iota
	InterestLow
	InterestMedium
	InterestHigh
)

func (l InterestLevel) String() string {
	switch l {
	case InterestLow:
		return "low"
	case InterestMedium:
		return "medium"
	case InterestHigh:
		return "high"
	default:
		return "none"
	}
}

// Analysis is the per-turn derivation from the full visible history. It is
// recomputed from scratch on every call and never persisted.
type Analysis struct {
	Stage                Stage
	Interest             InterestLevel
	TopicsDiscussed      []string
	HasAskedPrices       bool
	HasShownBuyingIntent bool
	ConversationLength   int
}

// topicKeywords maps topic tags to the keyword lists that mark them as
// discussed anywhere in the history.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"website", []string{"hemsida", "website", "webbplats", "web"}},
	{"app", []string{"app", "mobilapp", "application"}},
	{"booking", []string{"bokning", "booking", "bokningssystem"}},
	{"ecommerce", []string{"e-handel", "webshop", "shop", "commerce"}},
	{"pricing", []string{"pris", "kostnad", "price", "cost", "kr", "sek"}},
}

var priceQuestionRE = regexp.MustCompile(`(?i)\b(pris|kostnad|price|cost|hur mycket|how much|vad kostar|what does.*cost)\b`)

var buyingIntentPhrases = []string{
	"vill ha", "behöver", "köpa", "beställa", "boka", "komma igång",
	"want", "need", "buy", "order", "book", "get started", "interested in",
}

// AnalyzeConversation derives stage, interest level and accumulated signals
// from the message history plus the current user message. The full history is
// rescanned each call; identical input yields identical output.
func AnalyzeConversation(history []Message, currentMessage string) Analysis {
	working := history
	if strings.TrimSpace(currentMessage) != "" {
		working = append(append([]Message{}, history...), Message{Role: RoleUser, Text: currentMessage})
	}

	var sb strings.Builder
	userCount := 0
	for _, m := range working {
		sb.WriteString(strings.ToLower(m.Text))
		sb.WriteByte(' ')
		if m.Role == RoleUser {
			userCount++
		}
	}
	allContent := sb.String()

	var topics []string
	for _, tk := range topicKeywords {
		for _, keyword := range tk.keywords {
			if strings.Contains(allContent, keyword) {
				topics = append(topics, tk.topic)
				break
			}
		}
	}

	hasAskedPrices := priceQuestionRE.MatchString(allContent)

	hasBuyingIntent := false
	for _, phrase := range buyingIntentPhrases {
		if strings.Contains(allContent, phrase) {
			hasBuyingIntent = true
			break
		}
	}

	// Stage decision, first match wins.
	stage := StageGreeting
	switch {
	case userCount == 0:
		stage = StageGreeting
	case len(topics) == 0:
		stage = StageInquiry
	case hasAskedPrices || len(topics) > 1:
		stage = StageInterested
	case hasBuyingIntent && hasAskedPrices:
		stage = StageReadyToBook
	}

	interest := InterestNone
	if len(topics) > 0 {
		interest = InterestLow
	}
	if hasAskedPrices {
		interest = InterestMedium
	}
	if hasBuyingIntent && hasAskedPrices {
		interest = InterestHigh
	}

	return Analysis{
		Stage:                stage,
		Interest:             interest,
		TopicsDiscussed:      topics,
		HasAskedPrices:       hasAskedPrices,
		HasShownBuyingIntent: hasBuyingIntent,
		ConversationLength:   userCount,
	}
}
