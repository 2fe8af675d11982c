package conversation

import "strings"

// Language is a supported assistant language.
type Language string

const (
	LanguageSwedish Language = "sv"
	LanguageEnglish Language = "en"
)

// swedishIndicators are common Swedish words and business vocabulary used for
// language detection. Matching is case-insensitive substring containment.
var swedishIndicators = []string{
	"hej", "tack", "och", "är", "för", "med", "på", "av", "till", "från",
	"vad", "hur", "när", "var", "varför", "kan", "vill", "ska", "skulle",
	"tjänst", "företag", "pris", "kostnad", "hemsida", "bokning",
}

var englishIndicators = []string{
	"hello", "hi", "thank", "thanks", "and", "the", "for", "with", "from", "to",
	"what", "how", "when", "where", "why", "can", "will", "would", "should",
	"service", "company", "price", "cost", "website", "booking",
}

// DetectLanguage guesses the message language by counting indicator-word
// occurrences. Ties and empty input default to Swedish.
func DetectLanguage(message string) Language {
	lower := strings.ToLower(message)

	var svScore, enScore int
	for _, word := range swedishIndicators {
		if strings.Contains(lower, word) {
			svScore++
		}
	}
	for _, word := range englishIndicators {
		if strings.Contains(lower, word) {
			enScore++
		}
	}

	if enScore > svScore {
		return LanguageEnglish
	}
	return LanguageSwedish
}
