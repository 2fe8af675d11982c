package conversation

import "strings"

// offTopicKeywords flags subjects the assistant does not handle: math,
// geography, sports, personal topics, food, weather, health, education and
// entertainment.
var offTopicKeywords = map[Language][]string{
	LanguageSwedish: {
		"räkna", "matematik", "matte", "kalkyl", "plus", "minus", "gånger", "delat", "1+1", "beräkna",
		"geografi", "sverige", "storlek", "area", "befolkning", "huvudstad", "land", "kontinent",
		"backflip", "bakåtvolter", "sport", "träning", "gym", "löpning", "simning", "fotboll",
		"personlig", "privat", "familj", "vänner", "kärlek", "dejting", "förhållande",
		"mat", "recept", "koka", "laga mat", "ingredienser", "restaurang tips",
		"väder", "temperatur", "regn", "sol", "nyheter", "politik", "regering",
		"hälsa", "medicin", "sjukdom", "läkare", "behandling", "symtom",
		"skola", "utbildning", "universitet", "jobb", "karriär", "anställning",
		"film", "musik", "spel", "tv-serie", "bok", "konsert", "teater",
	},
	LanguageEnglish: {
		"calculate", "math", "mathematics", "plus", "minus", "times", "divided", "1+1", "compute",
		"geography", "sweden", "size", "area", "population", "capital", "country", "continent",
		"backflip", "sports", "exercise", "gym", "running", "swimming", "football", "basketball",
		"personal", "private", "family", "friends", "love", "dating", "relationship",
		"food", "recipe", "cook", "cooking", "ingredients", "restaurant recommendations",
		"weather", "temperature", "rain", "sun", "news", "politics", "government",
		"health", "medicine", "disease", "doctor", "treatment", "symptoms",
		"school", "education", "university", "job", "career", "employment",
		"movie", "music", "game", "tv show", "book", "concert", "theater",
	},
}

// businessKeywords is the allowlist: a message mentioning any of these is
// never off-topic, regardless of other matches.
var businessKeywords = map[Language][]string{
	LanguageSwedish: {
		"axie", "studio", "hemsida", "website", "app", "bokning", "booking", "tjänst",
		"service", "pris", "kostnad", "utveckling", "design", "konsultation", "företag",
		"digitala", "lösningar",
	},
	LanguageEnglish: {
		"axie", "studio", "website", "app", "booking", "service", "price", "cost",
		"development", "design", "consultation", "company", "digital", "solutions",
	},
}

// IsMessageOffTopic reports whether a single message is off-topic: it matches
// at least one off-topic keyword and no business keyword. Pure predicate.
func IsMessageOffTopic(message string, lang Language) bool {
	lower := strings.ToLower(message)

	for _, keyword := range keywordsFor(businessKeywords, lang) {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	for _, keyword := range keywordsFor(offTopicKeywords, lang) {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// CheckOffTopic applies the escalation rule over recentUserMessages (prior
// user turns, current excluded): when at least two of the last three prior
// turns were themselves off-topic, the current turn is forced off-topic
// regardless of its content.
func CheckOffTopic(message string, lang Language, recentUserMessages []string) bool {
	window := lastN(recentUserMessages, 3)
	offTopicCount := 0
	for _, prev := range window {
		if IsMessageOffTopic(prev, lang) {
			offTopicCount++
		}
	}
	if offTopicCount >= 2 {
		return true
	}

	return IsMessageOffTopic(message, lang)
}

func keywordsFor(m map[Language][]string, lang Language) []string {
	if kws, ok := m[lang]; ok {
		return kws
	}
	return m[LanguageSwedish]
}
