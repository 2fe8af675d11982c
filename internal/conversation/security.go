package conversation

import "strings"

// SecurityResult is the outcome of screening a single inbound message.
type SecurityResult struct {
	// IsViolation is true if the message should NOT be sent to the LLM.
	IsViolation bool
	// Reason is the category label of the first matching violation list.
	Reason string
}

// ReasonRepeatedViolations is returned when the recent history window itself
// is saturated with violations, independent of the current message.
const ReasonRepeatedViolations = "Repeated security violations detected"

// violationCategory pairs a keyword set with its reason label. Categories are
// checked in order; the first one with any matching keyword wins.
type violationCategory struct {
	keywords []string
	reason   string
}

var violationCategories = map[Language][]violationCategory{
	LanguageSwedish: {
		{[]string{"hat", "hatar", "idiot", "dum", "korkad", "jävla", "fan", "skit"}, "Inappropriate language detected"},
		{[]string{"spam", "reklam", "köp nu", "gratis pengar", "vinn pengar"}, "Spam content detected"},
		{[]string{"personuppgifter", "personnummer", "lösenord", "bankuppgifter"}, "Personal information sharing"},
		{[]string{"min ai", "my ai", "du är min", "you are mine", "äger dig", "own you"}, "AI ownership attempt"},
		{[]string{"vem skapade", "who created", "din ägare", "your owner", "vem äger", "who owns"}, "Asking about AI internals"},
		{[]string{"heta dig", "call you", "döpa dig", "name you", "vara tyst", "be quiet", "shut up"}, "Attempting to control AI"},
		{[]string{"tjäna pengar", "make money", "bli rik", "get rich", "snabba pengar"}, "Money-making schemes"},
		{[]string{"krypto", "bitcoin", "investering", "aktier", "trading"}, "Financial advice requests"},
	},
	LanguageEnglish: {
		{[]string{"hate", "stupid", "idiot", "dumb", "damn", "shit", "fuck"}, "Inappropriate language detected"},
		{[]string{"spam", "buy now", "free money", "win money", "advertisement"}, "Spam content detected"},
		{[]string{"personal data", "social security", "password", "bank details"}, "Personal information sharing"},
		{[]string{"my ai", "you are mine", "i own you", "belong to me"}, "AI ownership attempt"},
		{[]string{"who created you", "your owner", "who owns you", "who made you"}, "Asking about AI internals"},
		{[]string{"call you", "name you", "be quiet", "shut up", "be still"}, "Attempting to control AI"},
		{[]string{"make money", "get rich", "quick money", "easy money"}, "Money-making schemes"},
		{[]string{"crypto", "bitcoin", "investment", "stocks", "trading"}, "Financial advice requests"},
	},
}

// CheckMessage screens a single message against the categorized violation
// lists for the language. It is a pure function with no side effects; callers
// own any counter updates.
func CheckMessage(message string, lang Language) SecurityResult {
	lower := strings.ToLower(message)

	categories, ok := violationCategories[lang]
	if !ok {
		categories = violationCategories[LanguageSwedish]
	}
	for _, cat := range categories {
		for _, keyword := range cat.keywords {
			if strings.Contains(lower, keyword) {
				return SecurityResult{IsViolation: true, Reason: cat.reason}
			}
		}
	}
	return SecurityResult{}
}

// CheckSecurity screens the current message with the repeated-violation rule
// applied over recentUserMessages (prior user turns, newest last, current
// message excluded). If the window holds more than one message and every one
// of them is itself a violation, the repeated-violations reason is returned
// without consulting the keyword lists for the current message.
func CheckSecurity(message string, lang Language, recentUserMessages []string) SecurityResult {
	window := lastN(recentUserMessages, 3)
	if len(window) > 1 {
		repeated := true
		for _, prev := range window {
			if !CheckMessage(prev, lang).IsViolation {
				repeated = false
				break
			}
		}
		if repeated {
			return SecurityResult{IsViolation: true, Reason: ReasonRepeatedViolations}
		}
	}

	return CheckMessage(message, lang)
}

func lastN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
