package conversation

// Fixed reply texts per language. These are the only assistant messages not
// produced by the completion service.

var welcomeReplies = map[Language]string{
	LanguageSwedish: "Hej! Jag är Axie, din AI-assistent från Axie Studio. Hur kan jag hjälpa dig idag?",
	LanguageEnglish: "Hi! I'm Axie, your AI assistant from Axie Studio. How can I help you today?",
}

var blockedReplies = map[Language]string{
	LanguageSwedish: "Jag kan inte hjälpa med det. Låt oss hålla konversationen professionell och fokusera på hur Axie Studio kan hjälpa dig med digitala lösningar.",
	LanguageEnglish: "I cannot help with that. Let's keep the conversation professional and focus on how Axie Studio can help you with digital solutions.",
}

var offTopicReplies = map[Language]string{
	LanguageSwedish: "Jag fokuserar på att hjälpa med Axie Studios affärstjänster. Hur kan jag hjälpa dig med en hemsida, ett bokningssystem eller en app?",
	LanguageEnglish: "I focus on helping with Axie Studio's business services. How can I help you with a website, a booking system or an app?",
}

var failureReplies = map[Language]string{
	LanguageSwedish: "Ursäkta, jag har problem med anslutningen just nu. Försök igen om ett ögonblick.",
	LanguageEnglish: "Sorry, I'm having connection trouble right now. Please try again in a moment.",
}

func replyFor(m map[Language]string, lang Language) string {
	if text, ok := m[lang]; ok {
		return text
	}
	return m[LanguageSwedish]
}
