package conversation

import (
	"regexp"
	"strings"
)

// BookingIntent is the decision whether the widget should surface the booking
// call-to-action for the turn that produced it.
type BookingIntent struct {
	ShouldShow  bool    `json:"should_show"`
	ServiceType string  `json:"service_type,omitempty"`
	ServiceName string  `json:"service_name,omitempty"`
	Confidence  float64 `json:"confidence"`
	Reason      string  `json:"reason"`
}

// bookingMarkerRE matches the sentinel the completion service appends when it
// recommends booking: BOOKING_INTENT:<serviceType>:<label>|
var bookingMarkerRE = regexp.MustCompile(`BOOKING_INTENT:([^:]+):([^|]+)\|?`)

// serviceDisplayNames maps recognized service types to widget labels.
var serviceDisplayNames = map[string]string{
	"onboarding":       "Kostnadsfri Konsultation",
	"website":          "Hemsida",
	"booking-system":   "Bokningssystem",
	"app-development":  "App-utveckling",
	"ecommerce":        "E-handel",
	"complete-service": "Komplett Tjänst",
}

const defaultServiceType = "onboarding"

var generalQuestionRE = regexp.MustCompile(`(?i)\b(vad är|what is|berätta om|tell me about|hur fungerar|how does)\b`)

// AnalyzeBookingIntent combines the generated reply, the current user message
// and the stage analysis into a show/hide decision. recentlyShown suppresses
// a repeat call-to-action when one was surfaced within the last few turns.
func AnalyzeBookingIntent(reply, userMessage string, history []Message, analysis Analysis, recentlyShown bool) BookingIntent {
	marker := bookingMarkerRE.FindStringSubmatch(reply)

	show := shouldShowBooking(reply, userMessage, analysis, recentlyShown)

	result := BookingIntent{Reason: "No booking intent detected"}
	switch {
	case marker != nil && show:
		result.ShouldShow = true
		result.ServiceType = marker[1]
		result.Confidence = 0.9
		result.Reason = "Explicit booking intent with high interest"
	case show:
		result.ShouldShow = true
		result.ServiceType = serviceTypeFromHistory(history, userMessage)
		result.Confidence = 0.7
		result.Reason = "High interest level detected"
	}

	if result.ShouldShow {
		name, ok := serviceDisplayNames[result.ServiceType]
		if !ok {
			name = serviceDisplayNames[defaultServiceType]
		}
		result.ServiceName = name
	}
	return result
}

func shouldShowBooking(reply, userMessage string, analysis Analysis, recentlyShown bool) bool {
	// Never for greetings or first interactions.
	if analysis.Stage == StageGreeting || analysis.ConversationLength < 2 {
		return false
	}
	if analysis.Stage == StageOffTopic {
		return false
	}
	// A generic "what is / tell me about" question without a price signal is
	// still exploratory.
	if generalQuestionRE.MatchString(userMessage) && !analysis.HasAskedPrices {
		return false
	}
	if recentlyShown {
		return false
	}

	if analysis.Interest == InterestHigh {
		return true
	}
	if analysis.HasAskedPrices && analysis.Interest == InterestMedium {
		return true
	}
	if strings.Contains(reply, "BOOKING_INTENT:") {
		return true
	}
	return false
}

// serviceTypeFromHistory derives a service type from history keywords using a
// fixed priority order: app > booking > ecommerce > website > onboarding.
func serviceTypeFromHistory(history []Message, currentMessage string) string {
	var sb strings.Builder
	for _, m := range history {
		sb.WriteString(strings.ToLower(m.Text))
		sb.WriteByte(' ')
	}
	sb.WriteString(strings.ToLower(currentMessage))
	allContent := sb.String()

	switch {
	case strings.Contains(allContent, "app") || strings.Contains(allContent, "mobilapp"):
		return "app-development"
	case strings.Contains(allContent, "bokning") || strings.Contains(allContent, "booking"):
		return "booking-system"
	case strings.Contains(allContent, "webshop") || strings.Contains(allContent, "e-handel"):
		return "ecommerce"
	case strings.Contains(allContent, "hemsida") || strings.Contains(allContent, "website"):
		return "website"
	default:
		return defaultServiceType
	}
}

// StripBookingMarker removes every booking marker from a reply before it is
// shown to the user.
func StripBookingMarker(reply string) string {
	return strings.TrimSpace(bookingMarkerRE.ReplaceAllString(reply, ""))
}
