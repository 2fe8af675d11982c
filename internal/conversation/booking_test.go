package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripBookingMarker(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			"marker at end",
			"Gärna! Vi bokar in dig. BOOKING_INTENT:website:Hemsida|",
			"Gärna! Vi bokar in dig.",
		},
		{
			"marker without pipe",
			"Let's book a call. BOOKING_INTENT:onboarding:Free Consultation",
			"Let's book a call.",
		},
		{
			"multiple markers",
			"BOOKING_INTENT:website:Hemsida| text BOOKING_INTENT:onboarding:Konsultation|",
			"text",
		},
		{"no marker", "Just a normal reply.", "Just a normal reply."},
		{"marker only", "BOOKING_INTENT:website:Hemsida|", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripBookingMarker(tt.reply))
		})
	}
}

func TestAnalyzeBookingIntentMarkerWithHighInterest(t *testing.T) {
	analysis := Analysis{
		Stage:              StageInterested,
		Interest:           InterestHigh,
		HasAskedPrices:     true,
		ConversationLength: 3,
	}

	intent := AnalyzeBookingIntent(
		"Vi bokar gärna in dig! BOOKING_INTENT:booking-system:Bokningssystem|",
		"jag vill boka",
		nil,
		analysis,
		false,
	)

	assert.True(t, intent.ShouldShow)
	assert.Equal(t, "booking-system", intent.ServiceType)
	assert.Equal(t, "Bokningssystem", intent.ServiceName)
	assert.InDelta(t, 0.9, intent.Confidence, 0.001)
	assert.Equal(t, "Explicit booking intent with high interest", intent.Reason)
}

func TestAnalyzeBookingIntentInferredFromHistory(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Text: "jag behöver en mobilapp"},
		{Role: RoleAssistant, Text: "Vi bygger appar."},
	}
	analysis := Analysis{
		Stage:              StageInterested,
		Interest:           InterestHigh,
		HasAskedPrices:     true,
		ConversationLength: 2,
	}

	intent := AnalyzeBookingIntent("Vi hjälper gärna till.", "vad blir priset?", history, analysis, false)

	assert.True(t, intent.ShouldShow)
	assert.Equal(t, "app-development", intent.ServiceType)
	assert.Equal(t, "App-utveckling", intent.ServiceName)
	assert.InDelta(t, 0.7, intent.Confidence, 0.001)
}

func TestAnalyzeBookingIntentSuppressed(t *testing.T) {
	highInterest := Analysis{
		Stage:              StageInterested,
		Interest:           InterestHigh,
		HasAskedPrices:     true,
		ConversationLength: 3,
	}

	tests := []struct {
		name          string
		reply         string
		userMessage   string
		analysis      Analysis
		recentlyShown bool
	}{
		{
			"greeting stage",
			"Hej!", "hej",
			Analysis{Stage: StageGreeting, Interest: InterestHigh, ConversationLength: 3},
			false,
		},
		{
			"short conversation",
			"Svar", "vad kostar det?",
			Analysis{Stage: StageInterested, Interest: InterestHigh, HasAskedPrices: true, ConversationLength: 1},
			false,
		},
		{
			"off topic stage",
			"Svar", "boka",
			Analysis{Stage: StageOffTopic, Interest: InterestHigh, ConversationLength: 3},
			false,
		},
		{
			"general question without prices",
			"En hemsida är...", "vad är en hemsida?",
			Analysis{Stage: StageInterested, Interest: InterestHigh, ConversationLength: 3},
			false,
		},
		{
			"recently shown",
			"Svar", "jag vill boka",
			highInterest,
			true,
		},
		{
			"low interest",
			"Svar", "berätta mer",
			Analysis{Stage: StageInterested, Interest: InterestLow, ConversationLength: 3},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := AnalyzeBookingIntent(tt.reply, tt.userMessage, nil, tt.analysis, tt.recentlyShown)
			assert.False(t, intent.ShouldShow)
			assert.Equal(t, "No booking intent detected", intent.Reason)
			assert.Empty(t, intent.ServiceName)
		})
	}
}

func TestAnalyzeBookingIntentMediumInterestWithPrices(t *testing.T) {
	analysis := Analysis{
		Stage:              StageInterested,
		Interest:           InterestMedium,
		HasAskedPrices:     true,
		ConversationLength: 2,
	}

	intent := AnalyzeBookingIntent("En hemsida kostar 8 995 kr.", "vad kostar en hemsida?", nil, analysis, false)

	assert.True(t, intent.ShouldShow)
	assert.Equal(t, "website", intent.ServiceType)
}

func TestAnalyzeBookingIntentMarkerForcesShow(t *testing.T) {
	// Marker in the reply shows the CTA even at medium interest without a
	// price signal.
	analysis := Analysis{
		Stage:              StageInquiry,
		Interest:           InterestLow,
		ConversationLength: 2,
	}

	intent := AnalyzeBookingIntent("Vi bokar in dig. BOOKING_INTENT:onboarding:Kostnadsfri Konsultation|", "jag vill komma igång", nil, analysis, false)

	assert.True(t, intent.ShouldShow)
	assert.Equal(t, "onboarding", intent.ServiceType)
	assert.Equal(t, "Kostnadsfri Konsultation", intent.ServiceName)
	assert.InDelta(t, 0.9, intent.Confidence, 0.001)
}

func TestAnalyzeBookingIntentUnknownServiceTypeFallsBack(t *testing.T) {
	analysis := Analysis{
		Stage:              StageInterested,
		Interest:           InterestHigh,
		HasAskedPrices:     true,
		ConversationLength: 3,
	}

	intent := AnalyzeBookingIntent("Svar. BOOKING_INTENT:mystery:Okänd|", "jag vill boka nu", nil, analysis, false)

	assert.True(t, intent.ShouldShow)
	assert.Equal(t, "mystery", intent.ServiceType)
	assert.Equal(t, "Kostnadsfri Konsultation", intent.ServiceName)
}

func TestServiceTypeFromHistoryPriority(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"app beats website", "jag vill ha en app och en hemsida", "app-development"},
		{"booking beats website", "booking och website", "booking-system"},
		{"ecommerce", "en webshop tack", "ecommerce"},
		{"website", "en hemsida tack", "website"},
		{"default", "hjälp mig", "onboarding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serviceTypeFromHistory(nil, tt.content))
		})
	}
}
