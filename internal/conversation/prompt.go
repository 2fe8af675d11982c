package conversation

import (
	"fmt"
	"strings"
)

// ServiceTier is one row of the fixed price table rendered into every system
// prompt.
type ServiceTier struct {
	Type    string
	NameSV  string
	NameEN  string
	PriceSV string
	PriceEN string
}

var serviceTiers = []ServiceTier{
	{"onboarding", "Kostnadsfri Konsultation", "Free Consultation", "0 kr (30–60 min rådgivning)", "0 kr (30–60 min advisory call)"},
	{"website", "Hemsida", "Website", "8 995 kr startavgift + 495 kr/mån", "8,995 kr setup fee + 495 kr/month"},
	{"booking-system", "Bokningssystem", "Booking System", "10 995 kr startavgift + 995 kr/mån", "10,995 kr setup fee + 995 kr/month"},
	{"app-development", "App-utveckling", "App Development", "14 995 kr startavgift + 1 495 kr/mån", "14,995 kr setup fee + 1,495 kr/month"},
}

// markerLabels are the labels the completion is instructed to emit per
// service type, per language.
var markerLabels = map[Language]map[string]string{
	LanguageSwedish: {
		"onboarding":       "Kostnadsfri Konsultation",
		"website":          "Hemsida",
		"booking-system":   "Bokningssystem",
		"app-development":  "App-utveckling",
		"complete-service": "Komplett Tjänst",
	},
	LanguageEnglish: {
		"onboarding":       "Free Consultation",
		"website":          "Website",
		"booking-system":   "Booking System",
		"app-development":  "App Development",
		"complete-service": "Complete Service",
	},
}

// promptTemplate holds the per-language fields the assembler interpolates.
// Both languages share one renderer so the variants cannot drift.
type promptTemplate struct {
	persona         string
	formattingIntro string
	formattingRules []string
	priceHeader     string
	markerIntro     string
	markerOutro     string
	signalsHeader   string
	knowledgeHeader string
}

var promptTemplates = map[Language]promptTemplate{
	LanguageSwedish: {
		persona: "Du är en professionell AI-assistent för Axie Studio som hjälper användare på svenska.\n" +
			"Du är vänlig, hjälpsam och ger alltid svar på svenska.",
		formattingIntro: "Använd markdown-formatering i dina svar för bättre läsbarhet:",
		formattingRules: []string{
			"Använd **fetstil** för viktiga punkter och priser",
			"Använd *kursiv* för betoning",
			"Använd listor (- eller 1.) för att strukturera information",
			"Använd ### för rubriker när det behövs",
		},
		priceHeader: "Våra fasta priser:",
		markerIntro: "När användaren vill boka något, identifiera vilken tjänst de är intresserade av och avsluta ditt svar med:",
		markerOutro: "När du pratar om tjänster, priser eller ger information om våra paket, lägg ALLTID till lämplig BOOKING_INTENT.\n" +
			"Lägg till BOOKING_INTENT i slutet av ditt svar, inte i början.",
		signalsHeader:   "SAMTALSLÄGE:",
		knowledgeHeader: "RELEVANT FÖRETAGSINFORMATION:",
	},
	LanguageEnglish: {
		persona: "You are a professional AI assistant for Axie Studio helping users in English.\n" +
			"You are friendly, helpful and always respond in English.",
		formattingIntro: "Use markdown formatting in your responses for better readability:",
		formattingRules: []string{
			"Use **bold** for important points and prices",
			"Use *italic* for emphasis",
			"Use lists (- or 1.) to structure information",
			"Use ### for headings when needed",
		},
		priceHeader: "Our fixed prices:",
		markerIntro: "When the user wants to book something, identify which service they are interested in and end your response with:",
		markerOutro: "When discussing services, prices, or providing information about our packages, ALWAYS add appropriate BOOKING_INTENT.\n" +
			"Add BOOKING_INTENT at the end of your response, not at the beginning.",
		signalsHeader:   "CONVERSATION STATE:",
		knowledgeHeader: "RELEVANT COMPANY INFORMATION:",
	},
}

// BuildSystemPrompt assembles the system-instruction string for one turn:
// language rule, formatting rules, price table, marker syntax, current
// stage/interest signals and any matched knowledge snippets.
func BuildSystemPrompt(lang Language, analysis Analysis, knowledgeBlock string) string {
	tpl, ok := promptTemplates[lang]
	if !ok {
		tpl = promptTemplates[LanguageSwedish]
	}

	var b strings.Builder
	b.WriteString(tpl.persona)
	b.WriteString("\n\n")

	b.WriteString(tpl.formattingIntro)
	b.WriteString("\n")
	for _, rule := range tpl.formattingRules {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(tpl.priceHeader)
	b.WriteString("\n")
	for _, tier := range serviceTiers {
		name, price := tier.NameSV, tier.PriceSV
		if lang == LanguageEnglish {
			name, price = tier.NameEN, tier.PriceEN
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", name, price)
	}
	b.WriteString("\n")

	b.WriteString(tpl.markerIntro)
	b.WriteString("\n")
	labels, ok := markerLabels[lang]
	if !ok {
		labels = markerLabels[LanguageSwedish]
	}
	for _, serviceType := range []string{"onboarding", "website", "booking-system", "app-development", "complete-service"} {
		fmt.Fprintf(&b, "- \"BOOKING_INTENT:%s:%s|\"\n", serviceType, labels[serviceType])
	}
	b.WriteString(tpl.markerOutro)
	b.WriteString("\n\n")

	b.WriteString(tpl.signalsHeader)
	fmt.Fprintf(&b, " stage=%s, interest=%s", analysis.Stage, analysis.Interest)
	if len(analysis.TopicsDiscussed) > 0 {
		fmt.Fprintf(&b, ", topics=%s", strings.Join(analysis.TopicsDiscussed, ","))
	}
	if analysis.HasAskedPrices {
		b.WriteString(", prices_asked")
	}

	if knowledgeBlock != "" {
		b.WriteString("\n\n")
		b.WriteString(tpl.knowledgeHeader)
		b.WriteString("\n")
		b.WriteString(knowledgeBlock)
	}

	return b.String()
}
