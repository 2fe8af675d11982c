package conversation

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a session transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// userTexts returns the text of user messages in order.
func userTexts(history []Message) []string {
	out := make([]string, 0, len(history))
	for _, m := range history {
		if m.Role == RoleUser {
			out = append(out, m.Text)
		}
	}
	return out
}
