package webchat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiestudio/assistant-api/internal/conversation"
)

type fakeEngine struct {
	started   []string
	reset     []string
	processed []string
	result    conversation.TurnResult
	history   []conversation.Message
	err       error
}

func (f *fakeEngine) StartSession(_ context.Context, sessionID string) (string, error) {
	f.started = append(f.started, sessionID)
	return "Hej! Hur kan jag hjälpa dig?", f.err
}

func (f *fakeEngine) ProcessMessage(_ context.Context, sessionID, text string) (conversation.TurnResult, error) {
	f.processed = append(f.processed, sessionID+"|"+text)
	return f.result, f.err
}

func (f *fakeEngine) ResetSession(_ context.Context, sessionID string) error {
	f.reset = append(f.reset, sessionID)
	return f.err
}

func (f *fakeEngine) History(_ context.Context, _ string, _ int64) ([]conversation.Message, error) {
	return f.history, f.err
}

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		name     string
		messages []conversation.Message
		want     string
	}{
		{
			"first user message",
			[]conversation.Message{
				{Role: conversation.RoleAssistant, Text: "Hej!"},
				{Role: conversation.RoleUser, Text: "Vad kostar en hemsida?"},
			},
			"Vad kostar en hemsida?",
		},
		{
			"capped at six words",
			[]conversation.Message{
				{Role: conversation.RoleUser, Text: "one two three four five six seven eight"},
			},
			"one two three four five six",
		},
		{
			"capped at fifty characters",
			[]conversation.Message{
				{Role: conversation.RoleUser, Text: "internationalization localization considerations regarding infrastructure modernization efforts"},
			},
			"internationalization localization consideration...",
		},
		{"no user message", []conversation.Message{{Role: conversation.RoleAssistant, Text: "Hej!"}}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SessionTitle(tt.messages)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 50)
		})
	}
}

func TestHandleMessage(t *testing.T) {
	engine := &fakeEngine{
		result: conversation.TurnResult{
			Reply:    "En hemsida kostar 8 995 kr.",
			Language: conversation.LanguageSwedish,
			Stage:    conversation.StageInterested,
			Interest: "medium",
		},
	}
	h := NewHandler(engine, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"session_id":"s1","text":"vad kostar en hemsida?"}`))
	rec := httptest.NewRecorder()

	h.HandleMessage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
		Stage     string `json:"stage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "s1", body.SessionID)
	assert.Equal(t, "En hemsida kostar 8 995 kr.", body.Reply)
	assert.Equal(t, "interested", body.Stage)
	assert.Empty(t, engine.started, "existing session must not be restarted")
}

func TestHandleMessageNewSession(t *testing.T) {
	engine := &fakeEngine{result: conversation.TurnResult{Reply: "ok"}}
	h := NewHandler(engine, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"text":"hej"}`))
	rec := httptest.NewRecorder()

	h.HandleMessage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, engine.started, 1)

	var body struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.SessionID)
	assert.Equal(t, engine.started[0], body.SessionID)
}

func TestHandleMessageValidation(t *testing.T) {
	h := NewHandler(&fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(`{"session_id":"s1","text":"  "}`))
	rec := httptest.NewRecorder()

	h.HandleMessage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistory(t *testing.T) {
	now := time.Now().UTC()
	engine := &fakeEngine{
		history: []conversation.Message{
			{Role: conversation.RoleAssistant, Text: "Hej!", Timestamp: now},
			{Role: conversation.RoleUser, Text: "Vad kostar en hemsida?", Timestamp: now},
		},
	}
	h := NewHandler(engine, nil)

	req := httptest.NewRequest(http.MethodGet, "/chat/history?session=s1", nil)
	rec := httptest.NewRecorder()

	h.HandleHistory(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Title    string           `json:"title"`
		Messages []HistoryMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Vad kostar en hemsida?", body.Title)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "Hej!", body.Messages[0].Text)
}

func TestHandleHistoryRequiresSession(t *testing.T) {
	h := NewHandler(&fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	rec := httptest.NewRecorder()

	h.HandleHistory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleReset(t *testing.T) {
	engine := &fakeEngine{}
	h := NewHandler(engine, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/reset", strings.NewReader(`{"session_id":"s1"}`))
	rec := httptest.NewRecorder()

	h.HandleReset(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"s1"}, engine.reset)
}

func TestHandleResetRequiresSessionID(t *testing.T) {
	h := NewHandler(&fakeEngine{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/reset", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.HandleReset(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
