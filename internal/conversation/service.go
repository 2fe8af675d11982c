package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/axiestudio/assistant-api/internal/knowledge"
	"github.com/axiestudio/assistant-api/internal/observability/metrics"
	"github.com/axiestudio/assistant-api/pkg/logging"
)

// TurnResult is the per-turn outcome handed back to the widget.
type TurnResult struct {
	Reply     string        `json:"reply"`
	Language  Language      `json:"language"`
	Stage     Stage         `json:"stage"`
	Interest  string        `json:"interest"`
	Blocked   bool          `json:"blocked,omitempty"`
	OffTopic  bool          `json:"off_topic,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Booking   BookingIntent `json:"booking"`
}

// Options tunes the pipeline.
type Options struct {
	CompletionTimeout time.Duration
	MaxTokens         int32
	Temperature       float32
	HistoryWindow     int
	// BookingCooldownTurns suppresses a repeat booking call-to-action for this
	// many user turns after one was shown.
	BookingCooldownTurns int
	// DefaultLanguage picks the welcome message language for new sessions.
	DefaultLanguage Language
}

func (o *Options) applyDefaults() {
	if o.CompletionTimeout <= 0 {
		o.CompletionTimeout = 30 * time.Second
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 1000
	}
	if o.Temperature == 0 {
		o.Temperature = 0.7
	}
	if o.HistoryWindow <= 0 {
		o.HistoryWindow = 10
	}
	if o.BookingCooldownTurns <= 0 {
		o.BookingCooldownTurns = 3
	}
	if o.DefaultLanguage == "" {
		o.DefaultLanguage = LanguageSwedish
	}
}

// Service runs the once-per-user-message pipeline: classify, prompt, complete,
// post-classify. At most one turn is in flight per session; concurrent
// sessions are independent.
type Service struct {
	llm         LLMClient
	transcripts TranscriptStore
	state       StateStore
	knowledge   knowledge.Source
	metrics     *metrics.PipelineMetrics
	logger      *logging.Logger
	opts        Options

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires the pipeline. llm, transcripts and state are required;
// knowledgeSource and pipelineMetrics may be nil.
func NewService(llm LLMClient, transcripts TranscriptStore, state StateStore, knowledgeSource knowledge.Source, pipelineMetrics *metrics.PipelineMetrics, logger *logging.Logger, opts Options) *Service {
	if llm == nil {
		panic("conversation: llm client cannot be nil")
	}
	if transcripts == nil {
		panic("conversation: transcript store cannot be nil")
	}
	if state == nil {
		panic("conversation: state store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	opts.applyDefaults()

	return &Service{
		llm:         llm,
		transcripts: transcripts,
		state:       state,
		knowledge:   knowledgeSource,
		metrics:     pipelineMetrics,
		logger:      logger,
		opts:        opts,
		locks:       make(map[string]*sync.Mutex),
	}
}

// StartSession appends the welcome message to a fresh transcript and returns
// it. Idempotent: an already-started session just gets its welcome text back.
func (s *Service) StartSession(ctx context.Context, sessionID string) (string, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	welcome := replyFor(welcomeReplies, s.opts.DefaultLanguage)

	history, err := s.transcripts.List(ctx, sessionID, 1)
	if err == nil && len(history) > 0 {
		return welcome, nil
	}

	if err := s.transcripts.Append(ctx, sessionID, Message{Role: RoleAssistant, Text: welcome}); err != nil {
		return "", err
	}
	return welcome, nil
}

// ResetSession clears the session's counters. The transcript is left alone.
func (s *Service) ResetSession(ctx context.Context, sessionID string) error {
	unlock := s.lockSession(sessionID)
	defer unlock()
	return s.state.Reset(ctx, sessionID)
}

// History returns the most recent transcript messages for a session.
func (s *Service) History(ctx context.Context, sessionID string, limit int64) ([]Message, error) {
	return s.transcripts.List(ctx, sessionID, limit)
}

// ProcessMessage runs the full pipeline for one user message. Session state
// is updated only after the turn completes; a failed completion leaves both
// transcript and counters untouched.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, text string) (TurnResult, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	text = strings.TrimSpace(text)
	lang := DetectLanguage(text)

	history, err := s.transcripts.List(ctx, sessionID, int64(s.opts.HistoryWindow)*4)
	if err != nil {
		s.logger.Warn("conversation: history unavailable, classifying without it", "session_id", sessionID, "error", err)
		history = nil
	}
	state, err := s.state.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("conversation: session state unavailable", "session_id", sessionID, "error", err)
		state = SessionState{}
	}

	recentUser := userTexts(history)

	if sec := CheckSecurity(text, lang, recentUser); sec.IsViolation {
		state.ViolationCount++
		state.UserTurns++
		reply := replyFor(blockedReplies, lang)
		s.recordTurn(ctx, sessionID, text, reply, state)
		s.metrics.ObserveViolation(string(lang), sec.Reason)
		s.logger.Info("conversation: message blocked", "session_id", sessionID, "reason", sec.Reason)
		return TurnResult{
			Reply:    reply,
			Language: lang,
			Stage:    StageGreeting,
			Interest: InterestNone.String(),
			Blocked:  true,
			Reason:   sec.Reason,
			Booking:  BookingIntent{Reason: "No booking intent detected"},
		}, nil
	}

	if CheckOffTopic(text, lang, recentUser) {
		state.OffTopicAttempts++
		state.UserTurns++
		reply := replyFor(offTopicReplies, lang)
		s.recordTurn(ctx, sessionID, text, reply, state)
		s.metrics.ObserveOffTopic(string(lang))
		s.logger.Info("conversation: message off-topic", "session_id", sessionID)
		return TurnResult{
			Reply:    reply,
			Language: lang,
			Stage:    StageOffTopic,
			Interest: InterestNone.String(),
			OffTopic: true,
			Booking:  BookingIntent{Reason: "No booking intent detected"},
		}, nil
	}

	analysis := AnalyzeConversation(history, text)

	knowledgeBlock := ""
	if s.knowledge != nil {
		knowledgeBlock, err = s.knowledge.RelevantContext(ctx, text, string(lang))
		if err != nil {
			s.logger.Warn("conversation: knowledge lookup failed, continuing without it", "session_id", sessionID, "error", err)
			knowledgeBlock = ""
		}
	}

	prompt := BuildSystemPrompt(lang, analysis, knowledgeBlock)

	completionCtx, cancel := context.WithTimeout(ctx, s.opts.CompletionTimeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llm.Complete(completionCtx, LLMRequest{
		System:      prompt,
		Messages:    s.chatWindow(history, text),
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		s.metrics.ObserveCompletion("error", 0)
		s.logger.Error("conversation: completion failed", "session_id", sessionID, "error", err)
		// Counters and transcript are not advanced for a failed turn.
		return TurnResult{
			Reply:    replyFor(failureReplies, lang),
			Language: lang,
			Stage:    analysis.Stage,
			Interest: analysis.Interest.String(),
			Reason:   "completion failed",
			Booking:  BookingIntent{Reason: "No booking intent detected"},
		}, nil
	}
	s.metrics.ObserveCompletion("ok", time.Since(start).Seconds())

	currentTurn := state.UserTurns + 1
	recentlyShown := state.LastBookingShownTurn > 0 &&
		currentTurn-state.LastBookingShownTurn < s.opts.BookingCooldownTurns

	booking := AnalyzeBookingIntent(resp.Text, text, history, analysis, recentlyShown)
	reply := StripBookingMarker(resp.Text)
	if reply == "" {
		reply = replyFor(failureReplies, lang)
	}

	state.UserTurns = currentTurn
	if booking.ShouldShow {
		state.LastBookingShownTurn = currentTurn
		s.metrics.ObserveBookingShown(booking.ServiceType)
	}
	s.recordTurn(ctx, sessionID, text, reply, state)

	s.logger.Debug("conversation: turn complete",
		"session_id", sessionID,
		"language", lang,
		"stage", analysis.Stage,
		"interest", analysis.Interest.String(),
		"booking_shown", booking.ShouldShow,
	)

	return TurnResult{
		Reply:    reply,
		Language: lang,
		Stage:    analysis.Stage,
		Interest: analysis.Interest.String(),
		Booking:  booking,
	}, nil
}

// recordTurn appends both sides of a completed turn and persists the session
// state. Failures are logged, not surfaced; the user already has their reply.
func (s *Service) recordTurn(ctx context.Context, sessionID, userText, reply string, state SessionState) {
	if err := s.transcripts.Append(ctx, sessionID, Message{Role: RoleUser, Text: userText}); err != nil {
		s.logger.Error("conversation: append user message failed", "session_id", sessionID, "error", err)
	}
	if err := s.transcripts.Append(ctx, sessionID, Message{Role: RoleAssistant, Text: reply}); err != nil {
		s.logger.Error("conversation: append assistant message failed", "session_id", sessionID, "error", err)
	}
	if err := s.state.Put(ctx, sessionID, state); err != nil {
		s.logger.Error("conversation: persist session state failed", "session_id", sessionID, "error", err)
	}
}

// chatWindow converts the bounded history suffix plus the current message
// into the completion message list.
func (s *Service) chatWindow(history []Message, currentMessage string) []ChatMessage {
	start := 0
	if len(history) > s.opts.HistoryWindow {
		start = len(history) - s.opts.HistoryWindow
	}
	out := make([]ChatMessage, 0, len(history)-start+1)
	for _, m := range history[start:] {
		role := ChatRoleUser
		if m.Role == RoleAssistant {
			role = ChatRoleAssistant
		}
		out = append(out, ChatMessage{Role: role, Content: m.Text})
	}
	out = append(out, ChatMessage{Role: ChatRoleUser, Content: currentMessage})
	return out
}

// lockSession serializes turns per session id.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
