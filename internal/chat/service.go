package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-platform/internal/clinic"
	"github.com/brightsmile/clinic-platform/internal/llm"
	"github.com/brightsmile/clinic-platform/internal/observability/metrics"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// ErrEmptyMessage is returned when a turn arrives without message text.
var ErrEmptyMessage = errors.New("chat: message is required")

// fallbackApology answers the turn when the model call fails or returns
// nothing. A turn is never left unanswered.
const fallbackApology = "Sorry, I could not generate a response."

// Turn outcomes used as the metrics label.
const (
	outcomeCommand    = "command"
	outcomeCorrection = "correction"
	outcomeFallback   = "fallback"
)

// SettingsSource yields the clinic profile embedded in system prompts.
// *clinic.Store satisfies it.
type SettingsSource interface {
	Get(ctx context.Context) (*clinic.Settings, error)
}

// ServiceConfig bounds the fallback request.
type ServiceConfig struct {
	// HistoryWindow is the number of stored messages included as context.
	HistoryWindow int
	MaxTokens     int32
	Temperature   float32
}

// Service orchestrates a chat turn: command interpretation first, model
// fallback otherwise, transcript persistence last.
type Service struct {
	store    SessionStore
	interp   *Interpreter
	model    llm.Client
	dir      Directory
	settings SettingsSource
	cfg      ServiceConfig
	metrics  *metrics.ClinicMetrics
	logger   *logging.Logger
}

// NewService wires the chat service. m may be nil.
func NewService(store SessionStore, interp *Interpreter, model llm.Client, dir Directory, settings SettingsSource, cfg ServiceConfig, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:    store,
		interp:   interp,
		model:    model,
		dir:      dir,
		settings: settings,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// TurnRequest is a single inbound chat message.
type TurnRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
	UserRole  string `json:"userRole,omitempty"`
}

// TurnResponse is the assistant's reply.
type TurnResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// Turn processes one chat message end to end. The reply is computed first;
// persisting it to the transcript is best-effort and never fails the turn.
func (s *Service) Turn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}

	caller := ResolveCaller(ctx, s.dir, req.UserEmail, req.UserRole)

	var reply, outcome string
	switch result := ParseCommand(req.Message, caller); result.Kind {
	case Recognized:
		reply = s.interp.Execute(ctx, result.Command, caller)
		outcome = outcomeCommand
	case Malformed:
		reply = result.Correction
		outcome = outcomeCorrection
	default:
		reply = s.fallback(ctx, sessionID, req.Message, caller)
		outcome = outcomeFallback
	}
	s.metrics.ObserveChatTurn(outcome)

	if err := s.store.AppendPair(ctx, sessionID, caller.Email, req.Message, reply); err != nil {
		s.logger.Error("failed to save chat transcript", "error", err, "session_id", sessionID)
	}

	return &TurnResponse{Message: reply, SessionID: sessionID}, nil
}

// History returns the caller's most recent transcript, or nil when they have
// none.
func (s *Service) History(ctx context.Context, email string) (*Transcript, error) {
	return s.store.LatestForEmail(ctx, email)
}

func (s *Service) fallback(ctx context.Context, sessionID, message string, caller CallerContext) string {
	history, err := s.store.History(ctx, sessionID)
	if err != nil {
		s.logger.Error("failed to load chat history", "error", err, "session_id", sessionID)
		history = nil
	}
	if len(history) > s.cfg.HistoryWindow {
		history = history[len(history)-s.cfg.HistoryWindow:]
	}

	msgs := make([]llm.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		role := llm.ChatRoleUser
		if m.Role == "assistant" {
			role = llm.ChatRoleAssistant
		}
		msgs = append(msgs, llm.ChatMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, llm.ChatMessage{Role: llm.ChatRoleUser, Content: message})

	start := time.Now()
	resp, err := s.model.Complete(ctx, llm.Request{
		System:      []string{SystemPrompt(caller, s.clinicContext(ctx))},
		Messages:    msgs,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	s.metrics.ObserveLLMLatency(s.model.Provider(), time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("model completion failed", "error", err, "session_id", sessionID)
		return fallbackApology
	}
	if resp.Text == "" {
		return fallbackApology
	}
	return resp.Text
}

func (s *Service) clinicContext(ctx context.Context) string {
	if s.settings == nil {
		return clinic.DefaultSettings().PromptContext()
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load clinic settings for prompt", "error", err)
		settings = clinic.DefaultSettings()
	}
	return settings.PromptContext()
}

func newSessionID() string {
	return "session_" + uuid.New().String()
}
