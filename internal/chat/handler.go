package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for the chat assistant
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new chat handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type historyResponse struct {
	Message   string    `json:"message"`
	Messages  []Message `json:"messages"`
	SessionID *string   `json:"sessionId"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, http.StatusBadRequest, "Message is required", "")
		return
	}

	resp, err := h.service.Turn(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			writeChatError(w, http.StatusBadRequest, "Message is required", "")
			return
		}
		h.logger.Error("chat turn failed", "error", err)
		writeChatError(w, http.StatusInternalServerError, "Failed to process chat message", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// History handles GET /api/chat/history?email=. Returns the caller's most
// recent session so the client can resume it; a null session id tells the
// client to start fresh.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeChatError(w, http.StatusBadRequest, "User email is required", "")
		return
	}

	transcript, err := h.service.History(r.Context(), email)
	if err != nil {
		h.logger.Error("chat history fetch failed", "error", err)
		writeChatError(w, http.StatusInternalServerError, "Failed to fetch chat history", err.Error())
		return
	}

	resp := historyResponse{Messages: []Message{}}
	if transcript == nil {
		resp.Message = "No previous chat history found"
	} else {
		resp.Message = "Chat history retrieved successfully"
		resp.Messages = transcript.Messages
		resp.SessionID = &transcript.SessionID
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeChatError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]string{"error": message}
	if details != "" {
		payload["details"] = details
	}
	json.NewEncoder(w).Encode(payload)
}
