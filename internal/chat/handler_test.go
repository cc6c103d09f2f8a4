package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brightsmile/clinic-platform/pkg/logging"
)

func TestChatHandlerRequiresMessage(t *testing.T) {
	f := setupChat(t)
	h := NewHandler(f.svc, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"sessionId":"session_x"}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChatHandlerReturnsMessageAndSession(t *testing.T) {
	f := setupChat(t)
	h := NewHandler(f.svc, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"help"}`))
	w := httptest.NewRecorder()
	h.Chat(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp TurnResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message == "" || !strings.HasPrefix(resp.SessionID, "session_") {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHistoryHandlerRequiresEmail(t *testing.T) {
	f := setupChat(t)
	h := NewHandler(f.svc, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	w := httptest.NewRecorder()
	h.History(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHistoryHandlerNullSessionWhenNone(t *testing.T) {
	f := setupChat(t)
	h := NewHandler(f.svc, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history?email=ghost@example.com", nil)
	w := httptest.NewRecorder()
	h.History(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Messages  []Message `json:"messages"`
		SessionID *string   `json:"sessionId"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID != nil {
		t.Errorf("sessionId = %v, want null", *resp.SessionID)
	}
	if resp.Messages == nil || len(resp.Messages) != 0 {
		t.Errorf("messages = %v, want empty list", resp.Messages)
	}
}

func TestHistoryHandlerReturnsTranscript(t *testing.T) {
	f := setupChat(t)
	f.addPatient(t, "Jane", "jane@example.com")
	h := NewHandler(f.svc, logging.Default())

	body := `{"message":"help","sessionId":"session_h","userEmail":"jane@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	h.Chat(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/chat/history?email=jane@example.com", nil)
	w := httptest.NewRecorder()
	h.History(w, req)

	var resp historyResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == nil || *resp.SessionID != "session_h" {
		t.Errorf("sessionId = %v", resp.SessionID)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("len(messages) = %d, want 2", len(resp.Messages))
	}
}
