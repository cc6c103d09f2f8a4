package appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmile/clinic-platform/internal/auth"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

func setupHandler(t *testing.T) (*Handler, *Service, *users.InMemoryRepository) {
	t.Helper()
	userRepo := users.NewInMemoryRepository()
	svc := NewService(NewInMemoryRepository(), userRepo, nil, nil, logging.Default())
	return NewHandler(svc, logging.Default()), svc, userRepo
}

func asUser(req *http.Request, email, role string) *http.Request {
	claims := &auth.Claims{Email: email, Role: role}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateHandlerRejectsBadBody(t *testing.T) {
	h, _, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader("{"))
	w := httptest.NewRecorder()
	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateHandlerConflictStatus(t *testing.T) {
	h, _, _ := setupHandler(t)

	body := `{"name":"Pat","email":"pat@example.com","date":"2026-02-15","time":"10:00 AM","service":"Consultation"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d, want 201", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	w = httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("second booking status = %d, want 409", w.Code)
	}
}

func TestAvailableSlotsRequiresDate(t *testing.T) {
	h, _, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/available-slots", nil)
	w := httptest.NewRecorder()
	h.AvailableSlots(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	h, svc, userRepo := setupHandler(t)
	owner, _ := userRepo.Create(context.Background(), &users.CreateUserParams{
		Email: "owner@example.com", Name: "Owner", PasswordHash: "h",
	})
	appt, err := svc.BookFromChat(context.Background(), owner, "Consultation", "2026-02-15", "10:00 AM")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/appointments/"+appt.ID, nil)
	req = withURLParam(asUser(req, "stranger@example.com", users.RoleUser), "id", appt.ID)
	w := httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/appointments/"+appt.ID, nil)
	req = withURLParam(asUser(req, "owner@example.com", users.RoleUser), "id", appt.ID)
	w = httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("owner status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/appointments/"+appt.ID, nil)
	req = withURLParam(asUser(req, "doc@example.com", users.RoleAdmin), "id", appt.ID)
	w = httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}

func TestApproveHandlerUnknownID(t *testing.T) {
	h, _, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/appointments/ghost/approve", strings.NewReader(`{"message":"ok"}`))
	req = withURLParam(req, "id", "ghost")
	w := httptest.NewRecorder()
	h.Approve(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
