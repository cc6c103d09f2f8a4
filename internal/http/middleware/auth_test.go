package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/brightsmile/clinic-platform/internal/auth"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

func setupAuth(t *testing.T) (svc *auth.Service, userToken, adminToken string) {
	t.Helper()
	repo := users.NewInMemoryRepository()
	svc = auth.NewService(repo, "test-secret", time.Hour, logging.Default())
	ctx := context.Background()

	userRes, err := svc.Register(ctx, "Pat", "pat@example.com", "pw")
	if err != nil {
		t.Fatalf("register user: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("admin-pw"), bcrypt.MinCost)
	if _, err := repo.Create(ctx, &users.CreateUserParams{
		Email: "doc@example.com", Name: "Dr Doe", Role: users.RoleAdmin, PasswordHash: string(hash),
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	adminRes, err := svc.Login(ctx, "doc@example.com", "admin-pw")
	if err != nil {
		t.Fatalf("login admin: %v", err)
	}
	return svc, userRes.Token, adminRes.Token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUserRejectsMissingHeader(t *testing.T) {
	svc, _, _ := setupAuth(t)
	h := RequireUser(svc)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireUserRejectsGarbageToken(t *testing.T) {
	svc, _, _ := setupAuth(t)
	h := RequireUser(svc)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireUserAcceptsValidToken(t *testing.T) {
	svc, userToken, _ := setupAuth(t)

	var gotEmail string
	h := RequireUser(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := auth.ClaimsFromContext(r.Context())
		gotEmail = claims.Email
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotEmail != "pat@example.com" {
		t.Errorf("claims email = %q", gotEmail)
	}
}

func TestRequireAdminRejectsPatientRole(t *testing.T) {
	svc, userToken, adminToken := setupAuth(t)
	h := RequireAdmin(svc)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("patient status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}
}
