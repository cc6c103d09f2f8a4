package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightsmile/clinic-platform/internal/appointments"
	"github.com/brightsmile/clinic-platform/internal/auth"
	"github.com/brightsmile/clinic-platform/internal/chat"
	"github.com/brightsmile/clinic-platform/internal/clinic"
	"github.com/brightsmile/clinic-platform/internal/llm"
	"github.com/brightsmile/clinic-platform/internal/notify"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

type staticModel struct{}

func (staticModel) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	return llm.Response{Text: "Happy to help with anything about the clinic."}, nil
}

func (staticModel) Provider() string { return "static" }

func newTestServer(t *testing.T) (*httptest.Server, *auth.Service, users.Repository) {
	t.Helper()

	logger := logging.Default()
	userRepo := users.NewInMemoryRepository()
	apptRepo := appointments.NewInMemoryRepository()

	authSvc := auth.NewService(userRepo, "test-secret", time.Hour, logger)
	notifier := notify.NewService(nil, logger)
	apptSvc := appointments.NewService(apptRepo, userRepo, notifier, nil, logger)

	mr := miniredis.RunT(t)
	settings := clinic.NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	interp := chat.NewInterpreter(authSvc, userRepo, apptSvc, logger)
	chatSvc := chat.NewService(chat.NewInMemorySessionStore(), interp, staticModel{}, userRepo, settings, chat.ServiceConfig{}, nil, logger)

	handler := New(&Config{
		Logger:              logger,
		AuthHandler:         auth.NewHandler(authSvc, logger),
		ChatHandler:         chat.NewHandler(chatSvc, logger),
		AppointmentsHandler: appointments.NewHandler(apptSvc, logger),
		ClinicHandler:       clinic.NewHandler(settings, logger),
		UsersHandler:        users.NewHandler(userRepo, logger),
		TokenVerifier:       authSvc,
		CORSAllowedOrigins:  []string{"http://localhost:3000"},
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, authSvc, userRepo
}

func adminToken(t *testing.T, authSvc *auth.Service, repo users.Repository) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	_, err = repo.Create(context.Background(), &users.CreateUserParams{
		Email:        "doctor@brightsmile.example",
		Name:         "Dr. Rao",
		Role:         users.RoleAdmin,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := authSvc.Login(context.Background(), "doctor@brightsmile.example", "letmein")
	if err != nil {
		t.Fatal(err)
	}
	return res.Token
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := `{"name":"Jane","email":"jane@example.com","password":"hunter22"}`
	resp, err := http.Post(srv.URL+"/api/auth/register", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/auth/login", "application/json",
		bytes.NewBufferString(`{"email":"jane@example.com","password":"hunter22"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Error("login response missing token")
	}
}

func TestChatIsPublic(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/chat", "application/json",
		bytes.NewBufferString(`{"message":"help"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status = %d, want 200", resp.StatusCode)
	}
	var reply struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		t.Fatal(err)
	}
	if reply.Message == "" || reply.SessionID == "" {
		t.Errorf("reply = %+v, want message and sessionId", reply)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/appointments/my"},
		{http.MethodGet, "/api/appointments/pending"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/clinic"},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest(tc.method, srv.URL+tc.path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestAdminRoutesWithToken(t *testing.T) {
	srv, authSvc, repo := newTestServer(t)
	token := adminToken(t, authSvc, repo)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin users status = %d, want 200", resp.StatusCode)
	}
	var accounts []users.User
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 {
		t.Errorf("accounts = %d, want 1", len(accounts))
	}
}

func TestAdminRoutesRejectPatientToken(t *testing.T) {
	srv, authSvc, _ := newTestServer(t)

	res, err := authSvc.Register(context.Background(), "Jane", "jane@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/appointments/pending", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestBookingFormIsPublic(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := `{"name":"Walk In","email":"walkin@example.com","service":"Consultation","date":"2026-09-10","time":"10:00 AM"}`
	resp, err := http.Post(srv.URL+"/api/appointments", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("booking status = %d, want 201", resp.StatusCode)
	}
}
