// Package router assembles the HTTP route table for the clinic API.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brightsmile/clinic-platform/internal/appointments"
	"github.com/brightsmile/clinic-platform/internal/auth"
	"github.com/brightsmile/clinic-platform/internal/chat"
	"github.com/brightsmile/clinic-platform/internal/clinic"
	httpmiddleware "github.com/brightsmile/clinic-platform/internal/http/middleware"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AuthHandler         *auth.Handler
	ChatHandler         *chat.Handler
	AppointmentsHandler *appointments.Handler
	ClinicHandler       *clinic.Handler
	UsersHandler        *users.Handler
	TokenVerifier       httpmiddleware.TokenVerifier
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// ChatRateLimit is requests per second per client IP on /api/chat;
	// zero disables limiting.
	ChatRateLimit float64
	ChatRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Public surface: registration, login, the booking form, and the
		// website chat widget.
		api.Post("/auth/register", cfg.AuthHandler.Register)
		api.Post("/auth/login", cfg.AuthHandler.Login)

		api.Group(func(chatRoutes chi.Router) {
			if cfg.ChatRateLimit > 0 {
				chatRoutes.Use(httpmiddleware.RateLimit(cfg.ChatRateLimit, cfg.ChatRateBurst))
			}
			chatRoutes.Post("/chat", cfg.ChatHandler.Chat)
		})
		api.Get("/chat/history", cfg.ChatHandler.History)

		api.Post("/appointments", cfg.AppointmentsHandler.Create)
		api.Get("/appointments/available-slots", cfg.AppointmentsHandler.AvailableSlots)

		// Signed-in patients.
		api.Group(func(user chi.Router) {
			user.Use(httpmiddleware.RequireUser(cfg.TokenVerifier))
			user.Put("/auth/update", cfg.AuthHandler.UpdateProfile)
			user.Get("/appointments/my", cfg.AppointmentsHandler.ListMine)
			user.Get("/appointments/{id}", cfg.AppointmentsHandler.Get)
			user.Delete("/appointments/{id}", cfg.AppointmentsHandler.Delete)
		})

		// Dentist console.
		api.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin(cfg.TokenVerifier))
			admin.Get("/appointments/pending", cfg.AppointmentsHandler.ListPending)
			admin.Put("/appointments/{id}", cfg.AppointmentsHandler.Update)
			admin.Post("/appointments/{id}/approve", cfg.AppointmentsHandler.Approve)
			admin.Post("/appointments/{id}/cancel", cfg.AppointmentsHandler.Cancel)
			admin.Post("/appointments/{id}/reminder", cfg.AppointmentsHandler.SetReminder)
			admin.Get("/admin/appointments", cfg.AppointmentsHandler.ListAll)
			admin.Get("/admin/patients/{email}", cfg.AppointmentsHandler.PatientDetails)
			admin.Get("/admin/users", cfg.UsersHandler.List)
			admin.Get("/admin/clinic", cfg.ClinicHandler.GetSettings)
			admin.Put("/admin/clinic", cfg.ClinicHandler.UpdateSettings)
		})
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
