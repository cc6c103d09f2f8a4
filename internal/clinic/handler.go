package clinic

import (
	"encoding/json"
	"net/http"

	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Handler provides HTTP endpoints for clinic profile management.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new clinic settings HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// GetSettings handles GET /api/admin/clinic. Admin only.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load clinic settings", "error", err)
		http.Error(w, `{"message": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(settings); err != nil {
		h.logger.Error("failed to encode clinic settings", "error", err)
	}
}

// UpdateSettings handles PUT /api/admin/clinic. Admin only. The body replaces
// the stored profile wholesale; omitted fields fall back to defaults on the
// next read only if the whole key is deleted, so clients send the full
// document.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, `{"message": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if settings.Name == "" {
		http.Error(w, `{"message": "name is required"}`, http.StatusBadRequest)
		return
	}

	if err := h.store.Set(r.Context(), &settings); err != nil {
		h.logger.Error("failed to save clinic settings", "error", err)
		http.Error(w, `{"message": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&settings); err != nil {
		h.logger.Error("failed to encode clinic settings", "error", err)
	}
}
