package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightsmile/clinic-platform/internal/auth"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new appointments handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

type errorResponse struct {
	Message string `json:"message"`
}

type approveRequest struct {
	Message string `json:"message"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type reminderRequest struct {
	ReminderDate string `json:"reminder_date"`
}

// Create handles POST /api/appointments. The booking form is open to
// visitors, so no token is required.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	appt, err := h.service.Book(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err, "booking failed")
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// AvailableSlots handles GET /api/appointments/available-slots?date=YYYY-MM-DD.
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	slots, err := h.service.AvailableSlots(r.Context(), date)
	if err != nil {
		h.writeServiceError(w, err, "slot lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "available_slots": slots})
}

// ListMine handles GET /api/appointments/my for the signed-in patient.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	appts, err := h.service.ListForUser(r.Context(), claims.Email)
	if err != nil {
		h.writeServiceError(w, err, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// Get handles GET /api/appointments/{id}. Patients may only read their own
// bookings; admins may read any.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	appt, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Delete handles DELETE /api/appointments/{id} with the same ownership rule
// as Get.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	appt, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), appt.ID); err != nil {
		h.writeServiceError(w, err, "delete failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Appointment deleted"})
}

// Update handles PUT /api/appointments/{id}. Admin only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	appt, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		h.writeServiceError(w, err, "update failed")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// ListPending handles GET /api/appointments/pending. Admin only.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	appts, err := h.service.ListPending(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// ListAll handles GET /api/admin/appointments. Admin only.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	appts, err := h.service.ListAll(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// Approve handles POST /api/appointments/{id}/approve. Admin only.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	appt, err := h.service.Approve(r.Context(), chi.URLParam(r, "id"), req.Message)
	if err != nil {
		h.writeServiceError(w, err, "approve failed")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Cancel handles POST /api/appointments/{id}/cancel. Admin only.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	appt, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.writeServiceError(w, err, "cancel failed")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// SetReminder handles POST /api/appointments/{id}/reminder. Admin only.
func (h *Handler) SetReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	appt, err := h.service.SetReminder(r.Context(), chi.URLParam(r, "id"), req.ReminderDate)
	if err != nil {
		h.writeServiceError(w, err, "reminder failed")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// PatientDetails handles GET /api/admin/patients/{email}. Admin only.
func (h *Handler) PatientDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.PatientDetails(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "Patient not found")
			return
		}
		h.writeServiceError(w, err, "patient lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*Appointment, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	appt, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "lookup failed")
		return nil, false
	}
	if claims.Role != users.RoleAdmin && appt.UserEmail != users.NormalizeEmail(claims.Email) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	return appt, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, ErrSlotTaken):
		writeError(w, http.StatusConflict, "This time slot is already booked")
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidService),
		errors.Is(err, ErrInvalidSlot),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidReminder),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrFinalStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
