package appointments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightsmile/clinic-platform/internal/observability/metrics"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Notifier delivers booking lifecycle emails. Failures are logged, never
// surfaced to the caller.
type Notifier interface {
	AppointmentApproved(ctx context.Context, appt *Appointment) error
	AppointmentCancelled(ctx context.Context, appt *Appointment) error
}

// Service coordinates booking, approval, and reminder workflows.
type Service struct {
	repo     Repository
	userRepo users.Repository
	notifier Notifier
	metrics  *metrics.ClinicMetrics
	logger   *logging.Logger
}

// NewService creates the appointment service. notifier and m may be nil when
// email delivery or metrics are not configured.
func NewService(repo Repository, userRepo users.Repository, notifier Notifier, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	return &Service{repo: repo, userRepo: userRepo, notifier: notifier, metrics: m, logger: logger}
}

// BookingRequest carries the web form's booking fields.
type BookingRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Service     string `json:"service"`
	DentistName string `json:"dentist_name"`
	Notes       string `json:"notes"`
}

// Book creates a pending appointment from the booking form. Unknown emails
// get a patient account created on the fly so the visit shows up once they
// register properly.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if req.Name == "" || req.Email == "" || req.Date == "" || req.Time == "" || req.Service == "" {
		return nil, ErrMissingFields
	}

	service, ok := ValidService(req.Service)
	if !ok {
		return nil, ErrInvalidService
	}
	slot, ok := ValidSlot(req.Time)
	if !ok {
		return nil, ErrInvalidSlot
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == users.ErrUserNotFound {
		user, err = s.createWalkIn(ctx, req.Name, req.Email, req.PhoneNumber)
	}
	if err != nil {
		return nil, err
	}

	return s.create(ctx, &Appointment{
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		PhoneNumber: req.PhoneNumber,
		Date:        date,
		Time:        slot,
		Service:     service,
		DentistName: req.DentistName,
		Notes:       req.Notes,
	})
}

// BookFromChat creates a pending appointment for a signed-in chat user. The
// time is canonicalized when it matches a known slot and stored as given
// otherwise.
func (s *Service) BookFromChat(ctx context.Context, user *users.User, serviceName, dateValue, slotValue string) (*Appointment, error) {
	service, ok := ValidService(serviceName)
	if !ok {
		return nil, ErrInvalidService
	}
	date, err := ParseDate(dateValue)
	if err != nil {
		return nil, err
	}
	slot := strings.TrimSpace(slotValue)
	if canonical, ok := ValidSlot(slot); ok {
		slot = canonical
	}

	return s.create(ctx, &Appointment{
		UserID:    user.ID,
		UserName:  user.Name,
		UserEmail: user.Email,
		Date:      date,
		Time:      slot,
		Service:   service,
	})
}

func (s *Service) create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	taken, err := s.repo.SlotTaken(ctx, appt.Date, appt.Time)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	appt.Status = StatusPending
	created, err := s.repo.Create(ctx, appt)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveBooking()
	s.logger.Info("appointment booked",
		"appointment_id", created.ID,
		"email", created.UserEmail,
		"date", created.Date.Format(DateLayout),
		"time", created.Time,
	)
	return created, nil
}

func (s *Service) createWalkIn(ctx context.Context, name, email, phone string) (*users.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("appointments: hash walk-in password: %w", err)
	}
	return s.userRepo.Create(ctx, &users.CreateUserParams{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         users.RoleUser,
		PasswordHash: string(hash),
	})
}

// Get fetches one appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForUser returns a patient's appointments.
func (s *Service) ListForUser(ctx context.Context, email string) ([]*Appointment, error) {
	return s.repo.ListByUserEmail(ctx, email)
}

// ListPending returns appointments awaiting dentist review.
func (s *Service) ListPending(ctx context.Context) ([]*Appointment, error) {
	return s.repo.ListByStatus(ctx, StatusPending)
}

// ListAll returns every appointment for the admin dashboard.
func (s *Service) ListAll(ctx context.Context) ([]*Appointment, error) {
	return s.repo.ListAll(ctx)
}

// Approve confirms a pending appointment with an optional note for the
// patient.
func (s *Service) Approve(ctx context.Context, id, message string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.IsFinal() {
		return nil, ErrFinalStatus
	}

	appt.Status = StatusConfirmed
	appt.ApprovalMessage = message
	appt.RejectionReason = ""
	saved, err := s.repo.Save(ctx, appt)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, saved, true)
	return saved, nil
}

// Cancel rejects or cancels an appointment with a reason for the patient.
func (s *Service) Cancel(ctx context.Context, id, reason string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.IsFinal() {
		return nil, ErrFinalStatus
	}

	appt.Status = StatusCancelled
	appt.RejectionReason = reason
	saved, err := s.repo.Save(ctx, appt)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, saved, false)
	return saved, nil
}

// SetReminder schedules a reminder timestamp on an appointment.
func (s *Service) SetReminder(ctx context.Context, id, when string) (*Appointment, error) {
	at, err := time.Parse(ReminderLayout, strings.TrimSpace(when))
	if err != nil {
		return nil, ErrInvalidReminder
	}
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	appt.ReminderSet = true
	at = at.UTC()
	appt.ReminderDate = &at
	return s.repo.Save(ctx, appt)
}

// Update applies an admin edit. Status moves through Approve/Cancel keep
// their side effects; direct edits here do not email the patient.
func (s *Service) Update(ctx context.Context, id string, update Update) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Service != nil {
		service, ok := ValidService(*update.Service)
		if !ok {
			return nil, ErrInvalidService
		}
		appt.Service = service
	}
	if update.Time != nil {
		slot, ok := ValidSlot(*update.Time)
		if !ok {
			return nil, ErrInvalidSlot
		}
		appt.Time = slot
	}
	if update.Date != nil {
		appt.Date = update.Date.UTC()
	}
	if update.Status != nil {
		switch *update.Status {
		case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
			appt.Status = *update.Status
		default:
			return nil, ErrInvalidStatus
		}
	}
	if update.DentistName != nil {
		appt.DentistName = *update.DentistName
	}
	if update.Notes != nil {
		appt.Notes = *update.Notes
	}
	return s.repo.Save(ctx, appt)
}

// Delete removes an appointment entirely.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AvailableSlots returns the fixed slots not held by a non-cancelled
// appointment on the given date.
func (s *Service) AvailableSlots(ctx context.Context, dateValue string) ([]string, error) {
	date, err := ParseDate(dateValue)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.ListForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(booked))
	for _, a := range booked {
		if a.Status != StatusCancelled {
			held[a.Time] = true
		}
	}
	open := make([]string, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		if !held[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}

// PatientDetails bundles a patient's account with their appointment history.
type PatientDetails struct {
	User         *users.User    `json:"user"`
	Appointments []*Appointment `json:"appointments"`
}

// PatientDetails looks a patient up by email along with every appointment
// they hold.
func (s *Service) PatientDetails(ctx context.Context, email string) (*PatientDetails, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	appts, err := s.repo.ListByUserEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	return &PatientDetails{User: user, Appointments: appts}, nil
}

func (s *Service) notify(ctx context.Context, appt *Appointment, approved bool) {
	if s.notifier == nil {
		return
	}
	var err error
	if approved {
		err = s.notifier.AppointmentApproved(ctx, appt)
	} else {
		err = s.notifier.AppointmentCancelled(ctx, appt)
	}
	if err != nil {
		s.logger.Warn("appointment email not sent", "appointment_id", appt.ID, "error", err)
	}
}
