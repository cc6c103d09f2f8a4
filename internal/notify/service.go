package notify

import (
	"context"
	"fmt"

	"github.com/brightsmile/clinic-platform/internal/appointments"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Service emails patients about appointment decisions. It implements
// appointments.Notifier.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. A nil sender disables delivery.
func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// AppointmentApproved tells the patient their booking was confirmed.
func (s *Service) AppointmentApproved(ctx context.Context, appt *appointments.Appointment) error {
	if s.email == nil {
		s.logger.Debug("approval email skipped, sender not configured", "appointment_id", appt.ID)
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment has been confirmed.\n\nService: %s\nDate: %s\nTime: %s\n",
		appt.UserName, appt.Service, appt.Date.Format(appointments.DateLayout), appt.Time,
	)
	if appt.ApprovalMessage != "" {
		body += fmt.Sprintf("\nNote from the clinic: %s\n", appt.ApprovalMessage)
	}
	body += "\nSee you soon,\nBrightSmile Dental Clinic"

	return s.email.Send(ctx, EmailMessage{
		To:      appt.UserEmail,
		ToName:  appt.UserName,
		Subject: "Your appointment is confirmed",
		Body:    body,
	})
}

// AppointmentCancelled tells the patient their booking was cancelled.
func (s *Service) AppointmentCancelled(ctx context.Context, appt *appointments.Appointment) error {
	if s.email == nil {
		s.logger.Debug("cancellation email skipped, sender not configured", "appointment_id", appt.ID)
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nUnfortunately your appointment on %s at %s had to be cancelled.\n",
		appt.UserName, appt.Date.Format(appointments.DateLayout), appt.Time,
	)
	if appt.RejectionReason != "" {
		body += fmt.Sprintf("\nReason: %s\n", appt.RejectionReason)
	}
	body += "\nPlease book another slot at your convenience.\nBrightSmile Dental Clinic"

	return s.email.Send(ctx, EmailMessage{
		To:      appt.UserEmail,
		ToName:  appt.UserName,
		Subject: "Your appointment was cancelled",
		Body:    body,
	})
}
