package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/brightsmile/clinic-platform/internal/appointments"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

type captureSender struct {
	sent []EmailMessage
}

func (c *captureSender) Send(ctx context.Context, msg EmailMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:        "appt-1",
		UserName:  "Jane",
		UserEmail: "jane@example.com",
		Date:      time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Time:      "10:00 AM",
		Service:   "Consultation",
	}
}

func TestAppointmentApprovedEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, logging.Default())

	appt := sampleAppointment()
	appt.ApprovalMessage = "See you then"
	if err := svc.AppointmentApproved(context.Background(), appt); err != nil {
		t.Fatalf("AppointmentApproved returned error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.To != "jane@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	for _, want := range []string{"Consultation", "2026-02-15", "10:00 AM", "See you then"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestAppointmentCancelledEmail(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(sender, logging.Default())

	appt := sampleAppointment()
	appt.RejectionReason = "Dentist unavailable"
	if err := svc.AppointmentCancelled(context.Background(), appt); err != nil {
		t.Fatalf("AppointmentCancelled returned error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Body, "Dentist unavailable") {
		t.Errorf("body missing reason: %q", sender.sent[0].Body)
	}
}

func TestNilSenderIsNoop(t *testing.T) {
	svc := NewService(nil, logging.Default())
	if err := svc.AppointmentApproved(context.Background(), sampleAppointment()); err != nil {
		t.Errorf("nil sender err = %v, want nil", err)
	}
}
