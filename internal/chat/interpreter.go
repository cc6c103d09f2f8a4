package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brightsmile/clinic-platform/internal/appointments"
	"github.com/brightsmile/clinic-platform/internal/auth"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

// Chat command responses. These are user-facing strings rendered verbatim in
// the chat window.
const (
	msgLoginUsage      = "❌ Please provide your login credentials in this format:\n\n`login [email@example.com] [password]`\n\nExample:\n`login john@gmail.com password123`"
	msgLoginIncomplete = "❌ Incomplete login command. Please provide both email and password:\n\n`login [email@example.com] [password]`"

	msgRegisterUsage      = "❌ Please provide registration details in this format:\n\n`register [name] [email@example.com] [password]`\n\nExample:\n`register John Doe john@gmail.com password123`"
	msgRegisterIncomplete = "❌ Incomplete registration command. Required format:\n\n`register [name] [email@example.com] [password]`"
	msgAlreadyRegistered  = "ℹ️ You are already logged in. Please logout first to register a new account."

	msgBookUsage         = "❌ Please provide appointment details in this format:\n\n`book [service] on [date] at [time]`\n\nExample:\n`book Consultation on 2026-02-15 at 10:00`\n\nAvailable services: Consultation, Scaling & Polishing, Composite Filling, Dental Implant, and more."
	msgBookInvalid       = "❌ Invalid format. Please use:\n\n`book [service] on [date] at [time]`\n\nExample:\n`book Consultation on 2026-02-15 at 10:00 AM`"
	msgBookLoginRequired = "❌ Please login first before booking an appointment:\n\n`login [email] [password]`"
	msgBookUserNotFound  = "❌ User not found. Please login again."

	msgPatientUsage = "❌ Please specify patient email:\n\n`patient [email@example.com]`"
	msgApproveUsage = "❌ Please specify appointment ID:\n\n`approve [appointment_id]`"
	msgCancelUsage  = "❌ Please specify appointment ID:\n\n`cancel [appointment_id]`"
	msgRemindUsage  = "❌ Please specify appointment ID and reminder date:\n\n`remind [appointment_id] on [YYYY-MM-DD HH:MM]`"

	msgLogout = "👋 You have been logged out. You can login again anytime!"

	msgHelpAdmin     = "📚 **Doctor Commands:**\n\n`patient [email]` - View patient details\n`approve [appointment_id]` - Approve appointment\n`cancel [appointment_id]` - Cancel appointment\n`remind [appointment_id] on [YYYY-MM-DD HH:MM]` - Set reminder\n\nOr ask me any questions about your patients!"
	msgHelpPatient   = "📚 **Available Commands:**\n\n`book [service] on [date] at [time]` - Book appointment\n`logout` - Logout\n\nOr ask me any questions about our services!"
	msgHelpAnonymous = "📚 **Available Commands:**\n\n`login [email] [password]` - Login to your account\n`register [name] [email] [password]` - Create new account\n\nOr ask me any questions about our services! 😊"

	defaultApprovalMessage    = "Your appointment has been approved by the doctor"
	defaultCancellationReason = "Cancelled by doctor"
)

// AuthService is the slice of the auth layer the interpreter needs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*auth.Result, error)
	Register(ctx context.Context, name, email, password string) (*auth.Result, error)
}

// Bookings is the slice of the appointment layer the interpreter needs.
type Bookings interface {
	BookFromChat(ctx context.Context, user *users.User, service, date, time string) (*appointments.Appointment, error)
	Approve(ctx context.Context, id, message string) (*appointments.Appointment, error)
	Cancel(ctx context.Context, id, reason string) (*appointments.Appointment, error)
	SetReminder(ctx context.Context, id, when string) (*appointments.Appointment, error)
	PatientDetails(ctx context.Context, email string) (*appointments.PatientDetails, error)
}

// Interpreter executes recognized chat commands against the clinic services.
type Interpreter struct {
	auth     AuthService
	dir      Directory
	bookings Bookings
	logger   *logging.Logger
}

// NewInterpreter wires the interpreter's collaborators.
func NewInterpreter(authSvc AuthService, dir Directory, bookings Bookings, logger *logging.Logger) *Interpreter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Interpreter{auth: authSvc, dir: dir, bookings: bookings, logger: logger}
}

// Execute runs a recognized command and returns the chat reply. Side effects
// happen synchronously before the reply is produced.
func (i *Interpreter) Execute(ctx context.Context, cmd Command, caller CallerContext) string {
	switch c := cmd.(type) {
	case LoginCommand:
		return i.login(ctx, c, caller)
	case RegisterCommand:
		return i.register(ctx, c, caller)
	case BookCommand:
		return i.book(ctx, c, caller)
	case PatientCommand:
		return i.patient(ctx, c)
	case ApproveCommand:
		return i.approve(ctx, c)
	case CancelCommand:
		return i.cancel(ctx, c)
	case RemindCommand:
		return i.remind(ctx, c)
	case HelpCommand:
		return helpText(caller)
	case LogoutCommand:
		return msgLogout
	default:
		i.logger.Error("unhandled chat command", "command", fmt.Sprintf("%T", cmd))
		return msgHelpAnonymous
	}
}

func (i *Interpreter) login(ctx context.Context, cmd LoginCommand, caller CallerContext) string {
	if caller.Identified() {
		return fmt.Sprintf("ℹ️ You are already logged in as %s", caller.Email)
	}

	result, err := i.auth.Login(ctx, cmd.Email, cmd.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return "❌ Login failed: Invalid credentials"
		}
		i.logger.Error("chat login failed", "error", err)
		return "❌ Login error: Unable to connect to server"
	}
	return fmt.Sprintf("✅ Login successful! Welcome %s! 🎉\n\nYou can now book appointments and access your dashboard.", result.User.Name)
}

func (i *Interpreter) register(ctx context.Context, cmd RegisterCommand, caller CallerContext) string {
	if caller.Identified() {
		return msgAlreadyRegistered
	}

	_, err := i.auth.Register(ctx, cmd.Name, cmd.Email, cmd.Password)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return "❌ Registration failed: User already exists"
		}
		if errors.Is(err, auth.ErrMissingFields) || errors.Is(err, users.ErrInvalidEmail) {
			return msgRegisterIncomplete
		}
		i.logger.Error("chat registration failed", "error", err)
		return "❌ Registration error: Unable to connect to server"
	}
	return fmt.Sprintf("✅ Registration successful! Welcome %s! 🎉\n\nYour account has been created. You can now book appointments.", cmd.Name)
}

func (i *Interpreter) book(ctx context.Context, cmd BookCommand, caller CallerContext) string {
	if !caller.Identified() {
		return msgBookLoginRequired
	}

	user, err := i.dir.GetByEmail(ctx, caller.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return msgBookUserNotFound
		}
		i.logger.Error("chat booking lookup failed", "error", err, "email", caller.Email)
		return "❌ Booking error: Unable to connect to server. Please try again."
	}

	_, err = i.bookings.BookFromChat(ctx, user, cmd.Service, cmd.Date, cmd.Time)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrSlotTaken):
			return "❌ Booking failed: This time slot is already booked. Please choose another time."
		case errors.Is(err, appointments.ErrInvalidService):
			return fmt.Sprintf("❌ Booking failed: We don't offer %q. Type `help` or ask me about our services.", cmd.Service)
		case errors.Is(err, appointments.ErrInvalidDate):
			return "❌ Booking failed: The date must be in YYYY-MM-DD format."
		default:
			i.logger.Error("chat booking failed", "error", err, "email", caller.Email)
			return "❌ Booking error: Unable to connect to server. Please try again."
		}
	}

	return fmt.Sprintf("✅ Your appointment request has been received!\n\n📅 Details:\n- Service: %s\n- Date: %s\n- Time: %s\n\nWe'll send you a confirmation soon!",
		cmd.Service, cmd.Date, cmd.Time)
}

func (i *Interpreter) patient(ctx context.Context, cmd PatientCommand) string {
	details, err := i.bookings.PatientDetails(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return "❌ Patient not found"
		}
		i.logger.Error("chat patient lookup failed", "error", err)
		return "❌ Error fetching patient details"
	}

	recent := details.Appointments
	if len(recent) > 5 {
		recent = recent[:5]
	}
	lines := make([]string, 0, len(recent))
	for _, apt := range recent {
		lines = append(lines, fmt.Sprintf("- %s on %s at %s (%s)",
			apt.Service, apt.Date.Format(appointments.DateLayout), apt.Time, apt.Status))
	}
	if len(lines) == 0 {
		lines = append(lines, "- No appointments yet")
	}

	return fmt.Sprintf("👤 **Patient Details:**\n\nName: %s\nEmail: %s\n\n📅 **Recent Appointments:**\n%s",
		details.User.Name, details.User.Email, strings.Join(lines, "\n"))
}

func (i *Interpreter) approve(ctx context.Context, cmd ApproveCommand) string {
	appt, err := i.bookings.Approve(ctx, cmd.ID, defaultApprovalMessage)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) || errors.Is(err, appointments.ErrFinalStatus) {
			return fmt.Sprintf("❌ Failed to approve appointment: %s", err.Error())
		}
		i.logger.Error("chat approve failed", "error", err, "appointment_id", cmd.ID)
		return "❌ Error approving appointment"
	}

	return fmt.Sprintf("✅ Appointment %s approved!\n\n📅 Details:\n- Patient: %s\n- Service: %s\n- Date: %s\n- Time: %s",
		cmd.ID, appt.UserName, appt.Service, appt.Date.Format(appointments.DateLayout), appt.Time)
}

func (i *Interpreter) cancel(ctx context.Context, cmd CancelCommand) string {
	appt, err := i.bookings.Cancel(ctx, cmd.ID, defaultCancellationReason)
	if err != nil {
		if errors.Is(err, appointments.ErrNotFound) || errors.Is(err, appointments.ErrFinalStatus) {
			return fmt.Sprintf("❌ Failed to cancel appointment: %s", err.Error())
		}
		i.logger.Error("chat cancel failed", "error", err, "appointment_id", cmd.ID)
		return "❌ Error cancelling appointment"
	}

	return fmt.Sprintf("✅ Appointment %s cancelled!\n\nPatient %s has been notified.", cmd.ID, appt.UserName)
}

func (i *Interpreter) remind(ctx context.Context, cmd RemindCommand) string {
	_, err := i.bookings.SetReminder(ctx, cmd.ID, cmd.When)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrNotFound):
			return "❌ Failed to set reminder: appointment not found"
		case errors.Is(err, appointments.ErrInvalidReminder):
			return msgRemindUsage
		default:
			i.logger.Error("chat reminder failed", "error", err, "appointment_id", cmd.ID)
			return "❌ Error setting reminder"
		}
	}

	return fmt.Sprintf("✅ Reminder set for appointment %s!\n\nYou will be reminded on: %s", cmd.ID, cmd.When)
}

func helpText(caller CallerContext) string {
	switch {
	case caller.Role == RoleAdmin:
		return msgHelpAdmin
	case caller.Identified():
		return msgHelpPatient
	default:
		return msgHelpAnonymous
	}
}
