// Package appointments manages the clinic's booking lifecycle: pending
// requests, dentist approval/rejection, reminders, and slot availability.
package appointments

import (
	"strings"
	"time"
)

// Appointment statuses. A cancelled or completed appointment never
// transitions again.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// ReminderLayout is the wire format for reminder timestamps.
const ReminderLayout = "2006-01-02 15:04"

// TimeSlots is the fixed enumeration of bookable times. At most one
// non-cancelled appointment may occupy a (date, slot) pair.
var TimeSlots = []string{
	"09:00 AM",
	"09:30 AM",
	"10:00 AM",
	"10:30 AM",
	"11:00 AM",
	"11:30 AM",
	"02:00 PM",
	"02:30 PM",
	"03:00 PM",
	"03:30 PM",
	"04:00 PM",
	"04:30 PM",
	"05:00 PM",
}

// Services is the fixed enumeration of clinic procedures.
var Services = []string{
	"Anterior Tooth Fracture Repair",
	"BPS Denture",
	"Bridge Recementation",
	"Bruxzir Crown",
	"CAD CAM PFM Crown",
	"Cast Partial Denture",
	"Cast RPD Additional Tooth",
	"Ceramic Braces",
	"Ceramic Laminates",
	"Clear Aligners",
	"CLP / Perio Surgeries",
	"Co-Cr Metal Crown",
	"Composite Filling",
	"Composite Laminates",
	"Consultant Doctor",
	"Consultation",
	"Crown Recementation",
	"Dental Bleaching",
	"Dental Implant",
	"Denture Repair",
	"Depigmentation",
	"Diastema Closure",
	"Digital X-ray",
	"Disimpaction Surgery",
	"Fiber Glass Denture",
	"Firm Tooth Extraction",
	"Flap Surgery",
	"Flexible Denture",
	"Flexible RPD",
	"Fluoride Application",
	"Follow Up",
	"Fracture Mandible Treatment",
	"GIC Filling",
	"Gingivectomy",
	"Imported Lucitone Denture",
	"IOPA Film X-ray",
	"Lava/Procera/E-max Crown",
	"Lucitone Denture",
	"Metal Braces",
	"Minor Surgical Procedure",
	"Mobile Tooth Extraction",
	"Ni-Cr Metal Crown",
	"Night Guard / Mouth Guard",
	"Non-Surgical Perio Therapy",
	"Pediatric Restorations",
	"PFM Crown",
	"Post & Core",
	"Preformed Metal Crown",
	"Primary Tooth Extraction",
	"Pulpectomy",
	"RCT - Standard",
	"Removable Appliance",
	"Repeat RCT",
	"RPD Additional Tooth",
	"RPD Single Tooth",
	"Scaling & Polishing",
	"Silver Filling",
	"Space Maintainer",
	"Standard Acrylic Denture",
	"Strip Crown (Anterior)",
	"Surgical Extraction",
	"Temporary Crown",
	"Third Molar RCT",
	"Zirconia Crown",
	"Zirconia Crown (Pediatric)",
}

// Appointment is a booked or requested visit.
type Appointment struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name"`
	UserEmail       string     `json:"user_email"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	Date            time.Time  `json:"date"`
	Time            string     `json:"time"`
	Service         string     `json:"service"`
	DentistName     string     `json:"dentist_name,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Status          string     `json:"status"`
	ApprovalMessage string     `json:"approval_message,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReminderSet     bool       `json:"reminder_set"`
	ReminderDate    *time.Time `json:"reminder_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsFinal reports whether the appointment can no longer change status.
func (a *Appointment) IsFinal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// ValidSlot reports whether slot is one of the fixed time slots.
// Matching is case-insensitive and whitespace-tolerant.
func ValidSlot(slot string) (string, bool) {
	needle := strings.ToUpper(strings.Join(strings.Fields(slot), " "))
	for _, s := range TimeSlots {
		if s == needle {
			return s, true
		}
	}
	return "", false
}

// ValidService reports whether name is one of the clinic procedures,
// ignoring case, and returns the canonical spelling.
func ValidService(name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Services {
		if strings.ToLower(s) == needle {
			return s, true
		}
	}
	return "", false
}

// ParseDate parses a YYYY-MM-DD date into a UTC day value.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d.UTC(), nil
}

// Update carries the mutable fields an administrator may change.
// Nil pointers leave the stored value untouched.
type Update struct {
	Status      *string    `json:"status,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Time        *string    `json:"time,omitempty"`
	Service     *string    `json:"service,omitempty"`
	DentistName *string    `json:"dentist_name,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}
