// Package clinic holds the practice's public profile: contact details,
// opening hours, services, and visit policies. The chat assistant folds this
// into its prompts so answers stay grounded in real clinic facts.
package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightsmile/clinic-platform/internal/appointments"
)

// DayHours represents the opening hours for a single day.
// Nil means the clinic is closed that day.
type DayHours struct {
	Open  string `json:"open"`  // "09:00" in 24-hour format
	Close string `json:"close"` // "18:00" in 24-hour format
}

// BusinessHours maps day names to their hours.
type BusinessHours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// GetHoursForDay returns the hours for a given weekday.
func (b *BusinessHours) GetHoursForDay(weekday time.Weekday) *DayHours {
	switch weekday {
	case time.Sunday:
		return b.Sunday
	case time.Monday:
		return b.Monday
	case time.Tuesday:
		return b.Tuesday
	case time.Wednesday:
		return b.Wednesday
	case time.Thursday:
		return b.Thursday
	case time.Friday:
		return b.Friday
	case time.Saturday:
		return b.Saturday
	default:
		return nil
	}
}

// Settings holds the clinic profile shown to patients and fed to the
// assistant.
type Settings struct {
	Name          string        `json:"name"`
	Tagline       string        `json:"tagline,omitempty"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	Timezone      string        `json:"timezone"`
	BusinessHours BusinessHours `json:"business_hours"`
	Dentists      []string      `json:"dentists,omitempty"`
	Services      []string      `json:"services,omitempty"`
	// Policies are short patient-facing rules, one line each
	// (cancellation notice, arrival time, insurance).
	Policies []string `json:"policies,omitempty"`
}

// DefaultSettings returns the out-of-the-box clinic profile.
func DefaultSettings() *Settings {
	return &Settings{
		Name:     "BrightSmile Dental Clinic",
		Tagline:  "Complete family and cosmetic dentistry",
		Email:    "care@brightsmile.example",
		Phone:    "+1 (555) 010-3428",
		Address:  "12 Harbor Street",
		Timezone: "Asia/Kolkata",
		BusinessHours: BusinessHours{
			Monday:    &DayHours{Open: "09:00", Close: "17:30"},
			Tuesday:   &DayHours{Open: "09:00", Close: "17:30"},
			Wednesday: &DayHours{Open: "09:00", Close: "17:30"},
			Thursday:  &DayHours{Open: "09:00", Close: "17:30"},
			Friday:    &DayHours{Open: "09:00", Close: "17:30"},
			Saturday:  &DayHours{Open: "09:00", Close: "13:00"},
			Sunday:    nil, // Closed
		},
		Dentists: []string{"Dr. Asha Rao", "Dr. Kiran Mehta"},
		Services: appointments.Services,
		Policies: []string{
			"Please arrive 10 minutes before your slot.",
			"Cancellations need 24 hours notice.",
			"Bookings are confirmed by the dentist before they are final.",
		},
	}
}

// IsOpenAt checks whether the clinic is open at the given time.
func (s *Settings) IsOpenAt(t time.Time) bool {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := t.In(loc)

	hours := s.BusinessHours.GetHoursForDay(local.Weekday())
	if hours == nil {
		return false
	}
	open, err := time.Parse("15:04", hours.Open)
	if err != nil {
		return false
	}
	close, err := time.Parse("15:04", hours.Close)
	if err != nil {
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= open.Hour()*60+open.Minute() && minute < close.Hour()*60+close.Minute()
}

// PromptContext renders the profile as a block of facts for the assistant's
// system prompt.
func (s *Settings) PromptContext() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Clinic: %s", s.Name)
	if s.Tagline != "" {
		fmt.Fprintf(&b, " (%s)", s.Tagline)
	}
	b.WriteString("\n")
	if s.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", s.Address)
	}
	if s.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", s.Phone)
	}
	if s.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", s.Email)
	}

	b.WriteString("Opening hours:\n")
	days := []struct {
		name  string
		hours *DayHours
	}{
		{"Monday", s.BusinessHours.Monday},
		{"Tuesday", s.BusinessHours.Tuesday},
		{"Wednesday", s.BusinessHours.Wednesday},
		{"Thursday", s.BusinessHours.Thursday},
		{"Friday", s.BusinessHours.Friday},
		{"Saturday", s.BusinessHours.Saturday},
		{"Sunday", s.BusinessHours.Sunday},
	}
	for _, d := range days {
		if d.hours == nil {
			fmt.Fprintf(&b, "  %s: closed\n", d.name)
		} else {
			fmt.Fprintf(&b, "  %s: %s-%s\n", d.name, d.hours.Open, d.hours.Close)
		}
	}

	if len(s.Dentists) > 0 {
		fmt.Fprintf(&b, "Dentists: %s\n", strings.Join(s.Dentists, ", "))
	}
	if len(s.Services) > 0 {
		fmt.Fprintf(&b, "Services: %s\n", strings.Join(s.Services, ", "))
	}
	if len(s.Policies) > 0 {
		b.WriteString("Policies:\n")
		for _, p := range s.Policies {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	fmt.Fprintf(&b, "Bookable time slots: %s\n", strings.Join(appointments.TimeSlots, ", "))
	return b.String()
}

const settingsKey = "clinic:settings"

// Store provides persistence for the clinic profile.
type Store struct {
	redis *redis.Client
}

// NewStore creates a new settings store.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient}
}

// Get retrieves the profile, returning the default when none is saved.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	data, err := s.redis.Get(ctx, settingsKey).Bytes()
	if err == redis.Nil {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("clinic: get settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("clinic: unmarshal settings: %w", err)
	}
	return &settings, nil
}

// Set saves the profile.
func (s *Store) Set(ctx context.Context, settings *Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("clinic: marshal settings: %w", err)
	}
	if err := s.redis.Set(ctx, settingsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("clinic: set settings: %w", err)
	}
	return nil
}
