package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightsmile/clinic-platform/internal/users"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Save(ctx context.Context, appt *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id string) error
	ListByUserEmail(ctx context.Context, email string) ([]*Appointment, error)
	ListByStatus(ctx context.Context, status string) ([]*Appointment, error)
	ListAll(ctx context.Context) ([]*Appointment, error)
	ListForDate(ctx context.Context, date time.Time) ([]*Appointment, error)
	SlotTaken(ctx context.Context, date time.Time, slot string) (bool, error)
}

// InMemoryRepository keeps appointments in memory for tests and the seeder.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Appointment
	order []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Appointment)}
}

// Create inserts a new appointment.
func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *appt
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.UserEmail = users.NormalizeEmail(stored.UserEmail)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	copied := stored
	return &copied, nil
}

// GetByID retrieves an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

// Save replaces a stored appointment.
func (r *InMemoryRepository) Save(ctx context.Context, appt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[appt.ID]; !ok {
		return nil, ErrNotFound
	}
	stored := *appt
	stored.UpdatedAt = time.Now().UTC()
	r.byID[stored.ID] = &stored

	copied := stored
	return &copied, nil
}

// Delete removes an appointment entirely.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListByUserEmail returns a user's appointments, most recent date first.
func (r *InMemoryRepository) ListByUserEmail(ctx context.Context, email string) ([]*Appointment, error) {
	email = users.NormalizeEmail(email)
	return r.filter(func(a *Appointment) bool { return a.UserEmail == email }, dateDesc), nil
}

// ListByStatus returns appointments with the given status, earliest date first.
func (r *InMemoryRepository) ListByStatus(ctx context.Context, status string) ([]*Appointment, error) {
	return r.filter(func(a *Appointment) bool { return a.Status == status }, dateAsc), nil
}

// ListAll returns every appointment, most recent date first.
func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	return r.filter(func(a *Appointment) bool { return true }, dateDesc), nil
}

// ListForDate returns appointments on the given day.
func (r *InMemoryRepository) ListForDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	return r.filter(func(a *Appointment) bool { return a.Date.Equal(date) }, dateAsc), nil
}

// SlotTaken reports whether a non-cancelled appointment occupies date+slot.
func (r *InMemoryRepository) SlotTaken(ctx context.Context, date time.Time, slot string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.Date.Equal(date) && a.Time == slot && a.Status != StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type lessFunc func(a, b *Appointment) bool

func dateDesc(a, b *Appointment) bool { return a.Date.After(b.Date) }
func dateAsc(a, b *Appointment) bool  { return a.Date.Before(b.Date) }

func (r *InMemoryRepository) filter(keep func(*Appointment) bool, less lessFunc) []*Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0)
	for _, id := range r.order {
		a := r.byID[id]
		if keep(a) {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
