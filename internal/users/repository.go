package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for account storage
type Repository interface {
	Create(ctx context.Context, params *CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// InMemoryRepository is an in-memory Repository used by tests and the seeder.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

// Create inserts a new account in memory.
func (r *InMemoryRepository) Create(ctx context.Context, params *CreateUserParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[params.Email]; ok {
		return nil, ErrEmailTaken
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New().String(),
		Email:        params.Email,
		Name:         params.Name,
		Phone:        params.Phone,
		Role:         params.Role,
		PasswordHash: params.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user

	copied := *user
	return &copied, nil
}

// GetByID retrieves an account by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail retrieves an account by normalized email.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// Update replaces mutable fields on an existing account.
func (r *InMemoryRepository) Update(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return nil, ErrUserNotFound
	}
	existing.Name = user.Name
	existing.Phone = user.Phone
	if user.PasswordHash != "" {
		existing.PasswordHash = user.PasswordHash
	}
	existing.UpdatedAt = time.Now().UTC()

	copied := *existing
	return &copied, nil
}

// List returns all accounts ordered by creation time.
func (r *InMemoryRepository) List(ctx context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*User, 0, len(r.byID))
	for _, u := range r.byID {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
