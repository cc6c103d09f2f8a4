package users

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryCreateAndLookup(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &CreateUserParams{
		Email:        " Jane@Example.com ",
		Name:         "Jane Smith",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Email != "jane@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}
	if created.Role != RoleUser {
		t.Errorf("role = %q, want default %q", created.Role, RoleUser)
	}

	got, err := repo.GetByEmail(ctx, "JANE@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned wrong user: %s", got.ID)
	}
}

func TestInMemoryDuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &CreateUserParams{Email: "bob@example.com", Name: "Bob", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	_, err := repo.Create(ctx, &CreateUserParams{Email: "bob@example.com", Name: "Bob Again", PasswordHash: "h"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestInMemoryGetMissing(t *testing.T) {
	repo := NewInMemoryRepository()

	if _, err := repo.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestInMemoryUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &CreateUserParams{Email: "ann@example.com", Name: "Ann", PasswordHash: "original"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	created.Name = "Ann Lee"
	created.PasswordHash = ""
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Ann Lee" {
		t.Errorf("Name = %q, want Ann Lee", updated.Name)
	}
	if updated.PasswordHash != "original" {
		t.Errorf("PasswordHash = %q, want original preserved", updated.PasswordHash)
	}
}

func TestCreateUserParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateUserParams
		wantErr error
	}{
		{"missing email", CreateUserParams{Name: "X"}, ErrInvalidEmail},
		{"missing name", CreateUserParams{Email: "x@y.com"}, ErrInvalidName},
		{"bad role", CreateUserParams{Email: "x@y.com", Name: "X", Role: "root"}, ErrInvalidRole},
		{"ok", CreateUserParams{Email: "x@y.com", Name: "X"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
