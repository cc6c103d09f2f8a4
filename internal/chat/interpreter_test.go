package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

type errDirectory struct {
	err error
}

func (d errDirectory) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return nil, d.err
}

func TestBookDistinguishesLookupMissFromLookupFailure(t *testing.T) {
	cmd := BookCommand{Service: "Consultation", Date: "2026-02-15", Time: "10:00 AM"}
	caller := CallerContext{Role: RolePatient, Email: "jane@example.com"}

	t.Run("unknown account", func(t *testing.T) {
		interp := NewInterpreter(nil, errDirectory{err: users.ErrUserNotFound}, nil, logging.Default())
		got := interp.Execute(context.Background(), cmd, caller)
		if got != msgBookUserNotFound {
			t.Errorf("reply = %q, want %q", got, msgBookUserNotFound)
		}
	})

	t.Run("directory unreachable", func(t *testing.T) {
		interp := NewInterpreter(nil, errDirectory{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, nil, logging.Default())
		got := interp.Execute(context.Background(), cmd, caller)
		if !strings.Contains(got, "Unable to connect to server") {
			t.Errorf("reply = %q, want connect error", got)
		}
		if strings.Contains(got, "User not found") {
			t.Errorf("transient failure reported as missing user: %q", got)
		}
	})
}
