// Package chat implements the conversational assistant: a command
// interpreter that intercepts structured instructions ahead of the language
// model, role-conditioned prompts, and session transcript persistence.
package chat

import (
	"context"

	"github.com/brightsmile/clinic-platform/internal/users"
)

// Caller roles. Anonymous covers visitors with no identified email.
const (
	RoleAnonymous = "anonymous"
	RolePatient   = "patient"
	RoleAdmin     = "admin"
)

// CallerContext identifies who is speaking in a chat turn. Role is never
// empty; Email is empty for anonymous callers. It is built once per request
// and threaded through parsing and execution.
type CallerContext struct {
	Role  string
	Email string
}

// Identified reports whether the caller has an associated email.
func (c CallerContext) Identified() bool {
	return c.Email != ""
}

// Directory is the user lookup the resolver and interpreter need.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// ResolveCaller builds a CallerContext. The role hint from the request is
// advisory; when an email is present the stored account's role wins. Lookup
// failures degrade to the hint rather than failing the turn, so a request
// carrying an unknown email and an admin hint does get the admin command
// grammar. That matches the original system's behavior and is kept
// deliberately; the admin commands it unlocks still act only on real records,
// and the REST admin surface stays behind token auth.
func ResolveCaller(ctx context.Context, dir Directory, email, roleHint string) CallerContext {
	caller := CallerContext{Role: RoleAnonymous}
	if email == "" {
		return caller
	}

	caller.Email = users.NormalizeEmail(email)
	caller.Role = RolePatient
	if roleHint == users.RoleAdmin {
		caller.Role = RoleAdmin
	}

	if dir == nil {
		return caller
	}
	user, err := dir.GetByEmail(ctx, caller.Email)
	if err != nil {
		return caller
	}
	if user.Role == users.RoleAdmin {
		caller.Role = RoleAdmin
	} else {
		caller.Role = RolePatient
	}
	return caller
}
