package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("resolver: invalid credentials")
	ErrEmailTaken         = errors.New("resolver: email already registered")
	ErrUserNotFound       = errors.New("resolver: user not found")
)

// ValidationError reports malformed registration or completion input. It
// is surfaced verbatim to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("resolver: invalid %s: %s", e.Field, e.Reason)
}

// Registration is the input for creating a locally-authenticated user.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Resolver converts credentials or an external-provider profile into a
// canonical user record. It is the ONLY place where identity-to-user
// mapping logic lives.
type Resolver interface {
	// RegisterLocal validates and persists a locally-registered user.
	RegisterLocal(ctx context.Context, in Registration) (*user.User, error)

	// AuthenticateLocal checks an email/password pair and returns the
	// matching user. Failures never reveal whether the email exists.
	AuthenticateLocal(ctx context.Context, email, password string) (*user.User, error)

	// ResolveExternal finds or creates the user linked to an external
	// provider identity. It is idempotent under concurrent calls with
	// the same provider user id.
	ResolveExternal(ctx context.Context, profile *auth.Profile) (*user.User, error)

	// CompleteProfile fills empty name fields exactly once; stored
	// non-empty values are never overwritten.
	CompleteProfile(ctx context.Context, userID, firstName, lastName string) (*user.User, error)
}
