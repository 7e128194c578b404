package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/credentials"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/user"
)

// UserStore is the persistence surface the resolver needs. The Postgres
// implementation lives in internal/user; tests substitute a mock.
type UserStore interface {
	CreateLocal(ctx context.Context, u *user.User) (*user.User, error)
	UpsertExternal(ctx context.Context, u *user.User) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	CompleteProfile(ctx context.Context, id, firstName, lastName string) (*user.User, error)
}

// StoreResolver is the canonical resolver, backed by the user store.
type StoreResolver struct {
	store UserStore
}

func New(store UserStore) *StoreResolver {
	return &StoreResolver{store: store}
}

func (r *StoreResolver) RegisterLocal(ctx context.Context, in Registration) (*user.User, error) {
	if err := validateName("firstName", in.FirstName); err != nil {
		return nil, err
	}
	if err := validateName("lastName", in.LastName); err != nil {
		return nil, err
	}
	if in.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "required"}
	}

	hash, err := credentials.HashPassword(in.Password)
	if err != nil {
		return nil, &ValidationError{Field: "password", Reason: err.Error()}
	}

	created, err := r.store.CreateLocal(ctx, &user.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, user.ErrEmailExists) {
		return nil, ErrEmailTaken
	}
	return created, err
}

func (r *StoreResolver) AuthenticateLocal(ctx context.Context, email, password string) (*user.User, error) {
	u, err := r.store.GetByEmail(ctx, email)
	if err != nil {
		// hide whether the email exists
		return nil, ErrInvalidCredentials
	}
	if err := credentials.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ResolveExternal maps a provider identity to a user in one conditional
// write. The store's upsert is the atomicity boundary: a second concurrent
// callback for the same provider identity lands on the same row instead of
// creating a duplicate.
func (r *StoreResolver) ResolveExternal(ctx context.Context, profile *auth.Profile) (*user.User, error) {
	if profile == nil || profile.Provider == "" || profile.ProviderUserID == "" {
		return nil, &ValidationError{Field: "profile", Reason: "missing provider identity"}
	}

	firstName, lastName := SplitDisplayName(profile.DisplayName)

	return r.store.UpsertExternal(ctx, &user.User{
		ID:         uuid.NewString(),
		FirstName:  firstName,
		LastName:   lastName,
		ExternalID: externalKey(profile.Provider, profile.ProviderUserID),
	})
}

// externalKey scopes a provider user id to its provider. Providers number
// their users independently, so the bare id is not unique across providers;
// the stored external id always carries the provider prefix.
func externalKey(provider, providerUserID string) string {
	return provider + ":" + providerUserID
}

func (r *StoreResolver) CompleteProfile(ctx context.Context, userID, firstName, lastName string) (*user.User, error) {
	if firstName != "" {
		if err := validateName("firstName", firstName); err != nil {
			return nil, err
		}
	}
	if lastName != "" {
		if err := validateName("lastName", lastName); err != nil {
			return nil, err
		}
	}

	u, err := r.store.CompleteProfile(ctx, userID, firstName, lastName)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// SplitDisplayName derives name fields from a provider display name: the
// first whitespace-delimited token becomes the first name, the last token
// becomes the last name only when more than one token exists.
func SplitDisplayName(displayName string) (firstName, lastName string) {
	tokens := strings.Fields(displayName)
	if len(tokens) == 0 {
		return "", ""
	}
	firstName = tokens[0]
	if len(tokens) > 1 {
		lastName = tokens[len(tokens)-1]
	}
	return firstName, lastName
}

func validateName(field, value string) error {
	if n := len([]rune(value)); n < 2 || n > 50 {
		return &ValidationError{Field: field, Reason: "must be 2-50 characters"}
	}
	return nil
}
