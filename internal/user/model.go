package user

import "time"

// User is the canonical identity record. Exactly one of the two credential
// sets is present: Email+PasswordHash for locally-registered users, or
// ExternalID for users created through an OAuth provider. ExternalID is a
// provider-qualified key ("github:1234567"), since provider user ids are
// only unique within one provider. The database enforces the
// one-credential-set invariant with a CHECK constraint.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	ExternalID   string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Complete reports whether the profile has both name fields populated.
// Externally-created users start incomplete and become complete exactly
// once, through profile completion.
func (u *User) Complete() bool {
	return u.FirstName != "" && u.LastName != ""
}
