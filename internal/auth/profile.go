package auth

// Profile represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Profile struct {
	Provider       string // e.g. "github", "google"
	ProviderUserID string // provider-scoped unique user identifier
	DisplayName    string // free-form name as reported by the provider, may be empty
	Email          string // email returned by provider, may be empty
}
