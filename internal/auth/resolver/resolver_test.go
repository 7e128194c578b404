package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/user"
)

// --- mocks ---

// mockStore enforces the same uniqueness rules as the Postgres store so
// resolver behavior under concurrency can be exercised without a database.
type mockStore struct {
	mu         sync.Mutex
	byEmail    map[string]*user.User
	byExternal map[string]*user.User
	byID       map[string]*user.User
}

func newMockStore() *mockStore {
	return &mockStore{
		byEmail:    make(map[string]*user.User),
		byExternal: make(map[string]*user.User),
		byID:       make(map[string]*user.User),
	}
}

func (m *mockStore) CreateLocal(ctx context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, user.ErrEmailExists
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	m.byID[u.ID] = &cp
	return &cp, nil
}

func (m *mockStore) UpsertExternal(ctx context.Context, u *user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byExternal[u.ExternalID]; ok {
		return existing, nil
	}
	cp := *u
	m.byExternal[u.ExternalID] = &cp
	m.byID[u.ID] = &cp
	return &cp, nil
}

func (m *mockStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockStore) CompleteProfile(ctx context.Context, id, firstName, lastName string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	if u.FirstName == "" {
		u.FirstName = firstName
	}
	if u.LastName == "" {
		u.LastName = lastName
	}
	return u, nil
}

// --- tests ---

func TestRegisterLocalValidation(t *testing.T) {
	r := New(newMockStore())

	valid := Registration{
		FirstName: "Ann", LastName: "Lee",
		Email: "a@x.com", Password: "secret1234",
	}

	tests := []struct {
		name   string
		mutate func(*Registration)
	}{
		{"first name too short", func(in *Registration) { in.FirstName = "A" }},
		{"last name too long", func(in *Registration) {
			long := make([]rune, 51)
			for i := range long {
				long[i] = 'x'
			}
			in.LastName = string(long)
		}},
		{"missing email", func(in *Registration) { in.Email = "" }},
		{"short password", func(in *Registration) { in.Password = "short" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := r.RegisterLocal(context.Background(), in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("err = %v, want *ValidationError", err)
			}
		})
	}
}

func TestRegisterLocalDuplicateEmail(t *testing.T) {
	r := New(newMockStore())
	in := Registration{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Password: "secret1234"}

	if _, err := r.RegisterLocal(context.Background(), in); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := r.RegisterLocal(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("second registration err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticateLocal(t *testing.T) {
	r := New(newMockStore())
	created, err := r.RegisterLocal(context.Background(), Registration{
		FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Password: "secret1234",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := r.AuthenticateLocal(context.Background(), "a@x.com", "secret1234")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("authenticated id = %q, want %q", u.ID, created.ID)
	}

	if _, err := r.AuthenticateLocal(context.Background(), "a@x.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := r.AuthenticateLocal(context.Background(), "nobody@x.com", "secret1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestSplitDisplayName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"", "", ""},
		{"octocat", "octocat", ""},
		{"Ann Lee", "Ann", "Lee"},
		{"Ann van der Lee", "Ann", "Lee"},
		{"  spaced   out  ", "spaced", "out"},
	}

	for _, tt := range tests {
		first, last := SplitDisplayName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitDisplayName(%q) = (%q, %q), want (%q, %q)",
				tt.in, first, last, tt.first, tt.last)
		}
	}
}

func TestResolveExternalIdempotentUnderConcurrency(t *testing.T) {
	store := newMockStore()
	r := New(store)

	profile := &auth.Profile{
		Provider:       "github",
		ProviderUserID: "gh-12345",
		DisplayName:    "Ann Lee",
	}

	const callers = 16
	ids := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := r.ResolveExternal(context.Background(), profile)
			if err != nil {
				t.Errorf("ResolveExternal: %v", err)
				return
			}
			ids <- u.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Errorf("concurrent resolutions produced %d distinct users, want 1", len(seen))
	}
	if len(store.byExternal) != 1 {
		t.Errorf("store holds %d external users, want 1", len(store.byExternal))
	}
}

func TestResolveExternalScopedByProvider(t *testing.T) {
	store := newMockStore()
	r := New(store)

	gh, err := r.ResolveExternal(context.Background(), &auth.Profile{
		Provider: "github", ProviderUserID: "1234567", DisplayName: "Ann Lee",
	})
	if err != nil {
		t.Fatalf("github ResolveExternal: %v", err)
	}

	gg, err := r.ResolveExternal(context.Background(), &auth.Profile{
		Provider: "google", ProviderUserID: "1234567", DisplayName: "Bob Roe",
	})
	if err != nil {
		t.Fatalf("google ResolveExternal: %v", err)
	}

	if gh.ID == gg.ID {
		t.Fatalf("distinct providers sharing user id %q resolved to the same user %s", "1234567", gh.ID)
	}
	if gg.FirstName != "Bob" {
		t.Errorf("google user firstName = %q, want Bob", gg.FirstName)
	}

	again, err := r.ResolveExternal(context.Background(), &auth.Profile{
		Provider: "github", ProviderUserID: "1234567",
	})
	if err != nil {
		t.Fatalf("repeat github ResolveExternal: %v", err)
	}
	if again.ID != gh.ID {
		t.Errorf("repeat github resolution = %s, want the original user %s", again.ID, gh.ID)
	}

	if _, err := r.ResolveExternal(context.Background(), &auth.Profile{ProviderUserID: "1234567"}); err == nil {
		t.Error("profile without a provider was accepted")
	}
}

func TestResolveExternalSplitsDisplayName(t *testing.T) {
	r := New(newMockStore())

	u, err := r.ResolveExternal(context.Background(), &auth.Profile{
		Provider:       "github",
		ProviderUserID: "gh-1",
		DisplayName:    "Grace Brewster Hopper",
	})
	if err != nil {
		t.Fatalf("ResolveExternal: %v", err)
	}
	if u.FirstName != "Grace" || u.LastName != "Hopper" {
		t.Errorf("names = (%q, %q), want (Grace, Hopper)", u.FirstName, u.LastName)
	}

	single, err := r.ResolveExternal(context.Background(), &auth.Profile{
		Provider:       "github",
		ProviderUserID: "gh-2",
		DisplayName:    "octocat",
	})
	if err != nil {
		t.Fatalf("ResolveExternal: %v", err)
	}
	if single.FirstName != "octocat" || single.LastName != "" {
		t.Errorf("names = (%q, %q), want (octocat, \"\")", single.FirstName, single.LastName)
	}
	if single.Complete() {
		t.Error("single-token identity reported complete")
	}
}

func TestCompleteProfileIsMonotonic(t *testing.T) {
	store := newMockStore()
	r := New(store)

	u, err := r.ResolveExternal(context.Background(), &auth.Profile{
		Provider:       "github",
		ProviderUserID: "gh-1",
		DisplayName:    "Existing",
	})
	if err != nil {
		t.Fatalf("ResolveExternal: %v", err)
	}

	got, err := r.CompleteProfile(context.Background(), u.ID, "Xavier", "Lee")
	if err != nil {
		t.Fatalf("CompleteProfile: %v", err)
	}
	if got.FirstName != "Existing" {
		t.Errorf("firstName = %q, want stored value Existing to survive", got.FirstName)
	}
	if got.LastName != "Lee" {
		t.Errorf("lastName = %q, want Lee", got.LastName)
	}
	if !got.Complete() {
		t.Error("profile not complete after completion")
	}
}

func TestCompleteProfileUnknownUser(t *testing.T) {
	r := New(newMockStore())
	if _, err := r.CompleteProfile(context.Background(), "missing", "Ann", "Lee"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
