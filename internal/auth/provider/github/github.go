package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth"
)

const (
	providerName = "github"
	userAPIURL   = "https://api.github.com/user"
)

// Provider implements OAuth authentication against GitHub. GitHub issues
// plain OAuth2 tokens (no OIDC id_token), so the profile is read from the
// user API with the exchanged token.
type Provider struct {
	oauthConfig *oauth2.Config
	// userURL is overridable for tests.
	userURL string
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       []string{"user:email"},
		},
		userURL: userAPIURL,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Profile, error) {

	tok, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.oauthConfig.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user fetch returned status %d", resp.StatusCode)
	}

	var ghUser struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("github user parse failed: %w", err)
	}
	if ghUser.ID == 0 {
		return nil, errors.New("github user response missing id")
	}

	// Name is frequently unset on GitHub accounts; the resolver treats an
	// empty display name as an incomplete identity.
	return &auth.Profile{
		Provider:       providerName,
		ProviderUserID: strconv.FormatInt(ghUser.ID, 10),
		DisplayName:    ghUser.Name,
		Email:          ghUser.Email,
	}, nil
}
