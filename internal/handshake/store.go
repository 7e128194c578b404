// Package handshake holds the only server-side state this service keeps:
// the short-lived window of an external OAuth login. One-time state records
// protect the redirect round trip, and single-use completion tickets bind
// the profile-completion step to the callback that minted them.
package handshake

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("handshake: record not found or already used")

const (
	StateTTL  = 5 * time.Minute
	TicketTTL = 15 * time.Minute
)

// State is stored while the browser is away at the provider. The PKCE
// verifier never travels to the client.
type State struct {
	Provider     string `json:"provider"`
	CodeVerifier string `json:"codeVerifier"`
}

type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) stateKey(id string) string  { return "oauth_state:" + id }
func (s *Store) ticketKey(id string) string { return "completion_ticket:" + id }

// PutState stores st under a fresh random id and returns the id, which is
// used as the OAuth state parameter.
func (s *Store) PutState(ctx context.Context, st State) (string, error) {
	id, err := randomID()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("handshake: marshal state: %w", err)
	}
	if err := s.client.Set(ctx, s.stateKey(id), data, StateTTL).Err(); err != nil {
		return "", fmt.Errorf("handshake: store state: %w", err)
	}
	return id, nil
}

// TakeState retrieves and deletes the state record in one round trip, so a
// replayed callback cannot reuse it.
func (s *Store) TakeState(ctx context.Context, id string) (*State, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	val, err := s.client.GetDel(ctx, s.stateKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("handshake: load state: %w", err)
	}

	var st State
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, fmt.Errorf("handshake: unmarshal state: %w", err)
	}
	return &st, nil
}

// IssueTicket mints a single-use completion ticket for userID.
func (s *Store) IssueTicket(ctx context.Context, userID string) (string, error) {
	id, err := randomID()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.ticketKey(id), userID, TicketTTL).Err(); err != nil {
		return "", fmt.Errorf("handshake: store ticket: %w", err)
	}
	return id, nil
}

// RedeemTicket consumes the ticket and returns the user id it was issued
// for. A second redemption of the same ticket fails with ErrNotFound.
func (s *Store) RedeemTicket(ctx context.Context, ticket string) (string, error) {
	if ticket == "" {
		return "", ErrNotFound
	}

	userID, err := s.client.GetDel(ctx, s.ticketKey(ticket)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("handshake: redeem ticket: %w", err)
	}
	return userID, nil
}

// randomID returns 256 bits of entropy, url-safe.
func randomID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("handshake: generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
