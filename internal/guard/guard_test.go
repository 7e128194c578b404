package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/token"
)

type ownedBy string

func (o ownedBy) Owner() string { return string(o) }

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name      string
		principal *token.Principal
		resource  Owned
		want      error
	}{
		{"owner may act", &token.Principal{ID: "A"}, ownedBy("A"), nil},
		{"non-owner is forbidden", &token.Principal{ID: "B"}, ownedBy("A"), ErrForbidden},
		{"missing resource", &token.Principal{ID: "A"}, nil, ErrNotFound},
		{"missing principal", nil, ownedBy("A"), ErrUnauthenticated},
		{"missing both reports not found", nil, nil, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.principal, tt.resource); !errors.Is(got, tt.want) {
				t.Errorf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGatedDenyDoesNotRunAction(t *testing.T) {
	ran := false
	err := Gated(context.Background(),
		&token.Principal{ID: "B"},
		func(context.Context) (Owned, error) { return ownedBy("A"), nil },
		func(context.Context) error { ran = true; return nil },
	)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if ran {
		t.Error("action ran despite deny")
	}
}

func TestGatedAllowRunsAction(t *testing.T) {
	ran := false
	err := Gated(context.Background(),
		&token.Principal{ID: "A"},
		func(context.Context) (Owned, error) { return ownedBy("A"), nil },
		func(context.Context) error { ran = true; return nil },
	)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !ran {
		t.Error("action did not run on allow")
	}
}

func TestGatedFetchErrorShortCircuits(t *testing.T) {
	fetchErr := errors.New("store down")
	err := Gated(context.Background(),
		&token.Principal{ID: "A"},
		func(context.Context) (Owned, error) { return nil, fetchErr },
		func(context.Context) error { t.Fatal("action ran"); return nil },
	)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want fetch error", err)
	}
}
