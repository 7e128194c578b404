// Package guard decides whether a principal may mutate an owned resource.
// The decision is creator identity equality only; there are no roles and
// no transitive membership.
package guard

import (
	"context"
	"errors"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/token"
)

var (
	ErrUnauthenticated = errors.New("guard: no authenticated principal")
	ErrForbidden       = errors.New("guard: principal is not the resource owner")
	ErrNotFound        = errors.New("guard: resource not found")
)

// Owned is any resource that declares its creator.
type Owned interface {
	Owner() string
}

// Authorize returns nil when principal owns the resource. A nil resource
// yields ErrNotFound; a nil principal should not reach this point when
// middleware ordering is respected, but is rejected defensively.
func Authorize(principal *token.Principal, resource Owned) error {
	if resource == nil {
		return ErrNotFound
	}
	if principal == nil {
		return ErrUnauthenticated
	}
	if resource.Owner() != principal.ID {
		return ErrForbidden
	}
	return nil
}

// Gated fetches a resource, authorizes the principal against it, and runs
// action only on allow. A deny returns the guard error without invoking
// action, so a rejected request has no partial side effects.
func Gated(
	ctx context.Context,
	principal *token.Principal,
	fetch func(context.Context) (Owned, error),
	action func(context.Context) error,
) error {
	resource, err := fetch(ctx)
	if err != nil {
		return err
	}
	if err := Authorize(principal, resource); err != nil {
		return err
	}
	return action(ctx)
}
