package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/metrics"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/token"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated principal from context.
func PrincipalFromContext(ctx context.Context) (*token.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*token.Principal)
	return p, ok
}

// ContextWithPrincipal attaches p to ctx. Exposed for handler tests.
func ContextWithPrincipal(ctx context.Context, p *token.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

type AuthMiddleware struct {
	codec   *token.Codec
	metrics *metrics.Collector
}

func NewAuthMiddleware(codec *token.Codec, m *metrics.Collector) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, metrics: m}
}

// RequireAuth verifies the Authorization header and attaches the resulting
// principal to the request context, or ends the request with 401.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.codec.Verify(r.Header.Get("Authorization"))
		if err != nil {
			a.metrics.RecordTokenRejected(rejectionReason(err))
			http.Error(w, rejectionMessage(err), http.StatusUnauthorized)
			return
		}

		a.metrics.RecordTokenVerified()
		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenMissing):
		return "missing"
	case errors.Is(err, token.ErrTokenExpired):
		return "expired"
	default:
		return "malformed"
	}
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenMissing):
		return "access denied: no token provided"
	case errors.Is(err, token.ErrTokenExpired):
		return "access denied: token expired"
	default:
		return "access denied: invalid token"
	}
}
