package middleware

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// principalKey is the context key for the authenticated principal.
const principalKey contextKey = "principal"

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom extracts the principal from the context.
// Returns nil if the request was not authenticated.
func PrincipalFrom(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(principalKey).(*models.Principal)
	return p
}

// authenticate verifies the Authorization header and returns the principal.
func authenticate(gate *auth.Gate, header string) (*models.Principal, error) {
	token, err := auth.BearerToken(header)
	if err != nil {
		return nil, err
	}
	return gate.Verify(token)
}

// RequireAuth returns a Connect interceptor that verifies the bearer token of
// every call except the listed public procedures, and stores the principal
// in the context. Role and ownership checks are left to the handlers.
func RequireAuth(gate *auth.Gate, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if open[req.Spec().Procedure] {
				return next(ctx, req)
			}

			principal, err := authenticate(gate, req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithPrincipal(ctx, principal), req)
		}
	}
}

// UnauthorizedFunc writes the response for a request whose token failed
// verification.
type UnauthorizedFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuthHTTP is the net/http counterpart of RequireAuth. It wraps a
// single handler; onError writes the 401.
func RequireAuthHTTP(gate *auth.Gate, onError UnauthorizedFunc, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := authenticate(gate, r.Header.Get("Authorization"))
		if err != nil {
			onError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
