package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can collide with or shadow the authenticated user value.
type contextKey string

const userKey contextKey = "user"

// IdentityResolver maps a raw access token to a live user record. The
// concrete implementation is service.AuthService; the interface keeps this
// package free of a dependency on the service layer.
type IdentityResolver interface {
	ResolveAccessToken(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth enforces bearer-token authentication on protected routes.
//
// Status codes mirror the client contract exactly:
//   - no Authorization header (or not a Bearer scheme) → 403
//   - invalid, expired or wrong-kind token, or unknown user → 401
//   - valid token for a deactivated account → 403
//
// On success the resolved user is stored in the request context; handlers
// read it back with UserFromContext. Resolution hits storage on every
// request — there is no identity cache, by the stateless design.
func RequireAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusForbidden, "not_authenticated", "authentication credentials were not provided")
				return
			}

			user, err := resolver.ResolveAccessToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperror.ErrForbidden) {
					writeAuthError(w, http.StatusForbidden, "forbidden", "account is deactivated")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user set by RequireAuth.
// Returns (nil, false) on routes that did not pass through the middleware.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// writeAuthError emits the standard error envelope without importing the
// handler package (which depends on this one).
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + code + `","message":"` + message + `"}`))
}
