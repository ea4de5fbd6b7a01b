package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"perftrack/internal/auth"
	"perftrack/internal/authz"
	"perftrack/internal/domain/identity"
	"perftrack/internal/transport/http/api"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// UserSource resolves a token's user id to a live account row.
type UserSource interface {
	UserByID(ctx context.Context, id int64) (identity.User, error)
}

// Auth is the authentication gate for protected routes. It rejects with 401
// when the token is missing, malformed, expired, or names a user that no
// longer exists, and with 403 when the account is inactive. The resolved
// user is stored in the request context for handlers.
func Auth(secret string, users UserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			claims, err := auth.ParseToken(secret, stripBearer(header))
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "could not validate credentials", GetRequestID(r.Context()))
				return
			}

			user, err := users.UserByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, identity.ErrNotFound) {
					api.Fail(w, http.StatusUnauthorized, "unauthorized", "could not validate credentials", GetRequestID(r.Context()))
					return
				}
				api.Fail(w, http.StatusInternalServerError, "user_lookup_failed", "failed to resolve user", GetRequestID(r.Context()))
				return
			}

			if !user.IsActive {
				api.Fail(w, http.StatusForbidden, "inactive", "user account is inactive", GetRequestID(r.Context()))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// stripBearer removes an optional case-insensitive "Bearer " prefix; a bare
// token is accepted as-is.
func stripBearer(header string) string {
	if len(header) >= 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(header)
}

func GetUser(ctx context.Context) (identity.User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(identity.User)
	return user, ok
}

// GetCaller projects the context user into the shape the scope resolver
// takes decisions on.
func GetCaller(ctx context.Context) (authz.Caller, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return authz.Caller{}, false
	}
	return authz.Caller{Role: user.Role, EmployeeID: user.EmployeeID}, true
}
