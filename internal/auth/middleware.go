// Package auth provides caller identification for the ShareIt HTTP API.
//
// Callers identify themselves with the X-Sharer-User-Id header carrying
// their numeric user id. The gateway in front of the service is trusted
// to have authenticated the user; this package only extracts and
// validates the id, leaving existence checks to the service layer.
package auth

import (
	"context"
	"net/http"
	"strconv"
)

// UserIDHeader is the header carrying the calling user's id.
const UserIDHeader = "X-Sharer-User-Id"

// contextKey is a private type for context values set by this package.
type contextKey struct{}

// callerKey is the context key holding the caller's user id.
var callerKey = contextKey{}

// Config contains configuration for the auth middleware.
type Config struct {
	// Optional determines whether requests without the header pass
	// through. Identity-free routes (users, health) run with an
	// Optional middleware; the rest reject missing headers.
	Optional bool
}

// Middleware extracts the caller id from the X-Sharer-User-Id header
// and stores it in the request context. A missing header is rejected
// with 400 unless config.Optional is set; a malformed header is always
// rejected.
func Middleware(config Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				if config.Optional {
					next.ServeHTTP(w, r)
					return
				}
				writeAuthError(w, "missing "+UserIDHeader+" header")
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				writeAuthError(w, "invalid "+UserIDHeader+" header")
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID retrieves the caller's user id from the context.
// The second return value is false when no caller is set.
func CallerID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(callerKey).(int64)
	return id, ok
}

// writeAuthError writes a JSON error response with status 400.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(`{"error":` + strconv.Quote(message) + `}`))
}
