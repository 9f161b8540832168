package gate

import (
	"context"
	"net/http"
)

type accountIDContextKey struct{}

// AccountIDFromContext returns the account ID the gate resolved for this
// request, if any.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDContextKey{}).(string)
	return id, ok
}

// SessionValidator resolves a cookie token to an account ID. A missing or
// malformed token is the anonymous state, not an error; err is reserved
// for backing-store failures.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (accountID string, ok bool, err error)
}

// Middleware evaluates the routing policy in front of every handler. It
// resolves the session cookie through v, stashes the account ID in the
// request context when present, and applies the policy decision. Store
// failures surface as a bare 500; no internal detail reaches the caller.
//
// Paths whose decision does not depend on session presence (API bypass,
// assets) skip session resolution, so they stay reachable through a
// store outage even when the caller carries a cookie.
func Middleware(v SessionValidator, cookieName string, policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy.Unconditional(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			var (
				accountID     string
				authenticated bool
			)

			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				id, ok, err := v.ValidateSession(r.Context(), cookie.Value)
				if err != nil {
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				accountID, authenticated = id, ok
			}

			decision := policy.Decide(r.URL.Path, authenticated)
			if decision.Action == ActionRedirect {
				http.Redirect(w, r, decision.Target, http.StatusFound)
				return
			}

			if authenticated {
				ctx := context.WithValue(r.Context(), accountIDContextKey{}, accountID)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}
