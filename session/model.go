package session

// Session is the server-side record an opaque cookie token resolves to.
// The token itself carries nothing but the session ID; every attribute
// lives here, in the store.
type Session struct {
	SessionID string
	AccountID string

	CreatedAt int64
	ExpiresAt int64
}
