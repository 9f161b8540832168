package adminauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martelly/adminauth/internal"
	"github.com/martelly/adminauth/session"
)

// IssueSession creates a server-side session for accountID and returns the
// opaque token to place in the session cookie. The token carries no claims;
// everything lives in the store, so revocation is instant and global.
func (e *Engine) IssueSession(ctx context.Context, accountID string) (string, error) {
	sid, err := internal.NewSessionID()
	if err != nil {
		return "", err
	}

	now := time.Now()
	sess := &session.Session{
		SessionID: sid.String(),
		AccountID: accountID,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(e.config.Session.TTL).Unix(),
	}

	if err := e.sessions.Save(ctx, sess, e.config.Session.TTL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricSessionIssued)
	e.emitAudit(ctx, "session.issued", accountID, sess.SessionID, "", true, "")

	return sess.SessionID, nil
}

// ValidateSession resolves a cookie token to its account ID. A missing,
// malformed, expired, or revoked token is the anonymous state: ok is false
// and err is nil. err is non-nil only for backing-store failures, and then
// wraps [ErrStoreUnavailable].
func (e *Engine) ValidateSession(ctx context.Context, token string) (string, bool, error) {
	if _, err := internal.ParseSessionID(token); err != nil {
		return "", false, nil
	}

	sess, err := e.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return sess.AccountID, true, nil
}

// RevokeSession deletes a session. Idempotent: revoking an unknown or
// malformed token succeeds silently.
func (e *Engine) RevokeSession(ctx context.Context, token string) error {
	if _, err := internal.ParseSessionID(token); err != nil {
		return nil
	}

	if err := e.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricSessionRevoked)
	e.emitAudit(ctx, "session.revoked", "", token, "", true, "")

	return nil
}

// RevokeAllSessions deletes every tracked session for an account. Used on
// password reset and administrative lockout.
func (e *Engine) RevokeAllSessions(ctx context.Context, accountID string) error {
	if err := e.sessions.DeleteAllForAccount(ctx, accountID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricSessionRevoked)
	e.emitAudit(ctx, "session.revoked_all", accountID, "", "", true, "")

	return nil
}

// ActiveSessions returns the tracked session IDs for an account.
func (e *Engine) ActiveSessions(ctx context.Context, accountID string) ([]string, error) {
	ids, err := e.sessions.ActiveSessionIDs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ids, nil
}
