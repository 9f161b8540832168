package adminauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/martelly/adminauth/internal/rate"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and issues a session on success. The limiter
// runs before the provider lookup so a throttled caller learns nothing
// about account existence. Failure modes: [ErrRateLimited],
// [ErrInvalidCredential] for unknown email or wrong password,
// [ErrAccountDisabled] for blocked or inactive accounts, and
// [ErrAccountLocked] during a failure lockout. Account status is checked
// only after the password verifies, so a caller without the credential
// cannot tell a disabled or locked account from an unknown email.
// Per-account failure counts persist on the account record; the window
// throttle lives in Redis.
func (e *Engine) Login(ctx context.Context, email, password, ip string) (string, error) {
	email = normalizeEmail(email)

	if err := e.limiter.Check(ctx, email, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, "login.rate_limited", "", "", ip, false, "")
			return "", ErrRateLimited
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	account, err := e.provider.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", e.failLogin(ctx, "", email, ip)
		}
		return "", err
	}
	if account.Deleted {
		return "", e.failLogin(ctx, account.ID, email, ip)
	}

	match, err := e.hasher.Verify(password, account.PasswordHash)
	if err != nil || !match {
		if failErr := e.recordLoginFailure(ctx, account.ID); failErr != nil {
			return "", failErr
		}
		return "", e.failLogin(ctx, account.ID, email, ip)
	}

	if account.Blocked || !account.Active {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, "login.failed", account.ID, "", ip, false, "account disabled")
		return "", ErrAccountDisabled
	}
	if account.LockedUntil.After(time.Now()) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, "login.failed", account.ID, "", ip, false, "account locked")
		return "", ErrAccountLocked
	}

	if err := e.provider.ResetLoginFailures(ctx, account.ID); err != nil {
		return "", err
	}
	if err := e.limiter.Reset(ctx, email, ip); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	token, err := e.IssueSession(ctx, account.ID)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, "login.succeeded", account.ID, token, ip, true, "")

	return token, nil
}

// Logout revokes the session behind a cookie token. Idempotent.
func (e *Engine) Logout(ctx context.Context, token string) error {
	return e.RevokeSession(ctx, token)
}

// failLogin charges the throttle window and returns the uniform credential
// error. The charge lands even when the request is then abandoned.
func (e *Engine) failLogin(ctx context.Context, accountID, email, ip string) error {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, "login.failed", accountID, "", ip, false, "invalid credential")

	if err := e.limiter.Increment(ctx, email, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			return ErrInvalidCredential
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return ErrInvalidCredential
}

func (e *Engine) recordLoginFailure(ctx context.Context, accountID string) error {
	failures, err := e.provider.IncrementLoginFailures(ctx, accountID)
	if err != nil {
		return err
	}

	if failures >= e.config.Login.MaxFailures {
		until := time.Now().Add(e.config.Login.LockDuration)
		if err := e.provider.LockUntil(ctx, accountID, until); err != nil {
			return err
		}
		e.emitAudit(ctx, "login.locked", accountID, "", "", false, "failure ceiling reached")
	}

	return nil
}
