package adminauth

import (
	"context"
	"errors"
	"time"

	"github.com/martelly/adminauth/internal"
)

// RequestPasswordReset starts the token-based reset flow. The response is
// uniform for unknown, blocked, and deleted emails: an empty token and a
// nil error, so the endpoint never confirms whether an address is
// registered. On an eligible account it stores the token's SHA-256 on the
// record and returns the plaintext token for delivery out of band.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)

	account, err := e.provider.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return "", nil
		}
		return "", err
	}
	if !account.Live() {
		return "", nil
	}

	token, err := internal.NewResetToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(e.config.PasswordReset.TokenTTL)
	if err := e.provider.SetResetToken(ctx, account.ID, internal.HashResetToken(token), expiresAt); err != nil {
		return "", err
	}

	e.metricInc(MetricResetRequested)
	e.emitAudit(ctx, "password.reset_requested", account.ID, "", "", true, "")

	return token, nil
}

// ConfirmPasswordReset completes the reset flow: it resolves the token by
// digest, swaps the password, clears the token, and revokes every session
// of the account. Unknown and expired tokens both come back as
// [ErrInvalidCredential]; the distinction is not observable from outside.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	account, err := e.provider.GetByResetToken(ctx, internal.HashResetToken(token))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidCredential
		}
		return err
	}
	if !account.Live() {
		return ErrInvalidCredential
	}
	if account.ResetExpiresAt.Before(time.Now()) {
		return ErrInvalidCredential
	}

	if len(newPassword) < e.config.Password.MinLength {
		return ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := e.provider.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return err
	}
	if err := e.provider.ClearResetToken(ctx, account.ID); err != nil {
		return err
	}
	if err := e.RevokeAllSessions(ctx, account.ID); err != nil {
		return err
	}

	e.metricInc(MetricResetConfirmed)
	e.emitAudit(ctx, "password.reset_confirmed", account.ID, "", "", true, "")

	return nil
}
