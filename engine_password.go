package adminauth

import "context"

// ChangePassword replaces an account's password hash and clears any
// outstanding reset token, killing in-flight reset links. Existing sessions
// are left alone; callers wanting a forced re-login pair this with
// [Engine.RevokeAllSessions]. Returns [ErrPasswordPolicy] for a too-short
// password.
func (e *Engine) ChangePassword(ctx context.Context, accountID, newPassword string) error {
	if len(newPassword) < e.config.Password.MinLength {
		return ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := e.provider.UpdatePasswordHash(ctx, accountID, hash); err != nil {
		return err
	}
	if err := e.provider.ClearResetToken(ctx, accountID); err != nil {
		return err
	}

	e.metricInc(MetricPasswordChanged)
	e.emitAudit(ctx, "password.changed", accountID, "", "", true, "")

	return nil
}
