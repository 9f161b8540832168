package adminauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martelly/adminauth/internal"
)

// IssueCode creates a fresh one-time code for the account and purpose,
// superseding any outstanding code of the same purpose and resetting its
// attempt counter. The plaintext code is returned for out-of-band
// delivery; with [VerificationConfig.HashCodes] only its digest is stored.
func (e *Engine) IssueCode(ctx context.Context, accountID string, purpose VerificationPurpose) (string, error) {
	code, err := internal.NewOTP(e.config.Verification.OTPDigits)
	if err != nil {
		return "", err
	}

	stored := code
	if e.config.Verification.HashCodes {
		stored = internal.HashCode(code)
	}

	record := &verificationRecord{
		AccountID: accountID,
		Code:      stored,
		ExpiresAt: time.Now().Add(e.config.Verification.TTL).Unix(),
		Purpose:   purpose,
	}

	if err := e.verification.Save(ctx, record, e.config.Verification.TTL); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricCodeIssued)
	e.emitAudit(ctx, "code.issued", accountID, "", "", true, purpose.String())

	return code, nil
}

// VerifyCode checks a candidate code against the live record for the
// account and purpose. Expected failures are [VerifyOutcome] values; err is
// non-nil only for store failures.
//
// The attempt counter is charged before anything else so abandoned
// requests still count. Checks then apply in a fixed order: a missing
// record is an invalid code; a logically expired record is expired
// whether or not the candidate matches; past the attempt ceiling every
// answer, correct included, is too many attempts; a consumed record is an
// invalid code. Only then is the candidate compared, and a match consumes
// the record.
func (e *Engine) VerifyCode(ctx context.Context, accountID string, purpose VerificationPurpose, candidate string) (VerifyOutcome, error) {
	attempts, err := e.verification.IncrementAttempts(ctx, purpose, accountID, e.config.Verification.TTL)
	if err != nil {
		return VerifyInvalidCode, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	record, err := e.verification.Get(ctx, purpose, accountID)
	if err != nil {
		if errors.Is(err, errVerificationNotFound) {
			return e.rejectCode(ctx, accountID, purpose, VerifyInvalidCode), nil
		}
		return VerifyInvalidCode, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if time.Now().Unix() > record.ExpiresAt {
		return e.rejectCode(ctx, accountID, purpose, VerifyExpired), nil
	}
	if attempts > int64(e.config.Verification.MaxAttempts) {
		return e.rejectCode(ctx, accountID, purpose, VerifyTooManyAttempts), nil
	}
	if record.Used {
		return e.rejectCode(ctx, accountID, purpose, VerifyInvalidCode), nil
	}

	if !internal.CodesMatch(record.Code, candidate) {
		return e.rejectCode(ctx, accountID, purpose, VerifyInvalidCode), nil
	}

	if err := e.verification.MarkUsed(ctx, record); err != nil {
		return VerifyInvalidCode, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricCodeVerified)
	e.emitAudit(ctx, "code.verified", accountID, "", "", true, purpose.String())

	return VerifyOK, nil
}

func (e *Engine) rejectCode(ctx context.Context, accountID string, purpose VerificationPurpose, outcome VerifyOutcome) VerifyOutcome {
	e.metricInc(MetricCodeRejected)
	e.emitAudit(ctx, "code.rejected", accountID, "", "", false, purpose.String()+": "+outcome.String())
	return outcome
}
