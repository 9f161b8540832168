package adminauth

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/martelly/adminauth/internal/audit"
)

// Account is the identity record handled by the core. It is owned and
// persisted by the host application through [AccountProvider]; the engine
// only reads it and asks the provider for targeted mutations.
type Account struct {
	ID           string
	Email        string // case-normalized, unique
	PasswordHash string

	Roles  []string
	Groups []string

	Active  bool
	Blocked bool
	Deleted bool

	// Recovery fields. The reset token lives on the account record, not in
	// a separate token table: ResetTokenHash holds the hex SHA-256 of the
	// presented token, and both fields are cleared on password change.
	ResetTokenHash string
	ResetExpiresAt time.Time

	FailedLogins int
	LockedUntil  time.Time
}

// Live reports whether a session may resolve to this account. A session
// pointing at a blocked, deleted, or inactive account is treated exactly
// like no session at all.
func (a *Account) Live() bool {
	return a != nil && a.Active && !a.Blocked && !a.Deleted
}

// AccountProvider is the credential-store adapter the host application must
// implement to integrate adminauth with its account database. Emails passed
// in are already case-normalized. Lookups that match nothing must return
// [ErrAccountNotFound]; Create must return [ErrAccountExists] on an email
// collision.
//
// Implementations must be safe for concurrent use. Attempt-counter
// mutations (IncrementLoginFailures) are a security control and must be
// persisted even when the surrounding request is abandoned.
type AccountProvider interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, account *Account) error

	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, tokenHash string) (*Account, error)
	ClearResetToken(ctx context.Context, id string) error

	IncrementLoginFailures(ctx context.Context, id string) (int, error)
	ResetLoginFailures(ctx context.Context, id string) error
	LockUntil(ctx context.Context, id string, until time.Time) error
}

// VerificationPurpose tags a verification record with the flow it belongs
// to. An account holds at most one live record per purpose; issuing a new
// one supersedes the prior.
type VerificationPurpose uint8

const (
	// PurposeEmailVerification covers the post-registration email challenge.
	PurposeEmailVerification VerificationPurpose = iota
	// PurposePasswordReset covers short-code reset flows handled through the
	// shared token service. The token-based reset flow uses the account
	// record instead (see Engine.RequestPasswordReset).
	PurposePasswordReset
	// PurposeLoginChallenge covers step-up challenges during sign-in.
	PurposeLoginChallenge
)

func (p VerificationPurpose) String() string {
	switch p {
	case PurposeEmailVerification:
		return "email_verification"
	case PurposePasswordReset:
		return "password_reset"
	case PurposeLoginChallenge:
		return "login_challenge"
	default:
		return "unknown"
	}
}

// VerifyOutcome is the discriminated result of Engine.VerifyCode. Expected
// failure modes are values, not errors: only store transport failures
// surface as an error alongside the outcome.
type VerifyOutcome int

const (
	// VerifyOK means the code matched and the record is now marked used.
	VerifyOK VerifyOutcome = iota
	// VerifyInvalidCode covers wrong, missing, superseded, and already-used codes.
	VerifyInvalidCode
	// VerifyExpired is returned past the record expiry regardless of code correctness.
	VerifyExpired
	// VerifyTooManyAttempts is returned once the attempt ceiling is exceeded,
	// independent of code correctness.
	VerifyTooManyAttempts
)

func (o VerifyOutcome) String() string {
	switch o {
	case VerifyOK:
		return "ok"
	case VerifyInvalidCode:
		return "invalid_code"
	case VerifyExpired:
		return "expired"
	case VerifyTooManyAttempts:
		return "too_many_attempts"
	default:
		return "unknown"
	}
}

// CreateAccountInput is the input for [Engine.CreateAccount]. Email and
// Password are required; Roles defaults to [Config.Account.DefaultRole]
// when empty.
type CreateAccountInput struct {
	Email    string
	Password string
	Roles    []string
	Groups   []string
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
