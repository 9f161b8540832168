package adminauth

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called before Build.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrUnauthenticated is returned when no live session can be resolved for a request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when a resolvable session lacks the required permission.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredential is returned for any bad email/password/reset-token combination.
	// It deliberately does not reveal which factor failed.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrRateLimited is returned when an attempt ceiling has been exceeded.
	ErrRateLimited = errors.New("rate limited")
	// ErrAccountNotFound is returned by AccountProvider lookups that match nothing.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when registration collides with an existing email.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountLocked is returned when the account is under a login lockout.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountDisabled is returned when the account is blocked or inactive.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrPasswordPolicy is returned when a candidate password violates the policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrUnknownPermission is returned at Build time for role/group keys outside the catalog.
	ErrUnknownPermission = errors.New("permission not in catalog")
	// ErrStoreUnavailable wraps transport failures against the backing store.
	// It is the only unrecoverable error class surfaced by Engine methods.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)
