package adminauth

import (
	"context"
	"errors"
	"net/http"

	"github.com/martelly/adminauth/permission"
)

// EffectivePermissions computes an account's permission set as the union
// over its roles and groups. A nil account resolves to the empty set.
func (e *Engine) EffectivePermissions(account *Account) permission.Set {
	if account == nil {
		return permission.NewSet()
	}
	return e.resolver.Effective(account.Roles, account.Groups)
}

// HasPermission reports whether a resolved permission set satisfies the
// required key, wildcard included.
func (e *Engine) HasPermission(set permission.Set, required string) bool {
	return set.Has(required)
}

// CheckPermission loads the account and verifies it holds the required
// permission. Returns [ErrUnauthenticated] when the account cannot back a
// live session and [ErrForbidden] when the permission is missing.
func (e *Engine) CheckPermission(ctx context.Context, accountID, required string) (*Account, error) {
	account, err := e.provider.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !account.Live() {
		return nil, ErrUnauthenticated
	}

	if !e.EffectivePermissions(account).Has(required) {
		e.metricInc(MetricPermissionDenied)
		e.emitAudit(ctx, "permission.denied", accountID, "", "", false, required)
		return nil, ErrForbidden
	}

	return account, nil
}

// RequirePermission is the request-level authorization check for API
// handlers: it resolves the session cookie, loads the account, and verifies
// the permission, returning the account on success. Failure modes:
// [ErrUnauthenticated] for no live session or a dead account,
// [ErrForbidden] for a missing permission, and an
// [ErrStoreUnavailable]-wrapped error for store failures.
func (e *Engine) RequirePermission(ctx context.Context, r *http.Request, required string) (*Account, error) {
	cookie, err := r.Cookie(e.config.Cookie.Name)
	if err != nil || cookie.Value == "" {
		return nil, ErrUnauthenticated
	}

	accountID, ok, err := e.ValidateSession(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthenticated
	}

	return e.CheckPermission(ctx, accountID, required)
}
