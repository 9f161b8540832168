package adminauth

import (
	"context"

	"github.com/google/uuid"
)

// CreateAccount registers a new account. Email is case-normalized before
// the uniqueness check; the password is policy-checked and hashed here so
// plaintext never reaches the provider. Roles defaults to the configured
// default role. Returns [ErrPasswordPolicy] or [ErrAccountExists].
func (e *Engine) CreateAccount(ctx context.Context, input CreateAccountInput) (*Account, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrInvalidCredential
	}
	if len(input.Password) < e.config.Password.MinLength {
		return nil, ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{e.config.Account.DefaultRole}
	}

	account := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		Groups:       input.Groups,
		Active:       true,
	}

	if err := e.provider.Create(ctx, account); err != nil {
		return nil, err
	}

	e.emitAudit(ctx, "account.created", account.ID, "", "", true, "")

	return account, nil
}

// GetAccount loads an account by ID through the provider.
func (e *Engine) GetAccount(ctx context.Context, id string) (*Account, error) {
	return e.provider.GetByID(ctx, id)
}
