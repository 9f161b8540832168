// Package memprovider is an in-memory AccountProvider for examples and
// tests. It keeps every account in a map under a single lock; it is not a
// durable store.
package memprovider

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/martelly/adminauth"
)

// Provider implements [adminauth.AccountProvider] over an in-memory map.
// Safe for concurrent use.
type Provider struct {
	mu       sync.RWMutex
	accounts map[string]*adminauth.Account
	byEmail  map[string]string
}

// New creates an empty Provider.
func New() *Provider {
	return &Provider{
		accounts: make(map[string]*adminauth.Account),
		byEmail:  make(map[string]string),
	}
}

func (p *Provider) GetByID(ctx context.Context, id string) (*adminauth.Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	account, ok := p.accounts[id]
	if !ok {
		return nil, adminauth.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (p *Provider) GetByEmail(ctx context.Context, email string) (*adminauth.Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, ok := p.byEmail[email]
	if !ok {
		return nil, adminauth.ErrAccountNotFound
	}
	return cloneAccount(p.accounts[id]), nil
}

func (p *Provider) Create(ctx context.Context, account *adminauth.Account) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[account.Email]; exists {
		return adminauth.ErrAccountExists
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	p.accounts[account.ID] = cloneAccount(account)
	p.byEmail[account.Email] = account.ID
	return nil
}

func (p *Provider) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return adminauth.ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

func (p *Provider) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return adminauth.ErrAccountNotFound
	}
	account.ResetTokenHash = tokenHash
	account.ResetExpiresAt = expiresAt
	return nil
}

func (p *Provider) GetByResetToken(ctx context.Context, tokenHash string) (*adminauth.Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if tokenHash == "" {
		return nil, adminauth.ErrAccountNotFound
	}
	for _, account := range p.accounts {
		if account.ResetTokenHash == tokenHash {
			return cloneAccount(account), nil
		}
	}
	return nil, adminauth.ErrAccountNotFound
}

func (p *Provider) ClearResetToken(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return adminauth.ErrAccountNotFound
	}
	account.ResetTokenHash = ""
	account.ResetExpiresAt = time.Time{}
	return nil
}

func (p *Provider) IncrementLoginFailures(ctx context.Context, id string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return 0, adminauth.ErrAccountNotFound
	}
	account.FailedLogins++
	return account.FailedLogins, nil
}

func (p *Provider) ResetLoginFailures(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return adminauth.ErrAccountNotFound
	}
	account.FailedLogins = 0
	account.LockedUntil = time.Time{}
	return nil
}

func (p *Provider) LockUntil(ctx context.Context, id string, until time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return adminauth.ErrAccountNotFound
	}
	account.LockedUntil = until
	return nil
}

func cloneAccount(account *adminauth.Account) *adminauth.Account {
	clone := *account
	clone.Roles = append([]string(nil), account.Roles...)
	clone.Groups = append([]string(nil), account.Groups...)
	return &clone
}
