package adminauth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func testConfig() Config {
	cfg := defaultConfig()
	// Cheap argon2 parameters keep the suite fast.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Audit.Enabled = false
	return cfg
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *fakeProvider, *miniredis.Miniredis) {
	t.Helper()

	mr, client := newTestRedis(t)
	provider := newFakeProvider()

	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithAccountProvider(provider).
		WithPermissions([]string{"user:read", "user:write", "order:read", "order:write"}).
		WithRoles(map[string][]string{
			"admin":   {"*"},
			"support": {"user:read", "order:read"},
		}).
		WithGroups(map[string][]string{
			"warehouse": {"order:write"},
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, provider, mr
}

func seedAccount(t *testing.T, engine *Engine, provider *fakeProvider, email, plainPassword string, roles []string) *Account {
	t.Helper()

	hash, err := engine.hasher.Hash(plainPassword)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	account := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		Active:       true,
	}
	if err := provider.Create(context.Background(), account); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return account
}

// fakeProvider is a map-backed AccountProvider for engine tests.
type fakeProvider struct {
	mu       sync.Mutex
	accounts map[string]*Account
	byEmail  map[string]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		accounts: make(map[string]*Account),
		byEmail:  make(map[string]string),
	}
}

func (p *fakeProvider) mutate(t *testing.T, id string, fn func(*Account)) {
	t.Helper()

	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		t.Fatalf("no account %s", id)
	}
	fn(account)
}

func (p *fakeProvider) GetByID(ctx context.Context, id string) (*Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (p *fakeProvider) GetByEmail(ctx context.Context, email string) (*Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *p.accounts[id]
	return &clone, nil
}

func (p *fakeProvider) Create(ctx context.Context, account *Account) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[account.Email]; exists {
		return ErrAccountExists
	}
	clone := *account
	p.accounts[account.ID] = &clone
	p.byEmail[account.Email] = account.ID
	return nil
}

func (p *fakeProvider) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

func (p *fakeProvider) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.ResetTokenHash = tokenHash
	account.ResetExpiresAt = expiresAt
	return nil
}

func (p *fakeProvider) GetByResetToken(ctx context.Context, tokenHash string) (*Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tokenHash == "" {
		return nil, ErrAccountNotFound
	}
	for _, account := range p.accounts {
		if account.ResetTokenHash == tokenHash {
			clone := *account
			return &clone, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (p *fakeProvider) ClearResetToken(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.ResetTokenHash = ""
	account.ResetExpiresAt = time.Time{}
	return nil
}

func (p *fakeProvider) IncrementLoginFailures(ctx context.Context, id string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return 0, ErrAccountNotFound
	}
	account.FailedLogins++
	return account.FailedLogins, nil
}

func (p *fakeProvider) ResetLoginFailures(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.FailedLogins = 0
	account.LockedUntil = time.Time{}
	return nil
}

func (p *fakeProvider) LockUntil(ctx context.Context, id string, until time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.LockedUntil = until
	return nil
}

func TestBuilderRequiresDependencies(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("Build without redis must fail")
	}

	_, client := newTestRedis(t)
	if _, err := New().WithRedis(client).Build(); err == nil {
		t.Fatal("Build without provider must fail")
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	_, client := newTestRedis(t)

	b := New().
		WithConfig(testConfig()).
		WithRedis(client).
		WithAccountProvider(newFakeProvider())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("second Build must fail")
	}
}

func TestBuilderRejectsBindingsOutsideCatalog(t *testing.T) {
	_, client := newTestRedis(t)

	_, err := New().
		WithConfig(testConfig()).
		WithRedis(client).
		WithAccountProvider(newFakeProvider()).
		WithPermissions([]string{"user:read"}).
		WithRoles(map[string][]string{"bad": {"not:registered"}}).
		Build()
	if !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("Build = %v, want ErrUnknownPermission", err)
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	engine, _, _ := newTestEngine(t, func(cfg *Config) {
		cfg.Production = true
	})

	cookie := engine.SessionCookie("token-value")
	if cookie.Name != "auth_session" || cookie.Value != "token-value" {
		t.Fatalf("unexpected cookie identity: %+v", cookie)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}
	if cookie.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Fatalf("MaxAge = %d, want session TTL in seconds", cookie.MaxAge)
	}

	clear := engine.ClearSessionCookie()
	if clear.MaxAge != -1 || clear.Value != "" {
		t.Fatalf("unexpected clearing cookie: %+v", clear)
	}
	if s := clear.String(); s == "" {
		t.Fatal("clearing cookie did not serialize")
	}
}

func TestMetricsSnapshot(t *testing.T) {
	engine, provider, _ := newTestEngine(t, nil)
	ctx := context.Background()

	seedAccount(t, engine, provider, "alice@example.com", "long-enough-pw", []string{"admin"})
	if _, err := engine.Login(ctx, "alice@example.com", "long-enough-pw", ""); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	snapshot := engine.MetricsSnapshot()
	if snapshot[MetricLoginSuccess.String()] != 1 {
		t.Fatalf("login_success = %d, want 1", snapshot[MetricLoginSuccess.String()])
	}
	if snapshot[MetricSessionIssued.String()] != 1 {
		t.Fatalf("session_issued = %d, want 1", snapshot[MetricSessionIssued.String()])
	}
}
