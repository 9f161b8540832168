package adminauth

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	internalaudit "github.com/martelly/adminauth/internal/audit"
	"github.com/martelly/adminauth/internal/rate"
	"github.com/martelly/adminauth/password"
	"github.com/martelly/adminauth/permission"
	"github.com/martelly/adminauth/session"
)

// Builder assembles an [Engine]. Builders are single-use: Build consumes
// the builder and a second call fails.
type Builder struct {
	config      Config
	redisClient redis.UniversalClient
	provider    AccountProvider
	permissions []string
	roles       map[string][]string
	groups      map[string][]string
	auditSink   AuditSink
	built       bool
}

// New starts a [Builder] with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
		roles:  make(map[string][]string),
		groups: make(map[string][]string),
	}
}

// WithConfig replaces the entire configuration. Zero-valued fields are
// filled from defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the Redis client backing sessions, verification records,
// and login throttling. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redisClient = client
	return b
}

// WithAccountProvider sets the credential-store adapter. Required.
func (b *Builder) WithAccountProvider(provider AccountProvider) *Builder {
	b.provider = provider
	return b
}

// WithPermissions declares the permission catalog. Keys follow the
// resource:action convention; the wildcard is implicit and must not be
// listed.
func (b *Builder) WithPermissions(keys []string) *Builder {
	b.permissions = append(b.permissions, keys...)
	return b
}

// WithRoles binds role names to permission keys. Every key must appear in
// the catalog or be the wildcard.
func (b *Builder) WithRoles(roles map[string][]string) *Builder {
	for name, keys := range roles {
		b.roles[name] = keys
	}
	return b
}

// WithGroups binds group names to permission keys, with the same
// catalog-subset rule as roles.
func (b *Builder) WithGroups(groups map[string][]string) *Builder {
	for name, keys := range groups {
		b.groups[name] = keys
	}
	return b
}

// WithAuditSink sets the destination for audit events. Defaults to a
// no-op sink when auditing is enabled without one.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, freezes the permission catalog and
// resolver, and returns a ready [Engine]. Role and group bindings that
// reference keys outside the catalog fail with [ErrUnknownPermission].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}
	b.built = true

	if b.redisClient == nil {
		return nil, errors.New("redis client is required")
	}
	if b.provider == nil {
		return nil, errors.New("account provider is required")
	}

	fillConfigDefaults(&b.config)
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	catalog := permission.NewCatalog()
	for _, key := range b.permissions {
		if err := catalog.Register(key); err != nil {
			return nil, err
		}
	}
	catalog.Freeze()

	resolver := permission.NewResolver(catalog)
	for name, keys := range b.roles {
		if err := resolver.RegisterRole(name, keys); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownPermission, err)
		}
	}
	for name, keys := range b.groups {
		if err := resolver.RegisterGroup(name, keys); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownPermission, err)
		}
	}
	resolver.Freeze()

	hasher, err := password.New(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	limiter := rate.New(b.redisClient, rate.Config{
		EnableIPThrottle: b.config.Login.EnableIPThrottle,
		MaxAttempts:      b.config.Login.MaxAttempts,
		Window:           b.config.Login.ThrottleWindow,
	})

	dispatcher := internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, b.auditSink)

	return &Engine{
		config:       b.config,
		provider:     b.provider,
		sessions:     session.NewStore(b.redisClient, b.config.Session.RedisPrefix),
		verification: newVerificationStore(b.redisClient, b.config.Verification.RedisPrefix),
		catalog:      catalog,
		resolver:     resolver,
		hasher:       hasher,
		limiter:      limiter,
		audit:        dispatcher,
		metrics:      newMetrics(b.config.Metrics.Enabled),
	}, nil
}
