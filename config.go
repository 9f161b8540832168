package adminauth

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. Zero values are filled from
// defaultConfig at Build time; explicit values are validated there.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	// Production toggles hardening that only makes sense behind TLS,
	// currently the Secure attribute on the session cookie.
	Production bool

	Session       SessionConfig
	Cookie        CookieConfig
	Login         LoginConfig
	Account       AccountConfig
	Password      PasswordConfig
	Verification  VerificationConfig
	PasswordReset PasswordResetConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

// SessionConfig controls the Redis-backed session store.
type SessionConfig struct {
	RedisPrefix string
	// TTL is the absolute session lifetime; it also caps the cookie max-age.
	TTL time.Duration
}

// CookieConfig controls the session cookie surface. The cookie is always
// HTTP-only, SameSite=Lax, path "/"; Secure follows Config.Production.
type CookieConfig struct {
	Name   string
	Domain string
}

// LoginConfig controls credential-check throttling. The fixed-window
// limiter runs before the provider lookup; the failure counter and lockout
// live on the account record itself.
type LoginConfig struct {
	MaxAttempts      int
	ThrottleWindow   time.Duration
	EnableIPThrottle bool

	MaxFailures  int
	LockDuration time.Duration
}

// AccountConfig controls registration defaults.
type AccountConfig struct {
	DefaultRole string
}

// PasswordConfig carries the argon2id parameters and the password policy.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

// VerificationConfig controls the shared one-time-code service.
type VerificationConfig struct {
	RedisPrefix string
	OTPDigits   int
	TTL         time.Duration
	MaxAttempts int
	// HashCodes stores the SHA-256 of issued codes instead of the plaintext.
	// Verification is prefix-aware either way, so records written with the
	// opposite setting remain verifiable.
	HashCodes bool
}

// PasswordResetConfig controls the account-embedded reset-token flow.
type PasswordResetConfig struct {
	TokenTTL time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix: "sas",
			TTL:         7 * 24 * time.Hour,
		},
		Cookie: CookieConfig{
			Name: "auth_session",
		},
		Login: LoginConfig{
			MaxAttempts:      10,
			ThrottleWindow:   15 * time.Minute,
			EnableIPThrottle: true,
			MaxFailures:      5,
			LockDuration:     15 * time.Minute,
		},
		Account: AccountConfig{
			DefaultRole: "member",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        2,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
			MinLength:   8,
		},
		Verification: VerificationConfig{
			RedisPrefix: "avc",
			OTPDigits:   6,
			TTL:         10 * time.Minute,
			MaxAttempts: 5,
			HashCodes:   true,
		},
		PasswordReset: PasswordResetConfig{
			TokenTTL: time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func fillConfigDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Session.RedisPrefix == "" {
		cfg.Session.RedisPrefix = def.Session.RedisPrefix
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = def.Session.TTL
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = def.Cookie.Name
	}
	if cfg.Login.MaxAttempts <= 0 {
		cfg.Login.MaxAttempts = def.Login.MaxAttempts
	}
	if cfg.Login.ThrottleWindow <= 0 {
		cfg.Login.ThrottleWindow = def.Login.ThrottleWindow
	}
	if cfg.Login.MaxFailures <= 0 {
		cfg.Login.MaxFailures = def.Login.MaxFailures
	}
	if cfg.Login.LockDuration <= 0 {
		cfg.Login.LockDuration = def.Login.LockDuration
	}
	if cfg.Account.DefaultRole == "" {
		cfg.Account.DefaultRole = def.Account.DefaultRole
	}
	if cfg.Password.Memory == 0 {
		cfg.Password.Memory = def.Password.Memory
	}
	if cfg.Password.Time == 0 {
		cfg.Password.Time = def.Password.Time
	}
	if cfg.Password.Parallelism == 0 {
		cfg.Password.Parallelism = def.Password.Parallelism
	}
	if cfg.Password.SaltLength == 0 {
		cfg.Password.SaltLength = def.Password.SaltLength
	}
	if cfg.Password.KeyLength == 0 {
		cfg.Password.KeyLength = def.Password.KeyLength
	}
	if cfg.Password.MinLength <= 0 {
		cfg.Password.MinLength = def.Password.MinLength
	}
	if cfg.Verification.RedisPrefix == "" {
		cfg.Verification.RedisPrefix = def.Verification.RedisPrefix
	}
	if cfg.Verification.OTPDigits == 0 {
		cfg.Verification.OTPDigits = def.Verification.OTPDigits
	}
	if cfg.Verification.TTL <= 0 {
		cfg.Verification.TTL = def.Verification.TTL
	}
	if cfg.Verification.MaxAttempts <= 0 {
		cfg.Verification.MaxAttempts = def.Verification.MaxAttempts
	}
	if cfg.PasswordReset.TokenTTL <= 0 {
		cfg.PasswordReset.TokenTTL = def.PasswordReset.TokenTTL
	}
	if cfg.Audit.BufferSize <= 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}
}

func validateConfig(cfg Config) error {
	if cfg.Session.TTL < time.Minute {
		return errors.New("session TTL must be at least one minute")
	}
	if cfg.Verification.OTPDigits < 4 || cfg.Verification.OTPDigits > 10 {
		return errors.New("verification OTP digits must be between 4 and 10")
	}
	if cfg.Verification.MaxAttempts < 1 {
		return errors.New("verification max attempts must be >= 1")
	}
	if cfg.Password.MinLength < 8 {
		return errors.New("password minimum length must be >= 8")
	}
	if cfg.PasswordReset.TokenTTL < time.Minute {
		return errors.New("password reset TTL must be at least one minute")
	}
	return nil
}
