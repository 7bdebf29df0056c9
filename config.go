package kapici

import (
	"errors"
	"time"
)

// Config gathers every tunable of the admin session authority.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	JWT        JWTConfig
	Admin      AdminConfig
	Throttle   ThrottleConfig
	Revocation RevocationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
	Security   SecurityConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures token signing.
type JWTConfig struct {
	TTL           time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	Secret        []byte
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
ADMIN CREDENTIALS
====================================
*/

// AdminConfig holds the single static admin account. There are no
// hardcoded fallbacks: empty credentials fail [Config.Validate].
type AdminConfig struct {
	Username string
	Password string
	Role     string
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig tunes the failed-login attempt tracker.
type ThrottleConfig struct {
	MaxAttempts   int
	LockoutWindow time.Duration
}

// RevocationConfig controls the token denylist. Requires a Redis client
// on the builder; without one, Revoke is unavailable and Verify skips the
// denylist check.
type RevocationConfig struct {
	Enabled     bool
	RedisPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// SecurityConfig holds deployment-posture switches.
type SecurityConfig struct {
	ProductionMode bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration: 24h hs256 tokens,
// 5 attempts per 15 minutes, revocation on when Redis is present. Admin
// credentials and the signing secret have no defaults and must be set.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TTL:           24 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "kapici",
			Leeway:        30 * time.Second,
		},
		Admin: AdminConfig{
			Role: "admin",
		},
		Throttle: ThrottleConfig{
			MaxAttempts:   5,
			LockoutWindow: 15 * time.Minute,
		},
		Revocation: RevocationConfig{
			Enabled:     true,
			RedisPrefix: "arvk",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Security: SecurityConfig{
			ProductionMode: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for internal consistency. Missing
// credentials or signing material are hard errors: the authority refuses
// to build rather than substituting insecure defaults.
func (c *Config) Validate() error {
	// JWT
	if c.JWT.TTL <= 0 {
		return errors.New("JWT TTL must be > 0")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}

	switch c.JWT.SigningMethod {
	case "hs256":
		if len(c.JWT.Secret) == 0 {
			return errors.New("hs256 requires Secret")
		}
	case "ed25519":
		if len(c.JWT.PrivateKey) == 0 {
			return errors.New("ed25519 requires PrivateKey")
		}
		if len(c.JWT.PublicKey) == 0 {
			return errors.New("ed25519 requires PublicKey")
		}
	default:
		return errors.New("unsupported JWT signing method")
	}

	// Admin credentials
	if c.Admin.Username == "" {
		return errors.New("Admin Username is required")
	}
	if c.Admin.Password == "" {
		return errors.New("Admin Password is required")
	}
	if c.Admin.Role == "" {
		return errors.New("Admin Role is required")
	}

	// Throttle
	if c.Throttle.MaxAttempts <= 0 {
		return errors.New("Throttle MaxAttempts must be > 0")
	}
	if c.Throttle.LockoutWindow <= 0 {
		return errors.New("Throttle LockoutWindow must be > 0")
	}

	// Revocation
	if c.Revocation.Enabled && c.Revocation.RedisPrefix == "" {
		return errors.New("Revocation RedisPrefix is required when revocation is enabled")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	if c.Security.ProductionMode {
		if c.JWT.SigningMethod == "hs256" && len(c.JWT.Secret) < 32 {
			return errors.New("ProductionMode requires hs256 secret length >= 256 bits")
		}
		if c.JWT.TTL > 24*time.Hour {
			return errors.New("ProductionMode requires JWT TTL <= 24h")
		}
		if len(c.Admin.Password) < 12 {
			return errors.New("ProductionMode requires Admin Password length >= 12")
		}
	}

	return nil
}
