package kapici

import (
	"errors"

	"github.com/kapici-dev/kapici/internal/audit"
	"github.com/kapici-dev/kapici/internal/rate"
	"github.com/kapici-dev/kapici/jwt"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Redis is optional: without it the engine
// falls back to the process-local [MemoryTracker] and disables the
// revocation denylist.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	tracker   AttemptTracker
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the client backing the shared attempt tracker and
// the revocation denylist.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAttemptTracker overrides the tracker selection entirely. Useful for
// custom backends and for tests.
func (b *Builder) WithAttemptTracker(t AttemptTracker) *Builder {
	b.tracker = t
	return b
}

// WithAuditSink attaches a sink for audit events. Audit must also be
// enabled in the configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verification latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and constructs the engine. A Builder
// may only be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
	}

	switch {
	case b.tracker != nil:
		engine.tracker = b.tracker
	case b.redis != nil:
		engine.tracker = rate.New(b.redis, rate.Config{
			MaxAttempts:   cfg.Throttle.MaxAttempts,
			LockoutWindow: cfg.Throttle.LockoutWindow,
		})
	default:
		engine.tracker = NewMemoryTracker(cfg.Throttle)
	}

	if cfg.Revocation.Enabled && b.redis != nil {
		engine.revocations = newRevocationStore(b.redis, cfg.Revocation)
	}

	engine.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	jm, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.JWT.TTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		Secret:        cloneBytes(cfg.JWT.Secret),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}
	engine.jwtManager = jm

	b.built = true

	return engine, nil
}
