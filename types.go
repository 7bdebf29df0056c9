package kapici

import (
	"io"
	"time"

	internalaudit "github.com/kapici-dev/kapici/internal/audit"
	internalmetrics "github.com/kapici-dev/kapici/internal/metrics"
)

// VerifyResult is returned by [Engine.Verify] for a token that passed
// signature, expiry, revocation, and role checks.
type VerifyResult struct {
	// Identity is the authenticated principal. The authority manages a
	// single static admin account, so this is always "admin".
	Identity string
	// Role is the role claim carried by the token.
	Role string
	// TokenID is the token's jti claim.
	TokenID string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricLoginSuccess counts successful admin logins.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure counts credential mismatches.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricLoginRateLimited counts logins rejected by the attempt tracker.
	MetricLoginRateLimited = internalmetrics.MetricLoginRateLimited
	// MetricLoginMissingCredentials counts requests with an empty username
	// or password.
	MetricLoginMissingCredentials = internalmetrics.MetricLoginMissingCredentials
	// MetricTokenIssued counts minted admin tokens.
	MetricTokenIssued = internalmetrics.MetricTokenIssued
	// MetricVerifySuccess counts verifications that accepted the token.
	MetricVerifySuccess = internalmetrics.MetricVerifySuccess
	// MetricVerifyMissingToken counts verifications with no token supplied.
	MetricVerifyMissingToken = internalmetrics.MetricVerifyMissingToken
	// MetricVerifyInvalid counts signature or expiry rejections.
	MetricVerifyInvalid = internalmetrics.MetricVerifyInvalid
	// MetricVerifyWrongRole counts tokens rejected for a non-admin role.
	MetricVerifyWrongRole = internalmetrics.MetricVerifyWrongRole
	// MetricVerifyRevoked counts tokens rejected by the denylist.
	MetricVerifyRevoked = internalmetrics.MetricVerifyRevoked
	// MetricTokenRevoked counts explicit revocations.
	MetricTokenRevoked = internalmetrics.MetricTokenRevoked
	// MetricVerifyLatency is the verification latency histogram.
	MetricVerifyLatency = internalmetrics.MetricVerifyLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
