package kapici

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/kapici-dev/kapici/internal/audit"
	"github.com/kapici-dev/kapici/internal/metrics"
	"github.com/kapici-dev/kapici/jwt"
)

// Engine is the admin session authority. It verifies the static admin
// credentials behind a per-client lockout, mints 24-hour admin tokens,
// and verifies presented tokens against signature, expiry, role, and the
// revocation denylist.
//
// Engines are created through [Builder.Build] and are safe for concurrent
// use.
type Engine struct {
	config      Config
	jwtManager  *jwt.Manager
	tracker     AttemptTracker
	revocations *revocationStore
	audit       *audit.Dispatcher
	metrics     *metrics.Metrics
}

// Login checks username/password against the configured admin account.
// The failure budget is keyed by the client identity attached to ctx via
// [WithClientKey]. On success any prior failures for that key are cleared
// and a fresh signed token is returned.
//
// Error mapping for callers: [ErrMissingCredentials], [ErrLoginRateLimited],
// [ErrInvalidCredentials], [ErrBackendUnavailable].
func (e *Engine) Login(ctx context.Context, username, password string) (string, error) {
	if e == nil || e.jwtManager == nil || e.tracker == nil {
		return "", ErrEngineNotReady
	}

	clientKey := clientKeyFromContext(ctx)

	if username == "" || password == "" {
		e.metricInc(MetricLoginMissingCredentials)
		e.emitAudit(ctx, auditEventLoginFailure, false, clientKey, "", ErrMissingCredentials, func() map[string]string {
			return map[string]string{
				"reason": "missing_credentials",
			}
		})
		return "", ErrMissingCredentials
	}

	locked, err := e.tracker.Locked(ctx, clientKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if locked {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, clientKey, "", ErrLoginRateLimited, func() map[string]string {
			return map[string]string{
				"identifier": username,
			}
		})
		return "", ErrLoginRateLimited
	}

	if !e.credentialsMatch(username, password) {
		if err := e.tracker.RecordFailure(ctx, clientKey); err != nil {
			return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, clientKey, "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": username,
				"reason":     "credential_mismatch",
			}
		})
		return "", ErrInvalidCredentials
	}

	if err := e.tracker.Clear(ctx, clientKey); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	token, claims, err := e.jwtManager.Issue(e.config.Admin.Role)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, clientKey, "", err, func() map[string]string {
			return map[string]string{
				"reason": "token_issue_failed",
			}
		})
		return "", err
	}

	e.metricInc(MetricTokenIssued)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, clientKey, claims.ID, nil, nil)

	return token, nil
}

// Verify checks a presented token and returns its identity and role. It
// performs no writes: lockout state is untouched regardless of outcome.
//
// Error mapping for callers: [ErrMissingToken], [ErrTokenInvalid],
// [ErrTokenRevoked], [ErrInsufficientRole], [ErrBackendUnavailable].
func (e *Engine) Verify(ctx context.Context, token string) (*VerifyResult, error) {
	if e == nil || e.jwtManager == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}()

	if token == "" {
		e.metricInc(MetricVerifyMissingToken)
		e.emitAudit(ctx, auditEventVerifyDenied, false, clientKeyFromContext(ctx), "", ErrMissingToken, nil)
		return nil, ErrMissingToken
	}

	claims, err := e.jwtManager.Parse(token)
	if err != nil {
		e.metricInc(MetricVerifyInvalid)
		e.emitAudit(ctx, auditEventVerifyDenied, false, clientKeyFromContext(ctx), "", ErrTokenInvalid, nil)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if e.revocations != nil && claims.ID != "" {
		revoked, err := e.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			e.metricInc(MetricVerifyRevoked)
			e.emitAudit(ctx, auditEventVerifyDenied, false, clientKeyFromContext(ctx), claims.ID, ErrTokenRevoked, nil)
			return nil, ErrTokenRevoked
		}
	}

	if claims.Role != e.config.Admin.Role {
		e.metricInc(MetricVerifyWrongRole)
		e.emitAudit(ctx, auditEventVerifyDenied, false, clientKeyFromContext(ctx), claims.ID, ErrInsufficientRole, func() map[string]string {
			return map[string]string{
				"role": claims.Role,
			}
		})
		return nil, ErrInsufficientRole
	}

	e.metricInc(MetricVerifySuccess)

	result := &VerifyResult{
		Identity: "admin",
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}

// Revoke places the token's ID on the denylist until the token's natural
// expiry. Only tokens that still verify can be revoked; anything else is
// already unusable.
//
// Error mapping for callers: [ErrRevocationDisabled], [ErrMissingToken],
// [ErrTokenInvalid], [ErrBackendUnavailable].
func (e *Engine) Revoke(ctx context.Context, token string) error {
	if e == nil || e.jwtManager == nil {
		return ErrEngineNotReady
	}
	if e.revocations == nil {
		return ErrRevocationDisabled
	}
	if token == "" {
		return ErrMissingToken
	}

	claims, err := e.jwtManager.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	var remaining time.Duration
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}
	if err := e.revocations.Revoke(ctx, claims.ID, remaining); err != nil {
		return err
	}

	e.metricInc(MetricTokenRevoked)
	e.emitAudit(ctx, auditEventTokenRevoked, true, clientKeyFromContext(ctx), claims.ID, nil, nil)

	return nil
}

// Metrics returns a point-in-time snapshot of the engine's counters.
func (e *Engine) Metrics() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events the dispatcher discarded
// under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// credentialsMatch compares both fields in constant time and combines the
// results without short-circuiting, so a username miss costs the same as
// a password miss.
func (e *Engine) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(e.config.Admin.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(e.config.Admin.Password))
	return userOK&passOK == 1
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}
