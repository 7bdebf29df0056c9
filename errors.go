package kapici

import "errors"

var (
	// ErrMissingCredentials is returned when the login request carries an
	// empty username or password.
	ErrMissingCredentials = errors.New("credentials required")
	// ErrInvalidCredentials is returned when the supplied username/password
	// pair does not match the configured admin credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned while the client's failure count is at
	// or above the lockout threshold inside the lockout window.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrMissingToken is returned by Verify when no token is presented.
	ErrMissingToken = errors.New("token required")
	// ErrTokenInvalid is returned when signature verification fails or the
	// token has expired.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrTokenRevoked is returned when the token's ID is on the revocation
	// denylist.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrInsufficientRole is returned when a well-formed, unexpired token
	// carries a role other than the admin role.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrBackendUnavailable is returned when a Redis-backed tracker or the
	// revocation store cannot be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// engine that was not produced by Builder.Build.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrRevocationDisabled is returned by Revoke when no revocation store
	// is configured.
	ErrRevocationDisabled = errors.New("revocation disabled")
)
