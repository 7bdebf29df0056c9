package rate

import "errors"

var (
	// ErrRedisUnavailable reports that the counter backend could not be
	// reached.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
