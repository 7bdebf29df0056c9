package kapici

import "context"

type clientKeyContextKey struct{}

// UnknownClientKey is the attempt-tracker key used when no client identity
// can be derived from the request.
const UnknownClientKey = "unknown"

// WithClientKey attaches the caller's network identity to ctx. The Engine
// keys the attempt tracker and audit events by it. The HTTP layer derives
// it from the first X-Forwarded-For value; the value is proxy-controlled
// and therefore only suitable for advisory throttling.
func WithClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKeyContextKey{}, key)
}

func clientKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return UnknownClientKey
	}

	key, _ := ctx.Value(clientKeyContextKey{}).(string)
	if key == "" {
		return UnknownClientKey
	}

	return key
}
