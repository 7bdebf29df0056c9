package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	kapici "github.com/kapici-dev/kapici"
)

type verifyResultContextKey struct{}

// VerifyResultFromContext returns the verification result injected by
// [Guard] for the current request.
func VerifyResultFromContext(ctx context.Context) (*kapici.VerifyResult, bool) {
	res, ok := ctx.Value(verifyResultContextKey{}).(*kapici.VerifyResult)
	return res, ok
}

// Guard protects admin routes: it extracts the bearer token, verifies it
// through the engine, and rejects the request with 401 (missing, invalid,
// expired, or revoked token) or 403 (wrong role) before the handler runs.
// A backend fault during verification (denylist store unreachable) is a
// 500, not an authentication verdict.
// The check re-runs on every request; nothing is cached between calls.
func Guard(engine *kapici.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, _ := BearerToken(r.Header.Get("Authorization"))

			res, err := engine.Verify(withClientKey(r), token)
			if err != nil {
				switch {
				case errors.Is(err, kapici.ErrInsufficientRole):
					http.Error(w, "forbidden", http.StatusForbidden)
				case errors.Is(err, kapici.ErrBackendUnavailable):
					http.Error(w, "internal error", http.StatusInternalServerError)
				default:
					http.Error(w, "unauthorized", http.StatusUnauthorized)
				}
				return
			}

			ctx := context.WithValue(r.Context(), verifyResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

// ClientKey derives the attempt-tracker key for a request: the first
// X-Forwarded-For entry, or "unknown" when absent. The header is
// proxy-controlled, so the key is advisory only.
func ClientKey(r *http.Request) string {
	fwd := r.Header.Get("X-Forwarded-For")
	if fwd == "" {
		return kapici.UnknownClientKey
	}
	if i := strings.IndexByte(fwd, ','); i >= 0 {
		fwd = fwd[:i]
	}
	fwd = strings.TrimSpace(fwd)
	if fwd == "" {
		return kapici.UnknownClientKey
	}
	return fwd
}

func withClientKey(r *http.Request) context.Context {
	return kapici.WithClientKey(r.Context(), ClientKey(r))
}
