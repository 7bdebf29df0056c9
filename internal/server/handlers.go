package server

import (
	"encoding/json"
	"errors"
	"net/http"

	kapici "github.com/kapici-dev/kapici"
	"github.com/kapici-dev/kapici/locale"
	"github.com/kapici-dev/kapici/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	User    string `json:"user,omitempty"`
	Role    string `json:"role,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)

	// A malformed or empty body degrades to missing credentials.
	var body loginRequest
	_ = json.NewDecoder(r.Body).Decode(&body)

	ctx := kapici.WithClientKey(r.Context(), middleware.ClientKey(r))

	token, err := s.engine.Login(ctx, body.Username, body.Password)
	if err != nil {
		status, key := loginErrorStatus(err)
		writeJSON(w, status, authResponse{
			Success: false,
			Message: locale.Message(lang, key),
		})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: locale.Message(lang, locale.KeyLoginSuccess),
		Token:   token,
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)

	token, _ := middleware.BearerToken(r.Header.Get("Authorization"))

	ctx := kapici.WithClientKey(r.Context(), middleware.ClientKey(r))

	res, err := s.engine.Verify(ctx, token)
	if err != nil {
		status, key := verifyErrorStatus(err)
		writeJSON(w, status, authResponse{
			Success: false,
			Message: locale.Message(lang, key),
		})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: locale.Message(lang, locale.KeyVerifySuccess),
		User:    res.Identity,
		Role:    res.Role,
	})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)

	token, _ := middleware.BearerToken(r.Header.Get("Authorization"))

	ctx := kapici.WithClientKey(r.Context(), middleware.ClientKey(r))

	if err := s.engine.Revoke(ctx, token); err != nil {
		status, key := revokeErrorStatus(err)
		writeJSON(w, status, authResponse{
			Success: false,
			Message: locale.Message(lang, key),
		})
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: locale.Message(lang, locale.KeyRevokeSuccess),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Metrics())
}

func loginErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, kapici.ErrMissingCredentials):
		return http.StatusBadRequest, locale.KeyCredentialsRequired
	case errors.Is(err, kapici.ErrLoginRateLimited):
		return http.StatusTooManyRequests, locale.KeyLockedOut
	case errors.Is(err, kapici.ErrInvalidCredentials):
		return http.StatusUnauthorized, locale.KeyInvalidCredentials
	default:
		return http.StatusInternalServerError, locale.KeyServerError
	}
}

func verifyErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, kapici.ErrMissingToken):
		return http.StatusUnauthorized, locale.KeyTokenRequired
	case errors.Is(err, kapici.ErrTokenRevoked):
		return http.StatusUnauthorized, locale.KeyTokenRevoked
	case errors.Is(err, kapici.ErrTokenInvalid):
		return http.StatusUnauthorized, locale.KeyTokenInvalid
	case errors.Is(err, kapici.ErrInsufficientRole):
		return http.StatusForbidden, locale.KeyInsufficientRole
	default:
		return http.StatusInternalServerError, locale.KeyServerError
	}
}

func revokeErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, kapici.ErrMissingToken):
		return http.StatusUnauthorized, locale.KeyTokenRequired
	case errors.Is(err, kapici.ErrTokenInvalid):
		return http.StatusUnauthorized, locale.KeyTokenInvalid
	default:
		return http.StatusInternalServerError, locale.KeyServerError
	}
}

func requestLang(r *http.Request) locale.Lang {
	return locale.Resolve(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
