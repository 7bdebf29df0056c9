// Package server exposes the admin session authority over HTTP: the
// login/verify/revoke endpoints under /api/admin/auth, a health check,
// and guarded metrics endpoints (JSON and Prometheus text). Responses
// are JSON with messages localized to the request's language (Turkish
// or English).
package server

import (
	"net/http"

	kapici "github.com/kapici-dev/kapici"
	promexport "github.com/kapici-dev/kapici/metrics/export/prometheus"
	"github.com/kapici-dev/kapici/middleware"
)

// Server routes HTTP requests to the engine.
type Server struct {
	engine *kapici.Engine
	mux    *http.ServeMux
}

// New builds the route table around the given engine.
func New(engine *kapici.Engine) *Server {
	s := &Server{
		engine: engine,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/admin/auth", s.handleLogin)
	s.mux.HandleFunc("GET /api/admin/auth", s.handleVerify)
	s.mux.HandleFunc("DELETE /api/admin/auth", s.handleRevoke)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// Engine counters are admin-only, in both JSON and Prometheus form.
	guard := middleware.Guard(engine)
	s.mux.Handle("GET /api/admin/metrics", guard(
		http.HandlerFunc(s.handleMetrics),
	))
	s.mux.Handle("GET /api/admin/metrics/prometheus", guard(
		promexport.NewExporter(engine).Handler(),
	))

	return s
}

// Handler returns the root handler for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}
