package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/omnigate/internal/gate"
	"github.com/wolfeidau/omnigate/internal/identity"
	"github.com/wolfeidau/omnigate/internal/logger"
	"github.com/wolfeidau/omnigate/internal/store"
)

// Server wraps the HTTP surface: public auth endpoints, gated tenant-scoped
// endpoints, and the operational endpoints.
type Server struct {
	identity    *identity.Service
	orgs        store.OrganizationStore
	gate        *gate.Gate
	corsOrigins []string
}

// NewServer creates a new server with the given collaborators.
func NewServer(identitySvc *identity.Service, orgs store.OrganizationStore, g *gate.Gate, corsOrigins []string) *Server {
	return &Server{
		identity:    identitySvc,
		orgs:        orgs,
		gate:        g,
		corsOrigins: corsOrigins,
	}
}

// Handler returns the HTTP handler for the server. The middleware order is
// request logging, then CORS, then the authorization gate, so denied requests
// are still logged and carry CORS headers.
func (s *Server) Handler(log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint for load balancer
	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /docs", s.docs)
	mux.HandleFunc("GET /openapi.json", s.openAPI)

	mux.HandleFunc("POST /v1/auth/signup", s.signup)
	mux.HandleFunc("POST /v1/auth/login", s.login)

	mux.HandleFunc("GET /v1/me", s.me)
	mux.HandleFunc("GET /v1/organizations", s.listOrganizations)

	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", gate.TenantHeader},
	})

	handler := s.gate.Middleware()(mux)
	handler = c.Handler(handler)
	handler = logger.NewHTTPRequests(log).Wrap(handler)

	return handler
}
