package gate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/omnigate/internal/auth"
	"github.com/wolfeidau/omnigate/internal/telemetry"
	"github.com/wolfeidau/omnigate/internal/tenant"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// TenantHeader is the client-supplied header selecting an explicit tenant.
const TenantHeader = "X-Tenant-ID"

// DefaultStoreTimeout bounds the store round-trips of one authorization pass.
const DefaultStoreTimeout = 5 * time.Second

// Config holds the gate's collaborators and settings, injected once at
// process start.
type Config struct {
	Codec    *auth.Codec
	Resolver *tenant.Resolver

	// PublicPaths overrides the default allowlist when non-empty.
	PublicPaths []string

	// StoreTimeout bounds the resolver's store queries for a single request.
	// Exceeding it fails the request closed with a 503.
	StoreTimeout time.Duration
}

// Gate authenticates every non-allowlisted request and binds it to exactly
// one tenant before handlers run. It performs no writes; the only side
// effect of a pass is the identity attached to the request context.
type Gate struct {
	codec        *auth.Codec
	resolver     *tenant.Resolver
	allowlist    *Allowlist
	storeTimeout time.Duration
	metrics      *telemetry.Metrics
}

// New creates an authorization gate.
func New(cfg Config) *Gate {
	paths := cfg.PublicPaths
	if len(paths) == 0 {
		paths = DefaultPublicPaths()
	}

	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}

	return &Gate{
		codec:        cfg.Codec,
		resolver:     cfg.Resolver,
		allowlist:    NewAllowlist(paths),
		storeTimeout: timeout,
		metrics:      telemetry.GetMetrics(),
	}
}

// Middleware returns an HTTP middleware enforcing the authorization
// pipeline: bearer token verification, then tenant resolution, then
// membership validation, short-circuiting on the first failure.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.allowlist.Contains(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			started := time.Now()

			identity, gerr := g.authorize(r)
			if gerr != nil {
				g.deny(w, r, gerr, time.Since(started))
				return
			}

			g.metrics.AuthzAllowedTotal.Add(r.Context(), 1)
			g.metrics.AuthzDuration.Record(r.Context(), time.Since(started).Seconds())

			ctx := withIdentity(r.Context(), identity)

			// downstream log lines carry the resolved identity
			ctx = zerolog.Ctx(ctx).With().
				Str("user_id", identity.UserID).
				Str("tenant_id", identity.TenantID).
				Logger().WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authorize runs the pipeline for one request. Step order is part of the
// contract: authentication failures must be reported before authorization
// failures.
func (g *Gate) authorize(r *http.Request) (*Identity, *Error) {
	tokenStr, ok := bearerToken(r)
	if !ok {
		return nil, errMissingAuthToken
	}

	principal, err := g.codec.Verify(tokenStr)
	if err != nil {
		// expired vs malformed is not distinguishable to the caller
		return nil, errInvalidToken.withCause(err)
	}

	var explicit *string
	if values := r.Header.Values(TenantHeader); len(values) > 0 {
		explicit = &values[0]
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.storeTimeout)
	defer cancel()

	resolution, err := g.resolver.Resolve(ctx, principal.UserID, explicit)
	if err != nil {
		return nil, classifyResolveError(err).withCause(err)
	}

	return &Identity{
		UserID:      principal.UserID,
		TenantID:    resolution.TenantID,
		Role:        resolution.Role,
		UsedDefault: resolution.UsedDefault,
	}, nil
}

// classifyResolveError maps resolver failures to gate errors. Anything
// unrecognised fails closed as a dependency error, never as a pass.
func classifyResolveError(err error) *Error {
	switch {
	case errors.Is(err, tenant.ErrNoDefaultOrganization):
		return errNoDefaultOrg
	case errors.Is(err, tenant.ErrInvalidTenantID):
		return errInvalidTenantID
	case errors.Is(err, tenant.ErrOrganizationNotFound):
		return errOrgNotFound
	case errors.Is(err, tenant.ErrNotMember):
		return errNotOrgMember
	default:
		return errDependencyUnavailable
	}
}

func (g *Gate) deny(w http.ResponseWriter, r *http.Request, gerr *Error, elapsed time.Duration) {
	evt := zerolog.Ctx(r.Context()).Warn().
		Str("path", r.URL.Path).
		Str("code", gerr.Code).
		Int("status", gerr.Status)
	if tenantID := r.Header.Get(TenantHeader); tenantID != "" {
		evt = evt.Str("attempted_tenant", tenantID)
	}
	if cause := gerr.Unwrap(); cause != nil {
		evt = evt.Err(cause)
	}
	evt.Msg("Request denied")

	g.metrics.AuthzDeniedTotal.Add(r.Context(), 1,
		metric.WithAttributes(attribute.String("code", gerr.Code)))
	g.metrics.AuthzDuration.Record(r.Context(), elapsed.Seconds())

	WriteError(w, gerr)
}

// bearerToken extracts the credential from the Authorization header.
// A missing header and a non-Bearer scheme are equivalent.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// WriteError writes the gate's JSON error shape. Shared with the HTTP
// handlers so every error on the wire looks the same.
func WriteError(w http.ResponseWriter, gerr *Error) {
	WriteErrorCode(w, gerr.Status, gerr.Code, gerr.Message)
}

// WriteErrorCode writes an arbitrary code/message pair in the standard
// error envelope.
func WriteErrorCode(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorBody{Code: code, Message: message},
	})
}
