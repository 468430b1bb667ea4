package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfeidau/omnigate/internal/auth"
	"github.com/wolfeidau/omnigate/internal/gate"
	"github.com/wolfeidau/omnigate/internal/identity"
	"github.com/wolfeidau/omnigate/internal/logger"
	"github.com/wolfeidau/omnigate/internal/server"
	"github.com/wolfeidau/omnigate/internal/store"
	memorystore "github.com/wolfeidau/omnigate/internal/store/memory"
	postgresstore "github.com/wolfeidau/omnigate/internal/store/postgres"
	"github.com/wolfeidau/omnigate/internal/telemetry"
	"github.com/wolfeidau/omnigate/internal/tenant"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8000" env:"OMNIGATE_LISTEN"`
	Cert   string `help:"path to TLS cert file" default:"" env:"OMNIGATE_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"OMNIGATE_TLS_KEY"`

	// Token configuration
	JWTSecret    string        `help:"secret key for HMAC signing of bearer tokens" env:"OMNIGATE_JWT_SECRET" required:""`
	JWTAlgorithm string        `help:"HMAC signing algorithm" default:"HS256" env:"OMNIGATE_JWT_ALGORITHM" enum:"HS256,HS384,HS512"`
	TokenTTL     time.Duration `help:"lifetime of issued bearer tokens" default:"30m" env:"OMNIGATE_TOKEN_TTL"`

	// Gate configuration
	PublicPaths  []string      `help:"paths exempt from authorization (exact match)" env:"OMNIGATE_PUBLIC_PATHS"`
	StoreTimeout time.Duration `help:"per-request timeout for authorization store queries" default:"5s" env:"OMNIGATE_STORE_TIMEOUT"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"OMNIGATE_CORS_ORIGINS"`

	// Operational modes
	Tracing bool `help:"enable OTLP tracing and metrics export" default:"false" env:"OMNIGATE_TRACING"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"OMNIGATE_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"OMNIGATE_POSTGRES_AUTO_MIGRATE"`
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	shutdown, err := telemetry.InitTelemetry(ctx, "omnigate-server", globals.Version, c.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
		shutdown = func(ctx context.Context) error { return nil }
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown telemetry")
		}
	}()

	// Create stores based on store type
	var (
		userStore         store.UserStore
		organizationStore store.OrganizationStore
		membershipStore   store.MembershipStore
	)

	switch c.StoreType {
	case "postgres":
		if c.PostgresStore.ConnString == "" {
			return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
		}

		// Shared connection pool for all stores
		poolCfg := &postgresstore.PoolConfig{
			ConnString:      c.PostgresStore.ConnString,
			MaxConns:        c.PostgresStore.MaxConns,
			MinConns:        c.PostgresStore.MinConns,
			MaxConnLifetime: c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: c.PostgresStore.MaxConnIdleTime,
		}
		pool, err := postgresstore.NewPool(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("Database migrations completed")
		}

		userStore = postgresstore.NewUserStore(pool)
		organizationStore = postgresstore.NewOrganizationStore(pool)
		membershipStore = postgresstore.NewMembershipStore(pool)

		log.Info().Msg("Using PostgreSQL stores with shared connection pool")

	default:
		memStore := memorystore.NewStore()
		userStore = memStore
		organizationStore = memStore
		membershipStore = memStore
		log.Info().Msg("Using in-memory stores")
	}

	codec, err := auth.NewCodec(auth.Config{
		Secret:    []byte(c.JWTSecret),
		Algorithm: c.JWTAlgorithm,
		TTL:       c.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	g := gate.New(gate.Config{
		Codec:        codec,
		Resolver:     tenant.NewResolver(membershipStore),
		PublicPaths:  c.PublicPaths,
		StoreTimeout: c.StoreTimeout,
	})

	identityService := identity.NewService(userStore, organizationStore, codec)
	srv := server.NewServer(identityService, organizationStore, g, c.CORSOrigins)

	httpServer := configureHTTPServer(c.Listen, srv.Handler(log))

	if c.Cert != "" && c.Key != "" {
		log.Info().Str("addr", c.Listen).Msg("Starting HTTPS server")
		return httpServer.ListenAndServeTLS(c.Cert, c.Key)
	}

	log.Info().Str("addr", c.Listen).Msg("Starting HTTP server")
	return httpServer.ListenAndServe()
}
