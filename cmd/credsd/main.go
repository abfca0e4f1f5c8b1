// credsd is the reference deployment of the credential-issuance core:
// a fiber JSON API over the in-memory store (with demo identities) or,
// when a DSN is configured, the sqlite-backed store.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	credentials "github.com/goliatone/go-credentials"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type serviceConfig struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	SigningKey  string        `env:"JWT_SECRET"`
	Issuer      string        `env:"JWT_ISSUER" envDefault:"go-credentials"`
	Audience    []string      `env:"JWT_AUDIENCE" envDefault:"go-credentials" envSeparator:","`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"30m"`
	ContextKey  string        `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
	TokenLookup string        `env:"AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme  string        `env:"AUTH_SCHEME" envDefault:"Bearer"`
	// DatabaseDSN selects the durable store; empty means the seeded
	// in-memory store.
	DatabaseDSN string `env:"DATABASE_DSN"`
	SeedDemo    bool   `env:"SEED_DEMO_USERS" envDefault:"true"`
}

func (c serviceConfig) GetSigningKey() string             { return c.SigningKey }
func (c serviceConfig) GetTokenExpiration() time.Duration { return c.TokenTTL }
func (c serviceConfig) GetIssuer() string                 { return c.Issuer }
func (c serviceConfig) GetAudience() []string             { return c.Audience }
func (c serviceConfig) GetContextKey() string             { return c.ContextKey }
func (c serviceConfig) GetTokenLookup() string            { return c.TokenLookup }
func (c serviceConfig) GetAuthScheme() string             { return c.AuthScheme }

var _ credentials.Config = serviceConfig{}

// slogAdapter satisfies credentials.Logger; args are key-value pairs.
type slogAdapter struct {
	l *slog.Logger
}

func (s slogAdapter) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogAdapter) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogAdapter) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogAdapter) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func main() {
	logger := slogAdapter{l: slog.New(slog.NewTextHandler(os.Stderr, nil))}

	cfg := serviceConfig{}
	if err := env.Parse(&cfg); err != nil {
		logger.Error("failed to parse configuration", "error", err)
		os.Exit(1)
	}

	// A missing secret would silently produce forgeable tokens, so it
	// aborts startup rather than degrade.
	if cfg.SigningKey == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize identity store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	provider := credentials.NewUserProvider(store).WithLogger(logger)
	auther := credentials.NewAuthenticator(provider, cfg).WithLogger(logger)
	registrar := credentials.NewRegistrar(store).WithLogger(logger)

	app := fiber.New(fiber.Config{
		AppName:               "credsd",
		DisableStartupMessage: true,
	})

	controller := credentials.NewAuthController(auther, registrar,
		credentials.WithControllerLogger(logger),
		credentials.WithContextKey(cfg.ContextKey),
	)

	gate := credentials.ProtectedRoute(cfg, auther.TokenService(), credentials.DefaultErrorHandler(logger))
	credentials.RegisterAuthRoutes(app, controller, gate)

	go func() {
		logger.Info("credsd listening", "addr", cfg.HTTPAddr)
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func buildStore(ctx context.Context, cfg serviceConfig, logger slogAdapter) (credentials.IdentityStore, func(), error) {
	if cfg.DatabaseDSN == "" {
		store := credentials.NewMemoryStore()
		if cfg.SeedDemo {
			logger.Info("seeding demo identities")
			if err := store.Seed(ctx, credentials.DefaultDemoUsers()...); err != nil {
				return nil, nil, err
			}
		}
		return store, func() {}, nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	store := credentials.NewBunStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("using durable identity store", "dsn", cfg.DatabaseDSN)
	return store, func() { db.Close() }, nil
}
