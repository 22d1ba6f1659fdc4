package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"dbfrontend/internal/config"
	"dbfrontend/internal/db"
	"dbfrontend/internal/errs"
)

const (
	defaultQueryTimeout = 30 * time.Second
	healthCheckTimeout  = 5 * time.Second
)

// Frontend is the data-access facade over the users relation. It owns one
// connection pool; every call reads or writes the store directly.
type Frontend struct {
	db     *sqlx.DB
	config config.DatabaseConfig
	logger *slog.Logger
}

// Option customises a Frontend.
type Option func(*Frontend) error

// WithLogger sets the logger used for rollback failures. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Frontend) error {
		if logger != nil {
			f.logger = logger
		}
		return nil
	}
}

// NewFrontend opens a pool for cfg and returns a ready Frontend. A nil cfg
// uses config.DefaultDatabaseConfig. cfg is copied; later changes to it have
// no effect. user and password should come from the environment or a secret
// store, never from a config file.
func NewFrontend(cfg *config.DatabaseConfig, user, password string, opts ...Option) (*Frontend, error) {
	if cfg == nil {
		cfg = config.DefaultDatabaseConfig()
	}
	c := *cfg
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = defaultQueryTimeout
	}

	conn, err := db.Open(&c, user, password)
	if err != nil {
		return nil, err
	}

	f := newFrontend(conn, c)
	for _, opt := range opts {
		if err := opt(f); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return f, nil
}

func newFrontend(conn *sqlx.DB, cfg config.DatabaseConfig) *Frontend {
	return &Frontend{
		db:     conn,
		config: cfg,
		logger: slog.Default(),
	}
}

// Close releases every pooled connection. Calling it more than once is safe.
func (f *Frontend) Close() error {
	if f.db != nil {
		return f.db.Close()
	}
	return nil
}

// queryContext bounds ctx by the configured per-query timeout.
func (f *Frontend) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, f.config.QueryTimeout)
}

// HealthCheck pings the pool and runs a trivial round trip, bounded by five seconds.
func (f *Frontend) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := f.db.PingContext(ctx); err != nil {
		return errs.Wrap(errs.KindConnectionFailed, "health check: ping", err)
	}

	var one int
	if err := f.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return db.Classify(ctx, "health check: query", err)
	}
	return nil
}

// InitSchema creates the users relation when it is missing.
func (f *Frontend) InitSchema(ctx context.Context) error {
	ctx, cancel := f.queryContext(ctx)
	defer cancel()
	return db.ApplySchema(ctx, f.db)
}
