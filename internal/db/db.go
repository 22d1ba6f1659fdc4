// Package db owns the pooled connection to the backing store.
package db

import (
	"context"
	"embed"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"dbfrontend/internal/config"
	"dbfrontend/internal/errs"
	"dbfrontend/internal/validate"
)

// PingTimeout bounds the liveness probe run when a pool is opened.
const PingTimeout = 5 * time.Second

//go:embed schema/*.sql
var schemaFS embed.FS

// Open validates cfg, builds an encrypted-transport DSN and returns a pool
// that has answered a ping. Credentials never appear in returned errors.
func Open(cfg *config.DatabaseConfig, user, password string) (*sqlx.DB, error) {
	if err := validate.Config(cfg); err != nil {
		return nil, err
	}
	if user == "" || password == "" {
		return nil, errs.New(errs.KindInvalidInput, "database credentials are required")
	}

	d, err := sqlx.Open(DriverName(cfg), DSN(cfg, user, password))
	if err != nil {
		return nil, errs.Wrap(errs.KindConnectionFailed, "open", err)
	}

	d.SetMaxOpenConns(cfg.MaxConnections)
	d.SetMaxIdleConns(cfg.MaxIdleConns)
	d.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()
	if err := d.PingContext(ctx); err != nil {
		_ = d.Close()
		return nil, errs.Wrap(errs.KindConnectionFailed, "ping", err)
	}
	return d, nil
}

// DriverName returns the database/sql driver registered for cfg.
func DriverName(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "" {
		return config.DriverPostgres
	}
	return cfg.Driver
}

// DSN builds the data source name for cfg. For Postgres the URL form is used
// so that credentials are escaped; sslmode is never weaker than require.
func DSN(cfg *config.DatabaseConfig, user, password string) string {
	if DriverName(cfg) == config.DriverSQLite {
		sep := "?"
		if strings.Contains(cfg.Database, "?") {
			sep = "&"
		}
		return cfg.Database + sep + "_busy_timeout=5000&_foreign_keys=on"
	}

	mode := cfg.SSLMode
	if mode == "" {
		mode = "require"
	}
	q := url.Values{}
	q.Set("sslmode", mode)
	q.Set("connect_timeout", strconv.Itoa(int(PingTimeout/time.Second)))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// ApplySchema creates the users relation if it does not exist yet.
func ApplySchema(ctx context.Context, d *sqlx.DB) error {
	name := "schema/postgres.sql"
	if d.DriverName() == config.DriverSQLite {
		name = "schema/sqlite.sql"
	}
	stmt, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if _, err := d.ExecContext(ctx, string(stmt)); err != nil {
		return Classify(ctx, "apply schema", err)
	}
	return nil
}
