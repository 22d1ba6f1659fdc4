package db

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"dbfrontend/internal/config"
	"dbfrontend/internal/errs"
)

func sqliteConfig(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	cfg := config.DefaultDatabaseConfig()
	cfg.Driver = config.DriverSQLite
	cfg.Database = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	return cfg
}

func TestDSN_Postgres(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Host = "db.internal"
	cfg.Port = 6543
	cfg.Database = "users"
	cfg.SSLMode = ""

	dsn := DSN(cfg, "app", "p@ss word/")
	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	if u.Scheme != "postgres" || u.Host != "db.internal:6543" || u.Path != "/users" {
		t.Fatalf("unexpected dsn parts: %+v", u)
	}
	if pw, _ := u.User.Password(); pw != "p@ss word/" {
		t.Fatalf("password not round-tripped through escaping: %q", pw)
	}
	if u.Query().Get("sslmode") != "require" {
		t.Fatalf("wanted sslmode=require\ngot: %q", u.Query().Get("sslmode"))
	}
}

func TestDSN_PostgresKeepsStricterMode(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Database = "users"
	cfg.SSLMode = "verify-full"
	if !strings.Contains(DSN(cfg, "a", "b"), "sslmode=verify-full") {
		t.Fatalf("stricter ssl mode dropped")
	}
}

func TestDSN_SQLite(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Driver = config.DriverSQLite

	cfg.Database = "app.db"
	if got := DSN(cfg, "a", "b"); got != "app.db?_busy_timeout=5000&_foreign_keys=on" {
		t.Fatalf("got: %q", got)
	}
	cfg.Database = "file:x?mode=memory"
	if got := DSN(cfg, "a", "b"); got != "file:x?mode=memory&_busy_timeout=5000&_foreign_keys=on" {
		t.Fatalf("got: %q", got)
	}
}

func TestOpen_RejectsBadInput(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	if _, err := Open(cfg, "app", "pw"); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("missing database name: wanted ErrInvalidInput, got %v", err)
	}

	cfg.Database = "app"
	if _, err := Open(cfg, "", "pw"); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("missing user: wanted ErrInvalidInput, got %v", err)
	}
	if _, err := Open(cfg, "app", ""); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("missing password: wanted ErrInvalidInput, got %v", err)
	}
}

func TestOpen_SQLiteAppliesPoolAndSchema(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.MaxConnections = 3
	cfg.MaxIdleConns = 2

	d, err := Open(cfg, "app", "pw")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if got := d.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("wanted max open 3\ngot: %d", got)
	}

	ctx := context.Background()
	if err := ApplySchema(ctx, d); err != nil {
		t.Fatalf("ApplySchema: %v", err)
	}
	// idempotent
	if err := ApplySchema(ctx, d); err != nil {
		t.Fatalf("second ApplySchema: %v", err)
	}

	var n int
	if err := d.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 0 {
		t.Fatalf("wanted empty table\ngot: %d", n)
	}
}

func TestOpen_UnreachableHost(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.Database = "app"

	start := time.Now()
	_, err := Open(cfg, "app", "hunter2-password")
	if !errors.Is(err, errs.ErrConnectionFailed) {
		t.Fatalf("wanted ErrConnectionFailed\ngot: %v", err)
	}
	if elapsed := time.Since(start); elapsed > PingTimeout+time.Second {
		t.Fatalf("Open took %v, longer than the ping bound", elapsed)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cfg := sqliteConfig(t)
	d, err := Open(cfg, "app", "pw")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx := context.Background()
	if err := ApplySchema(ctx, d); err != nil {
		t.Fatalf("ApplySchema: %v", err)
	}
	insert := "INSERT INTO users (username, email, created_at) VALUES (?, ?, ?)"
	if _, err := d.ExecContext(ctx, insert, "alice", "a@example.com", time.Now()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err = d.ExecContext(ctx, insert, "alice", "other@example.com", time.Now())
	if !IsUniqueViolation(err) {
		t.Fatalf("wanted unique violation\ngot: %v", err)
	}

	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("postgres 23505 should be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("syntax error")) || IsUniqueViolation(nil) {
		t.Fatalf("unexpected unique violation")
	}
}

func TestClassify(t *testing.T) {
	if Classify(context.Background(), "op", nil) != nil {
		t.Fatalf("nil in, nil out")
	}

	err := Classify(context.Background(), "select", errors.New("relation missing token=abc"))
	if !errors.Is(err, errs.ErrDatabase) {
		t.Fatalf("wanted ErrDatabase\ngot: %v", err)
	}
	if strings.Contains(err.Error(), "abc") {
		t.Fatalf("not sanitized: %v", err)
	}

	err = Classify(context.Background(), "connect", errors.New(`failed to connect to "user=app password=hunter2 host=db": server error`))
	if !errors.Is(err, errs.ErrDatabase) || strings.Contains(err.Error(), "hunter2") {
		t.Fatalf("driver message not sanitized: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Classify(ctx, "select", errors.New("interrupted")); !errors.Is(err, errs.ErrTimeout) {
		t.Fatalf("cancelled context: wanted ErrTimeout, got %v", err)
	}
	if err := Classify(context.Background(), "select", context.DeadlineExceeded); !errors.Is(err, errs.ErrTimeout) {
		t.Fatalf("deadline: wanted ErrTimeout, got %v", err)
	}
}
