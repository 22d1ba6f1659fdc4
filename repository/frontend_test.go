package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbfrontend/internal/config"
	"dbfrontend/internal/db"
	"dbfrontend/internal/errs"
)

func TestHealthCheck_UnreachableHost(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.Database = "app"

	// Build the frontend around an unverified pool so HealthCheck does the probing.
	conn, err := sqlx.Open(db.DriverName(cfg), db.DSN(cfg, "app", "hunter2-password"))
	require.NoError(t, err)
	f := newFrontend(conn, *cfg)
	t.Cleanup(func() { _ = f.Close() })

	start := time.Now()
	err = f.HealthCheck(context.Background())
	assert.ErrorIs(t, err, errs.ErrConnectionFailed)
	assert.Less(t, time.Since(start), healthCheckTimeout+time.Second)
}

func TestNewFrontend_UnreachableHost(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.Database = "app"

	f, err := NewFrontend(cfg, "app", "hunter2-password")
	assert.Nil(t, f)
	assert.ErrorIs(t, err, errs.ErrConnectionFailed)
}

func TestNewFrontend_InvalidConfig(t *testing.T) {
	cfg := config.DefaultDatabaseConfig()
	cfg.Database = "app"
	cfg.Port = 70000

	_, err := NewFrontend(cfg, "app", "pw")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
