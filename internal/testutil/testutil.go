package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"dbfrontend/internal/auth"
	"dbfrontend/internal/config"
	"dbfrontend/internal/db"
)

// Credentials accepted by the sqlite test store. sqlite ignores them but the
// connection manager still requires both.
const (
	DBUser     = "test"
	DBPassword = "test-password"
)

// InMemoryConfig returns a config pointing at a fresh shared-cache in-memory
// SQLite database with the users schema applied. An anchor connection keeps
// the database alive until the test ends.
func InMemoryConfig(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	cfg := config.DefaultDatabaseConfig()
	cfg.Driver = config.DriverSQLite
	cfg.Database = "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	cfg.MaxConnections = 4
	cfg.MaxIdleConns = 4
	cfg.QueryTimeout = 5 * time.Second

	anchor, err := db.Open(cfg, DBUser, DBPassword)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = anchor.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.ApplySchema(ctx, anchor); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return cfg
}

// GenerateJWT returns a signed HS256 token for subject with the given role.
func GenerateJWT(t *testing.T, secret, subject, role string) string {
	t.Helper()
	s, err := auth.SignToken(secret, subject, role, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// OutgoingBearer attaches the token to an outgoing client context.
func OutgoingBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}
