package repository

import (
	"context"

	"dbfrontend/models"
)

// UserStore defines operations on User entities.
// Frontend implements it against the pool and Tx inside a transaction.
type UserStore interface {
	CreateUser(ctx context.Context, username, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	SearchUsers(ctx context.Context, term string, limit int) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, username, email string) error
	DeleteUser(ctx context.Context, id int64) error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

var (
	_ UserStore     = (*Frontend)(nil)
	_ UserStore     = (*Tx)(nil)
	_ HealthChecker = (*Frontend)(nil)
)
