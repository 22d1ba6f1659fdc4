package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"dbfrontend/internal/db"
	"dbfrontend/internal/errs"
	"dbfrontend/internal/validate"
	"dbfrontend/models"
)

// ErrAlreadyExists is returned when a write collides with an existing username or email.
var ErrAlreadyExists = errs.New(errs.KindInvalidInput, "username or email already exists")

const selectUser = `SELECT id, username, email, created_at FROM users`

// GetUserByID retrieves a user by ID.
func (f *Frontend) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if err := validate.ID(id); err != nil {
		return nil, err
	}
	ctx, cancel := f.queryContext(ctx)
	defer cancel()
	return getUser(ctx, f.db, id)
}

// CreateUser validates username and email and inserts a new user.
// Returns the created User with its generated ID and creation time.
func (f *Frontend) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	if err := validateUser(username, email); err != nil {
		return nil, err
	}
	ctx, cancel := f.queryContext(ctx)
	defer cancel()
	return createUser(ctx, f.db, username, email)
}

// UpdateUser replaces the username and email of an existing user.
func (f *Frontend) UpdateUser(ctx context.Context, id int64, username, email string) error {
	if err := validate.ID(id); err != nil {
		return err
	}
	if err := validateUser(username, email); err != nil {
		return err
	}
	ctx, cancel := f.queryContext(ctx)
	defer cancel()
	return updateUser(ctx, f.db, id, username, email)
}

// DeleteUser deletes a user by ID.
func (f *Frontend) DeleteUser(ctx context.Context, id int64) error {
	if err := validate.ID(id); err != nil {
		return err
	}
	ctx, cancel := f.queryContext(ctx)
	defer cancel()
	return deleteUser(ctx, f.db, id)
}

func validateUser(username, email string) error {
	if err := validate.Username(username); err != nil {
		return err
	}
	return validate.Email(email)
}

// The helpers below run against either the pool or an open transaction.
// Inputs are validated by the caller.

func getUser(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	var u models.User
	err := sqlx.GetContext(ctx, q, &u, q.Rebind(selectUser+` WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, db.Classify(ctx, "get user", err)
	}
	return &u, nil
}

func createUser(ctx context.Context, q sqlx.ExtContext, username, email string) (*models.User, error) {
	u := &models.User{
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	query := q.Rebind(`INSERT INTO users (username, email, created_at) VALUES (?, ?, ?) RETURNING id`)
	if err := q.QueryRowxContext(ctx, query, username, email, u.CreatedAt).Scan(&u.ID); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, db.Classify(ctx, "create user", err)
	}
	return u, nil
}

func updateUser(ctx context.Context, q sqlx.ExtContext, id int64, username, email string) error {
	res, err := q.ExecContext(ctx, q.Rebind(`UPDATE users SET username = ?, email = ? WHERE id = ?`), username, email, id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return db.Classify(ctx, "update user", err)
	}
	return expectAffected(ctx, "update user", res)
}

func deleteUser(ctx context.Context, q sqlx.ExtContext, id int64) error {
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return db.Classify(ctx, "delete user", err)
	}
	return expectAffected(ctx, "delete user", res)
}

func expectAffected(ctx context.Context, op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return db.Classify(ctx, op, err)
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
