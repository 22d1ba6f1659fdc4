package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dbfrontend/internal/db"
	"dbfrontend/internal/errs"
	"dbfrontend/internal/redact"
	"dbfrontend/internal/validate"
	"dbfrontend/models"
)

// Tx is the handle passed to ExecuteInTransaction callbacks. Its operations
// apply the same validation and parameter binding as Frontend's.
type Tx struct {
	tx *sqlx.Tx
	id string
}

// ExecuteInTransaction runs fn inside a transaction bounded by the query
// timeout. An error from fn rolls the transaction back and is returned
// unchanged; rollback failures are only logged. A panic in fn rolls back and
// is re-raised. Otherwise the transaction is committed.
func (f *Frontend) ExecuteInTransaction(ctx context.Context, fn func(*Tx) error) error {
	if fn == nil {
		return errs.New(errs.KindInvalidInput, "transaction function is required")
	}
	ctx, cancel := f.queryContext(ctx)
	defer cancel()

	sqlTx, err := f.db.BeginTxx(ctx, nil)
	if err != nil {
		return db.Classify(ctx, "begin transaction", err)
	}
	tx := &Tx{tx: sqlTx, id: uuid.NewString()}

	defer func() {
		if p := recover(); p != nil {
			f.rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		f.rollback(tx)
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return db.Classify(ctx, "commit transaction", err)
	}
	return nil
}

func (f *Frontend) rollback(tx *Tx) {
	err := tx.tx.Rollback()
	if err == nil || errors.Is(err, sql.ErrTxDone) {
		// ErrTxDone: the driver already rolled back on context cancellation.
		return
	}
	f.logger.Error("rollback failed", "tx", tx.id, "error", redact.Error(err))
}

// ID identifies the transaction in log lines.
func (t *Tx) ID() string {
	return t.id
}

// GetUserByID retrieves a user by ID within the transaction.
func (t *Tx) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if err := validate.ID(id); err != nil {
		return nil, err
	}
	return getUser(ctx, t.tx, id)
}

// CreateUser inserts a user within the transaction.
func (t *Tx) CreateUser(ctx context.Context, username, email string) (*models.User, error) {
	if err := validateUser(username, email); err != nil {
		return nil, err
	}
	return createUser(ctx, t.tx, username, email)
}

// SearchUsers searches users within the transaction.
func (t *Tx) SearchUsers(ctx context.Context, term string, limit int) ([]*models.User, error) {
	clean, err := validate.SearchTerm(term)
	if err != nil {
		return nil, err
	}
	return searchUsers(ctx, t.tx, clean, validate.SearchLimit(limit))
}

// UpdateUser updates a user within the transaction.
func (t *Tx) UpdateUser(ctx context.Context, id int64, username, email string) error {
	if err := validate.ID(id); err != nil {
		return err
	}
	if err := validateUser(username, email); err != nil {
		return err
	}
	return updateUser(ctx, t.tx, id, username, email)
}

// DeleteUser deletes a user within the transaction.
func (t *Tx) DeleteUser(ctx context.Context, id int64) error {
	if err := validate.ID(id); err != nil {
		return err
	}
	return deleteUser(ctx, t.tx, id)
}

// Exec runs a statement within the transaction. query uses ? placeholders,
// rebound for the driver; every caller value must be passed in args.
func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(query), args...)
	if err != nil {
		return nil, db.Classify(ctx, "exec", err)
	}
	return res, nil
}
