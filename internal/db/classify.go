package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"dbfrontend/internal/errs"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a write rejected by a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// IsTimeout reports whether err stems from an elapsed deadline or a cancellation.
func IsTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	return ctx != nil && ctx.Err() != nil
}

// Classify converts a driver error into a sanitized errs.KindTimeout or
// errs.KindDatabase error. nil stays nil.
func Classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if IsTimeout(ctx, err) {
		return errs.Wrap(errs.KindTimeout, op, err)
	}
	return errs.Wrap(errs.KindDatabase, op, err)
}
