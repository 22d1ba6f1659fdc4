package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"dbfrontend/internal/db"
	"dbfrontend/internal/validate"
	"dbfrontend/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchUsers returns users whose username or email contains term, newest
// first. term is bound as a parameter and is additionally stripped of SQL
// metacharacters. % and _ in term match literally, not as wildcards.
// A term that is empty after sanitizing matches every user.
// limit outside (0,100] falls back to 10.
func (f *Frontend) SearchUsers(ctx context.Context, term string, limit int) ([]*models.User, error) {
	clean, err := validate.SearchTerm(term)
	if err != nil {
		return nil, err
	}
	ctx, cancel := f.queryContext(ctx)
	defer cancel()
	return searchUsers(ctx, f.db, clean, validate.SearchLimit(limit))
}

// likePattern wraps term in % after escaping LIKE wildcards so that they match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func searchUsers(ctx context.Context, q sqlx.ExtContext, term string, limit int) ([]*models.User, error) {
	query := q.Rebind(selectUser + ` WHERE username LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'
ORDER BY created_at DESC, id DESC
LIMIT ?`)
	pattern := likePattern(term)

	users := []*models.User{}
	if err := sqlx.SelectContext(ctx, q, &users, query, pattern, pattern, limit); err != nil {
		return nil, db.Classify(ctx, "search users", err)
	}
	return users, nil
}
