package database

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const pgForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether err came from the database rejecting
// a row whose foreign key points at a missing parent.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// RowExists reports whether the table behind model has a row with the given
// primary key. model is typically a typed nil, e.g. (*models.Book)(nil).
func RowExists(ctx context.Context, db bun.IDB, model interface{}, id int64) (bool, error) {
	exists, err := db.NewSelect().
		Model(model).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
	return exists, errors.WithStack(err)
}
