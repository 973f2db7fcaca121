package testutils

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// deleteAllDataResponse is the response body for wiping the library tables.
type deleteAllDataResponse struct {
	Deleted map[string]int64 `json:"deleted"`
}

// deleteAllData removes every row from the library tables, children first.
// DELETE /test/data.
func (h *handler) deleteAllData(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := DeleteAllData(ctx, h.db)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, deleteAllDataResponse{Deleted: deleted})
}

// DeleteAllData empties the library tables and returns the rows removed per
// table.
func DeleteAllData(ctx context.Context, db *bun.DB) (map[string]int64, error) {
	deleted := map[string]int64{}

	tables := []struct {
		name  string
		model interface{}
	}{
		{"issuances", (*models.Issuance)(nil)},
		{"bibliographies", (*models.Bibliography)(nil)},
		{"book_authors", (*models.BookAuthor)(nil)},
		{"readers", (*models.Reader)(nil)},
		{"books", (*models.Book)(nil)},
		{"authors", (*models.Author)(nil)},
	}

	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range tables {
			result, err := tx.NewDelete().
				Model(table.model).
				Where("1=1").
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to delete %s", table.name)
			}
			n, _ := result.RowsAffected()
			deleted[table.name] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deleted, nil
}
