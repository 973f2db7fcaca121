package migrations

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// idColumn returns the auto-incrementing primary key definition for the
// connected dialect.
func idColumn(db *bun.DB) string {
	if db.Dialect().Name() == dialect.PG {
		return "id BIGSERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY AUTOINCREMENT"
}

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		id := idColumn(db)

		statements := []string{
			fmt.Sprintf(`
			CREATE TABLE authors (
				%s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name VARCHAR(255) NOT NULL,
				surname VARCHAR(255) NOT NULL
			)`, id),
			fmt.Sprintf(`
			CREATE TABLE books (
				%s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name VARCHAR(255) NOT NULL,
				publication_year INTEGER NOT NULL CHECK (publication_year >= 1),
				page_number INTEGER NOT NULL CHECK (page_number >= 1 AND page_number <= 32767)
			)`, id),
			fmt.Sprintf(`
			CREATE TABLE book_authors (
				%s,
				book_id BIGINT NOT NULL REFERENCES books (id) ON DELETE CASCADE,
				author_id BIGINT NOT NULL REFERENCES authors (id) ON DELETE CASCADE
			)`, id),
			`CREATE UNIQUE INDEX ux_book_authors_book_id_author_id ON book_authors (book_id, author_id)`,
			`CREATE INDEX ix_book_authors_author_id ON book_authors (author_id)`,
			fmt.Sprintf(`
			CREATE TABLE readers (
				%s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				first_name VARCHAR(255) NOT NULL,
				last_name VARCHAR(255) NOT NULL,
				phone_number VARCHAR(128) NOT NULL
			)`, id),
			fmt.Sprintf(`
			CREATE TABLE issuances (
				%s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id BIGINT NOT NULL REFERENCES books (id) ON DELETE CASCADE,
				reader_id BIGINT NOT NULL REFERENCES readers (id) ON DELETE CASCADE,
				date_issue DATE NOT NULL,
				date_expiration DATE
			)`, id),
			`CREATE INDEX ix_issuances_book_id ON issuances (book_id)`,
			`CREATE INDEX ix_issuances_reader_id ON issuances (reader_id)`,
			fmt.Sprintf(`
			CREATE TABLE bibliographies (
				%s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				author_id BIGINT NOT NULL REFERENCES authors (id) ON DELETE CASCADE,
				book_id BIGINT NOT NULL REFERENCES books (id) ON DELETE CASCADE
			)`, id),
			`CREATE INDEX ix_bibliographies_author_id ON bibliographies (author_id)`,
			`CREATE INDEX ix_bibliographies_book_id ON bibliographies (book_id)`,
		}

		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		for _, table := range []string{"bibliographies", "issuances", "readers", "book_authors", "books", "authors"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
