package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/libraryhub/libraryhub/pkg/database"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID *int64
}

type ListBooksOptions struct {
	Limit    *int
	Offset   *int
	Search   *string
	AuthorID *int64

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
	// UpdateAuthors replaces the book's author set with AuthorIDs.
	UpdateAuthors bool
	AuthorIDs     []int64
}

type Service struct {
	db       *bun.DB
	validate *validation.Validator
}

func NewService(db *bun.DB, v *validation.Validator) *Service {
	return &Service{db, v}
}

// CreateBook inserts the book and associates it with the given authors. Every
// author must exist; otherwise nothing is written.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, authorIDs []int64) error {
	book.Name = strings.TrimSpace(book.Name)
	if err := svc.validate.Struct(book); err != nil {
		return err
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return setAuthors(ctx, tx, book, authorIDs)
	})
	if err != nil {
		book.ID = 0
		if database.IsForeignKeyViolation(err) {
			return errcodes.UnresolvedReference()
		}
		return err
	}

	return nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Authors", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("ba.id ASC")
		}).
		Relation("Authors.Author")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Authors", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("ba.id ASC")
		}).
		Relation("Authors.Author").
		Order("b.name ASC", "b.id ASC")

	if opts.AuthorID != nil {
		q = q.Where("b.id IN (SELECT ba.book_id FROM book_authors AS ba WHERE ba.author_id = ?)", *opts.AuthorID)
	}
	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(*opts.Search)) + "%"
		q = q.Where("LOWER(b.name) LIKE ?", pattern)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && !opts.UpdateAuthors {
		return nil
	}

	book.Name = strings.TrimSpace(book.Name)
	if err := svc.validate.Struct(book); err != nil {
		return err
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// Update updated_at.
		book.UpdatedAt = time.Now()
		columns := append(opts.Columns, "updated_at")

		result, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book")
		}

		if opts.UpdateAuthors {
			// Delete all previous associations and save the new ones.
			_, err := tx.
				NewDelete().
				Model((*models.BookAuthor)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}

			if err := setAuthors(ctx, tx, book, opts.AuthorIDs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return errcodes.UnresolvedReference()
		}
		return err
	}

	return nil
}

// DeleteBook deletes a book together with its issuances, bibliography entries
// and author associations.
func (svc *Service) DeleteBook(ctx context.Context, bookID int64) error {
	log := logger.FromContext(ctx)

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		counts := logger.Data{"book_id": bookID}

		dependents := []struct {
			name  string
			model interface{}
		}{
			{"issuances", (*models.Issuance)(nil)},
			{"bibliographies", (*models.Bibliography)(nil)},
			{"book_authors", (*models.BookAuthor)(nil)},
		}
		for _, dep := range dependents {
			result, err := tx.NewDelete().
				Model(dep.model).
				Where("book_id = ?", bookID).
				Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "failed to delete %s", dep.name)
			}
			n, _ := result.RowsAffected()
			counts[dep.name+"_deleted"] = n
		}

		result, err := tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book")
		}

		log.Info("deleted book", counts)
		return nil
	})
}

// GetIssuances returns the issuances of the book, most recent first.
func (svc *Service) GetIssuances(ctx context.Context, bookID int64) ([]*models.Issuance, error) {
	issuances := []*models.Issuance{}

	err := svc.db.
		NewSelect().
		Model(&issuances).
		Relation("Reader").
		Where("i.book_id = ?", bookID).
		Order("i.date_issue DESC", "i.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return issuances, nil
}

// setAuthors inserts book_authors rows for authorIDs, skipping duplicates, and
// loads the result onto book.Authors.
func setAuthors(ctx context.Context, tx bun.Tx, book *models.Book, authorIDs []int64) error {
	book.Authors = []*models.BookAuthor{}

	seen := map[int64]bool{}
	for _, authorID := range authorIDs {
		if seen[authorID] {
			continue
		}
		seen[authorID] = true

		author := &models.Author{}
		err := tx.NewSelect().
			Model(author).
			Where("a.id = ?", authorID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.ReferenceError("Author", "author_ids", authorID)
			}
			return errors.WithStack(err)
		}

		book.Authors = append(book.Authors, &models.BookAuthor{
			BookID:   book.ID,
			AuthorID: authorID,
			Author:   author,
		})
	}

	if len(book.Authors) == 0 {
		return nil
	}

	_, err := tx.
		NewInsert().
		Model(&book.Authors).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}
