package authors

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrieveAuthorOptions struct {
	ID *int64
}

type ListAuthorsOptions struct {
	Limit  *int
	Offset *int
	Search *string
	IDs    []int64

	includeTotal bool
}

type UpdateAuthorOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	validate *validation.Validator
}

func NewService(db *bun.DB, v *validation.Validator) *Service {
	return &Service{db, v}
}

func (svc *Service) CreateAuthor(ctx context.Context, author *models.Author) error {
	normalizeAuthor(author)
	if err := svc.validate.Struct(author); err != nil {
		return err
	}

	now := time.Now()
	if author.CreatedAt.IsZero() {
		author.CreatedAt = now
	}
	author.UpdatedAt = author.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(author).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveAuthor(ctx context.Context, opts RetrieveAuthorOptions) (*models.Author, error) {
	author := &models.Author{}

	q := svc.db.
		NewSelect().
		Model(author)

	if opts.ID != nil {
		q = q.Where("a.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}

	return author, nil
}

func (svc *Service) ListAuthors(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, error) {
	a, _, err := svc.listAuthorsWithTotal(ctx, opts)
	return a, errors.WithStack(err)
}

func (svc *Service) ListAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	opts.includeTotal = true
	return svc.listAuthorsWithTotal(ctx, opts)
}

func (svc *Service) listAuthorsWithTotal(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, int, error) {
	var authors []*models.Author
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&authors).
		Order("a.surname ASC", "a.name ASC", "a.id ASC")

	if len(opts.IDs) > 0 {
		q = q.Where("a.id IN (?)", bun.In(opts.IDs))
	}
	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(*opts.Search)) + "%"
		q = q.Where("LOWER(a.name || ' ' || a.surname) LIKE ?", pattern)
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

	return authors, total, nil
}

func (svc *Service) UpdateAuthor(ctx context.Context, author *models.Author, opts UpdateAuthorOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	normalizeAuthor(author)
	if err := svc.validate.Struct(author); err != nil {
		return err
	}

	author.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	result, err := svc.db.
		NewUpdate().
		Model(author).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errcodes.NotFound("Author")
	}
	return nil
}

// GetBooks returns the books associated with the author, ordered by title.
func (svc *Service) GetBooks(ctx context.Context, authorID int64) ([]*models.Book, error) {
	books := []*models.Book{}

	err := svc.db.
		NewSelect().
		Model(&books).
		Relation("Authors").
		Relation("Authors.Author").
		Where("b.id IN (SELECT ba.book_id FROM book_authors AS ba WHERE ba.author_id = ?)", authorID).
		Order("b.name ASC", "b.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// DeleteAuthor deletes an author along with its book associations and
// bibliography entries. The books themselves are kept.
func (svc *Service) DeleteAuthor(ctx context.Context, authorID int64) error {
	log := logger.FromContext(ctx)

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// Cascades are declared in the schema, but be explicit so they don't
		// depend on the driver enforcing foreign keys.
		bookAuthors, err := tx.NewDelete().
			Model((*models.BookAuthor)(nil)).
			Where("author_id = ?", authorID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		bibliographies, err := tx.NewDelete().
			Model((*models.Bibliography)(nil)).
			Where("author_id = ?", authorID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		result, err := tx.NewDelete().
			Model((*models.Author)(nil)).
			Where("id = ?", authorID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errcodes.NotFound("Author")
		}

		baCount, _ := bookAuthors.RowsAffected()
		bibCount, _ := bibliographies.RowsAffected()
		log.Info("deleted author", logger.Data{
			"author_id":              authorID,
			"book_authors_deleted":   baCount,
			"bibliographies_deleted": bibCount,
		})
		return nil
	})
}

func normalizeAuthor(author *models.Author) {
	author.Name = strings.TrimSpace(author.Name)
	author.Surname = strings.TrimSpace(author.Surname)
}
