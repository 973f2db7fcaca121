package bibliographies

import (
	"context"
	"database/sql"
	"time"

	"github.com/libraryhub/libraryhub/pkg/database"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBibliographyOptions struct {
	ID *int64
}

type ListBibliographiesOptions struct {
	Limit    *int
	Offset   *int
	AuthorID *int64
	BookID   *int64

	includeTotal bool
}

type UpdateBibliographyOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	validate *validation.Validator
}

func NewService(db *bun.DB, v *validation.Validator) *Service {
	return &Service{db, v}
}

func (svc *Service) CreateBibliography(ctx context.Context, bib *models.Bibliography) error {
	if err := svc.validate.Struct(bib); err != nil {
		return err
	}

	now := time.Now()
	if bib.CreatedAt.IsZero() {
		bib.CreatedAt = now
	}
	bib.UpdatedAt = bib.CreatedAt

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, bib); err != nil {
			return err
		}

		_, err := tx.
			NewInsert().
			Model(bib).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return errcodes.UnresolvedReference()
		}
		return err
	}

	return nil
}

func (svc *Service) RetrieveBibliography(ctx context.Context, opts RetrieveBibliographyOptions) (*models.Bibliography, error) {
	bib := &models.Bibliography{}

	q := svc.db.
		NewSelect().
		Model(bib).
		Relation("Author").
		Relation("Book")

	if opts.ID != nil {
		q = q.Where("bib.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Bibliography")
		}
		return nil, errors.WithStack(err)
	}

	return bib, nil
}

func (svc *Service) ListBibliographies(ctx context.Context, opts ListBibliographiesOptions) ([]*models.Bibliography, error) {
	b, _, err := svc.listBibliographiesWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBibliographiesWithTotal(ctx context.Context, opts ListBibliographiesOptions) ([]*models.Bibliography, int, error) {
	opts.includeTotal = true
	return svc.listBibliographiesWithTotal(ctx, opts)
}

func (svc *Service) listBibliographiesWithTotal(ctx context.Context, opts ListBibliographiesOptions) ([]*models.Bibliography, int, error) {
	var bibs []*models.Bibliography
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&bibs).
		Relation("Author").
		Relation("Book").
		Order("bib.id ASC")

	if opts.AuthorID != nil {
		q = q.Where("bib.author_id = ?", *opts.AuthorID)
	}
	if opts.BookID != nil {
		q = q.Where("bib.book_id = ?", *opts.BookID)
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

	return bibs, total, nil
}

func (svc *Service) UpdateBibliography(ctx context.Context, bib *models.Bibliography, opts UpdateBibliographyOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	if err := svc.validate.Struct(bib); err != nil {
		return err
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, bib); err != nil {
			return err
		}

		bib.UpdatedAt = time.Now()
		columns := append(opts.Columns, "updated_at")

		result, err := tx.
			NewUpdate().
			Model(bib).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errcodes.NotFound("Bibliography")
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

func (svc *Service) DeleteBibliography(ctx context.Context, bibID int64) error {
	result, err := svc.db.
		NewDelete().
		Model((*models.Bibliography)(nil)).
		Where("id = ?", bibID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errcodes.NotFound("Bibliography")
	}
	return nil
}

func checkReferences(ctx context.Context, tx bun.Tx, bib *models.Bibliography) error {
	exists, err := database.RowExists(ctx, tx, (*models.Author)(nil), bib.AuthorID)
	if err != nil {
		return err
	}
	if !exists {
		return errcodes.ReferenceError("Author", "author_id", bib.AuthorID)
	}

	exists, err = database.RowExists(ctx, tx, (*models.Book)(nil), bib.BookID)
	if err != nil {
		return err
	}
	if !exists {
		return errcodes.ReferenceError("Book", "book_id", bib.BookID)
	}

	return nil
}
