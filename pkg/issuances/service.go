package issuances

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

type RetrieveIssuanceOptions struct {
	ID *int64
}

type ListIssuancesOptions struct {
	Limit    *int
	Offset   *int
	BookID   *int64
	ReaderID *int64

	includeTotal bool
}

type UpdateIssuanceOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	validate *validation.Validator
}

func NewService(db *bun.DB, v *validation.Validator) *Service {
	return &Service{db, v}
}

// CreateIssuance records a lending. The book and reader must both exist.
func (svc *Service) CreateIssuance(ctx context.Context, issuance *models.Issuance) error {
	normalizeDates(issuance)
	if err := svc.validate.Struct(issuance); err != nil {
		return err
	}

	now := time.Now()
	if issuance.CreatedAt.IsZero() {
		issuance.CreatedAt = now
	}
	issuance.UpdatedAt = issuance.CreatedAt

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, issuance); err != nil {
			return err
		}

		_, err := tx.
			NewInsert().
			Model(issuance).
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

func (svc *Service) RetrieveIssuance(ctx context.Context, opts RetrieveIssuanceOptions) (*models.Issuance, error) {
	issuance := &models.Issuance{}

	q := svc.db.
		NewSelect().
		Model(issuance).
		Relation("Book").
		Relation("Reader")

	if opts.ID != nil {
		q = q.Where("i.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Issuance")
		}
		return nil, errors.WithStack(err)
	}

	return issuance, nil
}

func (svc *Service) ListIssuances(ctx context.Context, opts ListIssuancesOptions) ([]*models.Issuance, error) {
	i, _, err := svc.listIssuancesWithTotal(ctx, opts)
	return i, errors.WithStack(err)
}

func (svc *Service) ListIssuancesWithTotal(ctx context.Context, opts ListIssuancesOptions) ([]*models.Issuance, int, error) {
	opts.includeTotal = true
	return svc.listIssuancesWithTotal(ctx, opts)
}

func (svc *Service) listIssuancesWithTotal(ctx context.Context, opts ListIssuancesOptions) ([]*models.Issuance, int, error) {
	var issuances []*models.Issuance
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&issuances).
		Relation("Book").
		Relation("Reader").
		Order("i.date_issue DESC", "i.id DESC")

	if opts.BookID != nil {
		q = q.Where("i.book_id = ?", *opts.BookID)
	}
	if opts.ReaderID != nil {
		q = q.Where("i.reader_id = ?", *opts.ReaderID)
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

	return issuances, total, nil
}

func (svc *Service) UpdateIssuance(ctx context.Context, issuance *models.Issuance, opts UpdateIssuanceOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	normalizeDates(issuance)
	if err := svc.validate.Struct(issuance); err != nil {
		return err
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, issuance); err != nil {
			return err
		}

		issuance.UpdatedAt = time.Now()
		columns := append(opts.Columns, "updated_at")

		result, err := tx.
			NewUpdate().
			Model(issuance).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errcodes.NotFound("Issuance")
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

func (svc *Service) DeleteIssuance(ctx context.Context, issuanceID int64) error {
	result, err := svc.db.
		NewDelete().
		Model((*models.Issuance)(nil)).
		Where("id = ?", issuanceID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errcodes.NotFound("Issuance")
	}
	return nil
}

func checkReferences(ctx context.Context, tx bun.Tx, issuance *models.Issuance) error {
	exists, err := database.RowExists(ctx, tx, (*models.Book)(nil), issuance.BookID)
	if err != nil {
		return err
	}
	if !exists {
		return errcodes.ReferenceError("Book", "book_id", issuance.BookID)
	}

	exists, err = database.RowExists(ctx, tx, (*models.Reader)(nil), issuance.ReaderID)
	if err != nil {
		return err
	}
	if !exists {
		return errcodes.ReferenceError("Reader", "reader_id", issuance.ReaderID)
	}

	return nil
}

func normalizeDates(issuance *models.Issuance) {
	if !issuance.DateIssue.IsZero() {
		issuance.DateIssue = models.TruncateDate(issuance.DateIssue)
	}
	if issuance.DateExpiration != nil {
		d := models.TruncateDate(*issuance.DateExpiration)
		issuance.DateExpiration = &d
	}
}
