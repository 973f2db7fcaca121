package readers

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/phone"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type RetrieveReaderOptions struct {
	ID          *int64
	PhoneNumber *string
}

type ListReadersOptions struct {
	Limit  *int
	Offset *int
	Search *string

	includeTotal bool
}

type UpdateReaderOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	validate *validation.Validator
}

func NewService(db *bun.DB, v *validation.Validator) *Service {
	return &Service{db, v}
}

func (svc *Service) CreateReader(ctx context.Context, reader *models.Reader) error {
	if err := svc.prepare(reader); err != nil {
		return err
	}

	now := time.Now()
	if reader.CreatedAt.IsZero() {
		reader.CreatedAt = now
	}
	reader.UpdatedAt = reader.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(reader).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveReader(ctx context.Context, opts RetrieveReaderOptions) (*models.Reader, error) {
	reader := &models.Reader{}

	q := svc.db.
		NewSelect().
		Model(reader)

	if opts.ID != nil {
		q = q.Where("r.id = ?", *opts.ID)
	}
	if opts.PhoneNumber != nil {
		normalized, err := phone.Normalize(*opts.PhoneNumber, svc.validate.PhoneDefaultRegion())
		if err != nil {
			return nil, errcodes.NotFound("Reader")
		}
		q = q.Where("r.phone_number = ?", normalized)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reader")
		}
		return nil, errors.WithStack(err)
	}

	return reader, nil
}

func (svc *Service) ListReaders(ctx context.Context, opts ListReadersOptions) ([]*models.Reader, error) {
	r, _, err := svc.listReadersWithTotal(ctx, opts)
	return r, errors.WithStack(err)
}

func (svc *Service) ListReadersWithTotal(ctx context.Context, opts ListReadersOptions) ([]*models.Reader, int, error) {
	opts.includeTotal = true
	return svc.listReadersWithTotal(ctx, opts)
}

func (svc *Service) listReadersWithTotal(ctx context.Context, opts ListReadersOptions) ([]*models.Reader, int, error) {
	var readers []*models.Reader
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&readers).
		Order("r.last_name ASC", "r.first_name ASC", "r.id ASC")

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(*opts.Search)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(r.first_name || ' ' || r.last_name) LIKE ?", pattern).
				WhereOr("r.phone_number LIKE ?", pattern)
		})
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

	return readers, total, nil
}

func (svc *Service) UpdateReader(ctx context.Context, reader *models.Reader, opts UpdateReaderOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	if err := svc.prepare(reader); err != nil {
		return err
	}

	reader.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	result, err := svc.db.
		NewUpdate().
		Model(reader).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errcodes.NotFound("Reader")
	}
	return nil
}

// DeleteReader deletes a reader and every issuance made to them.
func (svc *Service) DeleteReader(ctx context.Context, readerID int64) error {
	log := logger.FromContext(ctx)

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		issuances, err := tx.NewDelete().
			Model((*models.Issuance)(nil)).
			Where("reader_id = ?", readerID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		result, err := tx.NewDelete().
			Model((*models.Reader)(nil)).
			Where("id = ?", readerID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return errcodes.NotFound("Reader")
		}

		n, _ := issuances.RowsAffected()
		log.Info("deleted reader", logger.Data{"reader_id": readerID, "issuances_deleted": n})
		return nil
	})
}

// GetIssuances returns the issuances made to the reader, most recent first.
func (svc *Service) GetIssuances(ctx context.Context, readerID int64) ([]*models.Issuance, error) {
	issuances := []*models.Issuance{}

	err := svc.db.
		NewSelect().
		Model(&issuances).
		Relation("Book").
		Where("i.reader_id = ?", readerID).
		Order("i.date_issue DESC", "i.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return issuances, nil
}

// prepare trims and validates the reader, then rewrites its phone number in
// E.164 so equal numbers are stored identically.
func (svc *Service) prepare(reader *models.Reader) error {
	reader.FirstName = strings.TrimSpace(reader.FirstName)
	reader.LastName = strings.TrimSpace(reader.LastName)
	reader.PhoneNumber = strings.TrimSpace(reader.PhoneNumber)

	if err := svc.validate.Struct(reader); err != nil {
		return err
	}

	normalized, err := phone.Normalize(reader.PhoneNumber, svc.validate.PhoneDefaultRegion())
	if err != nil {
		return errcodes.FieldValidationError("phone_number", `"phone_number" is not a valid phone number`)
	}
	reader.PhoneNumber = normalized
	return nil
}
