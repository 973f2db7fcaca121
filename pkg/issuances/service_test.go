package issuances

import (
	"context"
	"testing"
	"time"

	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/testutils/testdb"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type fixtures struct {
	book   *models.Book
	book2  *models.Book
	reader *models.Reader
}

func newTestService(t *testing.T) (*Service, *bun.DB, fixtures) {
	t.Helper()
	db := testdb.New(t)
	ctx := context.Background()
	now := time.Now()

	f := fixtures{
		book:   &models.Book{CreatedAt: now, UpdatedAt: now, Name: "Dune", PublicationYear: 1965, PageNumber: 412},
		book2:  &models.Book{CreatedAt: now, UpdatedAt: now, Name: "Foundation", PublicationYear: 1951, PageNumber: 255},
		reader: &models.Reader{CreatedAt: now, UpdatedAt: now, FirstName: "Paul", LastName: "Atreides", PhoneNumber: "+16502530000"},
	}
	for _, m := range []interface{}{f.book, f.book2, f.reader} {
		_, err := db.NewInsert().Model(m).Exec(ctx)
		require.NoError(t, err)
	}

	return NewService(db, validation.New(validation.Options{})), db, f
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateIssuance(t *testing.T) {
	t.Parallel()
	svc, _, f := newTestService(t)
	ctx := context.Background()

	expiration := time.Date(2026, 10, 15, 18, 45, 0, 0, time.UTC)
	issuance := &models.Issuance{
		BookID:         f.book.ID,
		ReaderID:       f.reader.ID,
		DateIssue:      time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		DateExpiration: &expiration,
	}
	require.NoError(t, svc.CreateIssuance(ctx, issuance))
	assert.NotZero(t, issuance.ID)

	got, err := svc.RetrieveIssuance(ctx, RetrieveIssuanceOptions{ID: &issuance.ID})
	require.NoError(t, err)
	assert.True(t, got.DateIssue.Equal(day(2026, 10, 1)))
	require.NotNil(t, got.DateExpiration)
	assert.True(t, got.DateExpiration.Equal(day(2026, 10, 15)))
	require.NotNil(t, got.Book)
	require.NotNil(t, got.Reader)
	assert.Equal(t, "Dune 1965 412 Paul Atreides +16502530000 2026-10-01 2026-10-15", got.String())
}

func TestCreateIssuance_WithoutExpiration(t *testing.T) {
	t.Parallel()
	svc, _, f := newTestService(t)
	ctx := context.Background()

	issuance := &models.Issuance{BookID: f.book.ID, ReaderID: f.reader.ID, DateIssue: day(2026, 10, 1)}
	require.NoError(t, svc.CreateIssuance(ctx, issuance))

	got, err := svc.RetrieveIssuance(ctx, RetrieveIssuanceOptions{ID: &issuance.ID})
	require.NoError(t, err)
	assert.Nil(t, got.DateExpiration)
	assert.Contains(t, got.String(), "None")
}

func TestCreateIssuance_MissingReferences(t *testing.T) {
	t.Parallel()
	svc, db, f := newTestService(t)
	ctx := context.Background()

	err := svc.CreateIssuance(ctx, &models.Issuance{BookID: 999, ReaderID: f.reader.ID, DateIssue: day(2026, 10, 1)})
	require.Error(t, err)
	assert.True(t, errcodes.IsReferenceError(err))
	assert.ErrorIs(t, err, errcodes.ReferenceError("Book", "book_id", 999))

	err = svc.CreateIssuance(ctx, &models.Issuance{BookID: f.book.ID, ReaderID: 999, DateIssue: day(2026, 10, 1)})
	assert.ErrorIs(t, err, errcodes.ReferenceError("Reader", "reader_id", 999))

	count, err := db.NewSelect().Model((*models.Issuance)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateIssuance_Validation(t *testing.T) {
	t.Parallel()
	svc, _, f := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		issuance *models.Issuance
		field    string
	}{
		{"missing issue date", &models.Issuance{BookID: f.book.ID, ReaderID: f.reader.ID}, "date_issue"},
		{"missing book", &models.Issuance{ReaderID: f.reader.ID, DateIssue: day(2026, 10, 1)}, "book_id"},
		{"missing reader", &models.Issuance{BookID: f.book.ID, DateIssue: day(2026, 10, 1)}, "reader_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateIssuance(ctx, tt.issuance)
			var e *errcodes.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, "validation_error", e.Code)
			assert.Equal(t, tt.field, e.Field)
		})
	}
}

func TestListIssuancesWithTotal(t *testing.T) {
	t.Parallel()
	svc, _, f := newTestService(t)
	ctx := context.Background()

	for _, i := range []*models.Issuance{
		{BookID: f.book.ID, ReaderID: f.reader.ID, DateIssue: day(2026, 9, 1)},
		{BookID: f.book.ID, ReaderID: f.reader.ID, DateIssue: day(2026, 10, 1)},
		{BookID: f.book2.ID, ReaderID: f.reader.ID, DateIssue: day(2026, 8, 1)},
	} {
		require.NoError(t, svc.CreateIssuance(ctx, i))
	}

	issuances, total, err := svc.ListIssuancesWithTotal(ctx, ListIssuancesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, issuances, 3)
	assert.True(t, issuances[0].DateIssue.Equal(day(2026, 10, 1)))
	assert.True(t, issuances[2].DateIssue.Equal(day(2026, 8, 1)))

	issuances, total, err = svc.ListIssuancesWithTotal(ctx, ListIssuancesOptions{BookID: &f.book.ID, ReaderID: &f.reader.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, issuances, 2)

	limit := 1
	issuances, err = svc.ListIssuances(ctx, ListIssuancesOptions{BookID: &f.book2.ID, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, issuances, 1)
	assert.Equal(t, "Foundation", issuances[0].Book.Name)
}

func TestUpdateIssuance(t *testing.T) {
	t.Parallel()
	svc, _, f := newTestService(t)
	ctx := context.Background()

	issuance := &models.Issuance{BookID: f.book.ID, ReaderID: f.reader.ID, DateIssue: day(2026, 10, 1)}
	require.NoError(t, svc.CreateIssuance(ctx, issuance))

	expiration := day(2026, 11, 1)
	issuance.BookID = f.book2.ID
	issuance.DateExpiration = &expiration
	require.NoError(t, svc.UpdateIssuance(ctx, issuance, UpdateIssuanceOptions{Columns: []string{"book_id", "date_expiration"}}))

	got, err := svc.RetrieveIssuance(ctx, RetrieveIssuanceOptions{ID: &issuance.ID})
	require.NoError(t, err)
	assert.Equal(t, f.book2.ID, got.BookID)
	require.NotNil(t, got.DateExpiration)
	assert.True(t, got.DateExpiration.Equal(expiration))

	got.ReaderID = 12345
	err = svc.UpdateIssuance(ctx, got, UpdateIssuanceOptions{Columns: []string{"reader_id"}})
	assert.ErrorIs(t, err, errcodes.ReferenceError("Reader", "reader_id", 12345))

	ghost := &models.Issuance{ID: 999, BookID: f.book.ID, ReaderID: f.reader.ID, DateIssue: day(2026, 10, 1)}
	err = svc.UpdateIssuance(ctx, ghost, UpdateIssuanceOptions{Columns: []string{"date_issue"}})
	assert.ErrorIs(t, err, errcodes.NotFound("Issuance"))
}

func TestDeleteIssuance(t *testing.T) {
	t.Parallel()
	svc, _, f := newTestService(t)
	ctx := context.Background()

	issuance := &models.Issuance{BookID: f.book.ID, ReaderID: f.reader.ID, DateIssue: day(2026, 10, 1)}
	require.NoError(t, svc.CreateIssuance(ctx, issuance))

	require.NoError(t, svc.DeleteIssuance(ctx, issuance.ID))
	_, err := svc.RetrieveIssuance(ctx, RetrieveIssuanceOptions{ID: &issuance.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Issuance"))
	assert.ErrorIs(t, svc.DeleteIssuance(ctx, issuance.ID), errcodes.NotFound("Issuance"))
}
