package validation

import (
	"testing"
	"time"

	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
}

func requireFieldError(t *testing.T, err error, field string) *errcodes.Error {
	t.Helper()
	require.Error(t, err)
	var e *errcodes.Error
	require.True(t, errors.As(err, &e), "expected an errcodes.Error, got %v", err)
	assert.Equal(t, "validation_error", e.Code)
	assert.Equal(t, field, e.Field)
	return e
}

func TestStruct_Book(t *testing.T) {
	v := New(Options{Now: fixedNow})

	t.Run("accepts a valid book", func(t *testing.T) {
		err := v.Struct(&models.Book{Name: "Dune", PublicationYear: 1965, PageNumber: 412})
		assert.NoError(t, err)
	})

	t.Run("accepts the current year", func(t *testing.T) {
		err := v.Struct(&models.Book{Name: "New", PublicationYear: 2026, PageNumber: 1})
		assert.NoError(t, err)
	})

	cases := []struct {
		name  string
		book  models.Book
		field string
		msg   string
	}{
		{"future year", models.Book{Name: "X", PublicationYear: 2999, PageNumber: 5}, "publication_year", `"publication_year" must not be later than the current year`},
		{"next year", models.Book{Name: "X", PublicationYear: 2027, PageNumber: 5}, "publication_year", ""},
		{"year zero", models.Book{Name: "X", PublicationYear: 0, PageNumber: 5}, "publication_year", `"publication_year" must be greater than or equal to 1`},
		{"negative year", models.Book{Name: "X", PublicationYear: -300, PageNumber: 5}, "publication_year", ""},
		{"zero pages", models.Book{Name: "X", PublicationYear: 1965, PageNumber: 0}, "page_number", `"page_number" must be greater than or equal to 1`},
		{"too many pages", models.Book{Name: "X", PublicationYear: 1965, PageNumber: 40000}, "page_number", ""},
		{"missing name", models.Book{PublicationYear: 1965, PageNumber: 5}, "name", `"name" is required`},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			e := requireFieldError(t, v.Struct(&tt.book), tt.field)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, e.Message)
			}
		})
	}
}

func TestStruct_Author(t *testing.T) {
	v := New(Options{Now: fixedNow})

	assert.NoError(t, v.Struct(&models.Author{Name: "Frank", Surname: "Herbert"}))

	requireFieldError(t, v.Struct(&models.Author{Name: "   ", Surname: "Herbert"}), "name")
	requireFieldError(t, v.Struct(&models.Author{Name: "Frank"}), "surname")

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	e := requireFieldError(t, v.Struct(&models.Author{Name: string(long), Surname: "Herbert"}), "name")
	assert.Contains(t, e.Message, "255 characters")
}

func TestStruct_Reader(t *testing.T) {
	v := New(Options{Now: fixedNow})

	assert.NoError(t, v.Struct(&models.Reader{FirstName: "Paul", LastName: "Atreides", PhoneNumber: "+16502530000"}))

	e := requireFieldError(t, v.Struct(&models.Reader{FirstName: "Paul", LastName: "Atreides", PhoneNumber: "12345"}), "phone_number")
	assert.Equal(t, `"phone_number" is not a valid phone number`, e.Message)

	t.Run("national numbers need a default region", func(t *testing.T) {
		reader := &models.Reader{FirstName: "Paul", LastName: "Atreides", PhoneNumber: "(650) 253-0000"}
		requireFieldError(t, v.Struct(reader), "phone_number")

		regional := New(Options{Now: fixedNow, PhoneDefaultRegion: "US"})
		assert.NoError(t, regional.Struct(reader))
	})
}

func TestStruct_Issuance(t *testing.T) {
	v := New(Options{Now: fixedNow})

	issued := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, v.Struct(&models.Issuance{BookID: 1, ReaderID: 1, DateIssue: issued}))

	requireFieldError(t, v.Struct(&models.Issuance{BookID: 1, ReaderID: 1}), "date_issue")
	requireFieldError(t, v.Struct(&models.Issuance{ReaderID: 1, DateIssue: issued}), "book_id")
	requireFieldError(t, v.Struct(&models.Issuance{BookID: 1, DateIssue: issued}), "reader_id")
}

func TestDateValidator(t *testing.T) {
	v := New(Options{})

	type payload struct {
		Date string `json:"date" validate:"date"`
	}

	assert.NoError(t, v.Struct(&payload{Date: ""}))
	assert.NoError(t, v.Struct(&payload{Date: "2024-02-29"}))
	requireFieldError(t, v.Struct(&payload{Date: "2023-02-29"}), "date")
	requireFieldError(t, v.Struct(&payload{Date: "18.10.2026"}), "date")
}
