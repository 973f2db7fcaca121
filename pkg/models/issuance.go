package models

import (
	"fmt"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// DateLayout is the wire and display format of issuance dates.
const DateLayout = "2006-01-02"

// Issuance is one lending of a book to a reader.
type Issuance struct {
	bun.BaseModel `bun:"table:issuances,alias:i"`

	ID             int64      `bun:",pk,autoincrement" json:"id"`
	CreatedAt      time.Time  `bun:",notnull" json:"created_at"`
	UpdatedAt      time.Time  `bun:",notnull" json:"updated_at"`
	BookID         int64      `bun:",notnull" json:"book_id" validate:"required,min=1"`
	Book           *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty" validate:"-"`
	ReaderID       int64      `bun:",notnull" json:"reader_id" validate:"required,min=1"`
	Reader         *Reader    `bun:"rel:belongs-to,join:reader_id=id" json:"reader,omitempty" validate:"-"`
	DateIssue      time.Time  `bun:",notnull" json:"date_issue" validate:"required"`
	DateExpiration *time.Time `json:"date_expiration"`
}

func (i *Issuance) String() string {
	book := fmt.Sprintf("book #%d", i.BookID)
	if i.Book != nil {
		book = i.Book.String()
	}
	reader := fmt.Sprintf("reader #%d", i.ReaderID)
	if i.Reader != nil {
		reader = i.Reader.String()
	}
	expiration := "None"
	if i.DateExpiration != nil {
		expiration = i.DateExpiration.Format(DateLayout)
	}
	return fmt.Sprintf("%s %s %s %s", book, reader, i.DateIssue.Format(DateLayout), expiration)
}

// MarshalJSON renders the issue and expiration dates as plain calendar days.
func (i *Issuance) MarshalJSON() ([]byte, error) {
	type issuance Issuance
	var expiration *string
	if i.DateExpiration != nil {
		s := i.DateExpiration.Format(DateLayout)
		expiration = &s
	}
	return json.Marshal(struct {
		*issuance
		Book           *Book   `json:"book,omitempty"`
		Reader         *Reader `json:"reader,omitempty"`
		DateIssue      string  `json:"date_issue"`
		DateExpiration *string `json:"date_expiration"`
	}{(*issuance)(i), i.Book, i.Reader, i.DateIssue.Format(DateLayout), expiration})
}

// TruncateDate drops the time of day so dates compare and store as calendar
// days.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
