package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// MaxPageNumber is the upper bound of the page_number column, a positive
// small integer.
const MaxPageNumber = 32767

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              int64         `bun:",pk,autoincrement" json:"id"`
	CreatedAt       time.Time     `bun:",notnull" json:"created_at"`
	UpdatedAt       time.Time     `bun:",notnull" json:"updated_at"`
	Name            string        `bun:",notnull" json:"name" validate:"required,notblank,max=255"`
	PublicationYear int           `bun:",notnull" json:"publication_year" validate:"min=1,notfutureyear"`
	PageNumber      int           `bun:",notnull" json:"page_number" validate:"min=1,max=32767"`
	Authors         []*BookAuthor `bun:"rel:has-many,join:id=book_id" json:"authors,omitempty" validate:"-"`
}

func (b *Book) String() string {
	return fmt.Sprintf("%s %d %d", b.Name, b.PublicationYear, b.PageNumber)
}

// AuthorIDs returns the ids of the loaded author associations in order.
func (b *Book) AuthorIDs() []int64 {
	ids := make([]int64, 0, len(b.Authors))
	for _, ba := range b.Authors {
		ids = append(ids, ba.AuthorID)
	}
	return ids
}

// BookAuthor is a row of the book_authors junction table backing the
// many-to-many relation between books and authors.
type BookAuthor struct {
	bun.BaseModel `bun:"table:book_authors,alias:ba"`

	ID       int64   `bun:",pk,autoincrement" json:"id"`
	BookID   int64   `bun:",notnull" json:"book_id"`
	AuthorID int64   `bun:",notnull" json:"author_id"`
	Author   *Author `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty" validate:"-"`
}
