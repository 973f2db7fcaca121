package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Bibliography is an explicit author-to-book link. It is stored separately
// from book_authors and is not kept in sync with it.
type Bibliography struct {
	bun.BaseModel `bun:"table:bibliographies,alias:bib"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt time.Time `bun:",notnull" json:"updated_at"`
	AuthorID  int64     `bun:",notnull" json:"author_id" validate:"required,min=1"`
	Author    *Author   `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty" validate:"-"`
	BookID    int64     `bun:",notnull" json:"book_id" validate:"required,min=1"`
	Book      *Book     `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty" validate:"-"`
}
