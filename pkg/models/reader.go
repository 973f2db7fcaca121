package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Reader struct {
	bun.BaseModel `bun:"table:readers,alias:r"`

	ID          int64     `bun:",pk,autoincrement" json:"id"`
	CreatedAt   time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt   time.Time `bun:",notnull" json:"updated_at"`
	FirstName   string    `bun:",notnull" json:"first_name" validate:"required,notblank,max=255"`
	LastName    string    `bun:",notnull" json:"last_name" validate:"required,notblank,max=255"`
	PhoneNumber string    `bun:",notnull" json:"phone_number" validate:"required,max=128,phone"`
}

func (r *Reader) String() string {
	return fmt.Sprintf("%s %s %s", r.FirstName, r.LastName, r.PhoneNumber)
}
