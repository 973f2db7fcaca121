package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `bun:",notnull" json:"created_at"`
	UpdatedAt time.Time `bun:",notnull" json:"updated_at"`
	Name      string    `bun:",notnull" json:"name" validate:"required,notblank,max=255"`
	Surname   string    `bun:",notnull" json:"surname" validate:"required,notblank,max=255"`
}

func (a *Author) String() string {
	return fmt.Sprintf("%s %s", a.Name, a.Surname)
}
