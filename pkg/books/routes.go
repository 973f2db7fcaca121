package books

import (
	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, v *validation.Validator) {
	h := &handler{
		bookService: NewService(db, v),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.GET("/:id/issuances", h.issuances)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}
