package issuances

import (
	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers issuance routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, v *validation.Validator) {
	h := &handler{
		issuanceService: NewService(db, v),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}
