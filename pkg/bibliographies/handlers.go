package bibliographies

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	bibliographyService *Service
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errcodes.NotFound("Bibliography")
	}
	return id, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBibliographyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bib := &models.Bibliography{
		AuthorID: params.AuthorID,
		BookID:   params.BookID,
	}
	if err := h.bibliographyService.CreateBibliography(ctx, bib); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, bib))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	bib, err := h.bibliographyService.RetrieveBibliography(ctx, RetrieveBibliographyOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, bib))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBibliographiesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bibs, total, err := h.bibliographyService.ListBibliographiesWithTotal(ctx, ListBibliographiesOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		AuthorID: params.AuthorID,
		BookID:   params.BookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"bibliographies": bibs,
		"total":          total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	params := UpdateBibliographyPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bib, err := h.bibliographyService.RetrieveBibliography(ctx, RetrieveBibliographyOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateBibliographyOptions{Columns: []string{}}

	if params.AuthorID != nil && *params.AuthorID != bib.AuthorID {
		bib.AuthorID = *params.AuthorID
		opts.Columns = append(opts.Columns, "author_id")
	}
	if params.BookID != nil && *params.BookID != bib.BookID {
		bib.BookID = *params.BookID
		opts.Columns = append(opts.Columns, "book_id")
	}

	if err := h.bibliographyService.UpdateBibliography(ctx, bib, opts); err != nil {
		return errors.WithStack(err)
	}

	// Reload the model
	bib, err = h.bibliographyService.RetrieveBibliography(ctx, RetrieveBibliographyOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, bib))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.bibliographyService.DeleteBibliography(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
