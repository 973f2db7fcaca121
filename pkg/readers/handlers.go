package readers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	readerService *Service
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errcodes.NotFound("Reader")
	}
	return id, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateReaderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reader := &models.Reader{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		PhoneNumber: params.PhoneNumber,
	}
	if err := h.readerService.CreateReader(ctx, reader); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, reader))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	reader, err := h.readerService.RetrieveReader(ctx, RetrieveReaderOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, reader))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListReadersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// An exact phone lookup answers with at most one reader.
	if params.Phone != nil {
		readers := []*models.Reader{}
		reader, err := h.readerService.RetrieveReader(ctx, RetrieveReaderOptions{PhoneNumber: params.Phone})
		if err != nil && !errors.Is(err, errcodes.NotFound("Reader")) {
			return errors.WithStack(err)
		}
		if reader != nil {
			readers = append(readers, reader)
		}
		return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
			"readers": readers,
			"total":   len(readers),
		}))
	}

	readers, total, err := h.readerService.ListReadersWithTotal(ctx, ListReadersOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Search: params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"readers": readers,
		"total":   total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	params := UpdateReaderPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	reader, err := h.readerService.RetrieveReader(ctx, RetrieveReaderOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdateReaderOptions{Columns: []string{}}

	if params.FirstName != nil && *params.FirstName != reader.FirstName {
		reader.FirstName = *params.FirstName
		opts.Columns = append(opts.Columns, "first_name")
	}
	if params.LastName != nil && *params.LastName != reader.LastName {
		reader.LastName = *params.LastName
		opts.Columns = append(opts.Columns, "last_name")
	}
	if params.PhoneNumber != nil && *params.PhoneNumber != reader.PhoneNumber {
		reader.PhoneNumber = *params.PhoneNumber
		opts.Columns = append(opts.Columns, "phone_number")
	}

	if err := h.readerService.UpdateReader(ctx, reader, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, reader))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.readerService.DeleteReader(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) issuances(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if _, err := h.readerService.RetrieveReader(ctx, RetrieveReaderOptions{ID: &id}); err != nil {
		return errors.WithStack(err)
	}

	issuances, err := h.readerService.GetIssuances(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, issuances))
}
