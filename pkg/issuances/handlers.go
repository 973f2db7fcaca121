package issuances

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	issuanceService *Service
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errcodes.NotFound("Issuance")
	}
	return id, nil
}

// parseDate reads a YYYY-MM-DD value that the binder has already checked.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, errcodes.FieldValidationError(field, fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field))
	}
	return t, nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateIssuancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	dateIssue, err := parseDate("date_issue", params.DateIssue)
	if err != nil {
		return err
	}

	issuance := &models.Issuance{
		BookID:    params.BookID,
		ReaderID:  params.ReaderID,
		DateIssue: dateIssue,
	}
	if params.DateExpiration != nil && *params.DateExpiration != "" {
		expiration, err := parseDate("date_expiration", *params.DateExpiration)
		if err != nil {
			return err
		}
		issuance.DateExpiration = &expiration
	}

	if err := h.issuanceService.CreateIssuance(ctx, issuance); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, issuance))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	issuance, err := h.issuanceService.RetrieveIssuance(ctx, RetrieveIssuanceOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, issuance))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListIssuancesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	issuances, total, err := h.issuanceService.ListIssuancesWithTotal(ctx, ListIssuancesOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		BookID:   params.BookID,
		ReaderID: params.ReaderID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]interface{}{
		"issuances": issuances,
		"total":     total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	params := UpdateIssuancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	issuance, err := h.issuanceService.RetrieveIssuance(ctx, RetrieveIssuanceOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdateIssuanceOptions{Columns: []string{}}

	if params.BookID != nil && *params.BookID != issuance.BookID {
		issuance.BookID = *params.BookID
		issuance.Book = nil
		opts.Columns = append(opts.Columns, "book_id")
	}
	if params.ReaderID != nil && *params.ReaderID != issuance.ReaderID {
		issuance.ReaderID = *params.ReaderID
		issuance.Reader = nil
		opts.Columns = append(opts.Columns, "reader_id")
	}
	if params.DateIssue != nil {
		dateIssue, err := parseDate("date_issue", *params.DateIssue)
		if err != nil {
			return err
		}
		if !dateIssue.Equal(issuance.DateIssue) {
			issuance.DateIssue = dateIssue
			opts.Columns = append(opts.Columns, "date_issue")
		}
	}
	if params.DateExpiration != nil {
		if *params.DateExpiration == "" {
			if issuance.DateExpiration != nil {
				issuance.DateExpiration = nil
				opts.Columns = append(opts.Columns, "date_expiration")
			}
		} else {
			expiration, err := parseDate("date_expiration", *params.DateExpiration)
			if err != nil {
				return err
			}
			if issuance.DateExpiration == nil || !expiration.Equal(*issuance.DateExpiration) {
				issuance.DateExpiration = &expiration
				opts.Columns = append(opts.Columns, "date_expiration")
			}
		}
	}

	if err := h.issuanceService.UpdateIssuance(ctx, issuance, opts); err != nil {
		return errors.WithStack(err)
	}

	// Reload the model
	issuance, err = h.issuanceService.RetrieveIssuance(ctx, RetrieveIssuanceOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, issuance))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.issuanceService.DeleteIssuance(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
