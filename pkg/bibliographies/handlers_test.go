package bibliographies

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/models"
	"github.com/libraryhub/libraryhub/pkg/testutils/testdb"
	"github.com/libraryhub/libraryhub/pkg/testutils/testecho"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers(t *testing.T) {
	db := testdb.New(t)
	v := validation.New(validation.Options{})
	e := testecho.New(t, v)
	RegisterRoutesWithGroup(e.Group("/bibliographies"), db, v)

	now := time.Now()
	author := &models.Author{CreatedAt: now, UpdatedAt: now, Name: "Frank", Surname: "Herbert"}
	book := &models.Book{CreatedAt: now, UpdatedAt: now, Name: "Dune", PublicationYear: 1965, PageNumber: 412}
	insert(t, db, author, book)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/bibliographies", fmt.Sprintf(`{"author_id":%d,"book_id":%d}`, author.ID, book.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/bibliographies", fmt.Sprintf(`{"author_id":%d,"book_id":404}`, author.ID))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errBody struct {
		Error struct {
			Code  string `json:"code"`
			Field string `json:"field"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	assert.Equal(t, "reference_error", errBody.Error.Code)
	assert.Equal(t, "book_id", errBody.Error.Field)

	rec = do(http.MethodGet, fmt.Sprintf("/bibliographies?book_id=%d", book.ID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list struct {
		Bibliographies []struct {
			ID     int64 `json:"id"`
			Author struct {
				Surname string `json:"surname"`
			} `json:"author"`
		} `json:"bibliographies"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Bibliographies, 1)
	assert.Equal(t, "Herbert", list.Bibliographies[0].Author.Surname)

	path := fmt.Sprintf("/bibliographies/%d", list.Bibliographies[0].ID)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, path, "").Code)
}
