package books

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/testutils/testdb"
	"github.com/libraryhub/libraryhub/pkg/testutils/testecho"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type errorBody struct {
	Error struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

type bookBody struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	PublicationYear int    `json:"publication_year"`
	PageNumber      int    `json:"page_number"`
	Authors         []struct {
		AuthorID int64 `json:"author_id"`
	} `json:"authors"`
}

func setupTestServer(t *testing.T) (*echo.Echo, *bun.DB) {
	t.Helper()
	db := testdb.New(t)
	v := validation.New(validation.Options{Now: func() time.Time { return testNow }})
	e := testecho.New(t, v)
	RegisterRoutesWithGroup(e.Group("/books"), db, v)
	return e, db
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_Create(t *testing.T) {
	e, db := setupTestServer(t)
	herbert := insertAuthor(t, db, "Frank", "Herbert")

	body := `{"name":"Dune","publication_year":1965,"page_number":412,"author_ids":[` + jsonInt(herbert.ID) + `]}`
	rec := doRequest(e, http.MethodPost, "/books", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got bookBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Dune", got.Name)
	require.Len(t, got.Authors, 1)
	assert.Equal(t, herbert.ID, got.Authors[0].AuthorID)
}

func TestHandlers_CreateErrors(t *testing.T) {
	e, _ := setupTestServer(t)

	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"future year", `{"name":"X","publication_year":2999,"page_number":5}`, "validation_error", "publication_year"},
		{"missing pages", `{"name":"X","publication_year":2000}`, "validation_error", "page_number"},
		{"unknown author", `{"name":"X","publication_year":2000,"page_number":5,"author_ids":[12]}`, "reference_error", "author_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/books", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.field, body.Error.Field)
		})
	}
}

func TestHandlers_UpdateAuthorsAndDelete(t *testing.T) {
	e, db := setupTestServer(t)
	herbert := insertAuthor(t, db, "Frank", "Herbert")

	rec := doRequest(e, http.MethodPost, "/books", `{"name":"Dune","publication_year":1965,"page_number":412}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPatch, "/books/1", `{"page_number":500,"author_ids":[`+jsonInt(herbert.ID)+`]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got bookBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 500, got.PageNumber)
	assert.Len(t, got.Authors, 1)

	// Omitting author_ids leaves the set alone.
	rec = doRequest(e, http.MethodPatch, "/books/1", `{"name":"Dune (1965)"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = bookBody{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Dune (1965)", got.Name)
	assert.Len(t, got.Authors, 1)

	rec = doRequest(e, http.MethodGet, "/books?author_id="+jsonInt(herbert.ID), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list struct {
		Books []bookBody `json:"books"`
		Total int        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	rec = doRequest(e, http.MethodGet, "/books/1/issuances", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var issuances []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issuances))
	assert.Empty(t, issuances)

	rec = doRequest(e, http.MethodDelete, "/books/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodGet, "/books/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
