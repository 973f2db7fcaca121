package errcodes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
		Field      string `json:"field"`
	} `json:"error"`
}

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHandler().Handle(err, c)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandle_FieldValidationError(t *testing.T) {
	rec, body := handle(t, errors.WithStack(FieldValidationError("publication_year", `"publication_year" must not be later than the current year`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "publication_year", body.Error.Field)
	assert.Equal(t, http.StatusUnprocessableEntity, body.Error.StatusCode)
}

func TestHandle_ReferenceError(t *testing.T) {
	rec, body := handle(t, ReferenceError("Book", "book_id", 99))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "reference_error", body.Error.Code)
	assert.Equal(t, "book_id", body.Error.Field)
	assert.Equal(t, `Book 99 referenced by "book_id" does not exist.`, body.Error.Message)
}

func TestHandle_NotFoundHasNoField(t *testing.T) {
	rec, body := handle(t, NotFound("Reader"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Empty(t, body.Error.Field)
	assert.NotContains(t, rec.Body.String(), `"field"`)
}

func TestHandle_UnknownErrorIsInternal(t *testing.T) {
	rec, body := handle(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_server_error", body.Error.Code)
	assert.Equal(t, "Internal Server Error", body.Error.Message)
}

func TestHandle_EchoHTTPError(t *testing.T) {
	rec, body := handle(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", body.Error.Code)
}

func TestIsReferenceError(t *testing.T) {
	assert.True(t, IsReferenceError(errors.WithStack(ReferenceError("Author", "author_ids", 3))))
	assert.False(t, IsReferenceError(FieldValidationError("name", "bad")))
	assert.False(t, IsReferenceError(errors.New("plain")))
	assert.True(t, errors.Is(NotFound("Book"), NotFound("Book")))
}
