package testecho

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/libraryhub/libraryhub/pkg/binder"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/stretchr/testify/require"
)

// New returns an echo instance configured with the request binder and
// error handler the server uses, for driving handlers directly in tests.
func New(t testing.TB, v *validation.Validator) *echo.Echo {
	t.Helper()

	b, err := binder.New(v)
	require.NoError(t, err)

	e := echo.New()
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	return e
}
