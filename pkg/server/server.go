package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/libraryhub/libraryhub/pkg/authors"
	"github.com/libraryhub/libraryhub/pkg/bibliographies"
	"github.com/libraryhub/libraryhub/pkg/binder"
	"github.com/libraryhub/libraryhub/pkg/books"
	"github.com/libraryhub/libraryhub/pkg/config"
	"github.com/libraryhub/libraryhub/pkg/errcodes"
	"github.com/libraryhub/libraryhub/pkg/issuances"
	"github.com/libraryhub/libraryhub/pkg/readers"
	"github.com/libraryhub/libraryhub/pkg/testutils"
	"github.com/libraryhub/libraryhub/pkg/validation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

const environmentTest = "test"

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	v := validation.New(validation.Options{
		PhoneDefaultRegion: cfg.PhoneDefaultRegion,
	})

	b, err := binder.New(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authors.RegisterRoutesWithGroup(e.Group("/authors"), db, v)
	books.RegisterRoutesWithGroup(e.Group("/books"), db, v)
	readers.RegisterRoutesWithGroup(e.Group("/readers"), db, v)
	issuances.RegisterRoutesWithGroup(e.Group("/issuances"), db, v)
	bibliographies.RegisterRoutesWithGroup(e.Group("/bibliographies"), db, v)

	// Test-only routes for resetting data between end-to-end runs.
	if cfg.Environment == environmentTest {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
