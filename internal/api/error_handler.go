package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/s2cr/repair-desk/internal/api/view"
	"github.com/s2cr/repair-desk/internal/core/domain"
)

const msgSystemError = "a system error occurred, please contact an administrator"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders every error as the HTML error page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(code)
		if rerr := view.ErrorPage(code, msg).Render(c.Response()); rerr != nil {
			log.Error().Err(rerr).Msg("failed to render error page")
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, CSRF, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, strings.Join(ve.Problems, "; ")
	case errors.Is(err, domain.ErrSystemConfiguration):
		log.Error().
			Err(err).
			Bool("alert", true).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("system configuration error")
		return http.StatusInternalServerError, msgSystemError
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrUnknownKind):
		return http.StatusBadRequest, "unknown account type"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, msgSystemError
}
