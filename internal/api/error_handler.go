package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/api/handler"
	"github.com/storefront/gateway/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Collapses anything unrecognised to a 500 that carries the underlying
//     message, and logs it.
//   - Renders {"success": false, "error": "<short>", "message": "<detail>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, failure("Bad Request", ve.Error())
	}

	switch {
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, failure(err.Error(), "")
	case errors.Is(err, domain.ErrNoFile):
		return http.StatusBadRequest, failure(err.Error(), "")
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, failure("Unauthorized", "missing bearer token")
	case errors.Is(err, domain.ErrInvalidSession):
		return http.StatusUnauthorized, failure("Unauthorized", "invalid or expired session")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, failure(err.Error(), "")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, failure("Forbidden", "insufficient role")
	case errors.Is(err, domain.ErrBlobNotFound):
		return http.StatusNotFound, failure("Not Found", err.Error())
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, failure(err.Error(), "")
	}

	// Echo's own errors: unmatched routes (404, and 405 which is reported
	// as 404 too) and body limits.
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			return http.StatusNotFound, failure("Not Found", "route not found")
		}
		return he.Code, failure(http.StatusText(he.Code), fmt.Sprintf("%v", he.Message))
	}

	// Store faults and anything unanticipated.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("unhandled error")

	return http.StatusInternalServerError, failure("Internal Server Error", err.Error())
}

func failure(short, detail string) handler.ErrorResponse {
	return handler.ErrorResponse{Success: false, Error: short, Message: detail}
}
