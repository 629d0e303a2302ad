package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/storefront/gateway/internal/api/metrics"
	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/service"
)

// Require enforces a route requirement against the principal injected by
// Authenticate. Denials are returned as domain errors for the HTTP error
// handler to render.
func Require(req service.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := service.Authorize(Principal(c), req); err != nil {
				metrics.AuthorizationDenialsTotal.WithLabelValues(denialReason(err)).Inc()
				return err
			}
			return next(c)
		}
	}
}

func denialReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidSession):
		return "invalid_session"
	default:
		return "unauthorized"
	}
}
