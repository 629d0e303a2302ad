package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/gateway/internal/api/middleware"
	"github.com/storefront/gateway/internal/core/domain"
)

// frontPrincipal returns the storefront caller. Routes using it sit behind
// Require(AnyFrontUser); the check here only guards against a missing
// middleware.
func frontPrincipal(c echo.Context) (domain.FrontPrincipal, error) {
	p, ok := middleware.Principal(c).(domain.FrontPrincipal)
	if !ok {
		return domain.FrontPrincipal{}, domain.ErrUnauthorized
	}
	return p, nil
}

// adminPrincipal returns the back-office caller, with the role read for this
// request.
func adminPrincipal(c echo.Context) (domain.AdminPrincipal, error) {
	p, ok := middleware.Principal(c).(domain.AdminPrincipal)
	if !ok {
		return domain.AdminPrincipal{}, domain.ErrUnauthorized
	}
	return p, nil
}
