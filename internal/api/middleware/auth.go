package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

const principalKey = "principal"

// Authenticate resolves the bearer token into a principal and injects it into
// the context. It never rejects a request itself: a missing or dead token
// yields an Anonymous principal and Require decides what that means for the
// route. Store faults are returned as errors.
func Authenticate(resolver ports.PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, presented := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !presented {
				c.Set(principalKey, domain.Principal(domain.Anonymous{}))
				return next(c)
			}
			if token == "" {
				c.Set(principalKey, domain.Principal(domain.Anonymous{TokenPresented: true}))
				return next(c)
			}

			p, err := resolver.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// Principal returns the principal injected by Authenticate, or an Anonymous
// principal when the middleware did not run.
func Principal(c echo.Context) domain.Principal {
	if p, ok := c.Get(principalKey).(domain.Principal); ok {
		return p
	}
	return domain.Anonymous{}
}

// bearerToken parses an Authorization header. presented is false only when
// the header is absent; a malformed header counts as a presented but
// unusable token.
func bearerToken(header string) (token string, presented bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}
