package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sadhana-school/portal/internal/core/domain"
)

// PrincipalKey holds the signed-in *domain.Principal of the request.
const PrincipalKey = "principal"

// RequireRole admits only signed-in principals holding one of the roles.
// With no roles any signed-in principal is admitted.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := c.Get(PrincipalKey).(*domain.Principal)
			if p == nil {
				return domain.ErrNotAuthenticated
			}
			if len(roles) > 0 && !p.HasRole(roles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
