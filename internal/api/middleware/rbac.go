package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymcheck/checkin-api/internal/api/handler"
	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// RBAC lets the request through only when the authenticated role is allowed.
// It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(handler.ContextRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
