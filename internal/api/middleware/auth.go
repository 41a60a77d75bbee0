package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gymcheck/checkin-api/internal/api/handler"
	"github.com/gymcheck/checkin-api/internal/infrastructure/auth"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string, want auth.TokenType) (*auth.Claims, error)
}

// Auth validates the access token and injects the user id and role into the
// request context.
func Auth(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Parse(parts[1], auth.AccessToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(handler.ContextUserID, claims.Subject)
			c.Set(handler.ContextRole, claims.Role)

			return next(c)
		}
	}
}
