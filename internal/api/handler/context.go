package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymcheck/checkin-api/internal/core/domain"
)

// Context keys written by middleware.Auth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// currentUser extracts the identity injected by the Auth middleware. A
// missing user id means the route was mounted without authentication.
func currentUser(c echo.Context) (string, domain.Role, error) {
	userID, _ := c.Get(ContextUserID).(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get(ContextRole).(domain.Role)
	return userID, role, nil
}
