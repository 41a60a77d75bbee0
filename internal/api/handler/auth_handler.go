package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gymcheck/checkin-api/internal/api/metrics"
	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
	"github.com/gymcheck/checkin-api/internal/infrastructure/auth"
)

const refreshCookie = "refreshToken"

// TokenIssuer mints and verifies session tokens.
type TokenIssuer interface {
	IssueAccess(userID string, role domain.Role) (string, error)
	IssueRefresh(userID string, role domain.Role) (string, error)
	Parse(token string, want auth.TokenType) (*auth.Claims, error)
	RefreshTTL() time.Duration
}

// LoginThrottle limits authentication attempts per e-mail.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

type AuthHandler struct {
	authService ports.AuthService
	tokens      TokenIssuer
	throttle    LoginThrottle
	log         zerolog.Logger
}

// NewAuthHandler wires the auth endpoints. throttle may be nil.
func NewAuthHandler(authService ports.AuthService, tokens TokenIssuer, throttle LoginThrottle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, throttle: throttle, log: log}
}

// Register creates a member account.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Authenticate exchanges credentials for an access token and sets the
// refresh token cookie.
//
// @Summary      Authenticate
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authenticateRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /sessions [post]
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req authenticateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if h.throttle != nil {
		allowed, err := h.throttle.Allow(ctx, req.Email)
		if err != nil {
			h.log.Warn().Err(err).Msg("login throttle unavailable")
		}
		if !allowed {
			metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
		}
	}

	user, err := h.authService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	if h.throttle != nil {
		if err := h.throttle.Reset(ctx, req.Email); err != nil {
			h.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return h.respondWithTokens(c, user.ID, user.Role)
}

// Refresh rotates the session using the refresh token cookie.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /token/refresh [patch]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	claims, err := h.tokens.Parse(cookie.Value, auth.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	return h.respondWithTokens(c, claims.Subject, claims.Role)
}

// Profile returns the authenticated user.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /me [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) respondWithTokens(c echo.Context, userID string, role domain.Role) error {
	access, err := h.tokens.IssueAccess(userID, role)
	if err != nil {
		return err
	}
	refresh, err := h.tokens.IssueRefresh(userID, role)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    refresh,
		Path:     "/",
		MaxAge:   int(h.tokens.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, tokenResponse{Token: access})
}
