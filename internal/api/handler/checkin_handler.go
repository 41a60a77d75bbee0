package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymcheck/checkin-api/internal/api/metrics"
	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

type CheckInHandler struct {
	checkIns ports.CheckInService
	metrics  ports.MetricsService
}

func NewCheckInHandler(checkIns ports.CheckInService, metrics ports.MetricsService) *CheckInHandler {
	return &CheckInHandler{checkIns: checkIns, metrics: metrics}
}

// Create checks the authenticated user in at a gym.
//
// @Summary      Check in at a gym
// @Tags         check-ins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymId  path      string                true  "Gym id"
// @Param        body   body      createCheckInRequest  true  "Current position"
// @Success      201    {object}  checkInEnvelope
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse  "too far from the gym"
// @Failure      404    {object}  errorResponse
// @Failure      409    {object}  errorResponse  "already checked in today"
// @Router       /gyms/{gymId}/check-ins [post]
func (h *CheckInHandler) Create(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createCheckInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	checkIn, err := h.checkIns.Create(c.Request().Context(), ports.CreateCheckInInput{
		UserID:        userID,
		GymID:         c.Param("gymId"),
		UserLatitude:  *req.Latitude,
		UserLongitude: *req.Longitude,
	})
	if err != nil {
		metrics.CheckInsRejectedTotal.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}

	metrics.CheckInsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, checkInEnvelope{CheckIn: toCheckInResponse(checkIn)})
}

// Validate confirms a check-in. Mounted behind RBAC(ADMIN).
//
// @Summary      Validate a check-in
// @Tags         check-ins
// @Security     BearerAuth
// @Param        checkInId  path  string  true  "Check-in id"
// @Success      204
// @Failure      403  {object}  errorResponse  "validation window expired"
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse  "already validated"
// @Router       /check-ins/{checkInId}/validate [patch]
func (h *CheckInHandler) Validate(c echo.Context) error {
	_, err := h.checkIns.Validate(c.Request().Context(), c.Param("checkInId"))
	metrics.CheckInValidationsTotal.WithLabelValues(validationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// History lists the authenticated user's check-ins, most recent first.
//
// @Summary      Check-in history
// @Tags         check-ins
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page (20 per page)"  default(1)
// @Success      200   {object}  checkInsResponse
// @Router       /check-ins/history [get]
func (h *CheckInHandler) History(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	q := historyQuery{Page: 1}
	if err := echo.QueryParamsBinder(c).Int("page", &q.Page).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page must be a number")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	history, err := h.metrics.FetchHistory(c.Request().Context(), userID, q.Page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCheckInsResponse(history))
}

// Metrics returns how many times the authenticated user has checked in.
//
// @Summary      Check-in count
// @Tags         check-ins
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  checkInMetricsResponse
// @Router       /check-ins/metrics [get]
func (h *CheckInHandler) Metrics(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	n, err := h.metrics.CountCheckIns(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkInMetricsResponse{CheckInsCount: n})
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMaxDistanceExceeded):
		return "max_distance"
	case errors.Is(err, domain.ErrDuplicateCheckIn):
		return "duplicate"
	case errors.Is(err, domain.ErrResourceNotFound):
		return "gym_not_found"
	default:
		return "error"
	}
}

func validationResult(err error) string {
	switch {
	case err == nil:
		return "validated"
	case errors.Is(err, domain.ErrValidationWindowExpired):
		return "expired"
	case errors.Is(err, domain.ErrAlreadyValidated):
		return "already_validated"
	case errors.Is(err, domain.ErrResourceNotFound):
		return "not_found"
	default:
		return "error"
	}
}
