package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gymcheck/checkin-api/internal/api/metrics"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

type GymHandler struct {
	service ports.GymService
}

func NewGymHandler(service ports.GymService) *GymHandler {
	return &GymHandler{service: service}
}

// Create registers a gym. Mounted behind RBAC(ADMIN).
//
// @Summary      Register a gym
// @Tags         gyms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createGymRequest  true  "Gym details"
// @Success      201   {object}  gymResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /gyms [post]
func (h *GymHandler) Create(c echo.Context) error {
	var req createGymRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	gym, err := h.service.Create(c.Request().Context(), ports.CreateGymInput{
		Title:       req.Title,
		Description: req.Description,
		Phone:       req.Phone,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
	})
	if err != nil {
		return err
	}

	metrics.GymsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toGymResponse(gym))
}

// Search lists gyms whose title contains q.
//
// @Summary      Search gyms by title
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  true   "Title fragment"
// @Param        page  query     int     false  "Page (20 per page)"  default(1)
// @Success      200   {object}  gymsResponse
// @Failure      400   {object}  errorResponse
// @Router       /gyms/search [get]
func (h *GymHandler) Search(c echo.Context) error {
	q := searchGymsQuery{Page: 1}
	if err := echo.QueryParamsBinder(c).
		String("q", &q.Query).
		Int("page", &q.Page).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	gyms, err := h.service.SearchByTitle(c.Request().Context(), q.Query, q.Page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGymsResponse(gyms))
}

// Nearby lists gyms within 10 km, closest first.
//
// @Summary      Gyms near a position
// @Tags         gyms
// @Produce      json
// @Security     BearerAuth
// @Param        latitude   query     number  true  "Latitude"
// @Param        longitude  query     number  true  "Longitude"
// @Success      200        {object}  nearbyGymsResponse
// @Failure      400        {object}  errorResponse
// @Router       /gyms/nearby [get]
func (h *GymHandler) Nearby(c echo.Context) error {
	var q nearbyGymsQuery
	if err := echo.QueryParamsBinder(c).
		MustFloat64("latitude", &q.Latitude).
		MustFloat64("longitude", &q.Longitude).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "latitude and longitude are required numbers")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	nearby, err := h.service.FindNearby(c.Request().Context(), q.Latitude, q.Longitude)
	if err != nil {
		return err
	}

	metrics.NearbyGymsFound.Observe(float64(len(nearby)))
	return c.JSON(http.StatusOK, toNearbyGymsResponse(nearby))
}
