package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type authenticateRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Gyms ---

type createGymRequest struct {
	Title       string   `json:"title"       validate:"required"`
	Description *string  `json:"description"`
	Phone       *string  `json:"phone"`
	Latitude    *float64 `json:"latitude"    validate:"required,latitude"`
	Longitude   *float64 `json:"longitude"   validate:"required,longitude"`
}

// Query-string inputs are bound with echo.QueryParamsBinder; the json tags
// only name fields in validation messages.

type searchGymsQuery struct {
	Query string `json:"q"    validate:"required"`
	Page  int    `json:"page" validate:"min=1"`
}

type nearbyGymsQuery struct {
	Latitude  float64 `json:"latitude"  validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type gymResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Phone       *string   `json:"phone"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"created_at"`
}

type gymsResponse struct {
	Gyms []gymResponse `json:"gyms"`
}

type nearbyGymResponse struct {
	gymResponse
	DistanceKm float64 `json:"distance_km"`
}

type nearbyGymsResponse struct {
	Gyms []nearbyGymResponse `json:"gyms"`
}

// --- Check-ins ---

type createCheckInRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type historyQuery struct {
	Page int `json:"page" validate:"min=1"`
}

type checkInResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	GymID       string     `json:"gym_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ValidatedAt *time.Time `json:"validated_at"`
}

type checkInEnvelope struct {
	CheckIn checkInResponse `json:"check_in"`
}

type checkInsResponse struct {
	CheckIns []checkInResponse `json:"check_ins"`
}

type checkInMetricsResponse struct {
	CheckInsCount int64 `json:"check_ins_count"`
}
