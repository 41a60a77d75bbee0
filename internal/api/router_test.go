package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gymcheck/checkin-api/internal/api/handler"
	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
	"github.com/gymcheck/checkin-api/internal/infrastructure/auth"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "taken@example.com" {
		return nil, domain.ErrUserAlreadyExists
	}
	return &domain.User{ID: "u-new", Name: in.Name, Email: in.Email, Role: domain.RoleMember}, nil
}

func (stubAuth) Authenticate(_ context.Context, email, password string) (*domain.User, error) {
	if email == "john@example.com" && password == "123456" {
		return &domain.User{ID: "u1", Email: email, Role: domain.RoleMember}, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (stubAuth) Profile(_ context.Context, userID string) (*domain.User, error) {
	return &domain.User{ID: userID, Role: domain.RoleMember}, nil
}

type stubGyms struct{}

func (stubGyms) Create(_ context.Context, in ports.CreateGymInput) (*domain.Gym, error) {
	return &domain.Gym{ID: "g-new", Title: in.Title, Latitude: in.Latitude, Longitude: in.Longitude}, nil
}

func (stubGyms) SearchByTitle(context.Context, string, int) ([]*domain.Gym, error) {
	return []*domain.Gym{}, nil
}

func (stubGyms) FindNearby(context.Context, float64, float64) ([]ports.NearbyGym, error) {
	return []ports.NearbyGym{}, nil
}

// stubCheckIns maps gym / check-in ids to outcomes.
type stubCheckIns struct{}

func (stubCheckIns) Create(_ context.Context, in ports.CreateCheckInInput) (*domain.CheckIn, error) {
	switch in.GymID {
	case "far":
		return nil, domain.ErrMaxDistanceExceeded
	case "again":
		return nil, domain.ErrDuplicateCheckIn
	case "missing":
		return nil, domain.ErrGymNotFound
	case "broken":
		return nil, errors.New("mongo: connection reset by peer")
	}
	return &domain.CheckIn{ID: "c-new", UserID: in.UserID, GymID: in.GymID, CreatedAt: time.Now().UTC()}, nil
}

func (stubCheckIns) Validate(_ context.Context, id string) (*domain.CheckIn, error) {
	switch id {
	case "late":
		return nil, domain.ErrValidationWindowExpired
	case "done":
		return nil, domain.ErrAlreadyValidated
	case "missing":
		return nil, domain.ErrCheckInNotFound
	}
	now := time.Now()
	return &domain.CheckIn{ID: id, ValidatedAt: &now}, nil
}

type stubMetrics struct{}

func (stubMetrics) CountCheckIns(context.Context, string) (int64, error) { return 3, nil }

func (stubMetrics) FetchHistory(context.Context, string, int) ([]*domain.CheckIn, error) {
	return []*domain.CheckIn{}, nil
}

type denyAllThrottle struct{}

func (denyAllThrottle) Allow(context.Context, string) (bool, error) { return false, nil }

func (denyAllThrottle) Reset(context.Context, string) error { return nil }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type testServer struct {
	e      *echo.Echo
	tokens *auth.TokenIssuer
}

func newTestServer(t *testing.T, throttle handler.LoginThrottle) *testServer {
	t.Helper()
	tokens := auth.NewTokenIssuer("secret", 10*time.Minute, time.Hour)
	e := NewRouter(Dependencies{
		Auth:     stubAuth{},
		Gyms:     stubGyms{},
		CheckIns: stubCheckIns{},
		Metrics:  stubMetrics{},
		Tokens:   tokens,
		Throttle: throttle,
		ReadinessChecks: map[string]handler.CheckFunc{
			"mongodb": func(context.Context) error { return nil },
		},
		Logger:   zerolog.Nop(),
		Registry: prometheus.NewRegistry(),
	})
	return &testServer{e: e, tokens: tokens}
}

func (s *testServer) token(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, err := s.tokens.IssueAccess("u1", role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_CheckInStatusMapping(t *testing.T) {
	s := newTestServer(t, nil)
	member := s.token(t, domain.RoleMember)
	body := `{"latitude":-27.2092052,"longitude":-49.6401091}`

	cases := []struct {
		gymID    string
		wantCode int
	}{
		{"g1", http.StatusCreated},
		{"far", http.StatusForbidden},
		{"again", http.StatusConflict},
		{"missing", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := s.do(http.MethodPost, "/gyms/"+tc.gymID+"/check-ins", body, member)
		if rec.Code != tc.wantCode {
			t.Errorf("gym %s: expected %d, got %d (%s)", tc.gymID, tc.wantCode, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_UnexpectedErrorIsOpaque(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/gyms/broken/check-ins", `{"latitude":0,"longitude":0}`, s.token(t, domain.RoleMember))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

func TestRouter_ValidateRequiresAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.token(t, domain.RoleAdmin)

	if rec := s.do(http.MethodPatch, "/check-ins/c1/validate", "", s.token(t, domain.RoleMember)); rec.Code != http.StatusForbidden {
		t.Fatalf("member: expected 403, got %d", rec.Code)
	}

	cases := map[string]int{
		"c1":      http.StatusNoContent,
		"late":    http.StatusForbidden,
		"done":    http.StatusConflict,
		"missing": http.StatusNotFound,
	}
	for id, want := range cases {
		if rec := s.do(http.MethodPatch, "/check-ins/"+id+"/validate", "", admin); rec.Code != want {
			t.Errorf("%s: expected %d, got %d", id, want, rec.Code)
		}
	}
}

func TestRouter_CreateGymRequiresAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	body := `{"title":"JavaScript Gym","latitude":-27.2092052,"longitude":-49.6401091}`

	if rec := s.do(http.MethodPost, "/gyms", body, s.token(t, domain.RoleMember)); rec.Code != http.StatusForbidden {
		t.Fatalf("member: expected 403, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/gyms", body, s.token(t, domain.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/me", "/gyms/search?q=a", "/gyms/nearby?latitude=0&longitude=0", "/check-ins/history", "/check-ins/metrics"} {
		if rec := s.do(http.MethodGet, path, "", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouter_MemberReads(t *testing.T) {
	s := newTestServer(t, nil)
	member := s.token(t, domain.RoleMember)

	for _, path := range []string{"/me", "/gyms/search?q=a", "/gyms/nearby?latitude=0&longitude=0", "/check-ins/history?page=2", "/check-ins/metrics"} {
		if rec := s.do(http.MethodGet, path, "", member); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d (%s)", path, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	s := newTestServer(t, nil)

	if rec := s.do(http.MethodPost, "/users", `{"name":"John","email":"john@example.com","password":"123456"}`, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", rec.Code)
	}
	if rec := s.do(http.MethodPost, "/users", `{"name":"John","email":"taken@example.com","password":"123456"}`, ""); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rec.Code)
	}

	wrong := s.do(http.MethodPost, "/sessions", `{"email":"john@example.com","password":"654321"}`, "")
	unknown := s.do(http.MethodPost, "/sessions", `{"email":"nobody@example.com","password":"123456"}`, "")
	if wrong.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("bad credentials: expected 400/400, got %d/%d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("unknown e-mail and wrong password must look identical: %s vs %s", wrong.Body.String(), unknown.Body.String())
	}

	login := s.do(http.MethodPost, "/sessions", `{"email":"john@example.com","password":"123456"}`, "")
	if login.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", login.Code)
	}
	cookies := login.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected refresh cookie, got %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodPatch, "/token/refresh", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", rec.Code)
	}
}

func TestRouter_LoginThrottled(t *testing.T) {
	s := newTestServer(t, denyAllThrottle{})

	rec := s.do(http.MethodPost, "/sessions", `{"email":"john@example.com","password":"123456"}`, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/swagger/doc.json"} {
		if rec := s.do(http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
