package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gymcheck/checkin-api/internal/core/domain"
	"github.com/gymcheck/checkin-api/internal/core/ports"
)

func TestGymHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubGymService{createFn: func(_ context.Context, in ports.CreateGymInput) (*domain.Gym, error) {
		if in.Title != "JavaScript Gym" || in.Latitude != -27.2092052 || in.Longitude != -49.6401091 {
			t.Fatalf("unexpected input: %+v", in)
		}
		if in.Description != nil || in.Phone == nil || *in.Phone != "1199999999" {
			t.Fatalf("optional fields not forwarded: %+v", in)
		}
		return &domain.Gym{ID: "g1", Title: in.Title, Phone: in.Phone, Latitude: in.Latitude, Longitude: in.Longitude}, nil
	}}

	c, rec := newRequest(e, http.MethodPost, "/gyms",
		`{"title":"JavaScript Gym","phone":"1199999999","latitude":-27.2092052,"longitude":-49.6401091}`)
	if err := NewGymHandler(svc).Create(authenticated(c, "admin", domain.RoleAdmin)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var gym gymResponse
	decode(t, rec, &gym)
	if gym.ID != "g1" || gym.Description != nil {
		t.Fatalf("unexpected gym: %+v", gym)
	}
}

func TestGymHandler_Create_InvalidCoordinates(t *testing.T) {
	e := newEcho()
	svc := &stubGymService{createFn: func(context.Context, ports.CreateGymInput) (*domain.Gym, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	for _, body := range []string{
		`{"title":"Gym","latitude":91,"longitude":0}`,
		`{"title":"Gym","latitude":0,"longitude":-181}`,
		`{"title":"Gym","longitude":0}`,
		`{"latitude":0,"longitude":0}`,
	} {
		c, _ := newRequest(e, http.MethodPost, "/gyms", body)
		if code := httpCode(t, NewGymHandler(svc).Create(c)); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, code)
		}
	}
}

func TestGymHandler_Create_ZeroCoordinatesAreValid(t *testing.T) {
	e := newEcho()
	svc := &stubGymService{createFn: func(_ context.Context, in ports.CreateGymInput) (*domain.Gym, error) {
		return &domain.Gym{ID: "g1", Title: in.Title}, nil
	}}

	c, rec := newRequest(e, http.MethodPost, "/gyms", `{"title":"Null Island Gym","latitude":0,"longitude":0}`)
	if err := NewGymHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestGymHandler_Search(t *testing.T) {
	e := newEcho()
	var gotQuery string
	var gotPage int
	svc := &stubGymService{searchFn: func(_ context.Context, query string, page int) ([]*domain.Gym, error) {
		gotQuery, gotPage = query, page
		return []*domain.Gym{{ID: "g1", Title: "JavaScript Gym", CreatedAt: time.Now()}}, nil
	}}

	c, rec := newRequest(e, http.MethodGet, "/gyms/search?q=Java&page=2", "")
	if err := NewGymHandler(svc).Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if gotQuery != "Java" || gotPage != 2 {
		t.Fatalf("unexpected args: %q %d", gotQuery, gotPage)
	}
	var body gymsResponse
	decode(t, rec, &body)
	if len(body.Gyms) != 1 || body.Gyms[0].ID != "g1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGymHandler_Search_DefaultPageAndEmptyResult(t *testing.T) {
	e := newEcho()
	svc := &stubGymService{searchFn: func(_ context.Context, _ string, page int) ([]*domain.Gym, error) {
		if page != 1 {
			t.Fatalf("expected default page 1, got %d", page)
		}
		return []*domain.Gym{}, nil
	}}

	c, rec := newRequest(e, http.MethodGet, "/gyms/search?q=Python", "")
	if err := NewGymHandler(svc).Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "{\"gyms\":[]}\n" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestGymHandler_Search_BadQuery(t *testing.T) {
	e := newEcho()
	h := NewGymHandler(&stubGymService{})

	for _, target := range []string{"/gyms/search", "/gyms/search?q=a&page=x", "/gyms/search?q=a&page=0"} {
		c, _ := newRequest(e, http.MethodGet, target, "")
		if code := httpCode(t, h.Search(c)); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, code)
		}
	}
}

func TestGymHandler_Nearby(t *testing.T) {
	e := newEcho()
	svc := &stubGymService{nearbyFn: func(_ context.Context, lat, lon float64) ([]ports.NearbyGym, error) {
		if lat != -27.2092052 || lon != -49.6401091 {
			t.Fatalf("unexpected position: %f %f", lat, lon)
		}
		return []ports.NearbyGym{{Gym: &domain.Gym{ID: "g1", Title: "Near Gym"}, DistanceKm: 0.3}}, nil
	}}

	c, rec := newRequest(e, http.MethodGet, "/gyms/nearby?latitude=-27.2092052&longitude=-49.6401091", "")
	if err := NewGymHandler(svc).Nearby(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var body nearbyGymsResponse
	decode(t, rec, &body)
	if len(body.Gyms) != 1 || body.Gyms[0].ID != "g1" || body.Gyms[0].DistanceKm != 0.3 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGymHandler_Nearby_BadPosition(t *testing.T) {
	e := newEcho()
	h := NewGymHandler(&stubGymService{})

	for _, target := range []string{
		"/gyms/nearby",
		"/gyms/nearby?latitude=10",
		"/gyms/nearby?latitude=abc&longitude=10",
		"/gyms/nearby?latitude=95&longitude=10",
	} {
		c, _ := newRequest(e, http.MethodGet, target, "")
		if code := httpCode(t, h.Nearby(c)); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, code)
		}
	}
}

func TestGymHandler_Nearby_ServiceError(t *testing.T) {
	e := newEcho()
	boom := errors.New("boom")
	svc := &stubGymService{nearbyFn: func(context.Context, float64, float64) ([]ports.NearbyGym, error) {
		return nil, boom
	}}

	c, _ := newRequest(e, http.MethodGet, "/gyms/nearby?latitude=0&longitude=0", "")
	if err := NewGymHandler(svc).Nearby(c); !errors.Is(err, boom) {
		t.Fatalf("expected service error to propagate, got %v", err)
	}
}
