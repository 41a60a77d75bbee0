package handler

import (
	"net/http"
	"testing"
)

func TestValidator_UsesJSONNames(t *testing.T) {
	err := NewValidator().Validate(&createCheckInRequest{})

	if code := httpCode(t, err); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	want := "latitude is required; longitude is required"
	if got := err.Error(); got != "code=400, message="+want {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestValidator_Passes(t *testing.T) {
	lat, lon := -27.2, -49.6
	if err := NewValidator().Validate(&createCheckInRequest{Latitude: &lat, Longitude: &lon}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
