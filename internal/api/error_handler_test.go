package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/Interbank/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive account", domain.ErrAccountInactive, http.StatusUnauthorized},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"unknown account", domain.ErrAccountNotFound, http.StatusNotFound},
		{"no trained model", domain.ErrModelNotFound, http.StatusNotFound},
		{"duplicate username", domain.ErrDuplicateUsername, http.StatusConflict},
		{"insufficient data", domain.ErrInsufficientData, http.StatusUnprocessableEntity},
		{"store outage", domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("driver exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := renderError(t, tt.err)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json envelope: %v", err)
			}
			if body.Error == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

// A store outage wrapped through the repository and service layers must still
// surface as 503, never as a not-found or internal failure.
func TestHTTPErrorHandler_WrappedUnavailable(t *testing.T) {
	err := fmt.Errorf("list metric points: %w: %w", domain.ErrUnavailable, fmt.Errorf("server selection timeout"))
	rec := renderError(t, fmt.Errorf("metrics read: %w", err))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	rec := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json envelope: %v", err)
	}
	if body.Error != "limit must be a positive integer" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}
