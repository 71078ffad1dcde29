package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelpg/internal/app/models"
	"github.com/yigit/hostelpg/internal/app/models/dto"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "student123" {
			detail := dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid student ID or password")
			writeJSON(w, http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}
		writeJSON(w, http.StatusOK, dto.NewSuccessResponse(dto.AuthResponse{
			User:  &models.Student{ID: 1, StudentID: req.StudentID, Name: "Demo Student"},
			Token: "signed-token",
		}, "Login successful"))
	})

	mux.HandleFunc("/api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer signed-token" {
			detail := dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Access token required")
			writeJSON(w, http.StatusUnauthorized, dto.NewErrorResponse(detail))
			return
		}
		writeJSON(w, http.StatusOK, dto.NewSuccessResponse(models.Student{ID: 1, StudentID: "2024001"}, ""))
	})

	mux.HandleFunc("/api/pgs", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		pgs := []models.PG{{ID: 1, Name: "Sunshine PG", Area: q.Get("area"), GenderPreference: q.Get("gender")}}
		if q.Get("available_spots") != "true" || q.Get("max_price") != "3500" {
			pgs = nil
		}
		writeJSON(w, http.StatusOK, dto.NewListResponse(pgs, len(pgs)))
	})

	mux.HandleFunc("/api/pgs/book", func(w http.ResponseWriter, r *http.Request) {
		detail := dto.NewErrorDetail(dto.ErrorCodeNoAvailability, "No spots available in this PG")
		writeJSON(w, http.StatusBadRequest, dto.NewErrorResponse(detail))
	})

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "ERROR", Database: "disconnected"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LoginKeepsToken(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL + "/api")
	ctx := context.Background()

	_, err := c.Profile(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "AUTH_007", apiErr.Code)

	resp, err := c.Login(ctx, "2024001", "student123")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "signed-token", c.Token())

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024001", profile.StudentID)
}

func TestClient_LoginFailure(t *testing.T) {
	c := New(newServer(t).URL + "/api")

	_, err := c.Login(context.Background(), "2024001", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "AUTH_001", apiErr.Code)
	assert.Equal(t, "Invalid student ID or password", apiErr.Message)
	assert.Empty(t, c.Token())
}

func TestClient_PGsSendsFilters(t *testing.T) {
	c := New(newServer(t).URL + "/api")

	pgs, err := c.PGs(context.Background(), ListingFilter{Area: "Phase 1", Gender: "Female", MaxPrice: 3500, AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, pgs, 1)
	assert.Equal(t, "Phase 1", pgs[0].Area)
	assert.Equal(t, "Female", pgs[0].GenderPreference)
}

func TestClient_BookPGNoAvailability(t *testing.T) {
	c := New(newServer(t).URL + "/api")

	_, err := c.BookPG(context.Background(), dto.BookingRequest{PropertyID: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "BKG_001", apiErr.Code)
}

func TestClient_HealthUnavailable(t *testing.T) {
	c := New(newServer(t).URL + "/api")

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ERROR", health.Status)
	assert.Equal(t, "disconnected", health.Database)
}
