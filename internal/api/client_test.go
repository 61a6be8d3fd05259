package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venuehub/internal/pricing"
)

func TestAvailableSlots(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/time-slots/available/42", r.URL.Path)
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(AvailableSlotsResponse{
			SpaceID:        42,
			AvailableSlots: []string{"9:00 AM", "10:00 AM"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local)

	slots, err := c.AvailableSlots(context.Background(), 42, date, 3, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "10:00 AM"}, slots)
	assert.Contains(t, gotQuery, "selected_date=2026-09-12")
	assert.Contains(t, gotQuery, "duration_hours=3")
	assert.Contains(t, gotQuery, "debug=true")
	assert.NotContains(t, gotQuery, "exclude_booking_id")
}

func TestAvailableSlots_ClampsDurationAndExcludes(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(AvailableSlotsResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.Local)

	_, err := c.AvailableSlots(context.Background(), 42, date, 20, "ref-123")
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "duration_hours=12", "duration must be clamped to the API range")
	assert.Contains(t, gotQuery, "exclude_booking_id=ref-123")
}

func TestValidateSlot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/time-slots/validate", r.URL.Path)

		var req ValidateSlotRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(42), req.SpaceID)
		assert.NotEmpty(t, req.StartDatetime)

		json.NewEncoder(w).Encode(ValidateSlotResponse{IsAvailable: false, Message: "slot taken"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	start := time.Date(2026, 9, 12, 23, 0, 0, 0, time.Local)

	resp, err := c.ValidateSlot(context.Background(), 42, start, start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, resp.IsAvailable)
	assert.Equal(t, "slot taken", resp.Message)
}

func TestListVenues_NormalisesOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"venues":[{"id":1,"name":"Riverside Hall","spaces":[
			{"id":10,"venue_id":1,"name":"Main Hall","hourly_rate":500,
			 "pricing_overrides":{"2h":900,"8":3200}}
		]}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	venues, err := c.ListVenues(context.Background())
	require.NoError(t, err)
	require.Len(t, venues, 1)

	space := venues[0].Spaces[0]
	assert.Equal(t, pricing.Overrides{2: 900, 8: 3200}, space.Overrides)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status   int
		expected error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnprocessableEntity, ErrBadRequest},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c := NewClient(srv.URL, "", 5*time.Second)

		_, err := c.ListVenues(context.Background())
		assert.True(t, errors.Is(err, tt.expected), "status %d: got %v", tt.status, err)
		srv.Close()
	}
}

func TestAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		w.Write([]byte(`{"bookings":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	_, err := c.UserBookings(context.Background(), "client-1")
	assert.NoError(t, err)
}

func TestCreateBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bookings", r.URL.Path)
		var req CreateBookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "11:00 PM", req.StartTime)
		json.NewEncoder(w).Encode(CreateBookingResponse{Success: true, BookingID: 77, Status: "pending"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	resp, err := c.CreateBooking(context.Background(), CreateBookingRequest{
		SpaceID:       42,
		Date:          "2026-09-12",
		StartTime:     "11:00 PM",
		DurationHours: 3,
		ClientName:    "A. Client",
		ExternalRef:   "ref-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(77), resp.BookingID)
}
