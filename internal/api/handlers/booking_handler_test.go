package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "gymclass/internal/domain/schedule"
	serviceInterfaces "gymclass/internal/interfaces/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScheduling returns canned results so the handler mapping can be
// exercised without the storage stack.
type stubScheduling struct {
	serviceInterfaces.SchedulingService

	bookOutcome *serviceInterfaces.BookOutcome
	bookErr     error
	cancelErr   error
}

func (s *stubScheduling) Book(ctx context.Context, sessionID uuid.UUID, req *serviceInterfaces.BookRequest) (*serviceInterfaces.BookOutcome, error) {
	return s.bookOutcome, s.bookErr
}

func (s *stubScheduling) Cancel(ctx context.Context, bookingID uuid.UUID, reason string) error {
	return s.cancelErr
}

func setupBookingRouter(stub *stubScheduling) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBookingHandler(stub)
	r.POST("/classes/:session_id/bookings", h.Book)
	r.DELETE("/classes/:session_id/bookings/:booking_id", h.Cancel)
	return r
}

func postBooking(t *testing.T, r *gin.Engine, sessionID string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/classes/"+sessionID+"/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBook_ReturnsCreatedOutcome(t *testing.T) {
	bookingID := uuid.New()
	stub := &stubScheduling{bookOutcome: &serviceInterfaces.BookOutcome{
		Status:    serviceInterfaces.OutcomeConfirmed,
		BookingID: &bookingID,
	}}
	r := setupBookingRouter(stub)

	w := postBooking(t, r, uuid.New().String(), map[string]interface{}{"member_id": uuid.New().String()})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestBook_InvalidSessionID(t *testing.T) {
	r := setupBookingRouter(&stubScheduling{})

	w := postBooking(t, r, "not-a-uuid", map[string]interface{}{"member_id": uuid.New().String()})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBook_MissingMemberIDFailsValidation(t *testing.T) {
	r := setupBookingRouter(&stubScheduling{})

	w := postBooking(t, r, uuid.New().String(), map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBook_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrDuplicateBooking, http.StatusConflict},
		{domain.ErrBookingContention, http.StatusConflict},
		{domain.ErrSessionInactive, http.StatusUnprocessableEntity},
		{domain.ErrSessionStarted, http.StatusUnprocessableEntity},
		{domain.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrDuplicateBooking), http.StatusConflict},
	}

	for _, tt := range tests {
		r := setupBookingRouter(&stubScheduling{bookErr: tt.err})
		w := postBooking(t, r, uuid.New().String(), map[string]interface{}{"member_id": uuid.New().String()})
		assert.Equalf(t, tt.code, w.Code, "error %v", tt.err)
	}
}

func TestCancel_MapsNotFound(t *testing.T) {
	r := setupBookingRouter(&stubScheduling{cancelErr: domain.ErrBookingNotFound})

	req := httptest.NewRequest(http.MethodDelete,
		"/classes/"+uuid.New().String()+"/bookings/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
