package update_booking_status

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FunnelService/internal/api/middleware"
	"github.com/m04kA/SMC-FunnelService/internal/service/bookings"
	"github.com/m04kA/SMC-FunnelService/internal/service/bookings/models"
)

type stubService struct {
	resp       *models.BookingResponse
	err        error
	gotID      int64
	gotStatus  string
	callsCount int
}

func (s *stubService) UpdateStatus(_ context.Context, id int64, status string) (*models.BookingResponse, error) {
	s.gotID = id
	s.gotStatus = status
	s.callsCount++
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, svc BookingService, path string, body interface{}, withAuth bool) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(payload))
	if withAuth {
		req.Header.Set("X-User-ID", "42")
	}
	rec := httptest.NewRecorder()

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/bookings/{bookingId}/status", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPatch)
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_StatusUpdated(t *testing.T) {
	svc := &stubService{resp: &models.BookingResponse{ID: 10, Status: "completed"}}

	rec := doRequest(t, svc, "/api/v1/bookings/10/status",
		models.UpdateStatusRequest{Status: "completed"}, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), svc.gotID)
	assert.Equal(t, "completed", svc.gotStatus)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
}

func TestHandle_MissingUserID(t *testing.T) {
	svc := &stubService{}

	rec := doRequest(t, svc, "/api/v1/bookings/10/status",
		models.UpdateStatusRequest{Status: "completed"}, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.callsCount)
}

func TestHandle_InvalidBookingID(t *testing.T) {
	svc := &stubService{}

	rec := doRequest(t, svc, "/api/v1/bookings/abc/status",
		models.UpdateStatusRequest{Status: "completed"}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.callsCount)
}

func TestHandle_InvalidStatus(t *testing.T) {
	svc := &stubService{err: bookings.ErrInvalidStatus}

	rec := doRequest(t, svc, "/api/v1/bookings/10/status",
		models.UpdateStatusRequest{Status: "frozen"}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_NotFound(t *testing.T) {
	svc := &stubService{err: bookings.ErrBookingNotFound}

	rec := doRequest(t, svc, "/api/v1/bookings/999/status",
		models.UpdateStatusRequest{Status: "completed"}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandle_InternalError(t *testing.T) {
	svc := &stubService{err: bookings.ErrInternal}

	rec := doRequest(t, svc, "/api/v1/bookings/10/status",
		models.UpdateStatusRequest{Status: "completed"}, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
