package submit_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	submitBooking "github.com/m04kA/SMC-FunnelService/internal/usecase/submit_booking"
)

type stubUseCase struct {
	resp *submitBooking.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, _ *submitBooking.Request) (*submitBooking.Response, error) {
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, uc SubmitBookingUseCase, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{resp: &submitBooking.Response{
		ID:          77,
		CompanyID:   1,
		ServiceType: "cleaning",
		BookingDate: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		Status:      "pending",
		SessionID:   "sess-1",
		CreatedAt:   time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
	}}

	rec := doRequest(t, uc, SubmitBookingRequest{
		SessionID: "sess-1",
		Fields:    map[string]string{"service": "cleaning"},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(77), resp.ID)
	assert.Equal(t, "2026-06-02", resp.BookingDate)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "pending", resp.Status)
}

func TestHandle_DuplicateIsSuccessNoOp(t *testing.T) {
	uc := &stubUseCase{err: submitBooking.ErrDuplicateRequest}

	rec := doRequest(t, uc, SubmitBookingRequest{SessionID: "sess-1", Fields: map[string]string{}})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DuplicateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "duplicate", resp.Status)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", submitBooking.ErrValidation, http.StatusBadRequest},
		{"invalid email", submitBooking.ErrInvalidEmail, http.StatusBadRequest},
		{"company unavailable", submitBooking.ErrCompanyUnavailable, http.StatusNotFound},
		{"company closed", submitBooking.ErrCompanyClosed, http.StatusBadRequest},
		{"invalid date", submitBooking.ErrInvalidDate, http.StatusBadRequest},
		{"date too far", submitBooking.ErrDateTooFarInFuture, http.StatusBadRequest},
		{"invalid time slot", submitBooking.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"slot conflict", submitBooking.ErrSlotConflict, http.StatusConflict},
		{"day full", submitBooking.ErrDayFull, http.StatusConflict},
		{"internal", submitBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &stubUseCase{err: tt.err}, SubmitBookingRequest{Fields: map[string]string{}})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	NewHandler(&stubUseCase{}, nopLogger{}).Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
