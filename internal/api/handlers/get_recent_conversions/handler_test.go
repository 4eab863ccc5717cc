package get_recent_conversions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FunnelService/internal/api/middleware"
	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/internal/service/conversions"
)

type stubService struct {
	metrics  []*domain.ConversionMetric
	err      error
	gotLimit int
	calls    int
}

func (s *stubService) ListRecent(_ context.Context, limit int) ([]*domain.ConversionMetric, error) {
	s.gotLimit = limit
	s.calls++
	return s.metrics, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, svc ConversionService, path string, withAuth bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withAuth {
		req.Header.Set("X-User-ID", "42")
	}
	rec := httptest.NewRecorder()

	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/conversions/recent", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_ListsRecentMetrics(t *testing.T) {
	svc := &stubService{metrics: []*domain.ConversionMetric{
		{
			ID:                   2,
			LeadID:               20,
			BookingID:            200,
			ServiceType:          "cleaning",
			TimeToConvertMinutes: 90,
			DealValue:            120,
			Completion:           100,
			CreatedAt:            time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          1,
			LeadID:      10,
			BookingID:   100,
			ServiceType: "plumbing",
			Completion:  25,
			CreatedAt:   time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	}}

	rec := doRequest(t, svc, "/api/v1/conversions/recent?limit=50", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, svc.gotLimit)

	var resp MetricsListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Metrics, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "cleaning", resp.Metrics[0].ServiceType)
	assert.Equal(t, int64(90), resp.Metrics[0].TimeToConvertMinutes)
	assert.Equal(t, 25, resp.Metrics[1].Completion)
}

func TestHandle_NoLimitDefaultsToFullLog(t *testing.T) {
	svc := &stubService{}

	rec := doRequest(t, svc, "/api/v1/conversions/recent", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, svc.gotLimit)
}

func TestHandle_InvalidLimit(t *testing.T) {
	svc := &stubService{}

	rec := doRequest(t, svc, "/api/v1/conversions/recent?limit=abc", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestHandle_MissingUserID(t *testing.T) {
	svc := &stubService{}

	rec := doRequest(t, svc, "/api/v1/conversions/recent", false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestHandle_InternalError(t *testing.T) {
	svc := &stubService{err: conversions.ErrInternal}

	rec := doRequest(t, svc, "/api/v1/conversions/recent", true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
