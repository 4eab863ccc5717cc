package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	leadstore "github.com/m04kA/SMC-FunnelService/internal/infra/storage/lead"
	"github.com/m04kA/SMC-FunnelService/pkg/dedupcache"
)

// fakeLeadRepo repository-заглушка в памяти
type fakeLeadRepo struct {
	leads     map[string]*domain.Lead
	nextID    int64
	createErr error
	updateErr error
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[string]*domain.Lead)}
}

func (f *fakeLeadRepo) Create(_ context.Context, l *domain.Lead) (*domain.Lead, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	stored := *l
	stored.ID = f.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.leads[stored.SessionID] = &stored
	return &stored, nil
}

func (f *fakeLeadRepo) GetBySessionID(_ context.Context, sessionID string) (*domain.Lead, error) {
	l, ok := f.leads[sessionID]
	if !ok {
		return nil, leadstore.ErrLeadNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLeadRepo) Update(_ context.Context, l *domain.Lead) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.leads[l.SessionID]; !ok {
		return leadstore.ErrLeadNotFound
	}
	stored := *l
	f.leads[l.SessionID] = &stored
	return nil
}

func (f *fakeLeadRepo) DeleteStaleBefore(_ context.Context, cutoff time.Time, states []domain.LeadState) (int64, error) {
	var deleted int64
	for session, l := range f.leads {
		if l.Converted || !l.CreatedAt.Before(cutoff) {
			continue
		}
		for _, s := range states {
			if l.State == s {
				delete(f.leads, session)
				deleted++
				break
			}
		}
	}
	return deleted, nil
}

func (f *fakeLeadRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, l := range f.leads {
		if !l.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeLeadRepo) CountConvertedSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, l := range f.leads {
		if l.Converted && !l.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *fakeLeadRepo, clock *fixedClock) *Service {
	dedup := dedupcache.NewWithClock(5*time.Second, func() time.Time { return clock.t })
	svc := NewService(repo, dedup, Config{
		SessionTTL:  24 * time.Hour,
		DedupWindow: 5 * time.Second,
		Retention:   30 * 24 * time.Hour,
	}, NopMetrics{}, nopLogger{})
	return svc.WithTimeProvider(clock)
}

func TestCapture_CreatesNewLead(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	result, err := svc.Capture(context.Background(), "", map[string]string{
		"customer_name": "Jane Roe",
		"email":         "jane@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.True(t, result.Persisted)

	stored, err := repo.GetBySessionID(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStateCapturing, stored.State)
	assert.Equal(t, domain.LeadTypeProcessing, stored.Type)
	assert.Equal(t, "Jane Roe", stored.CustomerName)
	// 2 из 8 общих обязательных полей
	assert.Equal(t, 25, stored.Completion)
}

func TestCapture_MergeNeverErases(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	first, err := svc.Capture(context.Background(), "", map[string]string{
		"full_name": "Jane Roe",
		"email":     "jane@example.com",
	})
	require.NoError(t, err)

	// Второе касание вне окна дедупликации: телефон добавлен, имя опущено
	clock.t = clock.t.Add(10 * time.Second)
	second, err := svc.Capture(context.Background(), first.SessionID, map[string]string{
		"phone": "+1-555-0100",
		"email": "jane.roe@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	stored, err := repo.GetBySessionID(context.Background(), first.SessionID)
	require.NoError(t, err)
	// Непустые поля второго касания победили
	assert.Equal(t, "jane.roe@example.com", stored.Email)
	assert.Equal(t, "+1-555-0100", stored.Phone)
	// Пустое поле не стерло ранее собранное
	assert.Equal(t, "Jane Roe", stored.CustomerName)
}

func TestCapture_DuplicateSuppressed(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	first, err := svc.Capture(context.Background(), "sess-dup", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	// Повтор в пределах окна дедупликации - успешный no-op
	clock.t = clock.t.Add(time.Second)
	second, err := svc.Capture(context.Background(), "sess-dup", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, first.Completion, second.Completion)
}

func TestCapture_NextStepWithinWindowMerges(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	first, err := svc.Capture(context.Background(), "sess-steps", map[string]string{"full_name": "Jane Roe"})
	require.NoError(t, err)

	// Следующий шаг формы через секунду: другие поля - не дубль, сливается
	clock.t = clock.t.Add(time.Second)
	second, err := svc.Capture(context.Background(), "sess-steps", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)
	assert.False(t, second.Duplicate)
	assert.True(t, second.Persisted)

	stored, err := repo.GetBySessionID(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", stored.CustomerName)
	assert.Equal(t, "jane@example.com", stored.Email)
}

func TestCapture_EmptyDataRejected(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	_, err := svc.Capture(context.Background(), "", map[string]string{"full_name": ""})
	assert.ErrorIs(t, err, ErrEmptyLeadData)
}

func TestCapture_UTMOnlyIsMeaningful(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	result, err := svc.Capture(context.Background(), "", map[string]string{"utm_source": "google"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)

	stored, err := repo.GetBySessionID(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "google", stored.UTMSource)
}

func TestCapture_StaleSessionMintsNew(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 2, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	repo.leads["old-session"] = &domain.Lead{
		ID:        1,
		SessionID: "old-session",
		Email:     "jane@example.com",
		State:     domain.LeadStateCapturing,
		CreatedAt: clock.t.Add(-25 * time.Hour),
	}

	result, err := svc.Capture(context.Background(), "old-session", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, "old-session", result.SessionID)

	// Старый лид остался нетронутым
	old, err := repo.GetBySessionID(context.Background(), "old-session")
	require.NoError(t, err)
	assert.Equal(t, int64(1), old.ID)
}

func TestCapture_PersistenceFailureReported(t *testing.T) {
	repo := newFakeLeadRepo()
	repo.createErr = errors.New("connection refused")
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	result, err := svc.Capture(context.Background(), "", map[string]string{"email": "jane@example.com"})
	assert.ErrorIs(t, err, ErrPersistence)
	// session_id отдается даже при потере касания
	require.NotNil(t, result)
	assert.NotEmpty(t, result.SessionID)
	assert.False(t, result.Persisted)
}

func TestBeginConversion_Idempotent(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	first, err := svc.Capture(context.Background(), "", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)

	lead, err := svc.BeginConversion(context.Background(), first.SessionID, map[string]string{"phone": "+1-555-0100"})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStateConverting, lead.State)
	assert.Equal(t, 100, lead.Completion)

	// Повторный вызов - no-op
	again, err := svc.BeginConversion(context.Background(), first.SessionID, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, lead.ID, again.ID)
	assert.Equal(t, domain.LeadStateConverting, again.State)
}

func TestBeginConversion_CreatesWhenMissing(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	lead, err := svc.BeginConversion(context.Background(), "lost-session", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStateConverting, lead.State)
	assert.Equal(t, domain.LeadTypeComplete, lead.Type)
	assert.Equal(t, "lost-session", lead.SessionID)
}

func TestCompleteConversion_LinksBooking(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	first, err := svc.Capture(context.Background(), "", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)

	lead, err := svc.CompleteConversion(context.Background(), first.SessionID, 77, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStateConverted, lead.State)
	assert.True(t, lead.Converted)
	require.NotNil(t, lead.BookingID)
	assert.Equal(t, int64(77), *lead.BookingID)
}

func TestCompleteConversion_RetroactiveWhenNoLead(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	booking := &domain.Booking{
		ID:          77,
		ServiceType: "cleaning",
		CompanyID:   3,
		BookingDate: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		Email:       "jane@example.com",
		Phone:       "+1-555-0100",
	}

	lead, err := svc.CompleteConversion(context.Background(), "vanished", 77, booking)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStateConverted, lead.State)
	assert.Equal(t, domain.LeadTypeRetroactive, lead.Type)
	assert.True(t, lead.Converted)
	assert.Equal(t, "jane@example.com", lead.Email)

	// Ровно одна строка лида
	assert.Len(t, repo.leads, 1)
}

func TestCompleteConversion_FallbackSessionID(t *testing.T) {
	booking := &domain.Booking{
		ServiceType: "cleaning",
		BookingDate: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
		Email:       "Jane@Example.com",
		Phone:       "+1-555-0100",
	}

	key := RetroactiveSessionID(booking)
	assert.Contains(t, key, "retro-")

	// Детерминированность: регистр email не влияет на ключ
	booking2 := *booking
	booking2.Email = "jane@example.com"
	assert.Equal(t, key, RetroactiveSessionID(&booking2))
}

func TestCompleteConversion_UpdateFailureFallsBackToRetroactive(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	first, err := svc.Capture(context.Background(), "", map[string]string{"email": "jane@example.com"})
	require.NoError(t, err)

	repo.updateErr = errors.New("serialization failure")

	lead, err := svc.CompleteConversion(context.Background(), first.SessionID, 77, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadTypeRetroactive, lead.Type)
	assert.True(t, lead.Converted)
}

func TestSweepExpired(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	old := clock.t.Add(-31 * 24 * time.Hour)
	repo.leads["stale"] = &domain.Lead{SessionID: "stale", State: domain.LeadStateCapturing, CreatedAt: old}
	repo.leads["converted"] = &domain.Lead{SessionID: "converted", State: domain.LeadStateConverted, Converted: true, CreatedAt: old}
	repo.leads["fresh"] = &domain.Lead{SessionID: "fresh", State: domain.LeadStateCapturing, CreatedAt: clock.t.Add(-time.Hour)}

	deleted, err := svc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Конвертированные и свежие лиды сохранены
	_, err = repo.GetBySessionID(context.Background(), "converted")
	assert.NoError(t, err)
	_, err = repo.GetBySessionID(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestIsDuplicateRequest(t *testing.T) {
	repo := newFakeLeadRepo()
	clock := &fixedClock{t: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(repo, clock)

	// Пустая сессия никогда не дубль
	assert.False(t, svc.IsDuplicateRequest("", "submit_booking"))
	assert.False(t, svc.IsDuplicateRequest("", "submit_booking"))

	assert.False(t, svc.IsDuplicateRequest("sess-1", "submit_booking"))
	assert.True(t, svc.IsDuplicateRequest("sess-1", "submit_booking"))

	// Другое действие той же сессии независимо
	assert.False(t, svc.IsDuplicateRequest("sess-1", "capture"))
}
