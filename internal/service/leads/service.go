package leads

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/internal/fields"
	leadstore "github.com/m04kA/SMC-FunnelService/internal/infra/storage/lead"
)

// Config параметры жизненного цикла лидов
type Config struct {
	SessionTTL  time.Duration // срок жизни сессии (по умолчанию 24ч)
	DedupWindow time.Duration // окно подавления дублей (по умолчанию 5с)
	Retention   time.Duration // хранение неконвертированных лидов
}

// CaptureResult результат обработки касания
type CaptureResult struct {
	SessionID  string
	Completion int
	Duplicate  bool // касание подавлено как дубль (успешный no-op)
	Persisted  bool // false при мягкой деградации из-за ошибки хранилища
}

// Service менеджер жизненного цикла лидов
// Состояния: new -> capturing -> converting -> converted | abandoned | failed
type Service struct {
	repo         LeadRepository
	dedup        DedupCache
	cfg          Config
	timeProvider TimeProvider
	metrics      FunnelMetrics
	logger       Logger
}

// NewService создает новый экземпляр менеджера лидов
func NewService(repo LeadRepository, dedup DedupCache, cfg Config, metrics FunnelMetrics, logger Logger) *Service {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = domain.DefaultSessionTTLHours * time.Hour
	}
	if cfg.DedupWindow == 0 {
		cfg.DedupWindow = domain.DefaultDedupWindowSeconds * time.Second
	}
	if cfg.Retention == 0 {
		cfg.Retention = domain.DefaultRetentionDays * 24 * time.Hour
	}

	return &Service{
		repo:         repo,
		dedup:        dedup,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// IsDuplicateRequest проверяет, не является ли запрос дублем
// Маркер на пару (session, action) живёт окно дедупликации; второй запрос
// в пределах окна считается дублем и не обрабатывается повторно.
// Гарантия best-effort, это не механизм резервирования слотов
func (s *Service) IsDuplicateRequest(sessionID, action string) bool {
	if sessionID == "" {
		return false
	}
	return s.dedup.MarkIfAbsent(sessionID + ":" + action)
}

// Capture обрабатывает касание формы: создает или обновляет лид по session_id
//
// Если session_id не передан или устарел (лид старше SessionTTL) - минтится
// новый. Данные нормализуются, заполненность пересчитывается, существующий
// лид обновляется слиянием: непустые поля нового касания побеждают, пустые
// не стирают ранее собранное
//
// Маркер дедупликации включает отпечаток полей: подавляется только повтор
// того же касания (двойной клик), следующий шаг формы с новыми полями
// в пределах окна сливается штатно
func (s *Service) Capture(ctx context.Context, sessionID string, raw map[string]string) (*CaptureResult, error) {
	if s.IsDuplicateRequest(sessionID, "capture:"+touchFingerprint(raw)) {
		s.logger.Info("Capture: duplicate touch suppressed: session=%s", sessionID)
		s.metrics.IncDuplicateSuppressed()

		existing, err := s.repo.GetBySessionID(ctx, sessionID)
		if err == nil {
			return &CaptureResult{SessionID: sessionID, Completion: existing.Completion, Duplicate: true, Persisted: true}, nil
		}
		return &CaptureResult{SessionID: sessionID, Duplicate: true}, nil
	}

	now := s.timeProvider.Now()
	incoming := leadFromNormalized(fields.Normalize(raw))

	if !IsValidLeadData(incoming) {
		s.logger.Info("Capture: touch below meaningful-interaction threshold, skipping: session=%s", sessionID)
		return nil, ErrEmptyLeadData
	}

	s.metrics.IncLeadCaptured()

	// Ищем существующий лид текущей сессии
	var existing *domain.Lead
	if sessionID != "" {
		found, err := s.repo.GetBySessionID(ctx, sessionID)
		switch {
		case err == nil:
			// Сессия устарела - начинаем новую
			if now.Sub(found.CreatedAt) > s.cfg.SessionTTL {
				s.logger.Info("Capture: session %s is stale (created %s), minting new", sessionID, found.CreatedAt)
				sessionID = ""
			} else {
				existing = found
			}
		case errors.Is(err, leadstore.ErrLeadNotFound):
			// Лида нет - создадим новый с переданным session_id
		default:
			// Ошибка чтения - деградируем до вставки нового лида
			s.logger.Warn("Capture: failed to load lead for session=%s: %v", sessionID, err)
		}
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if existing != nil {
		mergeLead(existing, incoming)
		existing.Completion = CompletionPercentage(existing)
		if existing.State == domain.LeadStateNew {
			existing.State = domain.LeadStateCapturing
		}

		if err := s.repo.Update(ctx, existing); err != nil {
			s.logger.Error("Capture: failed to update lead session=%s: %v", sessionID, err)
			return &CaptureResult{SessionID: sessionID, Completion: existing.Completion},
				fmt.Errorf("%w: update lead: %v", ErrPersistence, err)
		}

		s.logger.Info("Capture: updated lead id=%d session=%s completion=%d%%",
			existing.ID, sessionID, existing.Completion)
		return &CaptureResult{SessionID: sessionID, Completion: existing.Completion, Persisted: true}, nil
	}

	incoming.SessionID = sessionID
	incoming.State = domain.LeadStateCapturing
	incoming.Type = domain.LeadTypeProcessing
	incoming.Completion = CompletionPercentage(incoming)

	created, err := s.repo.Create(ctx, incoming)
	if err != nil {
		s.logger.Error("Capture: failed to create lead session=%s: %v", sessionID, err)
		return &CaptureResult{SessionID: sessionID, Completion: incoming.Completion},
			fmt.Errorf("%w: create lead: %v", ErrPersistence, err)
	}

	s.logger.Info("Capture: created lead id=%d session=%s completion=%d%%",
		created.ID, sessionID, created.Completion)
	return &CaptureResult{SessionID: sessionID, Completion: created.Completion, Persisted: true}, nil
}

// BeginConversion переводит лид сессии в состояние converting
// Идемпотентна: повторный вызов для converting/converted лида - no-op
// Если лида нет (сессия потеряна до финальной отправки), создает новый
// сразу в состоянии converting
func (s *Service) BeginConversion(ctx context.Context, sessionID string, finalData map[string]string) (*domain.Lead, error) {
	incoming := leadFromNormalized(fields.Normalize(finalData))

	existing, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		// Строки нет - создаем сразу в converting
		incoming.SessionID = sessionID
		incoming.State = domain.LeadStateConverting
		incoming.Type = domain.LeadTypeComplete
		incoming.Completion = 100

		created, createErr := s.repo.Create(ctx, incoming)
		if createErr != nil {
			return nil, fmt.Errorf("%w: create converting lead: %v", ErrPersistence, createErr)
		}
		s.logger.Info("BeginConversion: created lead id=%d session=%s in converting state", created.ID, sessionID)
		return created, nil
	}

	// Идемпотентность: конверсия уже идёт или завершена
	if existing.State == domain.LeadStateConverting || existing.State == domain.LeadStateConverted {
		s.logger.Info("BeginConversion: lead id=%d session=%s already in state=%s, no-op",
			existing.ID, sessionID, existing.State)
		return existing, nil
	}

	mergeLead(existing, incoming)
	existing.State = domain.LeadStateConverting
	existing.Type = domain.LeadTypeComplete
	existing.Completion = 100

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("%w: update lead to converting: %v", ErrPersistence, err)
	}

	s.logger.Info("BeginConversion: lead id=%d session=%s moved to converting", existing.ID, sessionID)
	return existing, nil
}

// CompleteConversion привязывает созданное бронирование к лиду сессии
//
// Вызывается асинхронно относительно создания бронирования и не рассчитывает
// на данные породившего запроса. Если строки лида нет (сессия потеряна) или
// основное обновление падает, синтезируется ретроактивный лид сразу в
// состоянии converted - сигнал конверсии не теряется никогда
func (s *Service) CompleteConversion(ctx context.Context, sessionID string, bookingID int64, booking *domain.Booking) (*domain.Lead, error) {
	if sessionID == "" {
		sessionID = RetroactiveSessionID(booking)
	}

	existing, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return s.createRetroactive(ctx, sessionID, bookingID, booking)
	}

	// Идемпотентность: лид уже привязан к этому бронированию
	if existing.State == domain.LeadStateConverted && existing.BookingID != nil && *existing.BookingID == bookingID {
		return existing, nil
	}

	existing.State = domain.LeadStateConverted
	existing.Type = domain.LeadTypeComplete
	existing.Converted = true
	existing.BookingID = &bookingID
	existing.Completion = 100
	if booking != nil {
		mergeLead(existing, leadFromBooking(booking))
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("CompleteConversion: primary update failed for session=%s, falling back to retroactive record: %v",
			sessionID, err)
		return s.createRetroactive(ctx, sessionID, bookingID, booking)
	}

	s.logger.Info("CompleteConversion: lead id=%d session=%s converted to booking id=%d",
		existing.ID, sessionID, bookingID)
	return existing, nil
}

// MarkFailed переводит лид сессии в состояние failed с фиксацией причины
func (s *Service) MarkFailed(ctx context.Context, sessionID string, reason string) error {
	existing, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return ErrLeadNotFound
	}

	existing.State = domain.LeadStateFailed
	existing.Type = domain.LeadTypeFailed
	if existing.Attributes == nil {
		existing.Attributes = make(map[string]string)
	}
	existing.Attributes["failure_reason"] = reason

	if err := s.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("%w: mark failed: %v", ErrPersistence, err)
	}

	s.logger.Warn("MarkFailed: lead id=%d session=%s marked failed: %s", existing.ID, sessionID, reason)
	return nil
}

// SweepExpired удаляет неконвертированные лиды старше retention-окна
// converted и failed лиды хранятся бессрочно для отчетности
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := s.timeProvider.Now().Add(-s.cfg.Retention)

	deleted, err := s.repo.DeleteStaleBefore(ctx, cutoff, []domain.LeadState{
		domain.LeadStateNew,
		domain.LeadStateCapturing,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: sweep expired leads: %v", ErrInternal, err)
	}

	if deleted > 0 {
		s.logger.Info("SweepExpired: deleted %d unconverted leads older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	return deleted, nil
}

// createRetroactive синтезирует ретроактивный лид сразу в состоянии converted
func (s *Service) createRetroactive(ctx context.Context, sessionID string, bookingID int64, booking *domain.Booking) (*domain.Lead, error) {
	lead := &domain.Lead{
		SessionID:  sessionID,
		State:      domain.LeadStateConverted,
		Type:       domain.LeadTypeRetroactive,
		Converted:  true,
		BookingID:  &bookingID,
		Completion: 100,
		Attributes: make(map[string]string),
	}
	if booking != nil {
		mergeLead(lead, leadFromBooking(booking))
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("%w: create retroactive lead: %v", ErrPersistence, err)
	}

	s.logger.Info("CompleteConversion: created retroactive lead id=%d session=%s for booking id=%d",
		created.ID, sessionID, bookingID)
	return created, nil
}

// leadFromBooking строит данные лида из бронирования (для ретроактивных записей)
func leadFromBooking(b *domain.Booking) *domain.Lead {
	date := b.BookingDate
	startTime := b.StartTime
	companyID := b.CompanyID

	return &domain.Lead{
		ServiceType:  b.ServiceType,
		CustomerName: b.CustomerName,
		Email:        b.Email,
		Phone:        b.Phone,
		Address:      b.Address,
		Zip:          b.Zip,
		CompanyID:    &companyID,
		ProposedDate: &date,
		ProposedTime: &startTime,
		Attributes:   make(map[string]string),
	}
}

// touchFingerprint детерминированный отпечаток полей касания
// для дедупликации: одинаковый payload - одинаковый отпечаток
func touchFingerprint(raw map[string]string) string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha1.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(raw[k]))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// RetroactiveSessionID выводит корреляционный ключ из данных бронирования,
// когда session_id утерян: sha1 от email|phone|услуга|дата с префиксом retro-
func RetroactiveSessionID(b *domain.Booking) string {
	if b == nil {
		return "retro-" + uuid.NewString()
	}

	payload := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(b.Email)),
		strings.TrimSpace(b.Phone),
		b.ServiceType,
		b.BookingDate.Format(domain.DateFormat),
	}, "|")

	sum := sha1.Sum([]byte(payload))
	return "retro-" + hex.EncodeToString(sum[:])
}
