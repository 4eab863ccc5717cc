package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/cancel_booking"
	captureLeadHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/capture_lead"
	getAvailabilityHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/get_booking"
	getCompanyBookingsHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/get_company_bookings"
	getConversionStatsHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/get_conversion_stats"
	getRecentConversionsHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/get_recent_conversions"
	submitBookingHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/submit_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-FunnelService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-FunnelService/internal/api/middleware"
	"github.com/m04kA/SMC-FunnelService/internal/config"
	"github.com/m04kA/SMC-FunnelService/internal/events"
	bookingRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/booking"
	companyRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/company"
	conversionRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/conversion"
	leadRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/lead"
	reservationRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/reservation"
	bookingsService "github.com/m04kA/SMC-FunnelService/internal/service/bookings"
	conversionsService "github.com/m04kA/SMC-FunnelService/internal/service/conversions"
	leadsService "github.com/m04kA/SMC-FunnelService/internal/service/leads"
	captureLeadUC "github.com/m04kA/SMC-FunnelService/internal/usecase/capture_lead"
	getAvailabilityUC "github.com/m04kA/SMC-FunnelService/internal/usecase/get_availability"
	submitBookingUC "github.com/m04kA/SMC-FunnelService/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-FunnelService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FunnelService/pkg/dedupcache"
	"github.com/m04kA/SMC-FunnelService/pkg/logger"
	"github.com/m04kA/SMC-FunnelService/pkg/metrics"
	"github.com/m04kA/SMC-FunnelService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-FunnelService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-FunnelService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		companyRepository     *companyRepo.Repository
		bookingRepository     *bookingRepo.Repository
		reservationRepository *reservationRepo.Repository
		leadRepository        *leadRepo.Repository
		conversionRepository  *conversionRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		companyRepository = companyRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		leadRepository = leadRepo.NewRepository(wrappedDB)
		conversionRepository = conversionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		companyRepository = companyRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		leadRepository = leadRepo.NewRepository(db)
		conversionRepository = conversionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Бизнес-счетчики воронки: заглушки, если метрики выключены
	var (
		leadMetrics    leadsService.FunnelMetrics       = leadsService.NopMetrics{}
		convMetrics    conversionsService.FunnelMetrics = conversionsService.NopMetrics{}
		bookingMetrics submitBookingUC.FunnelMetrics    = submitBookingUC.NopMetrics{}
	)
	if cfg.Metrics.Enabled {
		leadMetrics = metricsCollector
		convMetrics = metricsCollector
		bookingMetrics = metricsCollector
	}

	// Инициализируем сервисы
	dedupWindow := time.Duration(cfg.Leads.DedupWindowSeconds) * time.Second
	dedup := dedupcache.New(dedupWindow)

	leadSvc := leadsService.NewService(
		leadRepository,
		dedup,
		leadsService.Config{
			SessionTTL:  time.Duration(cfg.Leads.SessionTTLHours) * time.Hour,
			DedupWindow: dedupWindow,
			Retention:   time.Duration(cfg.Leads.RetentionDays) * 24 * time.Hour,
		},
		leadMetrics,
		log,
	)

	conversionSvc := conversionsService.NewService(
		conversionRepository,
		leadRepository,
		leadSvc,
		conversionsService.Config{
			MetricsLogLimit: cfg.Conversions.MetricsLogLimit,
			DealValues:      cfg.Conversions.DealValues,
		},
		convMetrics,
		log,
	)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		reservationRepository,
		txMgr,
		log,
	)

	// Шина событий: конверсия лида и метрика пишутся подписчиком,
	// их ошибки никогда не роняют ответ на создание бронирования
	eventBus := events.NewBus(log)
	eventBus.SubscribeBookingCreated(conversionSvc)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		companyRepository,
		reservationRepository,
		bookingRepository,
		log,
	)

	captureLeadUseCase := captureLeadUC.NewUseCase(leadSvc, log)

	submitBookingUseCase := submitBookingUC.NewUseCase(
		companyRepository,
		bookingRepository,
		reservationRepository,
		leadSvc,
		eventBus,
		txMgr,
		bookingMetrics,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	captureLead := captureLeadHandler.NewHandler(captureLeadUseCase, log)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getCompanyBookings := getCompanyBookingsHandler.NewHandler(bookingSvc, log)
	getConversionStats := getConversionStatsHandler.NewHandler(conversionSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getRecentConversions := getRecentConversionsHandler.NewHandler(conversionSvc, log)

	// Фоновая чистка устаревших лидов
	stopSweepCh := make(chan struct{})
	go runRetentionSweep(leadSvc, time.Duration(cfg.Leads.SweepIntervalHours)*time.Hour, stopSweepCh, log)
	log.Info("Lead retention sweep started (interval=%dh, retention=%dd)",
		cfg.Leads.SweepIntervalHours, cfg.Leads.RetentionDays)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь доступности слотов по компаниям
	api.HandleFunc("/companies/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Фиксация касания формы (лид)
	api.HandleFunc("/leads/capture", captureLead.Handle).Methods(http.MethodPost)

	// Создание бронирования из формы воронки
	api.HandleFunc("/bookings", submitBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования (освобождает слот)
	protected.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// Операторская смена статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Список бронирований компании
	protected.HandleFunc("/companies/{companyId}/bookings", getCompanyBookings.Handle).Methods(http.MethodGet)

	// Статистика воронки конверсий
	protected.HandleFunc("/conversions/stats", getConversionStats.Handle).Methods(http.MethodGet)

	// Журнал последних конверсий
	protected.HandleFunc("/conversions/recent", getRecentConversions.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые процессы
	close(stopSweepCh)
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runRetentionSweep периодически удаляет неконвертированные лиды старше retention-окна
func runRetentionSweep(svc *leadsService.Service, interval time.Duration, stopCh <-chan struct{}, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := svc.SweepExpired(ctx); err != nil {
				log.Error("Lead retention sweep failed: %v", err)
			}
			cancel()
		case <-stopCh:
			return
		}
	}
}
