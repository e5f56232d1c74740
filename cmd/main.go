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

	cancelBookingHandler "github.com/courtbook/booking-engine/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/courtbook/booking-engine/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/courtbook/booking-engine/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/courtbook/booking-engine/internal/api/handlers/get_booking"
	getCurrentWindowHandler "github.com/courtbook/booking-engine/internal/api/handlers/get_current_window"
	getPreferencesHandler "github.com/courtbook/booking-engine/internal/api/handlers/get_preferences"
	getUserBookingsHandler "github.com/courtbook/booking-engine/internal/api/handlers/get_user_bookings"
	getWindowResultHandler "github.com/courtbook/booking-engine/internal/api/handlers/get_window_result"
	replacePreferencesHandler "github.com/courtbook/booking-engine/internal/api/handlers/replace_preferences"
	"github.com/courtbook/booking-engine/internal/api/middleware"
	"github.com/courtbook/booking-engine/internal/config"
	preferenceRepo "github.com/courtbook/booking-engine/internal/infra/storage/preference"
	reservationRepo "github.com/courtbook/booking-engine/internal/infra/storage/reservation"
	resourceRepo "github.com/courtbook/booking-engine/internal/infra/storage/resource"
	windowRepo "github.com/courtbook/booking-engine/internal/infra/storage/window"
	memberServiceClient "github.com/courtbook/booking-engine/internal/integrations/memberservice"
	notifyServiceClient "github.com/courtbook/booking-engine/internal/integrations/notifyservice"
	paymentServiceClient "github.com/courtbook/booking-engine/internal/integrations/paymentservice"
	"github.com/courtbook/booking-engine/internal/scheduler"
	allocationService "github.com/courtbook/booking-engine/internal/service/allocation"
	preferencesService "github.com/courtbook/booking-engine/internal/service/preferences"
	pricingService "github.com/courtbook/booking-engine/internal/service/pricing"
	reservationsService "github.com/courtbook/booking-engine/internal/service/reservations"
	rulesService "github.com/courtbook/booking-engine/internal/service/rules"
	scheduleService "github.com/courtbook/booking-engine/internal/service/schedule"
	windowsService "github.com/courtbook/booking-engine/internal/service/windows"
	cancelBookingUC "github.com/courtbook/booking-engine/internal/usecase/cancel_booking"
	createBookingUC "github.com/courtbook/booking-engine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/courtbook/booking-engine/internal/usecase/get_available_slots"
	replacePreferencesUC "github.com/courtbook/booking-engine/internal/usecase/replace_preferences"
	runAllocationUC "github.com/courtbook/booking-engine/internal/usecase/run_allocation"
	"github.com/courtbook/booking-engine/pkg/dbmetrics"
	"github.com/courtbook/booking-engine/pkg/logger"
	"github.com/courtbook/booking-engine/pkg/metrics"
	"github.com/courtbook/booking-engine/pkg/simpletxmanager"
	"github.com/courtbook/booking-engine/pkg/txmanager"
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

	log.Info("Starting booking-engine...")
	log.Info("Configuration loaded from config.toml")

	// Локальная таймзона площадки: в ней считаются границы окон,
	// горизонт бронирования и время открытия 21:00
	loc, err := time.LoadLocation(cfg.Allocation.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Allocation.Timezone, err)
	}
	log.Info("Venue timezone: %s", cfg.Allocation.Timezone)

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

	// Инициализируем интеграционных клиентов
	memberClient := memberServiceClient.NewClient(
		cfg.MemberService.URL,
		time.Duration(cfg.MemberService.Timeout)*time.Second,
		log,
	)
	payClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (MemberService=%s, PaymentService=%s, NotifyService=%s)",
		cfg.MemberService.URL, cfg.PaymentService.URL, cfg.NotifyService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		preferenceRepository  *preferenceRepo.Repository
		windowRepository      *windowRepo.Repository
		resourceRepository    *resourceRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		preferenceRepository = preferenceRepo.NewRepository(wrappedDB)
		windowRepository = windowRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		preferenceRepository = preferenceRepo.NewRepository(db)
		windowRepository = windowRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем доменные сервисы
	scheduleSvc := scheduleService.NewService(log)
	pricingSvc := pricingService.NewService(scheduleSvc, log)
	rulesSvc := rulesService.NewService(&rulesService.RealTimeProvider{}, loc, log)
	allocatorSvc := allocationService.NewService(log)

	// Сервисы чтения
	reservationsSvc := reservationsService.New(reservationRepository, log)
	preferencesSvc := preferencesService.New(preferenceRepository, log)
	windowsSvc := windowsService.New(windowRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		reservationRepository,
		resourceRepository,
		windowRepository,
		memberClient,
		payClient,
		rulesSvc,
		pricingSvc,
		txMgr,
		loc,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		reservationRepository,
		memberClient,
		payClient,
		rulesSvc,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		resourceRepository,
		scheduleSvc,
		loc,
		log,
	)

	replacePreferencesUseCase := replacePreferencesUC.NewUseCase(
		preferenceRepository,
		resourceRepository,
		windowRepository,
		txMgr,
		log,
	)

	runAllocationUseCase := runAllocationUC.NewUseCase(
		reservationRepository,
		preferenceRepository,
		resourceRepository,
		windowRepository,
		memberClient,
		payClient,
		notifyClient,
		allocatorSvc,
		scheduleSvc,
		pricingSvc,
		txMgr,
		loc,
		log,
	)

	// Планировщик окон честной аллокации
	var schedMetrics scheduler.Metrics
	if cfg.Metrics.Enabled {
		schedMetrics = metricsCollector
	}
	windowScheduler := scheduler.New(
		windowRepository,
		runAllocationUseCase,
		scheduler.Config{
			OrganisationID:  cfg.Allocation.OrganisationID,
			Location:        loc,
			Tick:            time.Duration(cfg.Allocation.TickSeconds) * time.Second,
			MaxAttempts:     cfg.Allocation.MaxAttempts,
			CollectDuration: time.Duration(cfg.Allocation.CollectMinutes) * time.Minute,
			AdvanceDays:     cfg.Allocation.AdvanceDays,
			ServiceName:     cfg.Metrics.ServiceName,
		},
		schedMetrics,
		log,
	)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go windowScheduler.Run(schedulerCtx)

	// Инициализируем handlers
	orgID := cfg.Allocation.OrganisationID
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, orgID, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(reservationsSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(reservationsSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	replacePreferences := replacePreferencesHandler.NewHandler(replacePreferencesUseCase, orgID, log)
	getPreferences := getPreferencesHandler.NewHandler(preferencesSvc, orgID, log)
	getCurrentWindow := getCurrentWindowHandler.NewHandler(windowsSvc, orgID, log)
	getWindowResult := getWindowResultHandler.NewHandler(windowsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка доступных слотов корта на дату
	api.HandleFunc("/resources/{resourceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Текущее окно честной аллокации
	api.HandleFunc("/windows/current", getCurrentWindow.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (FCFS)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований участника
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Предпочтения для окна аллокации ---
	// Замена списка предпочтений целиком
	protected.HandleFunc("/preferences", replacePreferences.Handle).Methods(http.MethodPut)

	// Текущий список предпочтений
	protected.HandleFunc("/preferences", getPreferences.Handle).Methods(http.MethodGet)

	// --- Итоги распределения ---
	protected.HandleFunc("/windows/{windowId}/result", getWindowResult.Handle).Methods(http.MethodGet)

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

	// Останавливаем планировщик окон
	stopScheduler()

	// Останавливаем сбор метрик connection pool
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
