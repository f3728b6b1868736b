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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assignServicesHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/assign_services"
	bookingStreamHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/booking_stream"
	cancelBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/cancel_booking"
	checkInBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/check_in_booking"
	completeBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/create_booking"
	createTemplateHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/create_template"
	deleteTemplateHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/delete_template"
	getAvailableSlotsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_booking_history"
	getBookingServicesHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_booking_services"
	getLocationBookingsHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_location_bookings"
	getLocationHistoryHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_location_history"
	getTemplateHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/get_template"
	healthHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/health"
	listTemplatesHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/list_templates"
	restoreBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/restore_booking"
	submitFeedbackHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/submit_feedback"
	updateBookingHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/update_booking"
	updateTemplateHandler "github.com/m04kA/SMC-GroomingService/internal/api/handlers/update_template"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/config"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/catalog"
	historyRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/history"
	templateRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/template"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-GroomingService/internal/service/bookings"
	historyService "github.com/m04kA/SMC-GroomingService/internal/service/history"
	lifecycleService "github.com/m04kA/SMC-GroomingService/internal/service/lifecycle"
	templatesService "github.com/m04kA/SMC-GroomingService/internal/service/templates"
	createBookingUC "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-GroomingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/metrics"
	"github.com/m04kA/SMC-GroomingService/pkg/txmanager"
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

	log.Info("Starting SMC-GroomingService...")

	// Метрики (nil-safe, при выключенных метриках остаются nil)
	var (
		metricsCollector *metrics.Metrics
		recorder         dbmetrics.Recorder
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, recorder, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	templateRepository := templateRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	historyRepository := historyRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Лента изменений
	var broker feed.Broker
	switch cfg.Feed.Driver {
	case config.FeedDriverRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		broker, err = feed.NewRedisBroker(ctx, &redis.Options{
			Addr:     cfg.Feed.RedisAddr,
			Password: cfg.Feed.RedisPassword,
			DB:       cfg.Feed.RedisDB,
		}, log)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
	default:
		broker = feed.NewMemoryBroker()
	}
	defer broker.Close()
	publisher := feed.NewPublisher(broker, log, metricsCollector)
	log.Info("Booking feed initialized (driver=%s)", cfg.Feed.Driver)

	// Уведомления о новых записях
	var bookingNotifier notifier.Notifier = notifier.NopNotifier{}
	switch cfg.Notifier.Driver {
	case config.NotifierDriverAMQP:
		amqpNotifier, err := notifier.NewAMQPNotifier(cfg.Notifier.AMQPURI, cfg.Notifier.Queue, log)
		if err != nil {
			log.Fatal("Failed to connect to message broker: %v", err)
		}
		defer amqpNotifier.Close()
		bookingNotifier = amqpNotifier
	case config.NotifierDriverHTTP:
		bookingNotifier = notifier.NewHTTPClient(cfg.Notifier.URL, cfg.NotifierTimeout(), log)
	}
	log.Info("Notifier initialized (driver=%s)", cfg.Notifier.Driver)

	// Сервисы
	templateSvc := templatesService.NewService(templateRepository, bookingRepository, catalogRepository, txMgr, log)
	bookingSvc := bookingsService.NewService(bookingRepository, templateRepository, txMgr, publisher, log)
	lifecycleSvc := lifecycleService.NewService(
		bookingRepository,
		historyRepository,
		templateRepository,
		catalogRepository,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	historySvc := historyService.NewService(historyRepository, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		templateRepository,
		catalogRepository,
		txMgr,
		publisher,
		bookingNotifier,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		templateRepository,
		bookingRepository,
		catalogRepository,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createPublicBooking := createBookingHandler.NewHandler(createBookingUseCase, domain.SourceCustomer, log)
	createStaffBooking := createBookingHandler.NewHandler(createBookingUseCase, domain.SourceStaff, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	getBookingServices := getBookingServicesHandler.NewHandler(bookingSvc, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingSvc, log)
	checkInBooking := checkInBookingHandler.NewHandler(lifecycleSvc, log)
	assignServices := assignServicesHandler.NewHandler(lifecycleSvc, log)
	completeBooking := completeBookingHandler.NewHandler(lifecycleSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(lifecycleSvc, log)
	restoreBooking := restoreBookingHandler.NewHandler(lifecycleSvc, log)
	submitFeedback := submitFeedbackHandler.NewHandler(lifecycleSvc, log)
	getLocationHistory := getLocationHistoryHandler.NewHandler(historySvc, log)
	getBookingHistory := getBookingHistoryHandler.NewHandler(historySvc, log)
	listTemplates := listTemplatesHandler.NewHandler(templateSvc, log)
	getTemplate := getTemplateHandler.NewHandler(templateSvc, log)
	createTemplate := createTemplateHandler.NewHandler(templateSvc, log)
	updateTemplate := updateTemplateHandler.NewHandler(templateSvc, log)
	deleteTemplate := deleteTemplateHandler.NewHandler(templateSvc, log)
	bookingStream := bookingStreamHandler.NewHandler(broker, bookingStreamHandler.DefaultHeartbeat, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты точки на дату
	api.HandleFunc("/locations/{locationId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Запись клиента через публичную форму
	api.HandleFunc("/public/bookings", createPublicBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT сотрудника)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth([]byte(cfg.Auth.JWTSecret), log))

	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createStaffBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/services", getBookingServices.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/locations/{locationId}/bookings", getLocationBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/locations/{locationId}/bookings/stream", bookingStream.Handle).Methods(http.MethodGet)

	// --- Жизненный цикл ---
	protected.HandleFunc("/bookings/{bookingId}/check-in", checkInBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/services", assignServices.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.Handle("/bookings/{bookingId}/restore", adminOnly(restoreBooking.Handle)).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/feedback", submitFeedback.Handle).Methods(http.MethodPost)

	// --- Архив ---
	protected.HandleFunc("/locations/{locationId}/history", getLocationHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/history", getBookingHistory.Handle).Methods(http.MethodGet)

	// --- Шаблоны (изменение только для администратора) ---
	protected.HandleFunc("/templates", listTemplates.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/templates/{templateId}", getTemplate.Handle).Methods(http.MethodGet)
	protected.Handle("/templates", adminOnly(createTemplate.Handle)).Methods(http.MethodPost)
	protected.Handle("/templates/{templateId}", adminOnly(updateTemplate.Handle)).Methods(http.MethodPut)
	protected.Handle("/templates/{templateId}", adminOnly(deleteTemplate.Handle)).Methods(http.MethodDelete)

	// Создаем HTTP сервер. WriteTimeout должен быть 0, иначе SSE соединения рвутся.
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	// Закрываем брокер до Shutdown, чтобы SSE обработчики завершились
	if err := broker.Close(); err != nil {
		log.Warn("Failed to close feed broker: %v", err)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
