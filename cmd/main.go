package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	assignAdminHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/assign_admin"
	authenticateUserHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/authenticate_user"
	cancelBookingHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/create_booking"
	getAvailableDaysHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/get_available_days"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/get_booking"
	getBookingPolicyHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/get_booking_policy"
	getBookingsHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/get_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/get_user_bookings"
	registerUserHandler "github.com/m04kA/SMC-TrainingBooking/internal/api/handlers/register_user"
	"github.com/m04kA/SMC-TrainingBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingBooking/internal/api/ws"
	"github.com/m04kA/SMC-TrainingBooking/internal/config"
	"github.com/m04kA/SMC-TrainingBooking/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/booking"
	timeslotRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/timeslot"
	userRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-TrainingBooking/internal/integrations/telegram"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-TrainingBooking/internal/service/bookings"
	"github.com/m04kA/SMC-TrainingBooking/internal/service/ledger"
	usersService "github.com/m04kA/SMC-TrainingBooking/internal/service/users"
	createBookingUC "github.com/m04kA/SMC-TrainingBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-TrainingBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-TrainingBooking/internal/worker/notifier"
	"github.com/m04kA/SMC-TrainingBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingBooking/pkg/logger"
	"github.com/m04kA/SMC-TrainingBooking/pkg/metrics"
	"github.com/m04kA/SMC-TrainingBooking/pkg/txmanager"
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

	log.Info("Starting SMC-TrainingBooking...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Метрики: nil-коллектор безопасен, все методы проверяют получателя
	var metricsCollector *metrics.Metrics
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	stopMetricsCh := make(chan struct{})
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithRetries(cfg.Database.TxRetries, time.Duration(cfg.Database.TxRetryBackoff)*time.Millisecond),
	)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	slotRepository := timeslotRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)

	// События: websocket-подписчики всегда, redis - если включен
	hub := ws.NewHub(cfg.CORS.AllowedOrigins, log)
	publisher := events.Fanout{hub}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		publisher = append(publisher, events.NewRedisPublisher(redisClient, cfg.Redis.Channel))
		log.Info("Redis event publisher enabled (addr=%s, channel=%s)", cfg.Redis.Addr, cfg.Redis.Channel)
	}

	// Уведомления в telegram читают события из redis
	if cfg.Telegram.Enabled {
		if redisClient == nil {
			log.Warn("Telegram notifications require redis; notifier is not started")
		} else {
			tgClient := telegram.NewClient(
				cfg.Telegram.APIURL,
				cfg.Telegram.Token,
				time.Duration(cfg.Telegram.Timeout)*time.Second,
				log,
			)
			worker := notifier.NewWorker(
				events.NewRedisSubscriber(redisClient, cfg.Redis.Channel, log),
				tgClient,
				log,
			)
			go func() {
				if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error("Notifier stopped: %v", err)
				}
			}()
			log.Info("Telegram notifier started")
		}
	}

	// Сервисы
	policy := cfg.Booking.Policy()
	finder := availability.NewFinder(policy)
	bookingLedger := ledger.NewLedger(bookingRepository, txMgr, policy.SlotCapacity, log)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userRepository,
		bookingLedger,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	userSvc := usersService.NewService(userRepository, txMgr, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		userRepository,
		slotRepository,
		bookingLedger,
		finder,
		txMgr,
		publisher,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		userRepository,
		slotRepository,
		finder,
		log,
	)

	// Handlers
	registerUser := registerUserHandler.NewHandler(userSvc, log)
	authenticateUser := authenticateUserHandler.NewHandler(userSvc, log)
	assignAdmin := assignAdminHandler.NewHandler(userSvc, log)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(finder)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDays := getAvailableDaysHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			cfg.RateLimit.IdleTTLDuration(),
		)
		go limiter.Run(ctx)
		r.Use(limiter.Limit)
		log.Info("Rate limiting enabled (%.1f rps, burst %d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/register", registerUser.Handle).Methods(http.MethodPost)
	api.HandleFunc("/authenticate", authenticateUser.Handle).Methods(http.MethodPost)
	api.HandleFunc("/config", getBookingPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/days", getAvailableDays.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/ws/slots", hub.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (Bearer JWT или X-User-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret))
	if limiter != nil {
		protected.Use(limiter.LimitUser)
	}

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/users/{userId}/admin", assignAdmin.Handle).Methods(http.MethodPatch)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		MaxAge:           cfg.CORS.MaxAge,
		AllowCredentials: false,
	}).Handler(r)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	close(stopMetricsCh)
	hub.Close()

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
