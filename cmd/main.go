package main

import (
	"context"
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

	changeOrderStatusHandler "github.com/m04kA/SandwichBooking/internal/api/handlers/change_order_status"
	createOrderHandler "github.com/m04kA/SandwichBooking/internal/api/handlers/create_order"
	deleteOrderHandler "github.com/m04kA/SandwichBooking/internal/api/handlers/delete_order"
	generateTimeSlotsHandler "github.com/m04kA/SandwichBooking/internal/api/handlers/generate_time_slots"
	getOrderHandler "github.com/m04kA/SandwichBooking/internal/api/handlers/get_order"
	saveWeekHandler "github.com/m04kA/SandwichBooking/internal/api/handlers/save_week_configuration"
	updateOrderHandler "github.com/m04kA/SandwichBooking/internal/api/handlers/update_order"
	"github.com/m04kA/SandwichBooking/internal/api/middleware"
	"github.com/m04kA/SandwichBooking/internal/config"
	"github.com/m04kA/SandwichBooking/internal/infra/cache/idempotency"
	ordersService "github.com/m04kA/SandwichBooking/internal/service/orders"
	timeslotsService "github.com/m04kA/SandwichBooking/internal/service/timeslots"
	createOrderUC "github.com/m04kA/SandwichBooking/internal/usecase/create_order"
	saveWeekUC "github.com/m04kA/SandwichBooking/internal/usecase/save_week_configuration"
	updateOrderUC "github.com/m04kA/SandwichBooking/internal/usecase/update_order"
	"github.com/m04kA/SandwichBooking/pkg/logger"
	"github.com/m04kA/SandwichBooking/pkg/metrics"
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

	log.Info("Starting SandwichBooking...")

	bookingConfig, err := cfg.Booking.Domain()
	if err != nil {
		log.Fatal("Invalid booking config: %v", err)
	}
	log.Info("Booking config: slot=%dm, capacity %d..%d, default window %s-%s",
		bookingConfig.SlotDurationMinutes, bookingConfig.MinOrdersPerSlot, bookingConfig.MaxOrdersPerSlot,
		bookingConfig.DefaultStartTime, bookingConfig.DefaultEndTime)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(&cfg.Database, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage (driver=%s): %v", cfg.Database.Driver, err)
	}
	defer store.close()

	// Ключи идемпотентности создания заказа
	var idempotencyStore createOrderUC.IdempotencyStore = idempotency.NopStore{}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s, idempotency keys will be skipped until it recovers: %v",
				cfg.Redis.Addr, err)
		}
		cancel()

		idempotencyStore = idempotency.NewRedisStore(rdb, cfg.Redis.IdempotencyTTLDuration())
		log.Info("Idempotency keys stored in redis (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.IdempotencyTTLDuration())
	}

	// Инициализируем сервисы
	slotSvc := timeslotsService.NewService(
		store.serviceDays,
		store.timeSlots,
		store.txManager,
		bookingConfig,
		metricsCollector,
		log,
	)
	orderSvc := ordersService.NewService(
		store.orders,
		store.txManager,
		log,
	)

	// Инициализируем use cases
	createOrderUseCase := createOrderUC.NewUseCase(
		store.timeSlots,
		store.serviceDays,
		store.orders,
		store.ingredients,
		idempotencyStore,
		store.txManager,
		metricsCollector,
		log,
	)
	updateOrderUseCase := updateOrderUC.NewUseCase(
		store.orders,
		store.ingredients,
		store.txManager,
		log,
	)
	saveWeekUseCase := saveWeekUC.NewUseCase(
		store.serviceDays,
		store.timeSlots,
		store.orders,
		slotSvc,
		store.txManager,
		bookingConfig,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createOrder := createOrderHandler.NewHandler(createOrderUseCase, log)
	getOrder := getOrderHandler.NewHandler(orderSvc, log)
	updateOrder := updateOrderHandler.NewHandler(updateOrderUseCase, log)
	deleteOrder := deleteOrderHandler.NewHandler(orderSvc, log)
	changeOrderStatus := changeOrderStatusHandler.NewHandler(orderSvc, log)
	generateTimeSlots := generateTimeSlotsHandler.NewHandler(slotSvc, log)
	saveWeek := saveWeekHandler.NewHandler(saveWeekUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// STAFF ROUTES (расписание и статусы заказов)
	// ============================================================

	api.HandleFunc("/service-days/{serviceDayId}/time-slots", generateTimeSlots.Handle).Methods(http.MethodPost)
	api.HandleFunc("/weeks/{weekStart}/configuration", saveWeek.Handle).Methods(http.MethodPut)
	api.HandleFunc("/orders/{orderId}/status", changeOrderStatus.Handle).Methods(http.MethodPatch)

	// ============================================================
	// CUSTOMER ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/orders", createOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/orders/{orderId}", getOrder.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/orders/{orderId}", updateOrder.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/orders/{orderId}", deleteOrder.Handle).Methods(http.MethodDelete)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
