package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/SandwichBooking/internal/config"
	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/ingredients"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/memory"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/orders"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/servicedays"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/timeslots"
	ordersService "github.com/m04kA/SandwichBooking/internal/service/orders"
	timeslotsService "github.com/m04kA/SandwichBooking/internal/service/timeslots"
	createOrderUC "github.com/m04kA/SandwichBooking/internal/usecase/create_order"
	saveWeekUC "github.com/m04kA/SandwichBooking/internal/usecase/save_week_configuration"
	updateOrderUC "github.com/m04kA/SandwichBooking/internal/usecase/update_order"
	"github.com/m04kA/SandwichBooking/pkg/dbmetrics"
	"github.com/m04kA/SandwichBooking/pkg/logger"
	"github.com/m04kA/SandwichBooking/pkg/metrics"
	"github.com/m04kA/SandwichBooking/pkg/txmanager"
)

type serviceDayRepository interface {
	createOrderUC.ServiceDayRepository
	saveWeekUC.ServiceDayRepository
	timeslotsService.ServiceDayRepository
}

type timeSlotRepository interface {
	createOrderUC.TimeSlotRepository
	saveWeekUC.TimeSlotRepository
	timeslotsService.TimeSlotRepository
}

type orderRepository interface {
	createOrderUC.OrderRepository
	updateOrderUC.OrderRepository
	saveWeekUC.OrderRepository
	ordersService.OrderRepository
}

type ingredientCatalog interface {
	createOrderUC.IngredientCatalog
	updateOrderUC.IngredientCatalog
}

type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage репозитории и менеджер транзакций выбранного драйвера
type storage struct {
	serviceDays serviceDayRepository
	timeSlots   timeSlotRepository
	orders      orderRepository
	ingredients ingredientCatalog
	txManager   transactionManager
	close       func()
}

// openStorage открывает PostgreSQL или создает хранилище в памяти
func openStorage(cfg *config.DatabaseConfig, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Driver == config.DriverMemory {
		store := memory.NewStore()
		seedCatalog(store.Ingredients())
		log.Info("Using in-memory storage with %d catalog ingredients", len(defaultCatalog))
		return &storage{
			serviceDays: store.ServiceDays(),
			timeSlots:   store.TimeSlots(),
			orders:      store.Orders(),
			ingredients: store.Ingredients(),
			txManager:   store.TxManager(),
			close:       func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)

	// С nil метриками обертка только проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)

	return &storage{
		serviceDays: servicedays.NewRepository(wrappedDB),
		timeSlots:   timeslots.NewRepository(wrappedDB),
		orders:      orders.NewRepository(wrappedDB),
		ingredients: ingredients.NewRepository(wrappedDB),
		txManager:   txmanager.NewTransactionManager(wrappedDB),
		close:       func() { _ = db.Close() },
	}, nil
}

// defaultCatalog каталог для драйвера memory, в PostgreSQL каталог ведется внешним CRUD
var defaultCatalog = []domain.Ingredient{
	{Name: "Wheat bread", Category: domain.IngredientCategoryBread, IsAvailable: true},
	{Name: "Rye bread", Category: domain.IngredientCategoryBread, IsAvailable: true},
	{Name: "Ham", Category: "meat", IsAvailable: true},
	{Name: "Turkey", Category: "meat", IsAvailable: true},
	{Name: "Cheddar", Category: "cheese", IsAvailable: true},
	{Name: "Lettuce", Category: "vegetable", IsAvailable: true},
	{Name: "Tomato", Category: "vegetable", IsAvailable: true},
	{Name: "Mustard", Category: "sauce", IsAvailable: true},
}

func seedCatalog(repo *memory.IngredientRepository) {
	ctx := context.Background()
	for i := range defaultCatalog {
		ing := defaultCatalog[i]
		repo.Upsert(ctx, &ing)
	}
}
