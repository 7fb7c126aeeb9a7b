package create_order

import (
	"context"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// ServiceDayRepository интерфейс репозитория дней обслуживания
type ServiceDayRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceDay, error)
	NextDailyNumber(ctx context.Context, serviceDayID int64) (int, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	CountActiveBySlot(ctx context.Context, timeSlotID int64) (int, error)
	ExistsActiveForUser(ctx context.Context, userID, timeSlotID int64) (bool, error)
	ReplaceIngredients(ctx context.Context, orderID int64, lines []domain.OrderIngredient) ([]domain.OrderIngredient, error)
}

// IngredientCatalog интерфейс каталога ингредиентов
type IngredientCatalog interface {
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Ingredient, error)
}

// IdempotencyStore интерфейс хранилища ключей идемпотентности
type IdempotencyStore interface {
	Reserve(ctx context.Context, userID int64, key string) (int64, bool, error)
	Bind(ctx context.Context, userID int64, key string, orderID int64) error
	Release(ctx context.Context, userID int64, key string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики бронирования
type Metrics interface {
	OrderCreated()
	SlotFull()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
