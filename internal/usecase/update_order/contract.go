package update_order

import (
	"context"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ReplaceIngredients(ctx context.Context, orderID int64, lines []domain.OrderIngredient) ([]domain.OrderIngredient, error)
}

// IngredientCatalog интерфейс каталога ингредиентов
type IngredientCatalog interface {
	FindByIDs(ctx context.Context, ids []int64) ([]*domain.Ingredient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
