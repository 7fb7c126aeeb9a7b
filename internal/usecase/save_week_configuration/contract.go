package save_week_configuration

import (
	"context"
	"time"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

// ServiceDayRepository интерфейс репозитория дней обслуживания
type ServiceDayRepository interface {
	Create(ctx context.Context, day *domain.ServiceDay) (*domain.ServiceDay, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceDay, error)
	GetIDByDate(ctx context.Context, date time.Time) (int64, error)
	Update(ctx context.Context, day *domain.ServiceDay) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	ListByServiceDay(ctx context.Context, serviceDayID int64) ([]*domain.TimeSlot, error)
	CountByServiceDay(ctx context.Context, serviceDayID int64) (int, error)
	ListUnoccupiedIDs(ctx context.Context, serviceDayID int64) ([]int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	CountByServiceDay(ctx context.Context, serviceDayID int64) (int, error)
	ListActiveByServiceDay(ctx context.Context, serviceDayID int64) ([]*domain.Order, error)
	RejectByIDs(ctx context.Context, ids []int64) (int, error)
}

// SlotGenerator генератор расписания слотов
type SlotGenerator interface {
	Generate(ctx context.Context, day *domain.ServiceDay) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики реконфигурации
type Metrics interface {
	OrdersRejected(n int)
	WeekConfigured(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
