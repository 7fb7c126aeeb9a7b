package timeslots

import (
	"context"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

// ServiceDayRepository интерфейс репозитория дней обслуживания
type ServiceDayRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceDay, error)
}

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	CreateBatch(ctx context.Context, serviceDayID int64, windows []domain.SlotWindow) (int, error)
	CountByServiceDay(ctx context.Context, serviceDayID int64) (int, error)
	DeleteByServiceDay(ctx context.Context, serviceDayID int64) (int, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики генерации слотов
type Metrics interface {
	SlotsGenerated(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
