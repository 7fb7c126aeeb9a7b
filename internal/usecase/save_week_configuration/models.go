package save_week_configuration

import (
	"time"

	"github.com/m04kA/SandwichBooking/pkg/types"
)

// Request модель запроса на сохранение недельного плана
type Request struct {
	WeekStart time.Time // Первый день недели (любая дата, неделя = 7 дней подряд)
	Global    GlobalConstraints
	Days      []DayPlan // Дата без плана считается неактивной
}

// GlobalConstraints ограничения по умолчанию для всех дней недели
type GlobalConstraints struct {
	MaxOrders int    // Вместимость слота; 0 - значение из конфигурации
	MaxTime   int    // Минут до начала слота, за которые можно бронировать; 0 - значение из конфигурации
	Location  string // Пусто - значение из конфигурации
}

// DayPlan план одного дня
type DayPlan struct {
	Date      time.Time
	IsActive  bool
	StartTime types.TimeString // Пусто - значение из конфигурации
	EndTime   types.TimeString // Пусто - значение из конфигурации
	MaxOrders *int             // Переопределение вместимости
	MaxTime   *int
	Location  *string
}

// Response отчет о выполненных изменениях
type Response struct {
	WeekStart      time.Time
	DaysCreated    int
	DaysUpdated    int
	DaysDisabled   int
	DaysDeleted    int
	DaysSkipped    int
	SlotsGenerated int
	SlotsDeleted   int
	OrdersRejected int
}
