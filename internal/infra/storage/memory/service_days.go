package memory

import (
	"context"
	"time"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/servicedays"
)

// ServiceDayRepository дни обслуживания в памяти
type ServiceDayRepository struct {
	store *Store
}

// Create создает день обслуживания
func (r *ServiceDayRepository) Create(ctx context.Context, day *domain.ServiceDay) (*domain.ServiceDay, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	key := day.Date.Format(domain.DateFormat)
	if _, ok := data.daysByDate[key]; ok {
		return nil, servicedays.ErrDateAlreadyExists
	}

	data.serviceDaySeq++
	now := r.store.now()

	day.ID = data.serviceDaySeq
	day.Date = domain.DateOnly(day.Date)
	day.OrderSequence = 0
	day.CreatedAt = now
	day.UpdatedAt = now

	stored := *day
	data.serviceDays[day.ID] = &stored
	data.daysByDate[key] = day.ID

	return day, nil
}

// GetByID получает день по ID
func (r *ServiceDayRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceDay, error) {
	defer r.store.acquire(ctx)()

	day, ok := r.store.data.serviceDays[id]
	if !ok {
		return nil, servicedays.ErrServiceDayNotFound
	}
	cp := *day
	return &cp, nil
}

// GetByDate получает день по дате
func (r *ServiceDayRepository) GetByDate(ctx context.Context, date time.Time) (*domain.ServiceDay, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	id, ok := data.daysByDate[date.Format(domain.DateFormat)]
	if !ok {
		return nil, servicedays.ErrServiceDayNotFound
	}
	cp := *data.serviceDays[id]
	return &cp, nil
}

// GetIDByDate возвращает ID дня на дату
func (r *ServiceDayRepository) GetIDByDate(ctx context.Context, date time.Time) (int64, error) {
	defer r.store.acquire(ctx)()

	id, ok := r.store.data.daysByDate[date.Format(domain.DateFormat)]
	if !ok {
		return 0, servicedays.ErrServiceDayNotFound
	}
	return id, nil
}

// Update обновляет изменяемые поля дня
func (r *ServiceDayRepository) Update(ctx context.Context, day *domain.ServiceDay) error {
	defer r.store.acquire(ctx)()

	stored, ok := r.store.data.serviceDays[day.ID]
	if !ok {
		return servicedays.ErrServiceDayNotFound
	}

	stored.IsActive = day.IsActive
	stored.StartTime = day.StartTime
	stored.EndTime = day.EndTime
	stored.MaxOrders = day.MaxOrders
	stored.MaxTime = day.MaxTime
	stored.Location = day.Location
	stored.UpdatedAt = r.store.now()

	return nil
}

// SetActive меняет флаг активности
func (r *ServiceDayRepository) SetActive(ctx context.Context, id int64, active bool) error {
	defer r.store.acquire(ctx)()

	stored, ok := r.store.data.serviceDays[id]
	if !ok {
		return servicedays.ErrServiceDayNotFound
	}
	stored.IsActive = active
	stored.UpdatedAt = r.store.now()

	return nil
}

// Delete удаляет день вместе со слотами, заказами и их ингредиентами
func (r *ServiceDayRepository) Delete(ctx context.Context, id int64) error {
	defer r.store.acquire(ctx)()
	data := r.store.data

	day, ok := data.serviceDays[id]
	if !ok {
		return servicedays.ErrServiceDayNotFound
	}

	for slotID, slot := range data.timeSlots {
		if slot.ServiceDayID == id {
			data.deleteSlot(slotID)
		}
	}
	for orderID, o := range data.orders {
		if o.ServiceDayID == id {
			data.deleteOrder(orderID)
		}
	}

	delete(data.daysByDate, day.Date.Format(domain.DateFormat))
	delete(data.serviceDays, id)

	return nil
}

// NextDailyNumber выдает следующий порядковый номер заказа дня
func (r *ServiceDayRepository) NextDailyNumber(ctx context.Context, serviceDayID int64) (int, error) {
	defer r.store.acquire(ctx)()

	stored, ok := r.store.data.serviceDays[serviceDayID]
	if !ok {
		return 0, servicedays.ErrServiceDayNotFound
	}
	stored.OrderSequence++

	return stored.OrderSequence, nil
}
