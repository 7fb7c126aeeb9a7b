package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/orders"
)

// OrderRepository заказы и снимки ингредиентов в памяти
type OrderRepository struct {
	store *Store
}

// Create создает заказ; повторяет частичный уникальный индекс (user_id, time_slot_id)
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	if order.OccupiesSeat() {
		for _, o := range data.orders {
			if o.UserID == order.UserID && o.TimeSlotID == order.TimeSlotID && o.OccupiesSeat() {
				return nil, orders.ErrDuplicateActiveOrder
			}
		}
	}

	data.orderSeq++
	now := r.store.now()

	order.ID = data.orderSeq
	order.CreatedAt = now
	order.UpdatedAt = now

	stored := *order
	stored.Ingredients = nil
	data.orders[order.ID] = &stored

	return order, nil
}

// GetByID получает заказ вместе со снимком ингредиентов
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	o, ok := data.orders[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}

	cp := *o
	cp.Ingredients = append([]domain.OrderIngredient{}, data.orderIngredients[id]...)
	return &cp, nil
}

// UpdateStatus обновляет статус заказа
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	defer r.store.acquire(ctx)()

	o, ok := r.store.data.orders[id]
	if !ok {
		return orders.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = r.store.now()

	return nil
}

// Delete удаляет заказ
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	defer r.store.acquire(ctx)()
	data := r.store.data

	if _, ok := data.orders[id]; !ok {
		return orders.ErrOrderNotFound
	}
	data.deleteOrder(id)

	return nil
}

// CountActiveBySlot считает неотклоненные заказы слота
func (r *OrderRepository) CountActiveBySlot(ctx context.Context, timeSlotID int64) (int, error) {
	defer r.store.acquire(ctx)()

	count := 0
	for _, o := range r.store.data.orders {
		if o.TimeSlotID == timeSlotID && o.OccupiesSeat() {
			count++
		}
	}

	return count, nil
}

// ExistsActiveForUser проверяет наличие неотклоненного заказа пользователя в слоте
func (r *OrderRepository) ExistsActiveForUser(ctx context.Context, userID, timeSlotID int64) (bool, error) {
	defer r.store.acquire(ctx)()

	for _, o := range r.store.data.orders {
		if o.UserID == userID && o.TimeSlotID == timeSlotID && o.OccupiesSeat() {
			return true, nil
		}
	}

	return false, nil
}

// CountByServiceDay считает все заказы дня
func (r *OrderRepository) CountByServiceDay(ctx context.Context, serviceDayID int64) (int, error) {
	defer r.store.acquire(ctx)()

	count := 0
	for _, o := range r.store.data.orders {
		if o.ServiceDayID == serviceDayID {
			count++
		}
	}

	return count, nil
}

// ListActiveByServiceDay получает неотклоненные заказы дня по слоту и номеру
func (r *OrderRepository) ListActiveByServiceDay(ctx context.Context, serviceDayID int64) ([]*domain.Order, error) {
	defer r.store.acquire(ctx)()

	result := make([]*domain.Order, 0)
	for _, o := range r.store.data.orders {
		if o.ServiceDayID == serviceDayID && o.OccupiesSeat() {
			cp := *o
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TimeSlotID != result[j].TimeSlotID {
			return result[i].TimeSlotID < result[j].TimeSlotID
		}
		return result[i].DailyNumber < result[j].DailyNumber
	})

	return result, nil
}

// RejectByIDs переводит заказы в rejected
func (r *OrderRepository) RejectByIDs(ctx context.Context, ids []int64) (int, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	now := r.store.now()
	rejected := 0
	for _, id := range ids {
		o, ok := data.orders[id]
		if !ok || !o.OccupiesSeat() {
			continue
		}
		o.Status = domain.StatusRejected
		o.UpdatedAt = now
		rejected++
	}

	return rejected, nil
}

// ReplaceIngredients заменяет весь снимок ингредиентов заказа
func (r *OrderRepository) ReplaceIngredients(ctx context.Context, orderID int64, lines []domain.OrderIngredient) ([]domain.OrderIngredient, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	if _, ok := data.orders[orderID]; !ok {
		return nil, orders.ErrOrderNotFound
	}

	stored := make([]domain.OrderIngredient, 0, len(lines))
	for _, line := range lines {
		data.orderIngredientSeq++
		line.ID = data.orderIngredientSeq
		line.OrderID = orderID
		stored = append(stored, line)
	}
	data.orderIngredients[orderID] = stored

	return append([]domain.OrderIngredient{}, stored...), nil
}

// GetIngredients получает снимок ингредиентов заказа
func (r *OrderRepository) GetIngredients(ctx context.Context, orderID int64) ([]domain.OrderIngredient, error) {
	defer r.store.acquire(ctx)()
	return append([]domain.OrderIngredient{}, r.store.data.orderIngredients[orderID]...), nil
}
