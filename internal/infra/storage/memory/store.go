// Package memory in-memory драйвер хранилища. Реализует те же контракты, что и
// PostgreSQL репозитории, и возвращает их ошибки.
//
// Все операции сериализуются одной блокировкой хранилища. Транзакция держит ее
// от начала до фиксации; откат восстанавливает снимок состояния.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

type txKey struct{ store *Store }

// state is everything the store persists; clone gives a deep copy for rollback
type state struct {
	serviceDays      map[int64]*domain.ServiceDay
	daysByDate       map[string]int64
	timeSlots        map[int64]*domain.TimeSlot
	orders           map[int64]*domain.Order
	orderIngredients map[int64][]domain.OrderIngredient
	ingredients      map[int64]*domain.Ingredient

	serviceDaySeq      int64
	timeSlotSeq        int64
	orderSeq           int64
	orderIngredientSeq int64
	ingredientSeq      int64
}

func newState() *state {
	return &state{
		serviceDays:      make(map[int64]*domain.ServiceDay),
		daysByDate:       make(map[string]int64),
		timeSlots:        make(map[int64]*domain.TimeSlot),
		orders:           make(map[int64]*domain.Order),
		orderIngredients: make(map[int64][]domain.OrderIngredient),
		ingredients:      make(map[int64]*domain.Ingredient),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, d := range s.serviceDays {
		cp := *d
		c.serviceDays[id] = &cp
	}
	for k, v := range s.daysByDate {
		c.daysByDate[k] = v
	}
	for id, ts := range s.timeSlots {
		cp := *ts
		c.timeSlots[id] = &cp
	}
	for id, o := range s.orders {
		cp := *o
		cp.Ingredients = nil
		c.orders[id] = &cp
	}
	for id, lines := range s.orderIngredients {
		c.orderIngredients[id] = append([]domain.OrderIngredient(nil), lines...)
	}
	for id, ing := range s.ingredients {
		cp := *ing
		c.ingredients[id] = &cp
	}
	c.serviceDaySeq = s.serviceDaySeq
	c.timeSlotSeq = s.timeSlotSeq
	c.orderSeq = s.orderSeq
	c.orderIngredientSeq = s.orderIngredientSeq
	c.ingredientSeq = s.ingredientSeq
	return c
}

// Store in-memory хранилище всех сущностей движка бронирования
type Store struct {
	lock sync.Mutex
	data *state
	now  func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		data: newState(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// inTx проверяет, что контекст несет транзакцию этого хранилища
func (s *Store) inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{store: s}).(bool)
	return v
}

// acquire берет блокировку хранилища, если вызов не внутри его транзакции
func (s *Store) acquire(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.lock.Lock()
	return s.lock.Unlock
}

// ServiceDays возвращает репозиторий дней обслуживания
func (s *Store) ServiceDays() *ServiceDayRepository {
	return &ServiceDayRepository{store: s}
}

// TimeSlots возвращает репозиторий слотов
func (s *Store) TimeSlots() *TimeSlotRepository {
	return &TimeSlotRepository{store: s}
}

// Orders возвращает репозиторий заказов
func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{store: s}
}

// Ingredients возвращает каталог ингредиентов
func (s *Store) Ingredients() *IngredientRepository {
	return &IngredientRepository{store: s}
}

// TxManager возвращает менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}
