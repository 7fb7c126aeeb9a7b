package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/timeslots"
)

// TimeSlotRepository слоты в памяти
type TimeSlotRepository struct {
	store *Store
}

// CreateBatch создает слоты дня
func (r *TimeSlotRepository) CreateBatch(ctx context.Context, serviceDayID int64, windows []domain.SlotWindow) (int, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	now := r.store.now()
	for _, w := range windows {
		data.timeSlotSeq++
		data.timeSlots[data.timeSlotSeq] = &domain.TimeSlot{
			ID:           data.timeSlotSeq,
			ServiceDayID: serviceDayID,
			StartTime:    w.Start,
			EndTime:      w.End,
			CreatedAt:    now,
		}
	}

	return len(windows), nil
}

// GetByID получает слот по ID
func (r *TimeSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	defer r.store.acquire(ctx)()

	slot, ok := r.store.data.timeSlots[id]
	if !ok {
		return nil, timeslots.ErrTimeSlotNotFound
	}
	cp := *slot
	return &cp, nil
}

// ListByServiceDay получает слоты дня по возрастанию времени начала
func (r *TimeSlotRepository) ListByServiceDay(ctx context.Context, serviceDayID int64) ([]*domain.TimeSlot, error) {
	defer r.store.acquire(ctx)()
	return r.store.data.slotsOfDay(serviceDayID), nil
}

// CountByServiceDay возвращает количество слотов дня
func (r *TimeSlotRepository) CountByServiceDay(ctx context.Context, serviceDayID int64) (int, error) {
	defer r.store.acquire(ctx)()
	return len(r.store.data.slotsOfDay(serviceDayID)), nil
}

// ListUnoccupiedIDs возвращает слоты дня без заказов в любом статусе
func (r *TimeSlotRepository) ListUnoccupiedIDs(ctx context.Context, serviceDayID int64) ([]int64, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	occupied := make(map[int64]bool)
	for _, o := range data.orders {
		occupied[o.TimeSlotID] = true
	}

	ids := make([]int64, 0)
	for _, slot := range data.slotsOfDay(serviceDayID) {
		if !occupied[slot.ID] {
			ids = append(ids, slot.ID)
		}
	}

	return ids, nil
}

// DeleteByIDs удаляет слоты с каскадом на заказы
func (r *TimeSlotRepository) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	deleted := 0
	for _, id := range ids {
		if _, ok := data.timeSlots[id]; ok {
			data.deleteSlot(id)
			deleted++
		}
	}

	return deleted, nil
}

// DeleteByServiceDay удаляет все слоты дня
func (r *TimeSlotRepository) DeleteByServiceDay(ctx context.Context, serviceDayID int64) (int, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	slots := data.slotsOfDay(serviceDayID)
	for _, slot := range slots {
		data.deleteSlot(slot.ID)
	}

	return len(slots), nil
}

func (s *state) slotsOfDay(serviceDayID int64) []*domain.TimeSlot {
	slots := make([]*domain.TimeSlot, 0)
	for _, slot := range s.timeSlots {
		if slot.ServiceDayID == serviceDayID {
			cp := *slot
			slots = append(slots, &cp)
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].ID < slots[j].ID
		}
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}

// deleteSlot удаляет слот и каскадно его заказы
func (s *state) deleteSlot(id int64) {
	for orderID, o := range s.orders {
		if o.TimeSlotID == id {
			s.deleteOrder(orderID)
		}
	}
	delete(s.timeSlots, id)
}

// deleteOrder удаляет заказ и каскадно его ингредиенты
func (s *state) deleteOrder(id int64) {
	delete(s.orderIngredients, id)
	delete(s.orders, id)
}
