package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/orders"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/servicedays"
	"github.com/m04kA/SandwichBooking/pkg/types"
)

func seedDay(t *testing.T, s *Store) *domain.ServiceDay {
	t.Helper()

	day, err := s.ServiceDays().Create(context.Background(), &domain.ServiceDay{
		Date:      time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
		StartTime: types.MustTimeString("08:00"),
		EndTime:   types.MustTimeString("09:00"),
		MaxOrders: 2,
	})
	require.NoError(t, err)
	return day
}

func TestTxManager_RollbackRestoresState(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day := seedDay(t, s)

	boom := errors.New("boom")
	err := s.TxManager().Do(ctx, func(txCtx context.Context) error {
		n, err := s.ServiceDays().NextDailyNumber(txCtx, day.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = s.TimeSlots().CreateBatch(txCtx, day.ID, []domain.SlotWindow{
			{Start: types.MustTimeString("08:00"), End: types.MustTimeString("08:15")},
		})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := s.ServiceDays().GetByID(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.OrderSequence)

	count, err := s.TimeSlots().CountByServiceDay(ctx, day.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTxManager_NestedJoinsOuter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day := seedDay(t, s)
	tm := s.TxManager()

	err := tm.Do(ctx, func(txCtx context.Context) error {
		return tm.Do(txCtx, func(inner context.Context) error {
			_, err := s.ServiceDays().NextDailyNumber(inner, day.ID)
			return err
		})
	})
	require.NoError(t, err)

	stored, err := s.ServiceDays().GetByID(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.OrderSequence)
}

func TestServiceDayRepository_DuplicateDate(t *testing.T) {
	s := NewStore()
	day := seedDay(t, s)

	_, err := s.ServiceDays().Create(context.Background(), &domain.ServiceDay{Date: day.Date, MaxOrders: 1})
	assert.ErrorIs(t, err, servicedays.ErrDateAlreadyExists)
}

func TestServiceDayRepository_DeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day := seedDay(t, s)

	_, err := s.TimeSlots().CreateBatch(ctx, day.ID, []domain.SlotWindow{
		{Start: types.MustTimeString("08:00"), End: types.MustTimeString("08:15")},
	})
	require.NoError(t, err)
	slots, err := s.TimeSlots().ListByServiceDay(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	order, err := s.Orders().Create(ctx, &domain.Order{
		UserID: 1, TimeSlotID: slots[0].ID, ServiceDayID: day.ID, Status: domain.StatusPending, DailyNumber: 1,
	})
	require.NoError(t, err)
	_, err = s.Orders().ReplaceIngredients(ctx, order.ID, []domain.OrderIngredient{{IngredientID: 1, Name: "Rye", Category: "bread"}})
	require.NoError(t, err)

	require.NoError(t, s.ServiceDays().Delete(ctx, day.ID))

	_, err = s.Orders().GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
	lines, err := s.Orders().GetIngredients(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = s.ServiceDays().GetByDate(ctx, day.Date)
	assert.ErrorIs(t, err, servicedays.ErrServiceDayNotFound)
}

func TestOrderRepository_ActiveDuplicateGuard(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day := seedDay(t, s)

	first, err := s.Orders().Create(ctx, &domain.Order{UserID: 7, TimeSlotID: 1, ServiceDayID: day.ID, Status: domain.StatusPending, DailyNumber: 1})
	require.NoError(t, err)

	_, err = s.Orders().Create(ctx, &domain.Order{UserID: 7, TimeSlotID: 1, ServiceDayID: day.ID, Status: domain.StatusPending, DailyNumber: 2})
	assert.ErrorIs(t, err, orders.ErrDuplicateActiveOrder)

	rejected, err := s.Orders().RejectByIDs(ctx, []int64{first.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, rejected)

	_, err = s.Orders().Create(ctx, &domain.Order{UserID: 7, TimeSlotID: 1, ServiceDayID: day.ID, Status: domain.StatusPending, DailyNumber: 3})
	assert.NoError(t, err)
}

func TestTimeSlots_ListUnoccupiedIDsCountsRejectedOrders(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day := seedDay(t, s)

	_, err := s.TimeSlots().CreateBatch(ctx, day.ID, []domain.SlotWindow{
		{Start: types.MustTimeString("08:00"), End: types.MustTimeString("08:15")},
		{Start: types.MustTimeString("08:15"), End: types.MustTimeString("08:30")},
		{Start: types.MustTimeString("08:30"), End: types.MustTimeString("08:45")},
	})
	require.NoError(t, err)

	slots, err := s.TimeSlots().ListByServiceDay(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	pending, err := s.Orders().Create(ctx, &domain.Order{
		UserID: 1, TimeSlotID: slots[0].ID, ServiceDayID: day.ID, Status: domain.StatusPending, DailyNumber: 1,
	})
	require.NoError(t, err)
	rejected, err := s.Orders().Create(ctx, &domain.Order{
		UserID: 2, TimeSlotID: slots[1].ID, ServiceDayID: day.ID, Status: domain.StatusPending, DailyNumber: 2,
	})
	require.NoError(t, err)
	require.NoError(t, s.Orders().UpdateStatus(ctx, rejected.ID, domain.StatusRejected))

	ids, err := s.TimeSlots().ListUnoccupiedIDs(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{slots[2].ID}, ids)

	_, err = s.Orders().GetByID(ctx, pending.ID)
	assert.NoError(t, err)
}
