package save_week_configuration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/infra/storage/memory"
	serviceDayRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/servicedays"
	"github.com/m04kA/SandwichBooking/internal/service/timeslots"
	"github.com/m04kA/SandwichBooking/pkg/logger"
	"github.com/m04kA/SandwichBooking/pkg/metrics"
	"github.com/m04kA/SandwichBooking/pkg/ptr"
	"github.com/m04kA/SandwichBooking/pkg/types"
)

// Понедельник
var weekStart = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

type fixture struct {
	store     *memory.Store
	config    *domain.BookingConfig
	generator SlotGenerator
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	config := domain.DefaultBookingConfig()

	var m *metrics.Metrics
	generator := timeslots.NewService(store.ServiceDays(), store.TimeSlots(), store.TxManager(), config, m, logger.Nop())

	return &fixture{
		store:     store,
		config:    config,
		generator: generator,
		now:       weekStart.Add(6 * time.Hour),
	}
}

func (f *fixture) useCase() *UseCase {
	var m *metrics.Metrics
	return NewUseCase(
		f.store.ServiceDays(),
		f.store.TimeSlots(),
		f.store.Orders(),
		f.generator,
		f.store.TxManager(),
		f.config,
		m,
		logger.Nop(),
	).WithTimeProvider(fixedTime{now: f.now})
}

func (f *fixture) day(t *testing.T, offset int) *domain.ServiceDay {
	t.Helper()
	day, err := f.store.ServiceDays().GetByDate(context.Background(), weekStart.AddDate(0, 0, offset))
	require.NoError(t, err)
	return day
}

func (f *fixture) slots(t *testing.T, dayID int64) []*domain.TimeSlot {
	t.Helper()
	slots, err := f.store.TimeSlots().ListByServiceDay(context.Background(), dayID)
	require.NoError(t, err)
	return slots
}

func (f *fixture) placeOrder(t *testing.T, userID int64, slot *domain.TimeSlot, dailyNumber int) *domain.Order {
	t.Helper()
	order, err := f.store.Orders().Create(context.Background(), &domain.Order{
		UserID:       userID,
		TimeSlotID:   slot.ID,
		ServiceDayID: slot.ServiceDayID,
		Status:       domain.StatusPending,
		DailyNumber:  dailyNumber,
	})
	require.NoError(t, err)
	return order
}

func activeDay(offset int, start, end string) DayPlan {
	return DayPlan{
		Date:      weekStart.AddDate(0, 0, offset),
		IsActive:  true,
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func unchanged(resp *Response) bool {
	return resp.DaysCreated+resp.DaysUpdated+resp.DaysDisabled+resp.DaysDeleted+
		resp.SlotsGenerated+resp.SlotsDeleted+resp.OrdersRejected == 0
}

func TestExecute_CreatesActiveDaysAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	req := &Request{
		WeekStart: weekStart,
		Days: []DayPlan{
			activeDay(0, "08:00", "10:00"),
			activeDay(1, "", ""),
		},
	}

	resp, err := f.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.DaysCreated)
	assert.Equal(t, 8+40, resp.SlotsGenerated)
	assert.Equal(t, 0, resp.DaysSkipped)

	monday := f.day(t, 0)
	assert.True(t, monday.IsActive)
	assert.Equal(t, f.config.DefaultMaxOrders, monday.MaxOrders)
	assert.Equal(t, f.config.DefaultMaxTime, monday.MaxTime)
	assert.Len(t, f.slots(t, monday.ID), 8)

	tuesday := f.day(t, 1)
	assert.Equal(t, types.TimeString("08:00"), tuesday.StartTime)
	assert.Equal(t, types.TimeString("18:00"), tuesday.EndTime)

	_, err = f.store.ServiceDays().GetIDByDate(context.Background(), weekStart.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, serviceDayRepo.ErrServiceDayNotFound)

	again, err := f.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, unchanged(again), "second identical call changed something: %+v", again)
	assert.Len(t, f.slots(t, monday.ID), 8)
}

func TestExecute_WeekInPast(t *testing.T) {
	f := newFixture(t)

	_, err := f.useCase().Execute(context.Background(), &Request{
		WeekStart: weekStart.AddDate(0, 0, -14),
		Days:      []DayPlan{activeDay(-14, "08:00", "10:00")},
	})
	require.ErrorIs(t, err, domain.ErrWeekInPast)
	assert.Equal(t, domain.CodeWeekInPast, domain.ErrorCode(err))

	_, err = f.store.ServiceDays().GetIDByDate(context.Background(), weekStart.AddDate(0, 0, -14))
	assert.ErrorIs(t, err, serviceDayRepo.ErrServiceDayNotFound)
}

func TestExecute_SkipsPastDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Прошедший понедельник существует и не должен быть затронут
	monday, err := f.store.ServiceDays().Create(ctx, &domain.ServiceDay{
		Date:      weekStart,
		IsActive:  true,
		StartTime: types.MustTimeString("08:00"),
		EndTime:   types.MustTimeString("09:00"),
		MaxOrders: 3,
	})
	require.NoError(t, err)

	// Среда: понедельник и вторник уже прошли
	f.now = weekStart.AddDate(0, 0, 2).Add(9 * time.Hour)

	days := make([]DayPlan, 0, domain.DaysInWeek)
	for i := 1; i < domain.DaysInWeek; i++ {
		days = append(days, activeDay(i, "08:00", "09:00"))
	}

	resp, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: days})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.DaysSkipped)
	assert.Equal(t, 5, resp.DaysCreated)
	assert.Equal(t, 5*4, resp.SlotsGenerated)

	stored := f.day(t, 0)
	assert.Equal(t, monday.ID, stored.ID)
	assert.True(t, stored.IsActive)
	assert.Equal(t, 3, stored.MaxOrders)

	_, err = f.store.ServiceDays().GetIDByDate(ctx, weekStart.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, serviceDayRepo.ErrServiceDayNotFound)

	// Сегодняшний день не считается прошедшим
	assert.True(t, f.day(t, 2).IsActive)
}

func TestExecute_NormalizesWindow(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart types.TimeString
		wantEnd   types.TimeString
		wantSlots int
	}{
		{name: "rounds to nearest", start: "08:07", end: "09:53", wantStart: "08:00", wantEnd: "10:00", wantSlots: 8},
		{name: "past midpoint rounds up", start: "08:08", end: "09:08", wantStart: "08:15", wantEnd: "09:15", wantSlots: 4},
		{name: "collapsed window gets one slot", start: "08:05", end: "08:06", wantStart: "08:00", wantEnd: "08:15", wantSlots: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			resp, err := f.useCase().Execute(context.Background(), &Request{
				WeekStart: weekStart,
				Days:      []DayPlan{activeDay(3, tt.start, tt.end)},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlots, resp.SlotsGenerated)

			day := f.day(t, 3)
			assert.Equal(t, tt.wantStart, day.StartTime)
			assert.Equal(t, tt.wantEnd, day.EndTime)
		})
	}
}

func TestExecute_ConstraintsFallback(t *testing.T) {
	f := newFixture(t)

	tuesday := activeDay(1, "08:00", "09:00")
	tuesday.MaxOrders = ptr.Ptr(4)
	tuesday.MaxTime = ptr.Ptr(30)
	tuesday.Location = ptr.Ptr("Kiosk B")

	_, err := f.useCase().Execute(context.Background(), &Request{
		WeekStart: weekStart,
		Global:    GlobalConstraints{MaxOrders: 20, Location: "Lobby"},
		Days:      []DayPlan{activeDay(0, "08:00", "09:00"), tuesday},
	})
	require.NoError(t, err)

	monday := f.day(t, 0)
	assert.Equal(t, 20, monday.MaxOrders)
	assert.Equal(t, f.config.DefaultMaxTime, monday.MaxTime)
	assert.Equal(t, "Lobby", monday.Location)

	stored := f.day(t, 1)
	assert.Equal(t, 4, stored.MaxOrders)
	assert.Equal(t, 30, stored.MaxTime)
	assert.Equal(t, "Kiosk B", stored.Location)
}

func TestExecute_CapacityOutOfBounds(t *testing.T) {
	tests := []struct {
		name   string
		global int
		day    *int
	}{
		{name: "global above max", global: 500},
		{name: "override zero", day: ptr.Ptr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			plan := activeDay(0, "08:00", "09:00")
			plan.MaxOrders = tt.day

			_, err := f.useCase().Execute(context.Background(), &Request{
				WeekStart: weekStart,
				Global:    GlobalConstraints{MaxOrders: tt.global},
				Days:      []DayPlan{plan},
			})
			require.ErrorIs(t, err, ErrInvalidInput)

			_, err = f.store.ServiceDays().GetIDByDate(context.Background(), weekStart)
			assert.ErrorIs(t, err, serviceDayRepo.ErrServiceDayNotFound)
		})
	}
}

func TestExecute_InvalidRequest(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "no week start", req: &Request{}},
		{name: "date outside week", req: &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(7, "08:00", "09:00")}}},
		{name: "duplicate date", req: &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(1, "08:00", "09:00"), activeDay(1, "10:00", "11:00")}}},
		{name: "bad time", req: &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(1, "25:00", "26:00")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.useCase().Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_DeactivateDayWithoutOrdersDeletesIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(2, "08:00", "09:00")}})
	require.NoError(t, err)
	dayID := f.day(t, 2).ID

	resp, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DaysDeleted)
	assert.Equal(t, 4, resp.SlotsDeleted)

	_, err = f.store.ServiceDays().GetByID(ctx, dayID)
	assert.ErrorIs(t, err, serviceDayRepo.ErrServiceDayNotFound)
	assert.Empty(t, f.slots(t, dayID))
}

func TestExecute_DeactivateDayWithOrdersOnlyDisablesIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(2, "08:00", "09:00")}})
	require.NoError(t, err)
	day := f.day(t, 2)
	slots := f.slots(t, day.ID)
	order := f.placeOrder(t, 1, slots[1], 1)

	resp, err := f.useCase().Execute(ctx, &Request{
		WeekStart: weekStart,
		Days:      []DayPlan{{Date: day.Date, IsActive: false}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DaysDisabled)
	assert.Equal(t, 0, resp.DaysDeleted)
	assert.Equal(t, 0, resp.OrdersRejected)

	stored := f.day(t, 2)
	assert.False(t, stored.IsActive)
	assert.Len(t, f.slots(t, day.ID), 4)

	kept, err := f.store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, kept.Status)

	again, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart})
	require.NoError(t, err)
	assert.True(t, unchanged(again))
}

func TestExecute_ReactivatesDisabledDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plan := &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(2, "08:00", "09:00")}}

	_, err := f.useCase().Execute(ctx, plan)
	require.NoError(t, err)
	day := f.day(t, 2)
	f.placeOrder(t, 1, f.slots(t, day.ID)[0], 1)

	_, err = f.useCase().Execute(ctx, &Request{WeekStart: weekStart})
	require.NoError(t, err)

	resp, err := f.useCase().Execute(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DaysUpdated)
	assert.Equal(t, 0, resp.SlotsGenerated)
	assert.True(t, f.day(t, 2).IsActive)
}

func TestExecute_CapacityDecreaseRejectsByDailyNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(1, "08:00", "09:00")}})
	require.NoError(t, err)
	day := f.day(t, 1)
	require.Equal(t, 10, day.MaxOrders)
	slots := f.slots(t, day.ID)

	// Номера не совпадают с порядком вставки
	byNumber := make(map[int]*domain.Order)
	for i, number := range []int{9, 3, 7, 1, 5, 2, 8, 4, 6} {
		byNumber[number] = f.placeOrder(t, int64(i+1), slots[0], number)
	}
	// Второй слот укладывается в новую вместимость
	other := f.placeOrder(t, 100, slots[1], 10)

	plan := activeDay(1, "08:00", "09:00")
	plan.MaxOrders = ptr.Ptr(5)

	resp, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{plan}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DaysUpdated)
	assert.Equal(t, 4, resp.OrdersRejected)

	for number := 1; number <= 9; number++ {
		order, err := f.store.Orders().GetByID(ctx, byNumber[number].ID)
		require.NoError(t, err)
		if number <= 5 {
			assert.Equal(t, domain.StatusPending, order.Status, "daily_number %d", number)
		} else {
			assert.Equal(t, domain.StatusRejected, order.Status, "daily_number %d", number)
		}
	}

	kept, err := f.store.Orders().GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, kept.Status)

	again, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{plan}})
	require.NoError(t, err)
	assert.True(t, unchanged(again))
}

func TestExecute_WindowChangeRegeneratesFreeDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(4, "08:00", "09:00")}})
	require.NoError(t, err)

	resp, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(4, "10:00", "11:30")}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.DaysUpdated)
	assert.Equal(t, 4, resp.SlotsDeleted)
	assert.Equal(t, 6, resp.SlotsGenerated)

	slots := f.slots(t, f.day(t, 4).ID)
	require.Len(t, slots, 6)
	assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("11:30"), slots[5].EndTime)
}

func TestExecute_WindowChangeKeepsOccupiedPartition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(4, "08:00", "09:00")}})
	require.NoError(t, err)
	day := f.day(t, 4)
	slots := f.slots(t, day.ID)
	pending := f.placeOrder(t, 1, slots[1], 1)

	// Слот с отклоненным заказом тоже сохраняется
	rejected := f.placeOrder(t, 2, slots[2], 2)
	_, err = f.store.Orders().RejectByIDs(ctx, []int64{rejected.ID})
	require.NoError(t, err)

	plan := &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(4, "12:00", "13:00")}}
	resp, err := f.useCase().Execute(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SlotsDeleted)
	assert.Equal(t, 0, resp.SlotsGenerated)
	assert.Equal(t, 0, resp.OrdersRejected)

	left := f.slots(t, day.ID)
	require.Len(t, left, 2)
	assert.Equal(t, slots[1].ID, left[0].ID)
	assert.Equal(t, slots[2].ID, left[1].ID)

	stored := f.day(t, 4)
	assert.Equal(t, types.TimeString("12:00"), stored.StartTime)

	kept, err := f.store.Orders().GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, kept.Status)

	kept, err = f.store.Orders().GetByID(ctx, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, kept.Status)
	assert.Equal(t, 2, kept.DailyNumber)

	again, err := f.useCase().Execute(ctx, plan)
	require.NoError(t, err)
	assert.True(t, unchanged(again))
}

func TestExecute_WindowChangeKeepsRejectedOrderHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(4, "08:00", "09:00")}})
	require.NoError(t, err)
	day := f.day(t, 4)
	slots := f.slots(t, day.ID)

	rejected := f.placeOrder(t, 1, slots[2], 1)
	_, err = f.store.Orders().RejectByIDs(ctx, []int64{rejected.ID})
	require.NoError(t, err)

	resp, err := f.useCase().Execute(ctx, &Request{WeekStart: weekStart, Days: []DayPlan{activeDay(4, "12:00", "13:00")}})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.SlotsDeleted)
	assert.Equal(t, 0, resp.SlotsGenerated)

	left := f.slots(t, day.ID)
	require.Len(t, left, 1)
	assert.Equal(t, slots[2].ID, left[0].ID)

	kept, err := f.store.Orders().GetByID(ctx, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, kept.Status)
	assert.Equal(t, 1, kept.DailyNumber)
}

// failingGenerator падает на заданной дате
type failingGenerator struct {
	SlotGenerator
	failOn time.Time
}

func (g failingGenerator) Generate(ctx context.Context, day *domain.ServiceDay) (int, error) {
	if day.Date.Equal(g.failOn) {
		return 0, errors.New("connection reset")
	}
	return g.SlotGenerator.Generate(ctx, day)
}

func TestExecute_RollsBackWholeWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.generator = failingGenerator{SlotGenerator: f.generator, failOn: weekStart.AddDate(0, 0, 3)}

	_, err := f.useCase().Execute(ctx, &Request{
		WeekStart: weekStart,
		Days: []DayPlan{
			activeDay(1, "08:00", "09:00"),
			activeDay(3, "08:00", "09:00"),
		},
	})
	require.ErrorIs(t, err, ErrInternal)

	_, err = f.store.ServiceDays().GetIDByDate(ctx, weekStart.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, serviceDayRepo.ErrServiceDayNotFound)
}
