package save_week_configuration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SandwichBooking/internal/domain"
	serviceDayRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/servicedays"
	"github.com/m04kA/SandwichBooking/pkg/ptr"
	"github.com/m04kA/SandwichBooking/pkg/types"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// UseCase use case для сохранения конфигурации недели
type UseCase struct {
	dayRepo      ServiceDayRepository
	slotRepo     TimeSlotRepository
	orderRepo    OrderRepository
	generator    SlotGenerator
	txManager    TransactionManager
	config       *domain.BookingConfig
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	dayRepo ServiceDayRepository,
	slotRepo TimeSlotRepository,
	orderRepo OrderRepository,
	generator SlotGenerator,
	txManager TransactionManager,
	config *domain.BookingConfig,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		dayRepo:      dayRepo,
		slotRepo:     slotRepo,
		orderRepo:    orderRepo,
		generator:    generator,
		txManager:    txManager,
		config:       config,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// dayTarget итоговое состояние дня после применения плана
type dayTarget struct {
	date      time.Time
	active    bool
	startTime types.TimeString
	endTime   types.TimeString
	maxOrders int
	maxTime   int
	location  string
}

// Execute применяет план недели в одной транзакции.
// Прошедшие дни пропускаются; неделя, целиком лежащая в прошлом, отклоняется до записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SaveWeekConfiguration: week starting %s, %d day plans",
		req.WeekStart.Format(domain.DateFormat), len(req.Days))

	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.WeekConfigured(outcomeError)
		return nil, err
	}

	uc.metrics.WeekConfigured(outcomeOK)
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SaveWeekConfiguration: validation failed: %v", err)
		return nil, err
	}

	plan := toWeekPlan(req)
	dates := plan.WeekDates()
	now := uc.timeProvider.Now()

	// 2. Неделя целиком в прошлом
	if domain.IsDateBefore(dates[len(dates)-1], now) {
		uc.logger.Warn("SaveWeekConfiguration: week %s is in the past", dates[0].Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: week %s ends before %s", domain.ErrWeekInPast,
			dates[0].Format(domain.DateFormat), now.Format(domain.DateFormat))
	}

	// 3. Считаем итоговое состояние каждого дня до любой записи
	report := domain.WeekReport{}
	targets := make([]*dayTarget, 0, len(dates))
	for _, date := range dates {
		if domain.IsDateBefore(date, now) {
			report.DaysSkipped++
			continue
		}
		target, err := uc.resolve(&plan, date)
		if err != nil {
			uc.logger.Warn("SaveWeekConfiguration: %v", err)
			return nil, err
		}
		targets = append(targets, target)
	}

	// 4. Применяем план в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		applied := domain.WeekReport{DaysSkipped: report.DaysSkipped}
		for _, target := range targets {
			var err error
			if target.active {
				err = uc.applyActive(txCtx, target, &applied)
			} else {
				err = uc.applyInactive(txCtx, target.date, &applied)
			}
			if err != nil {
				return err
			}
		}
		report = applied
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrdersRejected(report.OrdersRejected)
	uc.logger.Info("SaveWeekConfiguration: week %s applied: created=%d updated=%d disabled=%d deleted=%d skipped=%d slots +%d/-%d rejected=%d",
		dates[0].Format(domain.DateFormat), report.DaysCreated, report.DaysUpdated, report.DaysDisabled,
		report.DaysDeleted, report.DaysSkipped, report.SlotsGenerated, report.SlotsDeleted, report.OrdersRejected)

	return toResponse(dates[0], &report), nil
}

// resolve вычисляет окно, вместимость и локацию дня с учетом глобальных ограничений и конфигурации
func (uc *UseCase) resolve(plan *domain.WeekPlan, date time.Time) (*dayTarget, error) {
	dayPlan := plan.PlanFor(date)
	target := &dayTarget{date: date, active: dayPlan.IsActive}
	if !target.active {
		return target, nil
	}

	start, end := dayPlan.StartTime, dayPlan.EndTime
	if start.IsZero() {
		start = uc.config.DefaultStartTime
	}
	if end.IsZero() {
		end = uc.config.DefaultEndTime
	}

	var err error
	target.startTime, target.endTime, err = domain.NormalizeWindow(start, end, uc.config.SlotDurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s window %s-%s: %v", ErrInvalidInput, date.Format(domain.DateFormat), start, end, err)
	}

	target.maxOrders = uc.config.DefaultMaxOrders
	if plan.Global.MaxOrders > 0 {
		target.maxOrders = plan.Global.MaxOrders
	}
	target.maxOrders = ptr.Deref(dayPlan.MaxOrders, target.maxOrders)
	if !uc.config.CapacityInBounds(target.maxOrders) {
		return nil, fmt.Errorf("%w: %s maxOrders must be between %d and %d, got %d", ErrInvalidInput,
			date.Format(domain.DateFormat), uc.config.MinOrdersPerSlot, uc.config.MaxOrdersPerSlot, target.maxOrders)
	}

	target.maxTime = uc.config.DefaultMaxTime
	if plan.Global.MaxTime > 0 {
		target.maxTime = plan.Global.MaxTime
	}
	target.maxTime = ptr.Deref(dayPlan.MaxTime, target.maxTime)

	target.location = uc.config.DefaultLocation
	if plan.Global.Location != "" {
		target.location = plan.Global.Location
	}
	target.location = ptr.Deref(dayPlan.Location, target.location)

	return target, nil
}

// applyActive создает или обновляет активный день
func (uc *UseCase) applyActive(ctx context.Context, target *dayTarget, report *domain.WeekReport) error {
	dateStr := target.date.Format(domain.DateFormat)

	id, err := uc.dayRepo.GetIDByDate(ctx, target.date)
	if errors.Is(err, serviceDayRepo.ErrServiceDayNotFound) {
		return uc.createDay(ctx, target, report)
	}
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to find day %s: %v", dateStr, err)
		return fmt.Errorf("%w: failed to find day %s: %v", ErrInternal, dateStr, err)
	}

	// 1. Блокируем слоты, затем сам день (тот же порядок, что и при бронировании)
	if _, err := uc.slotRepo.ListByServiceDay(ctx, id); err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to lock slots of day id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to lock slots: %v", ErrInternal, err)
	}
	day, err := uc.dayRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to lock day id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to lock day: %v", ErrInternal, err)
	}

	// 2. Обновляем день только при реальных изменениях
	windowChanged := !day.WindowEquals(target.startTime, target.endTime)
	capacityDecreased := target.maxOrders < day.MaxOrders
	changed := windowChanged ||
		!day.IsActive ||
		day.MaxOrders != target.maxOrders ||
		day.MaxTime != target.maxTime ||
		day.Location != target.location

	if changed {
		day.IsActive = true
		day.StartTime = target.startTime
		day.EndTime = target.endTime
		day.MaxOrders = target.maxOrders
		day.MaxTime = target.maxTime
		day.Location = target.location

		if err := uc.dayRepo.Update(ctx, day); err != nil {
			uc.logger.Error("SaveWeekConfiguration: failed to update day id=%d: %v", day.ID, err)
			return fmt.Errorf("%w: failed to update day: %v", ErrInternal, err)
		}
		report.DaysUpdated++
	}

	// 3. Вместимость уменьшилась: отклоняем заказы сверх лимита
	if capacityDecreased {
		if err := uc.cascade(ctx, day, report); err != nil {
			return err
		}
	}

	// 4. Окно изменилось: пересобираем свободные слоты
	if windowChanged {
		return uc.regenerate(ctx, day, report)
	}

	created, err := uc.generate(ctx, day)
	if err != nil {
		return err
	}
	report.SlotsGenerated += created

	return nil
}

func (uc *UseCase) createDay(ctx context.Context, target *dayTarget, report *domain.WeekReport) error {
	day, err := uc.dayRepo.Create(ctx, &domain.ServiceDay{
		Date:      target.date,
		IsActive:  true,
		StartTime: target.startTime,
		EndTime:   target.endTime,
		MaxOrders: target.maxOrders,
		MaxTime:   target.maxTime,
		Location:  target.location,
	})
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to create day %s: %v", target.date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: failed to create day: %v", ErrInternal, err)
	}
	report.DaysCreated++

	created, err := uc.generate(ctx, day)
	if err != nil {
		return err
	}
	report.SlotsGenerated += created

	uc.logger.Info("SaveWeekConfiguration: created day id=%d (%s) with %d slots",
		day.ID, target.date.Format(domain.DateFormat), created)
	return nil
}

// cascade отклоняет в каждом слоте дня заказы сверх новой вместимости в порядке daily_number
func (uc *UseCase) cascade(ctx context.Context, day *domain.ServiceDay, report *domain.WeekReport) error {
	orders, err := uc.orderRepo.ListActiveByServiceDay(ctx, day.ID)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to list orders of day id=%d: %v", day.ID, err)
		return fmt.Errorf("%w: failed to list orders: %v", ErrInternal, err)
	}

	var ids []int64
	for _, group := range domain.GroupBySlot(orders) {
		for _, o := range domain.SelectOverflow(group, day.MaxOrders) {
			ids = append(ids, o.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rejected, err := uc.orderRepo.RejectByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to reject orders of day id=%d: %v", day.ID, err)
		return fmt.Errorf("%w: failed to reject orders: %v", ErrInternal, err)
	}
	report.OrdersRejected += rejected

	uc.logger.Info("SaveWeekConfiguration: day id=%d capacity is now %d, rejected %d orders",
		day.ID, day.MaxOrders, rejected)
	return nil
}

// regenerate удаляет слоты без заказов; если остались слоты с заказами (включая отклоненные),
// старое разбиение сохраняется
func (uc *UseCase) regenerate(ctx context.Context, day *domain.ServiceDay, report *domain.WeekReport) error {
	ids, err := uc.slotRepo.ListUnoccupiedIDs(ctx, day.ID)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to list free slots of day id=%d: %v", day.ID, err)
		return fmt.Errorf("%w: failed to list free slots: %v", ErrInternal, err)
	}

	if len(ids) > 0 {
		deleted, err := uc.slotRepo.DeleteByIDs(ctx, ids)
		if err != nil {
			uc.logger.Error("SaveWeekConfiguration: failed to delete slots of day id=%d: %v", day.ID, err)
			return fmt.Errorf("%w: failed to delete slots: %v", ErrInternal, err)
		}
		report.SlotsDeleted += deleted
	}

	remaining, err := uc.slotRepo.CountByServiceDay(ctx, day.ID)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to count slots of day id=%d: %v", day.ID, err)
		return fmt.Errorf("%w: failed to count slots: %v", ErrInternal, err)
	}
	if remaining > 0 {
		uc.logger.Warn("SaveWeekConfiguration: day id=%d keeps %d slots with orders, regeneration skipped",
			day.ID, remaining)
		return nil
	}

	created, err := uc.generate(ctx, day)
	if err != nil {
		return err
	}
	report.SlotsGenerated += created

	return nil
}

// applyInactive выключает день с заказами или удаляет день без заказов
func (uc *UseCase) applyInactive(ctx context.Context, date time.Time, report *domain.WeekReport) error {
	dateStr := date.Format(domain.DateFormat)

	id, err := uc.dayRepo.GetIDByDate(ctx, date)
	if errors.Is(err, serviceDayRepo.ErrServiceDayNotFound) {
		return nil
	}
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to find day %s: %v", dateStr, err)
		return fmt.Errorf("%w: failed to find day %s: %v", ErrInternal, dateStr, err)
	}

	slots, err := uc.slotRepo.ListByServiceDay(ctx, id)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to lock slots of day id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to lock slots: %v", ErrInternal, err)
	}
	day, err := uc.dayRepo.GetByID(ctx, id)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to lock day id=%d: %v", id, err)
		return fmt.Errorf("%w: failed to lock day: %v", ErrInternal, err)
	}

	orders, err := uc.orderRepo.CountByServiceDay(ctx, day.ID)
	if err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to count orders of day id=%d: %v", day.ID, err)
		return fmt.Errorf("%w: failed to count orders: %v", ErrInternal, err)
	}

	// История заказов сохраняется: день с заказами только выключается
	if orders > 0 {
		if !day.IsActive {
			return nil
		}
		if err := uc.dayRepo.SetActive(ctx, day.ID, false); err != nil {
			uc.logger.Error("SaveWeekConfiguration: failed to disable day id=%d: %v", day.ID, err)
			return fmt.Errorf("%w: failed to disable day: %v", ErrInternal, err)
		}
		report.DaysDisabled++
		uc.logger.Info("SaveWeekConfiguration: day id=%d (%s) disabled, %d orders kept", day.ID, dateStr, orders)
		return nil
	}

	if err := uc.dayRepo.Delete(ctx, day.ID); err != nil {
		uc.logger.Error("SaveWeekConfiguration: failed to delete day id=%d: %v", day.ID, err)
		return fmt.Errorf("%w: failed to delete day: %v", ErrInternal, err)
	}
	report.DaysDeleted++
	report.SlotsDeleted += len(slots)

	uc.logger.Info("SaveWeekConfiguration: day id=%d (%s) deleted with %d slots", day.ID, dateStr, len(slots))
	return nil
}

func (uc *UseCase) generate(ctx context.Context, day *domain.ServiceDay) (int, error) {
	created, err := uc.generator.Generate(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to generate slots of day id=%d: %v", ErrInternal, day.ID, err)
	}
	return created, nil
}

func toWeekPlan(req *Request) domain.WeekPlan {
	days := make([]domain.DayPlan, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, domain.DayPlan{
			Date:      domain.DateOnly(d.Date),
			IsActive:  d.IsActive,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			MaxOrders: d.MaxOrders,
			MaxTime:   d.MaxTime,
			Location:  d.Location,
		})
	}

	return domain.WeekPlan{
		WeekStart: domain.DateOnly(req.WeekStart),
		Global: domain.GlobalConstraints{
			MaxOrders: req.Global.MaxOrders,
			MaxTime:   req.Global.MaxTime,
			Location:  req.Global.Location,
		},
		Days: days,
	}
}

func toResponse(weekStart time.Time, report *domain.WeekReport) *Response {
	return &Response{
		WeekStart:      weekStart,
		DaysCreated:    report.DaysCreated,
		DaysUpdated:    report.DaysUpdated,
		DaysDisabled:   report.DaysDisabled,
		DaysDeleted:    report.DaysDeleted,
		DaysSkipped:    report.DaysSkipped,
		SlotsGenerated: report.SlotsGenerated,
		SlotsDeleted:   report.SlotsDeleted,
		OrdersRejected: report.OrdersRejected,
	}
}
