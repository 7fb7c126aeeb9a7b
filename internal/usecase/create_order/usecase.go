package create_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/infra/cache/idempotency"
	orderRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/orders"
	serviceDayRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/servicedays"
	timeSlotRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/timeslots"
	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
)

// UseCase use case для создания заказа
type UseCase struct {
	slotRepo    TimeSlotRepository
	dayRepo     ServiceDayRepository
	orderRepo   OrderRepository
	catalog     IngredientCatalog
	idempotency IdempotencyStore
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo TimeSlotRepository,
	dayRepo ServiceDayRepository,
	orderRepo OrderRepository,
	catalog IngredientCatalog,
	idempotencyStore IdempotencyStore,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		dayRepo:     dayRepo,
		orderRepo:   orderRepo,
		catalog:     catalog,
		idempotency: idempotencyStore,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания заказа
// Слот блокируется (SELECT ... FOR UPDATE) на все время проверки вместимости и записи,
// поэтому конкурентные бронирования одного слота выполняются строго по очереди
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.OrderResponse, error) {
	uc.logger.Info("CreateOrder: user=%d, slot=%d, ingredients=%v", req.UserID, req.TimeSlotID, req.IngredientIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateOrder: validation failed: %v", err)
		return nil, err
	}

	// 2. Резервируем ключ идемпотентности (если передан)
	keyHeld := false
	if req.IdempotencyKey != "" {
		replay, held, err := uc.reserveKey(ctx, req.UserID, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if replay != nil {
			return replay, nil
		}
		keyHeld = held
	}

	// 3. Транзакция бронирования
	order, err := uc.book(ctx, req)
	if err != nil {
		if keyHeld {
			uc.releaseKey(ctx, req.UserID, req.IdempotencyKey)
		}
		return nil, err
	}

	// 4. Привязываем ключ к заказу
	if keyHeld {
		if err := uc.idempotency.Bind(ctx, req.UserID, req.IdempotencyKey, order.ID); err != nil {
			// Без привязки резерв снимается сразу
			uc.logger.Warn("CreateOrder: failed to bind idempotency key for order id=%d: %v", order.ID, err)
			uc.releaseKey(ctx, req.UserID, req.IdempotencyKey)
		}
	}

	uc.metrics.OrderCreated()
	uc.logger.Info("CreateOrder: created order id=%d, daily_number=%d, slot=%d, day=%d",
		order.ID, order.DailyNumber, order.TimeSlotID, order.ServiceDayID)

	return models.FromDomainOrder(order), nil
}

func (uc *UseCase) book(ctx context.Context, req *Request) (*domain.Order, error) {
	var result *domain.Order

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем слот
		slot, err := uc.slotRepo.GetByID(txCtx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, timeSlotRepo.ErrTimeSlotNotFound) {
				uc.logger.Warn("CreateOrder: time slot id=%d not found", req.TimeSlotID)
				return ErrTimeSlotNotFound
			}
			uc.logger.Error("CreateOrder: failed to lock time slot id=%d: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: failed to lock time slot: %v", ErrInternal, err)
		}

		// 3.2. Загружаем день и его вместимость
		day, err := uc.dayRepo.GetByID(txCtx, slot.ServiceDayID)
		if err != nil {
			if errors.Is(err, serviceDayRepo.ErrServiceDayNotFound) {
				uc.logger.Error("CreateOrder: slot id=%d points to missing service day id=%d", slot.ID, slot.ServiceDayID)
				return fmt.Errorf("%w: service day id=%d of slot id=%d is missing", domain.ErrConfiguration, slot.ServiceDayID, slot.ID)
			}
			uc.logger.Error("CreateOrder: failed to get service day id=%d: %v", slot.ServiceDayID, err)
			return fmt.Errorf("%w: failed to get service day: %v", ErrInternal, err)
		}

		if !day.HasCapacity() {
			uc.logger.Error("CreateOrder: service day id=%d has no max_orders configured", day.ID)
			return fmt.Errorf("%w: service day id=%d has max_orders=%d", domain.ErrConfiguration, day.ID, day.MaxOrders)
		}

		if !day.IsActive {
			uc.logger.Warn("CreateOrder: service day id=%d (%s) is inactive", day.ID, day.Date.Format(domain.DateFormat))
			return domain.ErrServiceDayInactive
		}

		// 3.3. Снимок ингредиентов каталога на текущий момент
		found, err := uc.catalog.FindByIDs(txCtx, req.IngredientIDs)
		if err != nil {
			uc.logger.Error("CreateOrder: failed to load ingredients: %v", err)
			return fmt.Errorf("%w: failed to load ingredients: %v", ErrInternal, err)
		}
		if err := domain.ValidateComposition(req.IngredientIDs, found); err != nil {
			uc.logger.Warn("CreateOrder: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 3.4. Один неотклоненный заказ пользователя на слот
		exists, err := uc.orderRepo.ExistsActiveForUser(txCtx, req.UserID, slot.ID)
		if err != nil {
			uc.logger.Error("CreateOrder: failed to check duplicates: %v", err)
			return fmt.Errorf("%w: failed to check duplicates: %v", ErrInternal, err)
		}
		if exists {
			uc.logger.Warn("CreateOrder: user=%d already has an active order in slot id=%d", req.UserID, slot.ID)
			return domain.ErrDuplicateOrder
		}

		// 3.5. Проверяем вместимость
		active, err := uc.orderRepo.CountActiveBySlot(txCtx, slot.ID)
		if err != nil {
			uc.logger.Error("CreateOrder: failed to count orders of slot id=%d: %v", slot.ID, err)
			return fmt.Errorf("%w: failed to count orders: %v", ErrInternal, err)
		}

		admitted, err := domain.CanAdmit(active, day.MaxOrders)
		if err != nil {
			uc.logger.Error("CreateOrder: %v", err)
			return err
		}
		if !admitted {
			uc.metrics.SlotFull()
			uc.logger.Warn("CreateOrder: slot id=%d is full, %d/%d seats taken", slot.ID, active, day.MaxOrders)
			return domain.ErrSlotFull
		}

		// 3.6. Выдаем порядковый номер дня
		dailyNumber, err := uc.dayRepo.NextDailyNumber(txCtx, day.ID)
		if err != nil {
			uc.logger.Error("CreateOrder: failed to allocate daily number for day id=%d: %v", day.ID, err)
			return fmt.Errorf("%w: failed to allocate daily number: %v", ErrInternal, err)
		}

		// 3.7. Создаем заказ
		order, err := uc.orderRepo.Create(txCtx, &domain.Order{
			UserID:       req.UserID,
			TimeSlotID:   slot.ID,
			ServiceDayID: day.ID,
			Status:       domain.StatusPending,
			DailyNumber:  dailyNumber,
		})
		if err != nil {
			if errors.Is(err, orderRepo.ErrDuplicateActiveOrder) {
				uc.logger.Warn("CreateOrder: user=%d already has an active order in slot id=%d", req.UserID, slot.ID)
				return domain.ErrDuplicateOrder
			}
			uc.logger.Error("CreateOrder: failed to create order: %v", err)
			return fmt.Errorf("%w: failed to create order: %v", ErrInternal, err)
		}

		// 3.8. Сохраняем снимок ингредиентов
		lines := domain.SnapshotIngredients(order.ID, domain.OrderByRequest(req.IngredientIDs, found))
		order.Ingredients, err = uc.orderRepo.ReplaceIngredients(txCtx, order.ID, lines)
		if err != nil {
			uc.logger.Error("CreateOrder: failed to save ingredients of order id=%d: %v", order.ID, err)
			return fmt.Errorf("%w: failed to save ingredients: %v", ErrInternal, err)
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// reserveKey резервирует ключ идемпотентности.
// При повторе запроса возвращает уже созданный заказ. held=false означает, что
// хранилище недоступно и бронирование идет без ключа (уникальный индекс в БД остается защитой).
func (uc *UseCase) reserveKey(ctx context.Context, userID int64, key string) (*models.OrderResponse, bool, error) {
	orderID, reserved, err := uc.idempotency.Reserve(ctx, userID, key)
	if err != nil {
		if errors.Is(err, idempotency.ErrInProgress) {
			uc.logger.Warn("CreateOrder: request with key=%s of user=%d is in progress", key, userID)
			return nil, false, fmt.Errorf("%w: request with the same idempotency key is in progress", domain.ErrDuplicateOrder)
		}
		uc.logger.Warn("CreateOrder: idempotency store unavailable, continuing without it: %v", err)
		return nil, false, nil
	}
	if reserved {
		return nil, true, nil
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			// заказ успели удалить, ключ больше ни к чему не привязан
			uc.logger.Warn("CreateOrder: order id=%d of key=%s no longer exists", orderID, key)
			return nil, false, fmt.Errorf("%w: idempotency key refers to a deleted order", ErrInvalidInput)
		}
		uc.logger.Error("CreateOrder: failed to load order id=%d for replay: %v", orderID, err)
		return nil, false, fmt.Errorf("%w: failed to load replayed order: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateOrder: replaying order id=%d for key=%s", order.ID, key)
	return models.FromDomainOrder(order), false, nil
}

func (uc *UseCase) releaseKey(ctx context.Context, userID int64, key string) {
	if err := uc.idempotency.Release(ctx, userID, key); err != nil {
		uc.logger.Warn("CreateOrder: failed to release idempotency key=%s: %v", key, err)
	}
}
