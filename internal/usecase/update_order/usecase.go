package update_order

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SandwichBooking/internal/domain"
	orderRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/orders"
	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
)

// UseCase use case для замены ингредиентов заказа
type UseCase struct {
	orderRepo OrderRepository
	catalog   IngredientCatalog
	txManager TransactionManager
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	orderRepo OrderRepository,
	catalog IngredientCatalog,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		orderRepo: orderRepo,
		catalog:   catalog,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute заменяет весь снимок ингредиентов заказа в одной транзакции.
// Слот и порядковый номер заказа не меняются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.OrderResponse, error) {
	uc.logger.Info("UpdateOrder: order id=%d, user=%d, ingredients=%v", req.OrderID, req.UserID, req.IngredientIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateOrder: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Order

	// 2. Транзакция замены
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем заказ
		order, err := uc.orderRepo.GetByID(txCtx, req.OrderID)
		if err != nil {
			if errors.Is(err, orderRepo.ErrOrderNotFound) {
				uc.logger.Warn("UpdateOrder: order id=%d not found", req.OrderID)
				return ErrOrderNotFound
			}
			uc.logger.Error("UpdateOrder: failed to get order id=%d: %v", req.OrderID, err)
			return fmt.Errorf("%w: failed to get order: %v", ErrInternal, err)
		}

		// 2.2. Владелец и статус pending
		if err := order.CheckOwnerAccess(req.UserID); err != nil {
			uc.logger.Warn("UpdateOrder: user=%d cannot modify order id=%d (status=%s): %v",
				req.UserID, order.ID, order.Status, err)
			return err
		}

		// 2.3. Загружаем ингредиенты каталога
		found, err := uc.catalog.FindByIDs(txCtx, req.IngredientIDs)
		if err != nil {
			uc.logger.Error("UpdateOrder: failed to load ingredients: %v", err)
			return fmt.Errorf("%w: failed to load ingredients: %v", ErrInternal, err)
		}
		if err := domain.ValidateComposition(req.IngredientIDs, found); err != nil {
			uc.logger.Warn("UpdateOrder: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 2.4. Удаляем старый снимок и записываем новый
		lines := domain.SnapshotIngredients(order.ID, domain.OrderByRequest(req.IngredientIDs, found))
		order.Ingredients, err = uc.orderRepo.ReplaceIngredients(txCtx, order.ID, lines)
		if err != nil {
			uc.logger.Error("UpdateOrder: failed to replace ingredients of order id=%d: %v", order.ID, err)
			return fmt.Errorf("%w: failed to replace ingredients: %v", ErrInternal, err)
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateOrder: order id=%d now has %d ingredients", result.ID, len(result.Ingredients))
	return models.FromDomainOrder(result), nil
}
