package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SandwichBooking/internal/domain"
	orderRepo "github.com/m04kA/SandwichBooking/internal/infra/storage/orders"
	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
)

// Service сервис для чтения заказов, смены статуса и удаления
type Service struct {
	orderRepo OrderRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса заказов
func NewService(
	orderRepo OrderRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		orderRepo: orderRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetByID получает заказ по ID
// Пользователь может видеть только свой заказ
func (s *Service) GetByID(ctx context.Context, orderID, userID int64) (*models.OrderResponse, error) {
	s.logger.Info("GetByID: fetching order id=%d for user=%d", orderID, userID)

	order, err := s.getOrder(ctx, "GetByID", orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsOwnedBy(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to order id=%d", userID, orderID)
		return nil, domain.ErrUnauthorizedOrderAccess
	}

	return models.FromDomainOrder(order), nil
}

// ChangeStatus переводит заказ в новый статус по правилам конечного автомата.
// Вместимость не перепроверяется: она ограничивает только прием новых заказов.
func (s *Service) ChangeStatus(ctx context.Context, orderID int64, req *models.ChangeStatusRequest) (*models.OrderResponse, error) {
	s.logger.Info("ChangeStatus: order id=%d, target status=%s", orderID, req.Status)

	target, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		s.logger.Warn("ChangeStatus: invalid status=%q for order id=%d", req.Status, orderID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Order
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем заказ с блокировкой строки
		order, err := s.getOrder(txCtx, "ChangeStatus", orderID)
		if err != nil {
			return err
		}

		// 2. Проверяем переход
		if err := domain.ValidateTransition(order.Status, target); err != nil {
			s.logger.Warn("ChangeStatus: order id=%d: %v", orderID, err)
			return err
		}

		// 3. Сохраняем новый статус
		if err := s.orderRepo.UpdateStatus(txCtx, orderID, target); err != nil {
			s.logger.Error("ChangeStatus: failed to update status of order id=%d: %v", orderID, err)
			return fmt.Errorf("%w: ChangeStatus - update status: %v", ErrInternal, err)
		}

		result, err = s.getOrder(txCtx, "ChangeStatus", orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ChangeStatus: order id=%d is now %s", orderID, result.Status)
	return models.FromDomainOrder(result), nil
}

// Delete физически удаляет заказ владельца, пока он в статусе pending
func (s *Service) Delete(ctx context.Context, orderID, userID int64) error {
	s.logger.Info("Delete: order id=%d by user=%d", orderID, userID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		order, err := s.getOrder(txCtx, "Delete", orderID)
		if err != nil {
			return err
		}

		if err := order.CheckOwnerAccess(userID); err != nil {
			s.logger.Warn("Delete: user=%d cannot delete order id=%d (status=%s): %v", userID, orderID, order.Status, err)
			return err
		}

		if err := s.orderRepo.Delete(txCtx, orderID); err != nil {
			s.logger.Error("Delete: failed to delete order id=%d: %v", orderID, err)
			return fmt.Errorf("%w: Delete - delete order: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: order id=%d deleted", orderID)
	return nil
}

func (s *Service) getOrder(ctx context.Context, method string, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderRepo.ErrOrderNotFound) {
			s.logger.Warn("%s: order id=%d not found", method, orderID)
			return nil, ErrOrderNotFound
		}
		s.logger.Error("%s: repository error for order id=%d: %v", method, orderID, err)
		return nil, fmt.Errorf("%w: %s - get order: %v", ErrInternal, method, err)
	}
	return order, nil
}
