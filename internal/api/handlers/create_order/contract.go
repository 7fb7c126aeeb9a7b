package create_order

import (
	"context"

	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
	createOrder "github.com/m04kA/SandwichBooking/internal/usecase/create_order"
)

type CreateOrderUseCase interface {
	Execute(ctx context.Context, req *createOrder.Request) (*models.OrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
