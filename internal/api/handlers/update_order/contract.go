package update_order

import (
	"context"

	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
	updateOrder "github.com/m04kA/SandwichBooking/internal/usecase/update_order"
)

type UpdateOrderUseCase interface {
	Execute(ctx context.Context, req *updateOrder.Request) (*models.OrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
