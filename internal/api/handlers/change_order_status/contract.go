package change_order_status

import (
	"context"

	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
)

type OrderService interface {
	ChangeStatus(ctx context.Context, orderID int64, req *models.ChangeStatusRequest) (*models.OrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
