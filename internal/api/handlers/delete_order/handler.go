package delete_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SandwichBooking/internal/api/handlers"
	"github.com/m04kA/SandwichBooking/internal/api/middleware"
	"github.com/m04kA/SandwichBooking/internal/service/orders"
)

const (
	msgInvalidOrderID = "некорректный ID заказа"
	msgNotFound       = "заказ не найден"
	msgMissingUserID  = "отсутствует ID пользователя"
)

type Handler struct {
	service OrderService
	logger  Logger
}

func NewHandler(service OrderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/orders/{orderId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /orders/{id} - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /orders/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), orderID, userID); err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("DELETE /orders/{id} - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgNotFound)

		case handlers.IsDomainError(err):
			h.logger.Warn("DELETE /orders/{id} - Refused: order_id=%d, user_id=%d, error=%v", orderID, userID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("DELETE /orders/{id} - Failed to delete order: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /orders/{id} - Order deleted successfully: order_id=%d, user_id=%d", orderID, userID)
	handlers.RespondNoContent(w)
}
