package change_order_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SandwichBooking/internal/api/handlers"
	"github.com/m04kA/SandwichBooking/internal/service/orders"
	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
)

const (
	msgInvalidOrderID     = "некорректный ID заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "заказ не найден"
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

// Handle PATCH /api/v1/orders/{orderId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /orders/{id}/status - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	var req models.ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /orders/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ChangeStatus(r.Context(), orderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			h.logger.Warn("PATCH /orders/{id}/status - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgNotFound)

		case handlers.IsDomainError(err):
			h.logger.Warn("PATCH /orders/{id}/status - Refused: order_id=%d, status=%s, error=%v", orderID, req.Status, err)
			handlers.RespondDomainError(w, err)

		case errors.Is(err, orders.ErrInvalidInput):
			h.logger.Warn("PATCH /orders/{id}/status - Invalid input: order_id=%d, error=%v", orderID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /orders/{id}/status - Failed to change status: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /orders/{id}/status - Status changed successfully: order_id=%d, status=%s", orderID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
