package update_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SandwichBooking/internal/api/handlers"
	"github.com/m04kA/SandwichBooking/internal/api/middleware"
	updateOrder "github.com/m04kA/SandwichBooking/internal/usecase/update_order"
)

const (
	msgInvalidOrderID     = "некорректный ID заказа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "заказ не найден"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase UpdateOrderUseCase
	logger  Logger
}

func NewHandler(useCase UpdateOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/orders/{orderId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /orders/{id} - Invalid order ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /orders/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /orders/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(orderID, userID))
	if err != nil {
		switch {
		case errors.Is(err, updateOrder.ErrInvalidInput):
			h.logger.Warn("PUT /orders/{id} - Invalid input: order_id=%d, error=%v", orderID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, updateOrder.ErrOrderNotFound):
			h.logger.Warn("PUT /orders/{id} - Order not found: order_id=%d", orderID)
			handlers.RespondNotFound(w, msgNotFound)

		case handlers.IsDomainError(err):
			h.logger.Warn("PUT /orders/{id} - Refused: order_id=%d, user_id=%d, error=%v", orderID, userID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("PUT /orders/{id} - Failed to update order: order_id=%d, error=%v", orderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /orders/{id} - Order updated successfully: order_id=%d, ingredients=%d",
		orderID, len(result.Ingredients))
	handlers.RespondJSON(w, http.StatusOK, result)
}
