package create_order

import (
	"errors"
	"net/http"

	"github.com/m04kA/SandwichBooking/internal/api/handlers"
	"github.com/m04kA/SandwichBooking/internal/api/middleware"
	createOrder "github.com/m04kA/SandwichBooking/internal/usecase/create_order"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgTimeSlotNotFound   = "временной слот не найден"
)

type Handler struct {
	useCase CreateOrderUseCase
	logger  Logger
}

func NewHandler(useCase CreateOrderUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /orders - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /orders - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, r.Header.Get(HeaderIdempotencyKey)))
	if err != nil {
		switch {
		case errors.Is(err, createOrder.ErrInvalidInput):
			h.logger.Warn("POST /orders - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createOrder.ErrTimeSlotNotFound):
			h.logger.Warn("POST /orders - Time slot not found: slot_id=%d", req.TimeSlotID)
			handlers.RespondNotFound(w, msgTimeSlotNotFound)

		case handlers.IsDomainError(err):
			h.logger.Warn("POST /orders - Refused: user_id=%d, slot_id=%d, error=%v", userID, req.TimeSlotID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("POST /orders - Failed to create order: user_id=%d, slot_id=%d, error=%v",
				userID, req.TimeSlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /orders - Order created successfully: order_id=%d, daily_number=%d, user_id=%d",
		result.ID, result.DailyNumber, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
