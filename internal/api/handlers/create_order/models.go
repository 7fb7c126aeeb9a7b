package create_order

import (
	createOrder "github.com/m04kA/SandwichBooking/internal/usecase/create_order"
)

// HeaderIdempotencyKey необязательный ключ идемпотентности создания заказа
const HeaderIdempotencyKey = "Idempotency-Key"

// CreateOrderRequest HTTP request model
type CreateOrderRequest struct {
	TimeSlotID    int64   `json:"timeSlotId"`
	IngredientIDs []int64 `json:"ingredientIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateOrderRequest) ToUseCaseRequest(userID int64, idempotencyKey string) *createOrder.Request {
	return &createOrder.Request{
		UserID:         userID,
		TimeSlotID:     r.TimeSlotID,
		IngredientIDs:  r.IngredientIDs,
		IdempotencyKey: idempotencyKey,
	}
}
