package update_order

import (
	updateOrder "github.com/m04kA/SandwichBooking/internal/usecase/update_order"
)

// UpdateOrderRequest HTTP request model: новый полный набор ингредиентов
type UpdateOrderRequest struct {
	IngredientIDs []int64 `json:"ingredientIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateOrderRequest) ToUseCaseRequest(orderID, userID int64) *updateOrder.Request {
	return &updateOrder.Request{
		OrderID:       orderID,
		UserID:        userID,
		IngredientIDs: r.IngredientIDs,
	}
}
