package models

import (
	"time"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

// Request модели

// ChangeStatusRequest запрос на смену статуса заказа персоналом
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// IngredientResponse строка снимка ингредиента заказа
type IngredientResponse struct {
	IngredientID int64  `json:"ingredientId"`
	Name         string `json:"name"`
	Category     string `json:"category"`
}

// OrderResponse ответ с данными заказа
type OrderResponse struct {
	ID           int64                `json:"id"`
	UserID       int64                `json:"userId"`
	TimeSlotID   int64                `json:"timeSlotId"`
	ServiceDayID int64                `json:"serviceDayId"`
	Status       string               `json:"status"`
	DailyNumber  int                  `json:"dailyNumber"`
	Ingredients  []IngredientResponse `json:"ingredients"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// FromDomainOrder конвертирует domain.Order в OrderResponse
func FromDomainOrder(order *domain.Order) *OrderResponse {
	ingredients := make([]IngredientResponse, 0, len(order.Ingredients))
	for _, line := range order.Ingredients {
		ingredients = append(ingredients, IngredientResponse{
			IngredientID: line.IngredientID,
			Name:         line.Name,
			Category:     line.Category,
		})
	}

	return &OrderResponse{
		ID:           order.ID,
		UserID:       order.UserID,
		TimeSlotID:   order.TimeSlotID,
		ServiceDayID: order.ServiceDayID,
		Status:       string(order.Status),
		DailyNumber:  order.DailyNumber,
		Ingredients:  ingredients,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}
