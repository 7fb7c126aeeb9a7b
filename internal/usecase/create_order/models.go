package create_order

// Request модель запроса на создание заказа
type Request struct {
	UserID         int64   // ID пользователя
	TimeSlotID     int64   // ID слота
	IngredientIDs  []int64 // ID ингредиентов из каталога
	IdempotencyKey string  // Заголовок Idempotency-Key (опционально)
}
