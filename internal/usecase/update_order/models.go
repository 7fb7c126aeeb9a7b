package update_order

// Request модель запроса на замену ингредиентов заказа
type Request struct {
	OrderID       int64   // ID заказа
	UserID        int64   // ID пользователя, выполняющего изменение
	IngredientIDs []int64 // Новый полный набор ингредиентов
}
