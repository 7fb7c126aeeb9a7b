package create_order

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.TimeSlotID <= 0 {
		return fmt.Errorf("%w: timeSlotID must be positive", ErrInvalidInput)
	}

	if len(req.IngredientIDs) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrInvalidInput)
	}

	// Проверяем ID ингредиентов и отсутствие дублей
	seen := make(map[int64]struct{}, len(req.IngredientIDs))
	for _, id := range req.IngredientIDs {
		if id <= 0 {
			return fmt.Errorf("%w: ingredient id must be positive, got %d", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate ingredient id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}
