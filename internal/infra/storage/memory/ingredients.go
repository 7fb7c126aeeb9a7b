package memory

import (
	"context"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

// IngredientRepository каталог ингредиентов в памяти
type IngredientRepository struct {
	store *Store
}

// FindByIDs получает ингредиенты по списку ID; неизвестные ID пропускаются
func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Ingredient, error) {
	defer r.store.acquire(ctx)()
	data := r.store.data

	result := make([]*domain.Ingredient, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		ing, ok := data.ingredients[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		cp := *ing
		result = append(result, &cp)
	}

	return result, nil
}

// Upsert добавляет или обновляет ингредиент каталога.
// Используется для наполнения каталога при старте и в тестах.
func (r *IngredientRepository) Upsert(ctx context.Context, ing *domain.Ingredient) *domain.Ingredient {
	defer r.store.acquire(ctx)()
	data := r.store.data

	if ing.ID == 0 {
		data.ingredientSeq++
		ing.ID = data.ingredientSeq
	} else if ing.ID > data.ingredientSeq {
		data.ingredientSeq = ing.ID
	}

	cp := *ing
	data.ingredients[ing.ID] = &cp

	return ing
}
