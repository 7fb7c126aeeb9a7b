package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidComposition is returned when a sandwich is not made of known, available
// ingredients with exactly one bread
var ErrInvalidComposition = errors.New("invalid sandwich composition")

// Ingredient is a catalog entry; the catalog itself is managed elsewhere
type Ingredient struct {
	ID          int64
	Name        string
	Category    string
	IsAvailable bool
}

// ValidateComposition checks catalog rows returned for the requested ids
func ValidateComposition(requested []int64, found []*Ingredient) error {
	byID := make(map[int64]*Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}

	breads := 0
	for _, id := range requested {
		ing, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown ingredient id=%d", ErrInvalidComposition, id)
		}
		if !ing.IsAvailable {
			return fmt.Errorf("%w: ingredient %q is not available", ErrInvalidComposition, ing.Name)
		}
		if ing.Category == IngredientCategoryBread {
			breads++
		}
	}

	if breads != 1 {
		return fmt.Errorf("%w: exactly one bread is required, got %d", ErrInvalidComposition, breads)
	}

	return nil
}

// OrderByRequest returns catalog rows in the order the ids were requested
func OrderByRequest(requested []int64, found []*Ingredient) []*Ingredient {
	byID := make(map[int64]*Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}

	ordered := make([]*Ingredient, 0, len(requested))
	for _, id := range requested {
		if ing, ok := byID[id]; ok {
			ordered = append(ordered, ing)
		}
	}
	return ordered
}
