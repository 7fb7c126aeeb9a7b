package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []*Ingredient {
	return []*Ingredient{
		{ID: 1, Name: "Rye", Category: IngredientCategoryBread, IsAvailable: true},
		{ID: 2, Name: "Wheat", Category: IngredientCategoryBread, IsAvailable: true},
		{ID: 3, Name: "Cheddar", Category: "cheese", IsAvailable: true},
		{ID: 4, Name: "Truffle", Category: "extra", IsAvailable: false},
	}
}

func TestValidateComposition(t *testing.T) {
	tests := []struct {
		name      string
		requested []int64
		wantErr   bool
	}{
		{name: "bread and cheese", requested: []int64{1, 3}},
		{name: "bread only", requested: []int64{2}},
		{name: "no bread", requested: []int64{3}, wantErr: true},
		{name: "two breads", requested: []int64{1, 2, 3}, wantErr: true},
		{name: "unknown id", requested: []int64{1, 42}, wantErr: true},
		{name: "unavailable", requested: []int64{1, 4}, wantErr: true},
		{name: "empty", requested: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComposition(tt.requested, catalog())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidComposition)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderByRequest(t *testing.T) {
	ordered := OrderByRequest([]int64{3, 1}, catalog())

	require.Len(t, ordered, 2)
	assert.Equal(t, "Cheddar", ordered[0].Name)
	assert.Equal(t, "Rye", ordered[1].Name)
}

func TestSnapshotIngredients(t *testing.T) {
	lines := SnapshotIngredients(7, OrderByRequest([]int64{1, 3}, catalog()))

	require.Len(t, lines, 2)
	assert.Equal(t, OrderIngredient{OrderID: 7, IngredientID: 1, Name: "Rye", Category: IngredientCategoryBread}, lines[0])
	assert.Equal(t, int64(3), lines[1].IngredientID)
}
