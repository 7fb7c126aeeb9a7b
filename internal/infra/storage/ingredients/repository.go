package ingredients

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/pkg/dbmetrics"
	"github.com/m04kA/SandwichBooking/pkg/psqlbuilder"
)

// Repository читает каталог ингредиентов (CRUD каталога живет в другом сервисе)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ингредиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindByIDs получает ингредиенты каталога по списку ID
// Отсутствующие ID просто не попадают в результат
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]*domain.Ingredient, error) {
	if len(ids) == 0 {
		return []*domain.Ingredient{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "category", "is_available").
		From("ingredients").
		Where("id = ANY(?)", pq.Array(ids)).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Ingredient, 0, len(ids))
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.Category, &ing.IsAvailable); err != nil {
			return nil, fmt.Errorf("%w: FindByIDs - scan row: %v", ErrScanRow, err)
		}
		result = append(result, &ing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindByIDs - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
