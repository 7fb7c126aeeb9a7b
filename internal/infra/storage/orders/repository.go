package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/pkg/dbmetrics"
	"github.com/m04kA/SandwichBooking/pkg/pgerr"
	"github.com/m04kA/SandwichBooking/pkg/psqlbuilder"
)

// activeOrderUniqIndex частичный уникальный индекс (user_id, time_slot_id) WHERE status <> 'rejected'
const activeOrderUniqIndex = "orders_user_slot_active_uniq"

var orderColumns = []string{
	"id",
	"user_id",
	"time_slot_id",
	"service_day_id",
	"status",
	"daily_number",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заказами и снимками их ингредиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заказ (без ингредиентов, см. ReplaceIngredients)
// Вызывается внутри транзакции бронирования после блокировки слота
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("orders").
		Columns(
			"user_id",
			"time_slot_id",
			"service_day_id",
			"status",
			"daily_number",
		).
		Values(
			order.UserID,
			order.TimeSlotID,
			order.ServiceDayID,
			order.Status,
			order.DailyNumber,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&createdAt,
		&updatedAt,
	)

	if pgerr.IsUniqueViolation(err) && pgerr.Constraint(err) == activeOrderUniqIndex {
		return nil, ErrDuplicateActiveOrder
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time

	return order, nil
}

// GetByID получает заказ вместе со снимком ингредиентов
// Внутри транзакции строка заказа блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var order domain.Order
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.TimeSlotID,
		&order.ServiceDayID,
		&order.Status,
		&order.DailyNumber,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan order: %v", ErrScanRow, err)
	}

	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time

	ingredients, err := r.GetIngredients(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Ingredients = ingredients

	return &order, nil
}

// UpdateStatus обновляет статус заказа
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("orders").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete физически удаляет заказ; ингредиенты удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("orders").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// CountActiveBySlot считает неотклоненные заказы слота (занятые места)
func (r *Repository) CountActiveBySlot(ctx context.Context, timeSlotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("orders").
		Where(squirrel.Eq{"time_slot_id": timeSlotID}).
		Where(squirrel.NotEq{"status": domain.StatusRejected}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ExistsActiveForUser проверяет, есть ли у пользователя неотклоненный заказ в слоте
func (r *Repository) ExistsActiveForUser(ctx context.Context, userID, timeSlotID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("orders").
		Where(squirrel.Eq{"user_id": userID, "time_slot_id": timeSlotID}).
		Where(squirrel.NotEq{"status": domain.StatusRejected}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveForUser - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsActiveForUser - scan exists: %v", ErrScanRow, err)
	}

	return exists, nil
}

// CountByServiceDay считает все заказы дня, включая отклоненные
func (r *Repository) CountByServiceDay(ctx context.Context, serviceDayID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("orders").
		Where(squirrel.Eq{"service_day_id": serviceDayID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByServiceDay - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByServiceDay - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ListActiveByServiceDay получает неотклоненные заказы дня без ингредиентов,
// отсортированные по слоту и порядковому номеру
func (r *Repository) ListActiveByServiceDay(ctx context.Context, serviceDayID int64) ([]*domain.Order, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"service_day_id": serviceDayID}).
		Where(squirrel.NotEq{"status": domain.StatusRejected}).
		OrderBy("time_slot_id ASC", "daily_number ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByServiceDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByServiceDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanOrders(rows)
}

// RejectByIDs переводит заказы в статус rejected
func (r *Repository) RejectByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := psqlbuilder.Update("orders").
		Set("status", domain.StatusRejected).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ANY(?)", pq.Array(ids)).
		Where(squirrel.NotEq{"status": domain.StatusRejected}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RejectByIDs - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, "RejectByIDs", query, args)
}

// ReplaceIngredients заменяет весь набор ингредиентов заказа (удалить все, вставить новые)
func (r *Repository) ReplaceIngredients(ctx context.Context, orderID int64, lines []domain.OrderIngredient) ([]domain.OrderIngredient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// 1. Удаляем старый снимок
	query, args, err := psqlbuilder.Delete("order_ingredients").
		Where(squirrel.Eq{"order_id": orderID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceIngredients - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceIngredients - execute delete: %v", ErrExecQuery, err)
	}

	if len(lines) == 0 {
		return []domain.OrderIngredient{}, nil
	}

	// 2. Вставляем новый снимок
	insertBuilder := psqlbuilder.Insert("order_ingredients").
		Columns("order_id", "ingredient_id", "name", "category")
	for _, line := range lines {
		insertBuilder = insertBuilder.Values(orderID, line.IngredientID, line.Name, line.Category)
	}

	query, args, err = insertBuilder.
		Suffix("RETURNING id, order_id, ingredient_id, name, category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceIngredients - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceIngredients - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanIngredients(rows)
}

// GetIngredients получает снимок ингредиентов заказа
func (r *Repository) GetIngredients(ctx context.Context, orderID int64) ([]domain.OrderIngredient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "order_id", "ingredient_id", "name", "category").
		From("order_ingredients").
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetIngredients - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetIngredients - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanIngredients(rows)
}

func (r *Repository) execUpdate(ctx context.Context, method, query string, args []interface{}) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	return int(rowsAffected), nil
}

// scanOrders сканирует результаты запроса в слайс заказов
func (r *Repository) scanOrders(rows *sql.Rows) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0)

	for rows.Next() {
		var order domain.Order
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.TimeSlotID,
			&order.ServiceDayID,
			&order.Status,
			&order.DailyNumber,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanOrders - scan row: %v", ErrScanRow, err)
		}

		order.CreatedAt = createdAt.Time
		order.UpdatedAt = updatedAt.Time

		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanOrders - rows error: %v", ErrScanRow, err)
	}

	return orders, nil
}

// scanIngredients сканирует строки снимка ингредиентов
func (r *Repository) scanIngredients(rows *sql.Rows) ([]domain.OrderIngredient, error) {
	lines := make([]domain.OrderIngredient, 0)

	for rows.Next() {
		var line domain.OrderIngredient
		if err := rows.Scan(&line.ID, &line.OrderID, &line.IngredientID, &line.Name, &line.Category); err != nil {
			return nil, fmt.Errorf("%w: scanIngredients - scan row: %v", ErrScanRow, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanIngredients - rows error: %v", ErrScanRow, err)
	}

	return lines, nil
}
