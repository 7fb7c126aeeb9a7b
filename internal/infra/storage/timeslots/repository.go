package timeslots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/pkg/dbmetrics"
	"github.com/m04kA/SandwichBooking/pkg/psqlbuilder"
)

// Repository репозиторий для работы с временными слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch создает слоты дня одним INSERT и возвращает количество созданных строк
func (r *Repository) CreateBatch(ctx context.Context, serviceDayID int64, windows []domain.SlotWindow) (int, error) {
	if len(windows) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("time_slots").
		Columns("service_day_id", "start_time", "end_time")
	for _, w := range windows {
		insertBuilder = insertBuilder.Values(serviceDayID, w.Start, w.End)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CreateBatch - get rows affected: %v", ErrExecQuery, err)
	}

	return int(rowsAffected), nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE): конкурентные бронирования
// одного слота ждут, пока первая транзакция не завершится
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "service_day_id", "start_time", "end_time", "created_at").
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.TimeSlot
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.ServiceDayID,
		&slot.StartTime,
		&slot.EndTime,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTimeSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan time slot: %v", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time

	return &slot, nil
}

// ListByServiceDay получает слоты дня, отсортированные по времени начала
// Внутри транзакции слоты блокируются в том же порядке, что и при бронировании
func (r *Repository) ListByServiceDay(ctx context.Context, serviceDayID int64) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "service_day_id", "start_time", "end_time", "created_at").
		From("time_slots").
		Where(squirrel.Eq{"service_day_id": serviceDayID}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByServiceDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		var slot domain.TimeSlot
		var createdAt sql.NullTime

		if err := rows.Scan(&slot.ID, &slot.ServiceDayID, &slot.StartTime, &slot.EndTime, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByServiceDay - scan row: %v", ErrScanRow, err)
		}
		slot.CreatedAt = createdAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByServiceDay - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// CountByServiceDay возвращает количество слотов дня
func (r *Repository) CountByServiceDay(ctx context.Context, serviceDayID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("time_slots").
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

// ListUnoccupiedIDs возвращает слоты дня без заказов в любом статусе
func (r *Repository) ListUnoccupiedIDs(ctx context.Context, serviceDayID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("ts.id").
		From("time_slots ts").
		Where(squirrel.Eq{"ts.service_day_id": serviceDayID}).
		Where("NOT EXISTS (SELECT 1 FROM orders o WHERE o.time_slot_id = ts.id)").
		OrderBy("ts.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListUnoccupiedIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUnoccupiedIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListUnoccupiedIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUnoccupiedIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// DeleteByIDs удаляет слоты; заказы на них удаляются каскадно
func (r *Repository) DeleteByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where("id = ANY(?)", pq.Array(ids)).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execDelete(ctx, executor, "DeleteByIDs", query, args)
}

// DeleteByServiceDay удаляет все слоты дня
func (r *Repository) DeleteByServiceDay(ctx context.Context, serviceDayID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"service_day_id": serviceDayID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByServiceDay - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execDelete(ctx, executor, "DeleteByServiceDay", query, args)
}

func (r *Repository) execDelete(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) (int, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	return int(rowsAffected), nil
}
