package servicedays

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/pkg/dbmetrics"
	"github.com/m04kA/SandwichBooking/pkg/pgerr"
	"github.com/m04kA/SandwichBooking/pkg/psqlbuilder"
)

var serviceDayColumns = []string{
	"id",
	"date",
	"is_active",
	"start_time",
	"end_time",
	"max_orders",
	"max_time",
	"location",
	"order_sequence",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с днями обслуживания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория дней обслуживания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает день обслуживания
func (r *Repository) Create(ctx context.Context, day *domain.ServiceDay) (*domain.ServiceDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_days").
		Columns(
			"date",
			"is_active",
			"start_time",
			"end_time",
			"max_orders",
			"max_time",
			"location",
		).
		Values(
			day.Date.Format(domain.DateFormat),
			day.IsActive,
			day.StartTime,
			day.EndTime,
			day.MaxOrders,
			day.MaxTime,
			day.Location,
		).
		Suffix("RETURNING id, order_sequence, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&day.ID,
		&day.OrderSequence,
		&createdAt,
		&updatedAt,
	)

	if pgerr.IsUniqueViolation(err) {
		return nil, ErrDateAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	day.CreatedAt = createdAt.Time
	day.UpdatedAt = updatedAt.Time

	return day, nil
}

// GetByID получает день обслуживания по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceDay, error) {
	selectBuilder := psqlbuilder.Select(serviceDayColumns...).
		From("service_days").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(ctx, "GetByID", query, args)
}

// GetByDate получает день обслуживания по дате
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByDate(ctx context.Context, date time.Time) (*domain.ServiceDay, error) {
	selectBuilder := psqlbuilder.Select(serviceDayColumns...).
		From("service_days").
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat)})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(ctx, "GetByDate", query, args)
}

// GetIDByDate возвращает ID дня на дату без блокировки строки.
// Реконфигурация сначала блокирует слоты дня и только потом сам день,
// в том же порядке, что и бронирование.
func (r *Repository) GetIDByDate(ctx context.Context, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("service_days").
		Where(squirrel.Eq{"date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetIDByDate - build select query: %v", ErrBuildQuery, err)
	}

	var id int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrServiceDayNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetIDByDate - scan id: %v", ErrScanRow, err)
	}

	return id, nil
}

// Update обновляет окно, вместимость, локацию и флаг активности дня
func (r *Repository) Update(ctx context.Context, day *domain.ServiceDay) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_days").
		Set("is_active", day.IsActive).
		Set("start_time", day.StartTime).
		Set("end_time", day.EndTime).
		Set("max_orders", day.MaxOrders).
		Set("max_time", day.MaxTime).
		Set("location", day.Location).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": day.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrServiceDayNotFound
	}

	return nil
}

// SetActive меняет только флаг активности дня
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_days").
		Set("is_active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetActive - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrServiceDayNotFound
	}

	return nil
}

// Delete физически удаляет день; слоты, заказы и их ингредиенты удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("service_days").
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
		return ErrServiceDayNotFound
	}

	return nil
}

// NextDailyNumber атомарно выдает следующий порядковый номер заказа за день
// UPDATE берет блокировку строки дня, поэтому создания заказов в рамках одного дня
// сериализуются даже для разных слотов. Номера никогда не переиспользуются.
func (r *Repository) NextDailyNumber(ctx context.Context, serviceDayID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_days").
		Set("order_sequence", squirrel.Expr("order_sequence + 1")).
		Where(squirrel.Eq{"id": serviceDayID}).
		Suffix("RETURNING order_sequence").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: NextDailyNumber - build update query: %v", ErrBuildQuery, err)
	}

	var number int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrServiceDayNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: NextDailyNumber - execute update: %v", ErrExecQuery, err)
	}

	return number, nil
}

// scanOne выполняет запрос и сканирует одну строку дня обслуживания
func (r *Repository) scanOne(ctx context.Context, method, query string, args []interface{}) (*domain.ServiceDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var day domain.ServiceDay
	var location sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := executor.QueryRowContext(ctx, query, args...).Scan(
		&day.ID,
		&day.Date,
		&day.IsActive,
		&day.StartTime,
		&day.EndTime,
		&day.MaxOrders,
		&day.MaxTime,
		&location,
		&day.OrderSequence,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan service day: %v", ErrScanRow, method, err)
	}

	day.Date = domain.DateOnly(day.Date)
	day.Location = location.String
	day.CreatedAt = createdAt.Time
	day.UpdatedAt = updatedAt.Time

	return &day, nil
}
