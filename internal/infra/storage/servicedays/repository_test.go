package servicedays

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/pkg/dbmetrics"
	"github.com/m04kA/SandwichBooking/pkg/txmanager"
	"github.com/m04kA/SandwichBooking/pkg/types"
)

func newTestRepository(t *testing.T) (*Repository, *txmanager.Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), txmanager.NewTransactionManager(wrapped), mock
}

func serviceDayRows(id int64, date time.Time) *sqlmock.Rows {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(serviceDayColumns).
		AddRow(id, date, true, "08:00:00", "18:00:00", 10, 1440, "Main hall", 3, now, now)
}

func TestGetByID_LocksRowInsideTransaction(t *testing.T) {
	repo, tm, mock := newTestRepository(t)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM service_days WHERE id = $1 FOR UPDATE") + "$").
		WithArgs(int64(4)).
		WillReturnRows(serviceDayRows(4, date))
	mock.ExpectCommit()

	var day *domain.ServiceDay
	err := tm.Do(context.Background(), func(ctx context.Context) error {
		var err error
		day, err = repo.GetByID(ctx, 4)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), day.ID)
	assert.Equal(t, date, day.Date)
	assert.Equal(t, types.TimeString("08:00"), day.StartTime)
	assert.Equal(t, types.TimeString("18:00"), day.EndTime)
	assert.Equal(t, 3, day.OrderSequence)
	assert.Equal(t, "Main hall", day.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NoLockOutsideTransaction(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM service_days WHERE id = $1") + "$").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(serviceDayColumns))

	_, err := repo.GetByID(context.Background(), 4)

	assert.ErrorIs(t, err, ErrServiceDayNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetIDByDate_NeverLocks(t *testing.T) {
	repo, tm, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM service_days WHERE date = $1") + "$").
		WithArgs("2026-10-19").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectCommit()

	var id int64
	err := tm.Do(context.Background(), func(ctx context.Context) error {
		var err error
		id, err = repo.GetIDByDate(ctx, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextDailyNumber(t *testing.T) {
	repo, tm, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE service_days SET order_sequence = order_sequence + 1 WHERE id = $1 RETURNING order_sequence",
	)).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"order_sequence"}).AddRow(7))
	mock.ExpectCommit()

	var number int
	err := tm.Do(context.Background(), func(ctx context.Context) error {
		var err error
		number, err = repo.NextDailyNumber(ctx, 4)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 7, number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextDailyNumber_DayNotFound(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("RETURNING order_sequence")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"order_sequence"}))

	_, err := repo.NextDailyNumber(context.Background(), 99)

	assert.ErrorIs(t, err, ErrServiceDayNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateDate(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO service_days")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "service_days_date_key"})

	_, err := repo.Create(context.Background(), &domain.ServiceDay{
		Date:      time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
		StartTime: "08:00",
		EndTime:   "18:00",
		MaxOrders: 10,
	})

	assert.ErrorIs(t, err, ErrDateAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
