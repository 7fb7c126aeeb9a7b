package timeslots

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/pkg/dbmetrics"
	"github.com/m04kA/SandwichBooking/pkg/txmanager"
	"github.com/m04kA/SandwichBooking/pkg/types"
)

var slotColumns = []string{"id", "service_day_id", "start_time", "end_time", "created_at"}

func newTestRepository(t *testing.T) (*Repository, *txmanager.Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), txmanager.NewTransactionManager(wrapped), mock
}

func TestGetByID_LocksRowInsideTransaction(t *testing.T) {
	repo, tm, mock := newTestRepository(t)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM time_slots WHERE id = $1 FOR UPDATE") + "$").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(slotColumns).AddRow(int64(11), int64(4), "12:15:00", "12:30:00", now))
	mock.ExpectCommit()

	var slot *domain.TimeSlot
	err := tm.Do(context.Background(), func(ctx context.Context) error {
		var err error
		slot, err = repo.GetByID(ctx, 11)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), slot.ServiceDayID)
	assert.Equal(t, types.TimeString("12:15"), slot.StartTime)
	assert.Equal(t, types.TimeString("12:30"), slot.EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM time_slots WHERE id = $1") + "$").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows(slotColumns))

	_, err := repo.GetByID(context.Background(), 11)

	assert.ErrorIs(t, err, ErrTimeSlotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByServiceDay_LocksInStartOrder(t *testing.T) {
	repo, tm, mock := newTestRepository(t)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM time_slots WHERE service_day_id = $1 ORDER BY start_time ASC FOR UPDATE") + "$").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(slotColumns).
			AddRow(int64(10), int64(4), "12:00:00", "12:15:00", now).
			AddRow(int64(11), int64(4), "12:15:00", "12:30:00", now))
	mock.ExpectCommit()

	var slots []*domain.TimeSlot
	err := tm.Do(context.Background(), func(ctx context.Context) error {
		var err error
		slots, err = repo.ListByServiceDay(ctx, 4)
		return err
	})

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, int64(10), slots[0].ID)
	assert.Equal(t, int64(11), slots[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUnoccupiedIDs_IgnoresOrderStatus(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	// слот с любым заказом, даже отклоненным, не считается свободным
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT ts.id FROM time_slots ts WHERE ts.service_day_id = $1 " +
			"AND NOT EXISTS (SELECT 1 FROM orders o WHERE o.time_slot_id = ts.id) " +
			"ORDER BY ts.start_time ASC",
	) + "$").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(12)))

	ids, err := repo.ListUnoccupiedIDs(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 12}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatch(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO time_slots (service_day_id,start_time,end_time) VALUES ($1,$2,$3),($4,$5,$6)",
	)).
		WithArgs(int64(4), "12:00:00", "12:15:00", int64(4), "12:15:00", "12:30:00").
		WillReturnResult(sqlmock.NewResult(0, 2))

	created, err := repo.CreateBatch(context.Background(), 4, []domain.SlotWindow{
		{Start: "12:00", End: "12:15"},
		{Start: "12:15", End: "12:30"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDs(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM time_slots WHERE id = ANY($1)")).
		WithArgs("{10,12}").
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repo.DeleteByIDs(context.Background(), []int64{10, 12})

	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	deleted, err = repo.DeleteByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
