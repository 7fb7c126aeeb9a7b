package domain

import (
	"time"

	"github.com/m04kA/SandwichBooking/pkg/types"
)

// ServiceDay represents one calendar date on which service may run
type ServiceDay struct {
	ID        int64
	Date      time.Time // date only, time part is zero
	IsActive  bool
	StartTime types.TimeString
	EndTime   types.TimeString
	MaxOrders int // per-slot capacity
	MaxTime   int // maximum minutes a customer may book ahead of slot start
	Location  string

	// OrderSequence is the last daily_number handed out for this day
	OrderSequence int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasValidWindow returns true if start < end
func (d *ServiceDay) HasValidWindow() bool {
	return d.StartTime.IsBefore(d.EndTime)
}

// WindowEquals returns true if the persisted window equals [start, end)
func (d *ServiceDay) WindowEquals(start, end types.TimeString) bool {
	return d.StartTime.Equal(start) && d.EndTime.Equal(end)
}

// HasCapacity returns true if max_orders is configured
func (d *ServiceDay) HasCapacity() bool {
	return d.MaxOrders > 0
}

// DateOnly truncates t to midnight keeping its location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDateBefore returns true if date is strictly before the calendar day of now
func IsDateBefore(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
