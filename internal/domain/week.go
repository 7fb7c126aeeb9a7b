package domain

import (
	"time"

	"github.com/m04kA/SandwichBooking/pkg/types"
)

// GlobalConstraints apply to every day of the week unless a DayPlan overrides them
type GlobalConstraints struct {
	MaxOrders int
	MaxTime   int
	Location  string
}

// DayPlan is the requested configuration of one date
type DayPlan struct {
	Date      time.Time
	IsActive  bool
	StartTime types.TimeString
	EndTime   types.TimeString
	MaxOrders *int
	MaxTime   *int
	Location  *string
}

// WeekPlan is the input of the week reconfiguration
type WeekPlan struct {
	WeekStart time.Time
	Global    GlobalConstraints
	Days      []DayPlan
}

// WeekDates returns the seven consecutive dates starting at WeekStart
func (p *WeekPlan) WeekDates() []time.Time {
	start := DateOnly(p.WeekStart)
	dates := make([]time.Time, DaysInWeek)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// PlanFor returns the plan for date; a missing plan means the day is inactive
func (p *WeekPlan) PlanFor(date time.Time) DayPlan {
	key := date.Format(DateFormat)
	for _, d := range p.Days {
		if d.Date.Format(DateFormat) == key {
			return d
		}
	}
	return DayPlan{Date: date, IsActive: false}
}

// WeekReport summarizes what a reconfiguration changed
type WeekReport struct {
	DaysCreated    int
	DaysUpdated    int
	DaysDisabled   int
	DaysDeleted    int
	DaysSkipped    int
	SlotsGenerated int
	SlotsDeleted   int
	OrdersRejected int
}

// HasChanges returns true if anything was written
func (r *WeekReport) HasChanges() bool {
	return r.DaysCreated+r.DaysUpdated+r.DaysDisabled+r.DaysDeleted+
		r.SlotsGenerated+r.SlotsDeleted+r.OrdersRejected > 0
}
