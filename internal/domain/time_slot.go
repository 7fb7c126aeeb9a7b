package domain

import (
	"time"

	"github.com/m04kA/SandwichBooking/pkg/types"
)

// TimeSlot is one bookable interval belonging to exactly one ServiceDay
type TimeSlot struct {
	ID           int64
	ServiceDayID int64
	StartTime    types.TimeString
	EndTime      types.TimeString
	CreatedAt    time.Time
}

// SlotWindow is a [Start, End) interval produced by the schedule partition
type SlotWindow struct {
	Start types.TimeString
	End   types.TimeString
}

