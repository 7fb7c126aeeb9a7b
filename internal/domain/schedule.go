package domain

import (
	"fmt"

	"github.com/m04kA/SandwichBooking/pkg/types"
)

const minutesPerDay = 24 * 60

// PartitionWindow tiles [start, end) into consecutive slots of slotMinutes.
// The last slot is truncated at end. Returns nothing when start >= end.
func PartitionWindow(start, end types.TimeString, slotMinutes int) ([]SlotWindow, error) {
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %d", ErrConfiguration, slotMinutes)
	}

	from, err := start.Minutes()
	if err != nil {
		return nil, err
	}
	to, err := end.Minutes()
	if err != nil {
		return nil, err
	}
	if from >= to {
		return nil, nil
	}

	windows := make([]SlotWindow, 0, (to-from+slotMinutes-1)/slotMinutes)
	for cur := from; cur < to; cur += slotMinutes {
		next := cur + slotMinutes
		if next > to {
			next = to
		}

		slotStart, err := types.NewTimeStringFromMinutes(cur)
		if err != nil {
			return nil, err
		}
		slotEnd, err := types.NewTimeStringFromMinutes(next)
		if err != nil {
			return nil, err
		}
		windows = append(windows, SlotWindow{Start: slotStart, End: slotEnd})
	}

	return windows, nil
}

// NormalizeWindow rounds start and end to the nearest multiple of slotMinutes.
// If rounding collapses the window, end is moved one slot past start.
func NormalizeWindow(start, end types.TimeString, slotMinutes int) (types.TimeString, types.TimeString, error) {
	if slotMinutes <= 0 {
		return "", "", fmt.Errorf("%w: slot duration must be positive, got %d", ErrConfiguration, slotMinutes)
	}

	from, err := start.Minutes()
	if err != nil {
		return "", "", err
	}
	to, err := end.Minutes()
	if err != nil {
		return "", "", err
	}

	lastMultiple := (minutesPerDay / slotMinutes) * slotMinutes
	from = clamp(RoundToStep(from, slotMinutes), 0, lastMultiple)
	to = clamp(RoundToStep(to, slotMinutes), 0, lastMultiple)

	if from >= to {
		to = from + slotMinutes
		if to > lastMultiple {
			to = lastMultiple
			from = to - slotMinutes
		}
	}

	normStart, err := types.NewTimeStringFromMinutes(from)
	if err != nil {
		return "", "", err
	}
	normEnd, err := types.NewTimeStringFromMinutes(to)
	if err != nil {
		return "", "", err
	}
	return normStart, normEnd, nil
}

// RoundToStep rounds minutes to the nearest multiple of step, halves round up
func RoundToStep(minutes, step int) int {
	if step <= 0 {
		return minutes
	}
	return ((minutes + step/2) / step) * step
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
