package save_week_configuration

import (
	"fmt"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.WeekStart.IsZero() {
		return fmt.Errorf("%w: weekStart is required", ErrInvalidInput)
	}

	if req.Global.MaxOrders < 0 {
		return fmt.Errorf("%w: global maxOrders must not be negative", ErrInvalidInput)
	}
	if req.Global.MaxTime < 0 {
		return fmt.Errorf("%w: global maxTime must not be negative", ErrInvalidInput)
	}
	if len(req.Global.Location) > domain.MaxLocationLength {
		return fmt.Errorf("%w: global location is longer than %d", ErrInvalidInput, domain.MaxLocationLength)
	}

	first := domain.DateOnly(req.WeekStart)
	last := first.AddDate(0, 0, domain.DaysInWeek-1)

	seen := make(map[string]struct{}, len(req.Days))
	for _, day := range req.Days {
		date := domain.DateOnly(day.Date)
		key := date.Format(domain.DateFormat)

		if date.Before(first) || date.After(last) {
			return fmt.Errorf("%w: date %s is outside of week %s", ErrInvalidInput, key, first.Format(domain.DateFormat))
		}
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate plan for %s", ErrInvalidInput, key)
		}
		seen[key] = struct{}{}

		if !day.StartTime.IsZero() {
			if err := day.StartTime.Validate(); err != nil {
				return fmt.Errorf("%w: %s startTime: %v", ErrInvalidInput, key, err)
			}
		}
		if !day.EndTime.IsZero() {
			if err := day.EndTime.Validate(); err != nil {
				return fmt.Errorf("%w: %s endTime: %v", ErrInvalidInput, key, err)
			}
		}
		if day.MaxTime != nil && *day.MaxTime < 0 {
			return fmt.Errorf("%w: %s maxTime must not be negative", ErrInvalidInput, key)
		}
		if day.Location != nil && len(*day.Location) > domain.MaxLocationLength {
			return fmt.Errorf("%w: %s location is longer than %d", ErrInvalidInput, key, domain.MaxLocationLength)
		}
	}

	return nil
}
