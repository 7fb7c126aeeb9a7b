package generate_time_slots

import "context"

type TimeSlotService interface {
	GenerateForDay(ctx context.Context, serviceDayID int64) (int, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
