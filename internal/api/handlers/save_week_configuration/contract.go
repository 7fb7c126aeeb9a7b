package save_week_configuration

import (
	"context"

	saveWeek "github.com/m04kA/SandwichBooking/internal/usecase/save_week_configuration"
)

type SaveWeekConfigurationUseCase interface {
	Execute(ctx context.Context, req *saveWeek.Request) (*saveWeek.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
