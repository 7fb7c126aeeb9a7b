package save_week_configuration

import (
	"fmt"
	"time"

	"github.com/m04kA/SandwichBooking/internal/domain"
	saveWeek "github.com/m04kA/SandwichBooking/internal/usecase/save_week_configuration"
	"github.com/m04kA/SandwichBooking/pkg/types"
)

// SaveWeekConfigurationRequest HTTP request model
type SaveWeekConfigurationRequest struct {
	Global GlobalConstraints `json:"global"`
	Days   []DayPlan         `json:"days"`
}

// GlobalConstraints ограничения по умолчанию для недели
type GlobalConstraints struct {
	MaxOrders int    `json:"maxOrders"`
	MaxTime   int    `json:"maxTime"`
	Location  string `json:"location"`
}

// DayPlan план одного дня
type DayPlan struct {
	Date      string  `json:"date"` // "2026-10-19"
	IsActive  bool    `json:"isActive"`
	StartTime string  `json:"startTime,omitempty"` // "08:00"
	EndTime   string  `json:"endTime,omitempty"`   // "18:00"
	MaxOrders *int    `json:"maxOrders,omitempty"`
	MaxTime   *int    `json:"maxTime,omitempty"`
	Location  *string `json:"location,omitempty"`
}

// WeekReportResponse HTTP response model
type WeekReportResponse struct {
	WeekStart      string `json:"weekStart"`
	DaysCreated    int    `json:"daysCreated"`
	DaysUpdated    int    `json:"daysUpdated"`
	DaysDisabled   int    `json:"daysDisabled"`
	DaysDeleted    int    `json:"daysDeleted"`
	DaysSkipped    int    `json:"daysSkipped"`
	SlotsGenerated int    `json:"slotsGenerated"`
	SlotsDeleted   int    `json:"slotsDeleted"`
	OrdersRejected int    `json:"ordersRejected"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом дат и времени)
func (r *SaveWeekConfigurationRequest) ToUseCaseRequest(weekStart time.Time) (*saveWeek.Request, error) {
	days := make([]saveWeek.DayPlan, 0, len(r.Days))
	for _, d := range r.Days {
		date, err := time.Parse(domain.DateFormat, d.Date)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", d.Date, err)
		}

		plan := saveWeek.DayPlan{
			Date:      date,
			IsActive:  d.IsActive,
			MaxOrders: d.MaxOrders,
			MaxTime:   d.MaxTime,
			Location:  d.Location,
		}
		if d.StartTime != "" {
			if plan.StartTime, err = types.NewTimeStringFromString(d.StartTime); err != nil {
				return nil, fmt.Errorf("%s startTime: %w", d.Date, err)
			}
		}
		if d.EndTime != "" {
			if plan.EndTime, err = types.NewTimeStringFromString(d.EndTime); err != nil {
				return nil, fmt.Errorf("%s endTime: %w", d.Date, err)
			}
		}

		days = append(days, plan)
	}

	return &saveWeek.Request{
		WeekStart: weekStart,
		Global: saveWeek.GlobalConstraints{
			MaxOrders: r.Global.MaxOrders,
			MaxTime:   r.Global.MaxTime,
			Location:  r.Global.Location,
		},
		Days: days,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *saveWeek.Response) *WeekReportResponse {
	return &WeekReportResponse{
		WeekStart:      resp.WeekStart.Format(domain.DateFormat),
		DaysCreated:    resp.DaysCreated,
		DaysUpdated:    resp.DaysUpdated,
		DaysDisabled:   resp.DaysDisabled,
		DaysDeleted:    resp.DaysDeleted,
		DaysSkipped:    resp.DaysSkipped,
		SlotsGenerated: resp.SlotsGenerated,
		SlotsDeleted:   resp.SlotsDeleted,
		OrdersRejected: resp.OrdersRejected,
	}
}
