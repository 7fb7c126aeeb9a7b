package generate_time_slots

// GenerateTimeSlotsResponse HTTP response model
type GenerateTimeSlotsResponse struct {
	ServiceDayID int64 `json:"serviceDayId"`
	Created      int   `json:"created"`
}
