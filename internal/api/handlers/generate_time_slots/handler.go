package generate_time_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SandwichBooking/internal/api/handlers"
	"github.com/m04kA/SandwichBooking/internal/service/timeslots"
)

const (
	msgInvalidServiceDayID = "некорректный ID дня обслуживания"
	msgNotFound            = "день обслуживания не найден"
)

type Handler struct {
	service TimeSlotService
	logger  Logger
}

func NewHandler(service TimeSlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/service-days/{serviceDayId}/time-slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceDayID, err := strconv.ParseInt(mux.Vars(r)["serviceDayId"], 10, 64)
	if err != nil || serviceDayID <= 0 {
		h.logger.Warn("POST /service-days/{id}/time-slots - Invalid service day ID: %q", mux.Vars(r)["serviceDayId"])
		handlers.RespondBadRequest(w, msgInvalidServiceDayID)
		return
	}

	created, err := h.service.GenerateForDay(r.Context(), serviceDayID)
	if err != nil {
		switch {
		case errors.Is(err, timeslots.ErrServiceDayNotFound):
			h.logger.Warn("POST /service-days/{id}/time-slots - Service day not found: id=%d", serviceDayID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /service-days/{id}/time-slots - Failed to generate slots: id=%d, error=%v",
				serviceDayID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /service-days/{id}/time-slots - Generated %d slots: id=%d", created, serviceDayID)
	handlers.RespondJSON(w, http.StatusOK, &GenerateTimeSlotsResponse{
		ServiceDayID: serviceDayID,
		Created:      created,
	})
}
