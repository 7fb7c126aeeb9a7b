package save_week_configuration

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SandwichBooking/internal/api/handlers"
	"github.com/m04kA/SandwichBooking/internal/domain"
	saveWeek "github.com/m04kA/SandwichBooking/internal/usecase/save_week_configuration"
)

const (
	msgInvalidWeekStart   = "некорректная дата начала недели, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	useCase SaveWeekConfigurationUseCase
	logger  Logger
}

func NewHandler(useCase SaveWeekConfigurationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/weeks/{weekStart}/configuration
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	weekStart, err := time.Parse(domain.DateFormat, mux.Vars(r)["weekStart"])
	if err != nil {
		h.logger.Warn("PUT /weeks/{weekStart}/configuration - Invalid week start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWeekStart)
		return
	}

	var req SaveWeekConfigurationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /weeks/{weekStart}/configuration - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(weekStart)
	if err != nil {
		h.logger.Warn("PUT /weeks/{weekStart}/configuration - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, saveWeek.ErrInvalidInput):
			h.logger.Warn("PUT /weeks/{weekStart}/configuration - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case handlers.IsDomainError(err):
			h.logger.Warn("PUT /weeks/{weekStart}/configuration - Refused: week=%s, error=%v",
				weekStart.Format(domain.DateFormat), err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("PUT /weeks/{weekStart}/configuration - Failed to save week: week=%s, error=%v",
				weekStart.Format(domain.DateFormat), err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /weeks/{weekStart}/configuration - Week saved: week=%s, created=%d, updated=%d, rejected=%d",
		weekStart.Format(domain.DateFormat), result.DaysCreated, result.DaysUpdated, result.OrdersRejected)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
