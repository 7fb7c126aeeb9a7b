package generate_time_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/internal/service/timeslots"
	"github.com/m04kA/SandwichBooking/pkg/logger"
)

type stubService struct {
	created int
	err     error
}

func (s stubService) GenerateForDay(_ context.Context, _ int64) (int, error) {
	return s.created, s.err
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		dayID      string
		svc        stubService
		wantStatus int
	}{
		{name: "ok", dayID: "4", svc: stubService{created: 40}, wantStatus: http.StatusOK},
		{name: "bad id", dayID: "four", wantStatus: http.StatusBadRequest},
		{name: "zero id", dayID: "0", wantStatus: http.StatusBadRequest},
		{name: "not found", dayID: "4", svc: stubService{err: timeslots.ErrServiceDayNotFound}, wantStatus: http.StatusNotFound},
		{name: "internal", dayID: "4", svc: stubService{err: errors.New("db down")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.svc, logger.Nop())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/service-days/"+tt.dayID+"/time-slots", nil)
			req = mux.SetURLVars(req, map[string]string{"serviceDayId": tt.dayID})
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_ReportsCreatedCount(t *testing.T) {
	h := NewHandler(stubService{created: 40}, logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/service-days/4/time-slots", nil)
	req = mux.SetURLVars(req, map[string]string{"serviceDayId": "4"})
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	var resp GenerateTimeSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, GenerateTimeSlotsResponse{ServiceDayID: 4, Created: 40}, resp)
}
