package save_week_configuration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/internal/domain"
	saveWeek "github.com/m04kA/SandwichBooking/internal/usecase/save_week_configuration"
	"github.com/m04kA/SandwichBooking/pkg/logger"
	"github.com/m04kA/SandwichBooking/pkg/types"
)

type stubUseCase struct {
	got  *saveWeek.Request
	resp *saveWeek.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *saveWeek.Request) (*saveWeek.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(h *Handler, weekStart, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/weeks/"+weekStart+"/configuration", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"weekStart": weekStart})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_ParsesPlan(t *testing.T) {
	weekStart := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &saveWeek.Response{WeekStart: weekStart, DaysCreated: 1, SlotsGenerated: 40}}
	h := NewHandler(uc, logger.Nop())

	rec := serve(h, "2026-10-19", `{
		"global": {"maxOrders": 8, "location": "Lobby"},
		"days": [
			{"date": "2026-10-19", "isActive": true, "startTime": "08:00", "endTime": "18:00", "maxOrders": 5},
			{"date": "2026-10-20", "isActive": false}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.got)
	assert.True(t, uc.got.WeekStart.Equal(weekStart))
	assert.Equal(t, 8, uc.got.Global.MaxOrders)
	require.Len(t, uc.got.Days, 2)
	assert.Equal(t, types.TimeString("08:00"), uc.got.Days[0].StartTime)
	require.NotNil(t, uc.got.Days[0].MaxOrders)
	assert.Equal(t, 5, *uc.got.Days[0].MaxOrders)
	assert.False(t, uc.got.Days[1].IsActive)

	var body WeekReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-19", body.WeekStart)
	assert.Equal(t, 40, body.SlotsGenerated)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		weekStart  string
		body       string
		err        error
		wantStatus int
	}{
		{name: "bad week start", weekStart: "19.10.2026", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "bad date", weekStart: "2026-10-19", body: `{"days":[{"date":"tomorrow"}]}`, wantStatus: http.StatusBadRequest},
		{name: "bad time", weekStart: "2026-10-19", body: `{"days":[{"date":"2026-10-19","startTime":"8am"}]}`, wantStatus: http.StatusBadRequest},
		{name: "invalid input", weekStart: "2026-10-19", body: `{}`, err: saveWeek.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "week in past", weekStart: "2026-10-19", body: `{}`, err: domain.ErrWeekInPast, wantStatus: http.StatusBadRequest},
		{name: "internal", weekStart: "2026-10-19", body: `{}`, err: saveWeek.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubUseCase{err: tt.err}, logger.Nop())
			rec := serve(h, tt.weekStart, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
