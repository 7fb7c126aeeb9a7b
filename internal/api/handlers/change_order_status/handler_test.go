package change_order_status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SandwichBooking/internal/api/handlers"
	"github.com/m04kA/SandwichBooking/internal/domain"
	"github.com/m04kA/SandwichBooking/internal/service/orders"
	"github.com/m04kA/SandwichBooking/internal/service/orders/models"
	"github.com/m04kA/SandwichBooking/pkg/logger"
)

type stubService struct {
	err error
}

func (s stubService) ChangeStatus(_ context.Context, orderID int64, req *models.ChangeStatusRequest) (*models.OrderResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.OrderResponse{ID: orderID, Status: req.Status}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		orderID    string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "ok", orderID: "3", body: `{"status":"ready"}`, wantStatus: http.StatusOK},
		{name: "bad id", orderID: "abc", body: `{"status":"ready"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", orderID: "3", body: `{"state":"ready"}`, wantStatus: http.StatusBadRequest},
		{name: "not found", orderID: "3", body: `{"status":"ready"}`, err: orders.ErrOrderNotFound, wantStatus: http.StatusNotFound},
		{
			name:       "illegal transition",
			orderID:    "3",
			body:       `{"status":"confirmed"}`,
			err:        &domain.InvalidTransitionError{From: domain.StatusRejected, To: domain.StatusConfirmed},
			wantStatus: http.StatusConflict,
			wantCode:   domain.CodeInvalidOrderStateTransition,
		},
		{
			name:       "unknown status",
			orderID:    "3",
			body:       `{"status":"cooking"}`,
			err:        fmt.Errorf("%w: %w", orders.ErrInvalidInput, domain.ErrInvalidStatus),
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.CodeInvalidStatus,
		},
		{name: "internal", orderID: "3", body: `{"status":"ready"}`, err: orders.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(stubService{err: tt.err}, logger.Nop())

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+tt.orderID+"/status", strings.NewReader(tt.body))
			req = mux.SetURLVars(req, map[string]string{"orderId": tt.orderID})
			rec := httptest.NewRecorder()

			h.Handle(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var body handlers.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body.Code)
			}
		})
	}
}
