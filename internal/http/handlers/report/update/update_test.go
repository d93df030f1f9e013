package update

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error) {
	args := m.Called(ctx, id, status)
	if res := args.Get(0); res != nil {
		return res.(*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateReportHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		reportID       string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "жалоба переведена в resolved",
			reportID: "r1",
			body:     `{"status":"resolved"}`,
			setupMock: func(m *MockService) {
				report := &models.Report{ID: "r1", ItemID: "item1", Status: models.ReportResolved}
				m.On("UpdateReportStatus", mock.Anything, "r1", models.ReportResolved).Return(report, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"resolved"`,
		},
		{
			name:     "недопустимый статус",
			reportID: "r1",
			body:     `{"status":"approved"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateReportStatus", mock.Anything, "r1", models.ReportStatus("approved")).
					Return(nil, fmt.Errorf("moderation.UpdateReportStatus: %w", apperr.ErrValidation))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"invalid report status"`,
		},
		{
			name:           "пустой статус не проходит валидацию",
			reportID:       "r1",
			body:           `{"status":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error"`,
		},
		{
			name:     "жалоба не найдена",
			reportID: "ghost",
			body:     `{"status":"rejected"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateReportStatus", mock.Anything, "ghost", models.ReportRejected).
					Return(nil, fmt.Errorf("moderation.UpdateReportStatus: %w", apperr.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"report not found"`,
		},
		{
			name:           "битый JSON",
			reportID:       "r1",
			body:           `{"status":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:     "ошибка сервиса",
			reportID: "r1",
			body:     `{"status":"resolved"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateReportStatus", mock.Anything, "r1", models.ReportResolved).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update report status"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPatch, "/admin/reports/"+tt.reportID, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.reportID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
