package create

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/http/middlewarectx"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) SubmitReport(ctx context.Context, itemID, reporterID string, reason models.ReportReason) (*models.Report, error) {
	args := m.Called(ctx, itemID, reporterID, reason)
	if res := args.Get(0); res != nil {
		return res.(*models.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReportCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная жалоба",
			body: `{"item_id":"item1","reason":"spam"}`,
			setupMock: func(m *MockService) {
				report := &models.Report{ID: "r1", ItemID: "item1", Status: models.ReportPending}
				m.On("SubmitReport", mock.Anything, "item1", "user1", models.ReasonSpam).Return(report, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"status":"pending"`,
		},
		{
			name:           "отсутствует причина",
			body:           `{"item_id":"item1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "повторная жалоба",
			body: `{"item_id":"item1","reason":"spam"}`,
			setupMock: func(m *MockService) {
				m.On("SubmitReport", mock.Anything, "item1", "user1", models.ReasonSpam).
					Return(nil, fmt.Errorf("moderation.SubmitReport: %w", apperr.ErrConflict))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"report already submitted"`,
		},
		{
			name: "неизвестная причина",
			body: `{"item_id":"item1","reason":"ugly"}`,
			setupMock: func(m *MockService) {
				m.On("SubmitReport", mock.Anything, "item1", "user1", models.ReportReason("ugly")).
					Return(nil, fmt.Errorf("moderation.SubmitReport: %w", apperr.ErrValidation))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"invalid report reason"`,
		},
		{
			name: "объявление не найдено",
			body: `{"item_id":"missing","reason":"spam"}`,
			setupMock: func(m *MockService) {
				m.On("SubmitReport", mock.Anything, "missing", "user1", models.ReasonSpam).
					Return(nil, fmt.Errorf("moderation.SubmitReport: %w", apperr.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"item not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, "user1"))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
