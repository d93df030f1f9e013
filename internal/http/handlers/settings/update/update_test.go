package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pomoechka/giveaway-service/internal/models"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, values map[string]string) (models.Settings, error) {
	args := m.Called(ctx, values)
	return args.Get(0).(models.Settings), args.Error(1)
}

func TestSettingsUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное обновление",
			body: `{"item_lifetime_hours":"12"}`,
			setupMock: func(m *MockService) {
				updated := models.DefaultSettings()
				updated.ItemLifetimeHours = 12
				m.On("Update", mock.Anything, map[string]string{"item_lifetime_hours": "12"}).
					Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"item_lifetime_hours":12`,
		},
		{
			name:           "неизвестный ключ отклоняется",
			body:           `{"max_price":"100"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"unknown setting key: max_price"`,
		},
		{
			name:           "пустое тело",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"no settings provided"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{key`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name: "ошибка сервиса",
			body: `{"karma_taken":"50"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, map[string]string{"karma_taken": "50"}).
					Return(models.Settings{}, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update settings"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/admin/settings", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
