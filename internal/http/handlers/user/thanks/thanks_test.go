package thanks

import (
	"context"
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
	"github.com/pomoechka/giveaway-service/internal/http/middlewarectx"
)

// MockService реализует интерфейс thanks.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Thanks(ctx context.Context, fromID, toID string) (int, error) {
	args := m.Called(ctx, fromID, toID)
	return args.Int(0), args.Error(1)
}

func TestThanksHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		toID           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная благодарность",
			toID: "user2",
			setupMock: func(m *MockService) {
				m.On("Thanks", mock.Anything, "user1", "user2").Return(15, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"karma":15`,
		},
		{
			name: "нельзя поблагодарить себя",
			toID: "user1",
			setupMock: func(m *MockService) {
				m.On("Thanks", mock.Anything, "user1", "user1").
					Return(0, fmt.Errorf("user.Thanks: %w", apperr.ErrValidation))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"cannot thank yourself"`,
		},
		{
			name: "получатель не найден",
			toID: "missing",
			setupMock: func(m *MockService) {
				m.On("Thanks", mock.Anything, "user1", "missing").
					Return(0, fmt.Errorf("user.Thanks: %w", apperr.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"user not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/users/"+tt.toID+"/thanks", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.toID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
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
