// Package middlewarectx содержит HTTP middleware мини-приложения.
//
// TelegramAuthMiddleware извлекает идентификатор пользователя Telegram из
// заголовка X-Telegram-Id, создаёт пользователя при первом обращении и кладёт
// его идентификатор в контекст запроса. Запрос без идентификатора отклоняется
// с HTTP 401. Подпись initData мини-приложения здесь не проверяется: сервис
// работает за обратным прокси, который выполняет проверку подписи.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ для идентификатора пользователя в контексте.
const User Key = "user_id"

// UserService описывает интерфейс получения или регистрации пользователя.
type UserService interface {
	GetOrCreateUser(ctx context.Context, id, name, username string, now time.Time) (*models.User, error)
}

// TelegramAuthMiddleware проверяет наличие идентификатора Telegram в запросе
// и регистрирует пользователя при первом обращении.
func TelegramAuthMiddleware(log *slog.Logger, users UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			telegramID := r.Header.Get("X-Telegram-Id")
			if telegramID == "" {
				log.Error("telegram id missing in request")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			name := r.Header.Get("X-Telegram-Name")
			username := r.Header.Get("X-Telegram-Username")
			if _, err := users.GetOrCreateUser(r.Context(), telegramID, name, username, time.Now().UTC()); err != nil {
				log.Error("failed to get or create user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), User, telegramID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
