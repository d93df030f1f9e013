package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
)

// AdminChecker проверяет, есть ли пользователь в списке админов.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// AdminOnlyMiddleware пропускает дальше только администраторов.
// Должен стоять после TelegramAuthMiddleware.
func AdminOnlyMiddleware(log *slog.Logger, admins AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := r.Context().Value(User).(string)
			if !ok || userID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			isAdmin, err := admins.IsAdmin(r.Context(), userID)
			if err != nil {
				log.Error("failed to check admin rights", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if !isAdmin {
				log.Warn("admin access denied", slog.String("user_id", userID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
