package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/session"
)

type contextKey string

const userIDContextKey contextKey = "user_id"

// SessionSource — то, откуда берётся текущий пользователь.
type SessionSource interface {
	CurrentUserID(ctx context.Context) (models.ID, error)
}

// RequireSession пропускает запрос только при действующей сессии
// и кладёт идентификатор пользователя в контекст.
func RequireSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := sessions.CurrentUserID(r.Context())
			if err != nil {
				message := "authentication required"
				if errors.Is(err, session.ErrSessionExpired) {
					message = "session expired"
				} else if errors.Is(err, session.ErrInvalidToken) {
					message = "invalid session token"
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, userID models.ID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

func UserIDFromContext(ctx context.Context) (models.ID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(models.ID)
	return userID, ok && !userID.IsZero()
}
