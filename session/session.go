package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/storage"
	"github.com/golang-jwt/jwt/v4"
)

const (
	claimUserID = "user_id"
	claimSub    = "sub"
)

var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionExpired = errors.New("session token has expired")
	ErrInvalidToken   = errors.New("session token is malformed")
)

// Manager владеет сохранённым токеном: отдаёт его HTTP-клиенту,
// вычисляет текущего пользователя и реализует политику «выход по 401».
type Manager struct {
	store  storage.TokenStore
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(store storage.TokenStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Token реализует client.TokenSource.
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.store.Get(ctx)
}

func (m *Manager) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return ErrInvalidToken
	}
	if _, err := m.userIDFromToken(token); err != nil {
		return err
	}
	return m.store.Set(ctx, token)
}

func (m *Manager) ClearToken(ctx context.Context) error {
	return m.store.Delete(ctx)
}

// HandleUnauthorized — колбэк для client.OnUnauthorized: удаляет токен,
// чтобы следующий защищённый экран потребовал повторный вход.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	if err := m.store.Delete(ctx); err != nil {
		m.logger.Error("failed to clear token after 401", slog.Any("error", err))
		return
	}
	m.logger.Info("session cleared after unauthorized response")
}

// CurrentUserID возвращает id пользователя из claim user_id сохранённого токена.
func (m *Manager) CurrentUserID(ctx context.Context) (models.ID, error) {
	token, err := m.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	if token == "" {
		return "", ErrNoSession
	}
	return m.userIDFromToken(token)
}

// userIDFromToken разбирает claims без проверки подписи: секрет есть только
// у бэкенда, а клиенту нужен лишь идентификатор для сравнения с creator_id.
func (m *Manager) userIDFromToken(token string) (models.ID, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if exp, ok := claims["exp"].(float64); ok && m.now().Unix() > int64(exp) {
		return "", ErrSessionExpired
	}

	return UserIDFromClaims(claims)
}

// UserIDFromClaims достаёт user_id (или sub) из claims; число или строка.
func UserIDFromClaims(claims jwt.MapClaims) (models.ID, error) {
	raw, ok := claims[claimUserID]
	if !ok {
		raw, ok = claims[claimSub]
	}
	if !ok {
		return "", fmt.Errorf("%w: missing '%s' claim", ErrInvalidToken, claimUserID)
	}

	switch v := raw.(type) {
	case float64:
		if v != float64(int64(v)) || v <= 0 {
			return "", fmt.Errorf("%w: invalid user id value %v", ErrInvalidToken, v)
		}
		return models.ID(strconv.FormatInt(int64(v), 10)), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("%w: empty user id", ErrInvalidToken)
		}
		return models.ID(strings.TrimSpace(v)), nil
	default:
		return "", fmt.Errorf("%w: expected number or string user id, got %T", ErrInvalidToken, raw)
	}
}
