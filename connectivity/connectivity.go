package connectivity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/apierr"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/notify"
)

// OfflineMessage — message синтетического конверта, когда сети нет.
const OfflineMessage = "no connectivity"

var ErrNoConnectivity = errors.New(OfflineMessage)

// Checker сообщает, доступна ли сеть.
type Checker interface {
	Reachable(ctx context.Context) bool
}

// Static — фиксированный ответ (тесты, офлайн-режим).
type Static bool

func (s Static) Reachable(context.Context) bool { return bool(s) }

// HTTPProbe проверяет доступность бэкенда запросом HEAD.
// Любой HTTP-ответ — сеть есть; ошибка транспорта — нет.
// Результат кэшируется на ttl, чтобы пачка запросов экрана не плодила пробы.
type HTTPProbe struct {
	url    string
	client *http.Client
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	checkedAt time.Time
	reachable bool
	now       func() time.Time
}

func NewHTTPProbe(url string, timeout, ttl time.Duration, logger *slog.Logger) *HTTPProbe {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPProbe{
		url:    url,
		client: &http.Client{Timeout: timeout},
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (p *HTTPProbe) Reachable(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ttl > 0 && !p.checkedAt.IsZero() && p.now().Sub(p.checkedAt) < p.ttl {
		return p.reachable
	}

	p.reachable = p.probe(ctx)
	p.checkedAt = p.now()
	return p.reachable
}

func (p *HTTPProbe) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.logger.Error("failed to build connectivity probe", slog.Any("error", err))
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("connectivity probe failed", slog.String("url", p.url), slog.Any("error", err))
		return false
	}
	resp.Body.Close()
	return true
}

// Guard — политика по умолчанию для чтения: проверить сеть, выполнить вызов,
// любую неудачу вернуть как конверт с fallback-данными. Guard не паникует
// и ошибок не возвращает.
type Guard struct {
	checker  Checker
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewGuard(checker Checker, notifier notify.Notifier, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Guard{checker: checker, notifier: notifier, logger: logger}
}

// Check — для путей записи: ErrNoConnectivity (и toast), если сети нет.
func (g *Guard) Check(ctx context.Context) error {
	if g.checker.Reachable(ctx) {
		return nil
	}
	g.notifier.Toast(notify.LevelError, apierr.MsgOffline)
	return ErrNoConnectivity
}

// Run выполняет fn под защитой Guard.
func Run[T any](ctx context.Context, g *Guard, fallback T, fn func(ctx context.Context) (T, error)) (res models.Result[T]) {
	if err := g.Check(ctx); err != nil {
		return models.Result[T]{Status: models.StatusError, Message: OfflineMessage, Data: fallback}
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("guarded call panicked", slog.Any("panic", r))
			res = models.Result[T]{Status: models.StatusError, Message: fmt.Sprint(r), Data: fallback}
		}
	}()

	data, err := fn(ctx)
	if err != nil {
		msg := apierr.Message(err)
		if msg == "" {
			msg = models.DefaultErrorMessage
		}
		return models.Result[T]{Status: models.StatusError, Message: msg, Data: fallback}
	}
	return models.Result[T]{Status: models.StatusSuccess, Data: data}
}
