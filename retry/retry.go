package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/apierr"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/notify"
)

const (
	DefaultAttempts  = 3
	DefaultBaseDelay = time.Second
)

var ErrExhausted = errors.New("retry attempts exhausted")

type Options struct {
	Attempts  int
	BaseDelay time.Duration
}

// Retrier — политика для важных записей: повторить с экспоненциальной
// задержкой и только потом сдаться.
type Retrier struct {
	attempts  int
	baseDelay time.Duration
	notifier  notify.Notifier
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

func New(opts Options, notifier notify.Notifier, logger *slog.Logger) *Retrier {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{
		attempts:  opts.Attempts,
		baseDelay: opts.BaseDelay,
		notifier:  notifier,
		logger:    logger,
		sleep:     sleepContext,
	}
}

// WithSleep подменяет ожидание между попытками (тесты).
func (r *Retrier) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Retrier {
	cp := *r
	cp.sleep = sleep
	return &cp
}

// Delay — пауза перед попыткой attempt (с 1). Перед первой паузы нет.
func (r *Retrier) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return r.baseDelay * time.Duration(1<<(attempt-2))
}

// Do вызывает fn до r.attempts раз. После последней неудачи пауз нет;
// возвращается последняя ошибка, обёрнутая в ErrExhausted.
func Do[T any](ctx context.Context, r *Retrier, endpoint string, payload interface{}, showError bool, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= r.attempts; attempt++ {
		if d := r.Delay(attempt); d > 0 {
			if err := r.sleep(ctx, d); err != nil {
				return zero, fmt.Errorf("%s: %w (last error: %w)", endpoint, err, lastErr)
			}
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				r.logger.Info("call succeeded after retry", slog.String("endpoint", endpoint), slog.Int("attempt", attempt))
			}
			return result, nil
		}
		lastErr = err

		r.logger.Warn("call attempt failed",
			slog.String("endpoint", endpoint),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", r.attempts),
			slog.Any("payload", payload),
			slog.Any("error", err))
	}

	msg := apierr.Message(lastErr)
	if showError {
		r.notifier.Toast(notify.LevelError, msg)
		if apierr.IsNetwork(msg) {
			r.notifier.NetworkBanner(true, apierr.MsgNetwork)
		}
	}

	r.logger.Error("call failed after all retries",
		slog.String("endpoint", endpoint),
		slog.Int("attempts", r.attempts),
		slog.Any("error", lastErr))

	return zero, fmt.Errorf("%w: %s: %w", ErrExhausted, endpoint, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
