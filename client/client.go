package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
	requestIDHeader = "X-Request-ID"
)

// TokenSource отдаёт сохранённый токен. Пустая строка — запрос без авторизации.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	// HTTPClient подменяется в тестах; Timeout к нему всё равно применяется.
	HTTPClient *http.Client
}

// Client — транспортный адаптер к REST-бэкенду. Любой исход запроса
// превращается в models.Envelope; Go-ошибки наружу не выходят.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
	logger  *slog.Logger

	mu             sync.RWMutex
	onUnauthorized []func(ctx context.Context)
}

func New(opts Options, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		c := *opts.HTTPClient
		httpClient = &c
	}
	httpClient.Timeout = timeout

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		limiter: limiter,
		tokens:  tokens,
		logger:  logger,
	}
}

// OnUnauthorized регистрирует наблюдателя за ответами 401.
// Сам адаптер хранилище токена не трогает.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string) models.Envelope {
	return c.Request(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) models.Envelope {
	return c.Request(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) models.Envelope {
	return c.Request(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) models.Envelope {
	return c.Request(ctx, http.MethodDelete, path, nil)
}

// Request выполняет запрос и нормализует ответ в конверт {status, message, data}.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) models.Envelope {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return transportError(fmt.Errorf("failed to encode request body: %w", err))
		}
		payload = bytes.NewReader(raw)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+ensureLeadingSlash(path), payload)
	if err != nil {
		return transportError(fmt.Errorf("failed to build request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			c.logger.Warn("failed to read auth token, sending request without it",
				slog.String("request_id", requestID), slog.Any("error", err))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("request_id", requestID),
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return transportError(fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.Debug("request completed",
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return successEnvelope(resp.StatusCode, raw)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.notifyUnauthorized(ctx)
	}

	return errorEnvelope(resp.StatusCode, raw, http.StatusText(resp.StatusCode))
}

func (c *Client) notifyUnauthorized(ctx context.Context) {
	c.mu.RLock()
	callbacks := append([]func(context.Context){}, c.onUnauthorized...)
	c.mu.RUnlock()

	for _, fn := range callbacks {
		fn(ctx)
	}
}

// successEnvelope: JSON-объект с полем status считается конвертом бэкенда,
// всё остальное — голыми данными.
func successEnvelope(code int, raw []byte) models.Envelope {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return models.Envelope{Status: models.StatusSuccess, StatusCode: code}
	}

	var probe struct {
		Status  *string         `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if trimmed[0] == '{' && json.Unmarshal(trimmed, &probe) == nil && probe.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*probe.Status))
		if status != models.StatusError {
			status = models.StatusSuccess
		}
		return models.Envelope{Status: status, Message: probe.Message, Data: probe.Data, StatusCode: code}
	}

	if !json.Valid(trimmed) {
		quoted, _ := json.Marshal(string(trimmed))
		trimmed = quoted
	}
	return models.Envelope{Status: models.StatusSuccess, Data: json.RawMessage(trimmed), StatusCode: code}
}

func errorEnvelope(code int, raw []byte, fallback string) models.Envelope {
	env := models.Envelope{Status: models.StatusError, StatusCode: code}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		env.Data = json.RawMessage(trimmed)

		var body struct {
			Message interface{} `json:"message"`
			Error   interface{} `json:"error"`
		}
		if trimmed[0] == '{' && json.Unmarshal(trimmed, &body) == nil {
			env.Message = firstText(body.Message, body.Error)
		}
	}

	if env.Message == "" {
		env.Message = fallback
	}
	if env.Message == "" {
		env.Message = models.DefaultErrorMessage
	}
	return env
}

func transportError(err error) models.Envelope {
	msg := models.DefaultErrorMessage
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timeout: " + err.Error()
	case err != nil && err.Error() != "":
		msg = err.Error()
	}
	return models.Envelope{Status: models.StatusError, Message: msg}
}

// firstText берёт первое непустое текстовое поле; вложенный {"message": ...} тоже подходит.
func firstText(values ...interface{}) string {
	for _, v := range values {
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case map[string]interface{}:
			if s := firstText(t["message"], t["error"]); s != "" {
				return s
			}
		}
	}
	return ""
}

func ensureLeadingSlash(p string) string {
	if p == "" || strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
