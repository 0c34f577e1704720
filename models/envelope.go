package models

import (
	"encoding/json"
	"fmt"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DefaultErrorMessage показывается, когда ни сервер, ни транспорт не дали текста ошибки.
const DefaultErrorMessage = "Bir hata oluştu"

// Envelope — единая форма ответа {status, message, data}.
// StatusCode не сериализуется: 0 означает, что ответа от сервера не было.
type Envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	StatusCode int             `json:"-"`
}

func (e Envelope) OK() bool { return e.Status == StatusSuccess }

// Decode раскладывает Data в dst. Пустые данные не считаются ошибкой.
func (e Envelope) Decode(dst interface{}) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// Err превращает конверт с ошибкой в *APIError; для успешного возвращает nil.
func (e Envelope) Err() error {
	if e.OK() {
		return nil
	}
	msg := e.Message
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return &APIError{StatusCode: e.StatusCode, Message: msg, Body: e.Data}
}

// Result — типизированный конверт, который возвращает сетевой guard.
// При ошибке Data содержит fallback-значение вызывающего.
type Result[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

func (r Result[T]) OK() bool { return r.Status == StatusSuccess }

// APIError — ошибка бэкенда или транспорта с текстом, пригодным для классификации.
type APIError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return e.Message
}
