package services

import (
	"errors"
	"net/http"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidID        = errors.New("identifier must not be empty")
	ErrForbidden        = errors.New("operation not allowed for the current user")
	ErrUnauthorized     = errors.New("authentication required")
	ErrConflict         = errors.New("request conflicts with the current state")

	ErrEventNotFound = errors.New("event not found")
	ErrCoverUpload   = errors.New("failed to upload event cover")
)

// ValidationError несёт ошибки по полям; errors.Is(err, ErrValidationFailed) == true.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error()
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// envelopeErr превращает неуспешный конверт в ошибку сервисного слоя.
// Статус HTTP сохраняется в *models.APIError, сентинел добавляется по коду.
func envelopeErr(env models.Envelope) error {
	err := env.Err()
	if err == nil {
		return nil
	}
	switch env.StatusCode {
	case http.StatusNotFound:
		return errors.Join(ErrNotFound, err)
	case http.StatusForbidden:
		return errors.Join(ErrForbidden, err)
	case http.StatusUnauthorized:
		return errors.Join(ErrUnauthorized, err)
	case http.StatusConflict:
		return errors.Join(ErrConflict, err)
	default:
		return err
	}
}
