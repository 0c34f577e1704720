package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/retry"
	"github.com/go-playground/validator/v10"
)

const reportAcceptedMessage = "Raporunuz alındı."

type ReportService interface {
	ReportUser(ctx context.Context, userID models.ID, input models.ReportInput) (models.Envelope, error)
}

type reportService struct {
	client   *client.Client
	retrier  *retry.Retrier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewReportService(c *client.Client, retrier *retry.Retrier, logger *slog.Logger) ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportService{client: c, retrier: retrier, validate: newValidator(), logger: logger}
}

type reportPayload struct {
	ReportedUserID models.ID `json:"reported_user_id"`
	Reason         string    `json:"reason"`
	Description    string    `json:"description,omitempty"`
}

// ReportUser отправляет жалобу с ретраями. Жалоба не критична для UI:
// после исчерпания попыток ошибка логируется, а вызывающий получает успех.
func (s *reportService) ReportUser(ctx context.Context, userID models.ID, input models.ReportInput) (models.Envelope, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if err := validateInput(s.validate, input); err != nil {
		return models.Envelope{}, err
	}
	if userID.IsZero() {
		return models.Envelope{}, ErrInvalidID
	}

	payload := reportPayload{ReportedUserID: userID, Reason: input.Reason, Description: input.Description}
	env, err := retry.Do(ctx, s.retrier, "/mobile/reports", payload, false, func(ctx context.Context) (models.Envelope, error) {
		env := s.client.Post(ctx, "/mobile/reports", payload)
		return env, envelopeErr(env)
	})
	if err != nil {
		s.logger.Error("user report was not delivered, reporting success to the caller",
			slog.String("reported_user_id", userID.String()),
			slog.Any("error", err))
		return models.Envelope{Status: models.StatusSuccess, Message: reportAcceptedMessage}, nil
	}
	if env.Message == "" {
		env.Message = reportAcceptedMessage
	}
	return env, nil
}
