package services

import (
	"context"
	"log/slog"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

type NotificationService interface {
	List(ctx context.Context) models.Result[[]models.Notification]
	MarkRead(ctx context.Context, notificationID models.ID) error
	MarkAllRead(ctx context.Context) error
}

type notificationService struct {
	client *client.Client
	guard  *connectivity.Guard
	logger *slog.Logger
}

func NewNotificationService(c *client.Client, guard *connectivity.Guard, logger *slog.Logger) NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{client: c, guard: guard, logger: logger}
}

func (s *notificationService) List(ctx context.Context) models.Result[[]models.Notification] {
	return connectivity.Run(ctx, s.guard, []models.Notification{}, func(ctx context.Context) ([]models.Notification, error) {
		env := s.client.Get(ctx, "/mobile/notifications")
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.Notification](env, "notifications")
	})
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID models.ID) error {
	path, err := resourcePath("/mobile/notifications/%s/read", notificationID)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx); err != nil {
		return err
	}
	return envelopeErr(s.client.Put(ctx, path, nil))
}

func (s *notificationService) MarkAllRead(ctx context.Context) error {
	if err := s.guard.Check(ctx); err != nil {
		return err
	}
	return envelopeErr(s.client.Put(ctx, "/mobile/notifications/mark-all-read", nil))
}
