package services

import (
	"context"
	"log/slog"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

type FriendshipService interface {
	Incoming(ctx context.Context) models.Result[[]models.FriendshipRequest]
	Accept(ctx context.Context, requestID models.ID) error
	Reject(ctx context.Context, requestID models.ID) error
	Friends(ctx context.Context) models.Result[[]models.Friend]
	Remove(ctx context.Context, friendshipID models.ID) error
}

type friendshipService struct {
	client *client.Client
	guard  *connectivity.Guard
	logger *slog.Logger
}

func NewFriendshipService(c *client.Client, guard *connectivity.Guard, logger *slog.Logger) FriendshipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &friendshipService{client: c, guard: guard, logger: logger}
}

func (s *friendshipService) Incoming(ctx context.Context) models.Result[[]models.FriendshipRequest] {
	return connectivity.Run(ctx, s.guard, []models.FriendshipRequest{}, func(ctx context.Context) ([]models.FriendshipRequest, error) {
		env := s.client.Get(ctx, "/mobile/friendships/requests/incoming")
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.FriendshipRequest](env, "requests")
	})
}

func (s *friendshipService) Accept(ctx context.Context, requestID models.ID) error {
	return s.respond(ctx, requestID, "accept")
}

func (s *friendshipService) Reject(ctx context.Context, requestID models.ID) error {
	return s.respond(ctx, requestID, "reject")
}

func (s *friendshipService) respond(ctx context.Context, requestID models.ID, action string) error {
	path, err := resourcePath("/mobile/friendships/requests/%s/"+action, requestID)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx); err != nil {
		return err
	}
	return envelopeErr(s.client.Put(ctx, path, nil))
}

func (s *friendshipService) Friends(ctx context.Context) models.Result[[]models.Friend] {
	return connectivity.Run(ctx, s.guard, []models.Friend{}, func(ctx context.Context) ([]models.Friend, error) {
		env := s.client.Get(ctx, "/mobile/friendships")
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.Friend](env, "friends")
	})
}

func (s *friendshipService) Remove(ctx context.Context, friendshipID models.ID) error {
	path, err := resourcePath("/mobile/friendships/%s", friendshipID)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx); err != nil {
		return err
	}
	return envelopeErr(s.client.Delete(ctx, path))
}
