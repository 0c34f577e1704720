package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/go-playground/validator/v10"
)

// MessageService — личные сообщения (/mobile/messages).
type MessageService interface {
	Conversations(ctx context.Context) models.Result[[]models.Conversation]
	Thread(ctx context.Context, userID models.ID) models.Result[[]models.Message]
	Send(ctx context.Context, userID models.ID, input models.SendMessageInput) (*models.Message, error)
	MarkThreadRead(ctx context.Context, userID models.ID) error
	Delete(ctx context.Context, messageID models.ID) error
}

type messageService struct {
	client   *client.Client
	guard    *connectivity.Guard
	validate *validator.Validate
	logger   *slog.Logger
}

func NewMessageService(c *client.Client, guard *connectivity.Guard, logger *slog.Logger) MessageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &messageService{client: c, guard: guard, validate: newValidator(), logger: logger}
}

func (s *messageService) Conversations(ctx context.Context) models.Result[[]models.Conversation] {
	return connectivity.Run(ctx, s.guard, []models.Conversation{}, func(ctx context.Context) ([]models.Conversation, error) {
		env := s.client.Get(ctx, "/mobile/messages/conversations")
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.Conversation](env, "conversations")
	})
}

func (s *messageService) Thread(ctx context.Context, userID models.ID) models.Result[[]models.Message] {
	return connectivity.Run(ctx, s.guard, []models.Message{}, func(ctx context.Context) ([]models.Message, error) {
		path, err := resourcePath("/mobile/messages/%s", userID)
		if err != nil {
			return nil, err
		}
		env := s.client.Get(ctx, path)
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.Message](env, "messages")
	})
}

func (s *messageService) Send(ctx context.Context, userID models.ID, input models.SendMessageInput) (*models.Message, error) {
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}
	path, err := resourcePath("/mobile/messages/%s", userID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx); err != nil {
		return nil, err
	}

	env := s.client.Post(ctx, path, input)
	if err := envelopeErr(env); err != nil {
		return nil, err
	}
	msg, err := decodeObject[models.Message](env, "message")
	if err != nil {
		return nil, err
	}
	if msg == nil {
		msg = &models.Message{ReceiverID: userID, Content: input.Content}
	}
	return msg, nil
}

func (s *messageService) MarkThreadRead(ctx context.Context, userID models.ID) error {
	path, err := resourcePath("/mobile/messages/%s/read", userID)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx); err != nil {
		return err
	}
	return envelopeErr(s.client.Put(ctx, path, nil))
}

func (s *messageService) Delete(ctx context.Context, messageID models.ID) error {
	path, err := resourcePath("/mobile/messages/%s", messageID)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx); err != nil {
		return err
	}
	return envelopeErr(s.client.Delete(ctx, path))
}
