package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/category"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/storage"
	"github.com/go-playground/validator/v10"
)

const (
	eventCoverPrefix      = "events/covers"
	defaultCleanupTimeout = 10 * time.Second
)

// EventService — события и участие в них.
type EventService interface {
	GetEvent(ctx context.Context, eventID models.ID) models.Result[*models.Event]
	Participants(ctx context.Context, eventID models.ID) models.Result[[]models.Participant]
	Participated(ctx context.Context) models.Result[[]models.Event]
	// Join и Leave: не-2xx и сбой транспорта дают *models.APIError;
	// 2xx возвращает конверт как есть, даже со status "error" внутри.
	Join(ctx context.Context, eventID models.ID) (models.Envelope, error)
	Leave(ctx context.Context, eventID models.ID) (models.Envelope, error)
	Create(ctx context.Context, input models.CreateEventInput, cover *storage.File) (*models.Event, error)
}

type eventService struct {
	client   *client.Client
	guard    *connectivity.Guard
	uploader storage.FileUploader
	validate *validator.Validate
	logger   *slog.Logger
}

// NewEventService: uploader может быть nil, тогда обложки не поддерживаются.
func NewEventService(c *client.Client, guard *connectivity.Guard, uploader storage.FileUploader, logger *slog.Logger) EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		client:   c,
		guard:    guard,
		uploader: uploader,
		validate: newValidator(),
		logger:   logger,
	}
}

func (s *eventService) GetEvent(ctx context.Context, eventID models.ID) models.Result[*models.Event] {
	return connectivity.Run(ctx, s.guard, nil, func(ctx context.Context) (*models.Event, error) {
		path, err := resourcePath("/events/%s", eventID)
		if err != nil {
			return nil, err
		}
		env := s.client.Get(ctx, path)
		if err := envelopeErr(env); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: %w", ErrEventNotFound, err)
			}
			return nil, err
		}
		event, err := decodeObject[models.Event](env, "event")
		if err != nil {
			return nil, err
		}
		if event == nil || event.ID.IsZero() {
			return nil, ErrEventNotFound
		}
		return event, nil
	})
}

func (s *eventService) Participants(ctx context.Context, eventID models.ID) models.Result[[]models.Participant] {
	return connectivity.Run(ctx, s.guard, []models.Participant{}, func(ctx context.Context) ([]models.Participant, error) {
		path, err := resourcePath("/events/%s/participants", eventID)
		if err != nil {
			return nil, err
		}
		env := s.client.Get(ctx, path)
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.Participant](env, "participants")
	})
}

func (s *eventService) Participated(ctx context.Context) models.Result[[]models.Event] {
	return connectivity.Run(ctx, s.guard, []models.Event{}, func(ctx context.Context) ([]models.Event, error) {
		env := s.client.Get(ctx, "/events/participated")
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.Event](env, "events")
	})
}

func (s *eventService) Join(ctx context.Context, eventID models.ID) (models.Envelope, error) {
	return s.mutateParticipation(ctx, eventID, "join")
}

func (s *eventService) Leave(ctx context.Context, eventID models.ID) (models.Envelope, error) {
	return s.mutateParticipation(ctx, eventID, "leave")
}

func (s *eventService) mutateParticipation(ctx context.Context, eventID models.ID, action string) (models.Envelope, error) {
	if err := s.guard.Check(ctx); err != nil {
		return models.Envelope{Status: models.StatusError, Message: connectivity.OfflineMessage}, err
	}

	path, err := resourcePath("/events/%s/"+action, eventID)
	if err != nil {
		return models.Envelope{Status: models.StatusError, Message: err.Error()}, err
	}

	env := s.client.Post(ctx, path, nil)
	if env.StatusCode < 200 || env.StatusCode >= 300 {
		s.logger.Warn("participation request failed",
			slog.String("action", action),
			slog.String("event_id", eventID.String()),
			slog.Int("status", env.StatusCode),
			slog.String("message", env.Message))
		return env, env.Err()
	}
	return env, nil
}

func (s *eventService) Create(ctx context.Context, input models.CreateEventInput, cover *storage.File) (*models.Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.SportCategory = category.Normalize(input.SportCategory)
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx); err != nil {
		return nil, err
	}

	var coverKey string
	if cover != nil {
		if s.uploader == nil {
			return nil, storage.ErrUploadsDisabled
		}
		coverKey = storage.ObjectKey(eventCoverPrefix, cover.Name)
		res, err := s.uploader.Upload(ctx, coverKey, cover.ContentType, cover.Reader)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCoverUpload, err)
		}
		input.ImageURL = res.Location
	}

	env := s.client.Post(ctx, "/events", input)
	if err := envelopeErr(env); err != nil {
		s.discardCover(coverKey)
		return nil, err
	}

	event, err := decodeObject[models.Event](env, "event")
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: empty create event response", ErrNotFound)
	}
	return event, nil
}

// discardCover удаляет уже загруженную обложку, если событие не создалось.
func (s *eventService) discardCover(key string) {
	if key == "" || s.uploader == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultCleanupTimeout)
	defer cancel()
	if err := s.uploader.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete orphaned event cover", slog.String("key", key), slog.Any("error", err))
	}
}
