package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/client"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/connectivity"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/retry"
	"github.com/go-playground/validator/v10"
)

// RatingService — отзывы о событиях. Среднюю оценку считает только бэкенд.
type RatingService interface {
	Average(ctx context.Context, eventID models.ID) models.Result[float64]
	List(ctx context.Context, eventID models.ID) models.Result[[]models.Rating]
	Create(ctx context.Context, eventID models.ID, input models.RatingInput) (*models.Rating, error)
	Update(ctx context.Context, ratingID models.ID, input models.RatingInput) (*models.Rating, error)
	Delete(ctx context.Context, ratingID models.ID) error
}

type ratingService struct {
	client   *client.Client
	guard    *connectivity.Guard
	retrier  *retry.Retrier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewRatingService(c *client.Client, guard *connectivity.Guard, retrier *retry.Retrier, logger *slog.Logger) RatingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ratingService{
		client:   c,
		guard:    guard,
		retrier:  retrier,
		validate: newValidator(),
		logger:   logger,
	}
}

func (s *ratingService) Average(ctx context.Context, eventID models.ID) models.Result[float64] {
	return connectivity.Run(ctx, s.guard, 0, func(ctx context.Context) (float64, error) {
		path, err := resourcePath("/event-ratings/%s/average", eventID)
		if err != nil {
			return 0, err
		}
		env := s.client.Get(ctx, path)
		if err := envelopeErr(env); err != nil {
			return 0, err
		}
		return parseAverage(env.Data)
	})
}

func (s *ratingService) List(ctx context.Context, eventID models.ID) models.Result[[]models.Rating] {
	return connectivity.Run(ctx, s.guard, []models.Rating{}, func(ctx context.Context) ([]models.Rating, error) {
		path, err := resourcePath("/event-ratings/%s/ratings", eventID)
		if err != nil {
			return nil, err
		}
		env := s.client.Get(ctx, path)
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		return decodeList[models.Rating](env, "ratings")
	})
}

func (s *ratingService) Create(ctx context.Context, eventID models.ID, input models.RatingInput) (*models.Rating, error) {
	path, err := resourcePath("/event-ratings/%s/ratings", eventID)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, http.MethodPost, path, input)
}

func (s *ratingService) Update(ctx context.Context, ratingID models.ID, input models.RatingInput) (*models.Rating, error) {
	path, err := resourcePath("/event-ratings/rating/%s", ratingID)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, http.MethodPut, path, input)
}

func (s *ratingService) Delete(ctx context.Context, ratingID models.ID) error {
	path, err := resourcePath("/event-ratings/rating/%s", ratingID)
	if err != nil {
		return err
	}
	_, err = retry.Do(ctx, s.retrier, path, nil, true, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, envelopeErr(s.client.Delete(ctx, path))
	})
	return err
}

func (s *ratingService) write(ctx context.Context, method, path string, input models.RatingInput) (*models.Rating, error) {
	input.Review = strings.TrimSpace(input.Review)
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	return retry.Do(ctx, s.retrier, path, input, true, func(ctx context.Context) (*models.Rating, error) {
		env := s.client.Request(ctx, method, path, input)
		if err := envelopeErr(env); err != nil {
			return nil, err
		}
		rating, err := decodeObject[models.Rating](env, "rating")
		if err != nil {
			return nil, err
		}
		if rating == nil {
			rating = &models.Rating{Rating: input.Rating, Review: input.Review}
		}
		return rating, nil
	})
}

// parseAverage принимает число, строку с числом или объект {average_rating|average}.
func parseAverage(raw json.RawMessage) (float64, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return 0, nil
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid average rating %q: %w", s, err)
		}
		return v, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("unexpected average rating payload: %w", err)
	}
	for _, key := range []string{"average_rating", "average", "avg"} {
		if v, ok := obj[key]; ok {
			return parseAverage(v)
		}
	}
	return 0, nil
}
