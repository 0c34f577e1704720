package models

import "time"

// Rating — отзыв о событии. Оценка (1–5) отсутствует для незавершённых событий.
type Rating struct {
	ID        ID           `json:"id"`
	EventID   ID           `json:"event_id"`
	Rating    *int         `json:"rating"`
	Review    string       `json:"review"`
	User      *UserSummary `json:"user,omitempty"`
	CreatedAt *time.Time   `json:"created_at,omitempty"`
}

type RatingInput struct {
	Rating *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Review string `json:"review" validate:"required,notblank,max=1000"`
}
