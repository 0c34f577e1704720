package models

import "strings"

// EventStatus — закрытое перечисление статусов события.
type EventStatus string

const (
	EventStatusPending   EventStatus = "PENDING"
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusRejected  EventStatus = "REJECTED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
)

// Normalized приводит статус к верхнему регистру: бэкенд иногда отдаёт "active".
func (s EventStatus) Normalized() EventStatus {
	return EventStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

// IsTerminal сообщает, что участие в событии больше невозможно.
func (s EventStatus) IsTerminal() bool {
	switch s.Normalized() {
	case EventStatusRejected, EventStatusCancelled, EventStatusCompleted:
		return true
	default:
		return false
	}
}

// Event представляет спортивное событие в том виде, в каком его отдаёт бэкенд.
type Event struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	EventDate string `json:"event_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	LocationName string   `json:"location_name"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	MaxParticipants     int  `json:"max_participants"`
	CurrentParticipants *int `json:"current_participants,omitempty"`
	ParticipantCount    *int `json:"participant_count,omitempty"`

	// UserJoined — флаг участия по последнему ответу бэкенда, может быть устаревшим.
	UserJoined bool `json:"user_joined"`

	CreatorID   ID     `json:"creator_id"`
	CreatorName string `json:"creator_name,omitempty"`

	Sport         *SportRef `json:"sport,omitempty"`
	SportCategory string    `json:"sport_category,omitempty"`
	SportName     string    `json:"sport_name,omitempty"`

	ImageURL string      `json:"image_url,omitempty"`
	Status   EventStatus `json:"status"`
}

// ParticipantTotal возвращает число участников: current_participants, затем participant_count.
func (e *Event) ParticipantTotal() int {
	switch {
	case e.CurrentParticipants != nil:
		return *e.CurrentParticipants
	case e.ParticipantCount != nil:
		return *e.ParticipantCount
	default:
		return 0
	}
}

// RawCategory возвращает первое непустое название вида спорта.
func (e *Event) RawCategory() string {
	if v := strings.TrimSpace(e.SportCategory); v != "" {
		return v
	}
	if e.Sport != nil {
		if v := strings.TrimSpace(e.Sport.Name); v != "" {
			return v
		}
	}
	return strings.TrimSpace(e.SportName)
}

// CategoryImageURL — картинка категории, которую прислал бэкенд (если есть).
func (e *Event) CategoryImageURL() string {
	if e.Sport == nil {
		return ""
	}
	return strings.TrimSpace(e.Sport.ImageURL)
}

// IsFull сообщает, что лимит участников достигнут. Лимит 0 означает «без лимита».
func (e *Event) IsFull(count int) bool {
	return e.MaxParticipants > 0 && count >= e.MaxParticipants
}

// CreateEventInput — тело запроса POST /events.
type CreateEventInput struct {
	Title           string   `json:"title" validate:"required,max=120"`
	Description     string   `json:"description" validate:"max=2000"`
	SportCategory   string   `json:"sport_category" validate:"required"`
	EventDate       string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	StartTime       string   `json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string   `json:"end_time" validate:"required,datetime=15:04"`
	LocationName    string   `json:"location_name" validate:"required"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	MaxParticipants int      `json:"max_participants" validate:"required,gte=2,lte=500"`
	ImageURL        string   `json:"image_url,omitempty"`
}
