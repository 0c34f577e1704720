package screens

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

var (
	ErrItemBusy     = errors.New("an action on this item is already in progress")
	ErrItemNotFound = errors.New("item is not in the list")
)

// allItemsKey — ключ в processing для действий над всем списком.
const allItemsKey models.ID = "*"

// processing — набор id, над которыми идёт действие. Второе действие
// над тем же id отклоняется без сетевого вызова.
type processing map[models.ID]struct{}

func (p processing) begin(id models.ID) bool {
	if _, busy := p[id]; busy {
		return false
	}
	p[id] = struct{}{}
	return true
}

func (p processing) has(id models.ID) bool {
	_, ok := p[id]
	return ok
}

func (p processing) ids() []models.ID {
	out := make([]models.ID, 0, len(p))
	for id := range p {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ListState — общее состояние экранов-списков.
type ListState[T any] struct {
	Loaded     bool        `json:"loaded"`
	Error      string      `json:"error,omitempty"`
	Items      []T         `json:"items"`
	Processing []models.ID `json:"processing"`
}

type FriendshipAPI interface {
	Incoming(ctx context.Context) models.Result[[]models.FriendshipRequest]
	Accept(ctx context.Context, requestID models.ID) error
	Reject(ctx context.Context, requestID models.ID) error
}

// FriendRequests — входящие заявки в друзья.
type FriendRequests struct {
	api    FriendshipAPI
	logger *slog.Logger

	mu         sync.Mutex
	items      []models.FriendshipRequest
	processing processing
	loaded     bool
	err        string
}

func NewFriendRequests(api FriendshipAPI, logger *slog.Logger) *FriendRequests {
	if logger == nil {
		logger = slog.Default()
	}
	return &FriendRequests{
		api:        api,
		logger:     logger.With(slog.String("screen", "friend_requests")),
		items:      []models.FriendshipRequest{},
		processing: processing{},
	}
}

func (s *FriendRequests) Load(ctx context.Context) ListState[models.FriendshipRequest] {
	res := s.api.Incoming(ctx)

	s.mu.Lock()
	s.loaded = true
	s.err = ""
	if !res.OK() {
		s.err = res.Message
		s.logger.Warn("failed to load friend requests", slog.String("message", res.Message))
	}
	s.items = append([]models.FriendshipRequest{}, res.Data...)
	s.mu.Unlock()

	return s.State()
}

func (s *FriendRequests) Accept(ctx context.Context, id models.ID) error {
	return s.act(ctx, id, "accept", s.api.Accept)
}

func (s *FriendRequests) Reject(ctx context.Context, id models.ID) error {
	return s.act(ctx, id, "reject", s.api.Reject)
}

func (s *FriendRequests) act(ctx context.Context, id models.ID, action string, call func(context.Context, models.ID) error) error {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	if !s.processing.begin(id) {
		s.mu.Unlock()
		return ErrItemBusy
	}
	s.mu.Unlock()

	err := call(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.processing, id)
	if err != nil {
		s.logger.Error("friend request action failed",
			slog.String("action", action),
			slog.String("request_id", id.String()),
			slog.Any("error", err))
		return err
	}
	if i := s.indexLocked(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return nil
}

func (s *FriendRequests) indexLocked(id models.ID) int {
	for i := range s.items {
		if s.items[i].ID.Equal(id) {
			return i
		}
	}
	return -1
}

func (s *FriendRequests) Items() []models.FriendshipRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FriendshipRequest{}, s.items...)
}

func (s *FriendRequests) Processing(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing.has(id)
}

func (s *FriendRequests) State() ListState[models.FriendshipRequest] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ListState[models.FriendshipRequest]{
		Loaded:     s.loaded,
		Error:      s.err,
		Items:      append([]models.FriendshipRequest{}, s.items...),
		Processing: s.processing.ids(),
	}
}

type NotificationsAPI interface {
	List(ctx context.Context) models.Result[[]models.Notification]
	MarkRead(ctx context.Context, notificationID models.ID) error
	MarkAllRead(ctx context.Context) error
}

// Notifications — список уведомлений. Прочтение патчит is_read, а не удаляет.
type Notifications struct {
	api    NotificationsAPI
	logger *slog.Logger

	mu         sync.Mutex
	items      []models.Notification
	processing processing
	loaded     bool
	err        string
}

func NewNotifications(api NotificationsAPI, logger *slog.Logger) *Notifications {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifications{
		api:        api,
		logger:     logger.With(slog.String("screen", "notifications")),
		items:      []models.Notification{},
		processing: processing{},
	}
}

func (s *Notifications) Load(ctx context.Context) ListState[models.Notification] {
	res := s.api.List(ctx)

	s.mu.Lock()
	s.loaded = true
	s.err = ""
	if !res.OK() {
		s.err = res.Message
		s.logger.Warn("failed to load notifications", slog.String("message", res.Message))
	}
	s.items = append([]models.Notification{}, res.Data...)
	s.mu.Unlock()

	return s.State()
}

func (s *Notifications) MarkRead(ctx context.Context, id models.ID) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	if s.items[i].IsRead {
		s.mu.Unlock()
		return nil
	}
	if s.processing.has(allItemsKey) || !s.processing.begin(id) {
		s.mu.Unlock()
		return ErrItemBusy
	}
	s.mu.Unlock()

	err := s.api.MarkRead(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.processing, id)
	if err != nil {
		s.logger.Error("failed to mark notification as read", slog.String("notification_id", id.String()), slog.Any("error", err))
		return err
	}
	if i := s.indexLocked(id); i >= 0 {
		s.items[i].IsRead = true
	}
	return nil
}

func (s *Notifications) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	if !s.processing.begin(allItemsKey) {
		s.mu.Unlock()
		return ErrItemBusy
	}
	s.mu.Unlock()

	err := s.api.MarkAllRead(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.processing, allItemsKey)
	if err != nil {
		s.logger.Error("failed to mark all notifications as read", slog.Any("error", err))
		return err
	}
	for i := range s.items {
		s.items[i].IsRead = true
	}
	return nil
}

func (s *Notifications) indexLocked(id models.ID) int {
	for i := range s.items {
		if s.items[i].ID.Equal(id) {
			return i
		}
	}
	return -1
}

func (s *Notifications) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.UnreadCount(s.items)
}

func (s *Notifications) Items() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification{}, s.items...)
}

func (s *Notifications) Processing(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing.has(id)
}

func (s *Notifications) State() ListState[models.Notification] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ListState[models.Notification]{
		Loaded:     s.loaded,
		Error:      s.err,
		Items:      append([]models.Notification{}, s.items...),
		Processing: s.processing.ids(),
	}
}
