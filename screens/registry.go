package screens

import (
	"context"
	"sync"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

// Registry держит смонтированные экраны для companion-сервера:
// первый запрос экрана события его монтирует, следующие — фокусируют.
type Registry struct {
	deps EventDetailDeps

	FriendRequests *FriendRequests
	Notifications  *Notifications
	Participated   *ParticipatedEvents

	mu      sync.Mutex
	details map[models.ID]*EventDetail
}

func NewRegistry(deps EventDetailDeps, friendRequests *FriendRequests, notifications *Notifications, participated *ParticipatedEvents) *Registry {
	return &Registry{
		deps:           deps,
		FriendRequests: friendRequests,
		Notifications:  notifications,
		Participated:   participated,
		details:        make(map[models.ID]*EventDetail),
	}
}

// OpenEventDetail монтирует экран события или фокусирует уже открытый.
func (r *Registry) OpenEventDetail(ctx context.Context, eventID models.ID) EventDetailState {
	r.mu.Lock()
	d, ok := r.details[eventID]
	if !ok {
		d = NewEventDetail(eventID, r.deps)
		r.details[eventID] = d
	}
	r.mu.Unlock()

	if !ok {
		return d.Mount(ctx)
	}
	return d.Focus(ctx)
}

// EventDetail возвращает уже открытый экран.
func (r *Registry) EventDetail(eventID models.ID) (*EventDetail, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[eventID]
	return d, ok
}

// CloseEventDetail размонтирует экран события.
func (r *Registry) CloseEventDetail(eventID models.ID) bool {
	r.mu.Lock()
	d, ok := r.details[eventID]
	delete(r.details, eventID)
	r.mu.Unlock()

	if ok {
		d.Unmount()
	}
	return ok
}

// Close размонтирует все экраны (остановка сервера).
func (r *Registry) Close() {
	r.mu.Lock()
	details := r.details
	r.details = make(map[models.ID]*EventDetail)
	r.mu.Unlock()

	for _, d := range details {
		d.Unmount()
	}
	if r.Participated != nil {
		r.Participated.Unmount()
	}
}
