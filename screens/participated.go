package screens

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/bus"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/category"
	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

const refetchTimeout = 30 * time.Second

type ParticipatedAPI interface {
	Participated(ctx context.Context) models.Result[[]models.Event]
}

// EventCard — строка списка событий пользователя.
type EventCard struct {
	Event         models.Event `json:"event"`
	Category      string       `json:"category"`
	CategoryIcon  string       `json:"category_icon"`
	ImageURL      string       `json:"image_url"`
	FormattedDate string       `json:"formatted_date"`
	FormattedTime string       `json:"formatted_time"`
}

// ParticipatedEvents — список событий, в которых участвует пользователь.
// Пока экран смонтирован, он слушает EventParticipationChanged и перечитывает
// список после каждого join/leave на любом экране.
type ParticipatedEvents struct {
	api    ParticipatedAPI
	bus    *bus.Bus
	images *category.Images
	logger *slog.Logger

	mu      sync.Mutex
	items   []EventCard
	loaded  bool
	err     string
	seq     uint64
	fetches int
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewParticipatedEvents(api ParticipatedAPI, b *bus.Bus, images *category.Images, logger *slog.Logger) *ParticipatedEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParticipatedEvents{
		api:    api,
		bus:    b,
		images: images,
		logger: logger.With(slog.String("screen", "participated_events")),
		items:  []EventCard{},
	}
}

// Mount загружает список и подписывается на шину. Повторный Mount — то же, что Focus.
func (p *ParticipatedEvents) Mount(ctx context.Context) ListState[EventCard] {
	p.mu.Lock()
	if p.cancel == nil && p.bus != nil {
		changes, unsubscribe := bus.Subscribe(p.bus, bus.EventParticipationChanged)
		listenCtx, cancel := context.WithCancel(context.Background())
		p.cancel = func() {
			cancel()
			unsubscribe()
		}
		p.done = make(chan struct{})
		go p.listen(listenCtx, changes, p.done)
	}
	p.mu.Unlock()

	p.refresh(ctx)
	return p.State()
}

func (p *ParticipatedEvents) Focus(ctx context.Context) ListState[EventCard] {
	p.refresh(ctx)
	return p.State()
}

// Unmount отписывается от шины и дожидается остановки слушателя.
func (p *ParticipatedEvents) Unmount() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *ParticipatedEvents) listen(ctx context.Context, changes <-chan bus.ParticipationChanged, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			p.logger.Debug("participation changed, refetching",
				slog.String("event_id", change.EventID.String()),
				slog.Bool("joined", change.Joined))
			fetchCtx, cancel := context.WithTimeout(ctx, refetchTimeout)
			p.refresh(fetchCtx)
			cancel()
		}
	}
}

func (p *ParticipatedEvents) refresh(ctx context.Context) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.fetches++
	p.mu.Unlock()

	res := p.api.Participated(ctx)
	cards := make([]EventCard, 0, len(res.Data))
	for i := range res.Data {
		cards = append(cards, p.card(res.Data[i]))
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		return
	}
	p.loaded = true
	p.err = ""
	if !res.OK() {
		p.err = res.Message
		p.logger.Warn("failed to load participated events", slog.String("message", res.Message))
		return
	}
	p.items = cards
}

func (p *ParticipatedEvents) card(e models.Event) EventCard {
	canonical := category.Normalize(e.RawCategory())
	return EventCard{
		Event:         e,
		Category:      canonical,
		CategoryIcon:  category.Icon(canonical),
		ImageURL:      p.images.ForEvent(&e, canonical),
		FormattedDate: FormatDate(e.EventDate),
		FormattedTime: FormatTimeRange(e.StartTime, e.EndTime),
	}
}

// Fetches — сколько раз список запрашивался (для диагностики и тестов).
func (p *ParticipatedEvents) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

func (p *ParticipatedEvents) State() ListState[EventCard] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ListState[EventCard]{
		Loaded:     p.loaded,
		Error:      p.err,
		Items:      append([]EventCard{}, p.items...),
		Processing: []models.ID{},
	}
}
