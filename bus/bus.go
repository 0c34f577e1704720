package bus

import (
	"log/slog"
	"sync"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/models"
)

const defaultBuffer = 16

// Topic — типизированная тема. Опечатка в имени темы ловится компилятором,
// а не молча ломает обновление соседних экранов.
type Topic[T any] struct {
	name string
}

func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

func (t Topic[T]) Name() string { return t.name }

// ParticipationChanged публикуется после join/leave, чтобы списки перечитали данные.
type ParticipationChanged struct {
	EventID models.ID `json:"event_id"`
	Joined  bool      `json:"joined"`
}

type ToastMessage struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type AlertMessage struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type BannerMessage struct {
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
}

var (
	EventParticipationChanged = NewTopic[ParticipationChanged]("EVENT_PARTICIPATION_CHANGED")
	Toast                     = NewTopic[ToastMessage]("TOAST")
	Alert                     = NewTopic[AlertMessage]("ALERT")
	NetworkBanner             = NewTopic[BannerMessage]("NETWORK_BANNER")
)

// Message — сообщение любой темы, в таком виде его получают мосты (websocket).
type Message struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

type subscriber struct {
	topic   string // пусто — подписка на все темы
	deliver func(topic string, payload interface{})
	close   func()
}

// Bus — процессный pub/sub без истории и гарантий доставки.
type Bus struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
	buffer int
	logger *slog.Logger
}

func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[uint64]*subscriber),
		buffer: defaultBuffer,
		logger: logger,
	}
}

// Subscribe возвращает канал сообщений темы и функцию отписки.
// Отписка закрывает канал; повторный вызов безопасен.
func Subscribe[T any](b *Bus, topic Topic[T]) (<-chan T, func()) {
	ch := make(chan T, b.buffer)
	sub := &subscriber{
		topic: topic.name,
		deliver: func(name string, payload interface{}) {
			v, ok := payload.(T)
			if !ok {
				return
			}
			select {
			case ch <- v:
			default:
				b.logger.Warn("bus subscriber is full, message dropped", slog.String("topic", name))
			}
		},
		close: func() { close(ch) },
	}
	return ch, b.add(sub)
}

// SubscribeAll подписывает на все темы сразу.
func (b *Bus) SubscribeAll() (<-chan Message, func()) {
	ch := make(chan Message, b.buffer*4)
	sub := &subscriber{
		deliver: func(name string, payload interface{}) {
			select {
			case ch <- Message{Topic: name, Payload: payload}:
			default:
				b.logger.Warn("bus bridge is full, message dropped", slog.String("topic", name))
			}
		},
		close: func() { close(ch) },
	}
	return ch, b.add(sub)
}

// Publish никогда не блокируется: переполненный подписчик теряет сообщение.
func Publish[T any](b *Bus, topic Topic[T], payload T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.topic == "" || sub.topic == topic.name {
			sub.deliver(topic.name, payload)
		}
	}
}

func (b *Bus) add(sub *subscriber) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			sub.close()
		})
	}
}

// Subscribers — число активных подписок (для health и тестов).
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
