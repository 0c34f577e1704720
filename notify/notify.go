package notify

import (
	"log/slog"

	"github.com/Divizyon/t1-sportlink-mobil-frontend-sub000/bus"
)

const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notifier — порт показа сообщений пользователю (toast, alert, сетевой баннер).
// Как именно показывать, решает UI.
type Notifier interface {
	Toast(level, message string)
	Alert(title, message string)
	NetworkBanner(visible bool, message string)
}

// SlogNotifier пишет уведомления в лог, когда UI не подключен.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Toast(level, message string) {
	n.logger.Info("toast", slog.String("level", level), slog.String("message", message))
}

func (n *SlogNotifier) Alert(title, message string) {
	n.logger.Info("alert", slog.String("title", title), slog.String("message", message))
}

func (n *SlogNotifier) NetworkBanner(visible bool, message string) {
	n.logger.Warn("network banner", slog.Bool("visible", visible), slog.String("message", message))
}

// BusNotifier публикует уведомления в шину, откуда их забирает websocket-мост.
type BusNotifier struct {
	bus *bus.Bus
}

func NewBusNotifier(b *bus.Bus) *BusNotifier {
	return &BusNotifier{bus: b}
}

func (n *BusNotifier) Toast(level, message string) {
	bus.Publish(n.bus, bus.Toast, bus.ToastMessage{Level: level, Message: message})
}

func (n *BusNotifier) Alert(title, message string) {
	bus.Publish(n.bus, bus.Alert, bus.AlertMessage{Title: title, Message: message})
}

func (n *BusNotifier) NetworkBanner(visible bool, message string) {
	bus.Publish(n.bus, bus.NetworkBanner, bus.BannerMessage{Visible: visible, Message: message})
}

// Multi рассылает каждое уведомление всем получателям по порядку.
type Multi []Notifier

func (m Multi) Toast(level, message string) {
	for _, n := range m {
		n.Toast(level, message)
	}
}

func (m Multi) Alert(title, message string) {
	for _, n := range m {
		n.Alert(title, message)
	}
}

func (m Multi) NetworkBanner(visible bool, message string) {
	for _, n := range m {
		n.NetworkBanner(visible, message)
	}
}

// Nop глушит уведомления.
type Nop struct{}

func (Nop) Toast(string, string) {}
func (Nop) Alert(string, string) {}
func (Nop) NetworkBanner(bool, string) {}
