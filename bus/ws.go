package bus

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// companion-сервер слушает локально, origin проверяет CORS-слой
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient — одно websocket-подключение UI к шине.
type wsClient struct {
	conn     *websocket.Conn
	messages <-chan Message
	cancel   func()
	logger   *slog.Logger
}

// ServeWS поднимает мост шина → websocket: каждое сообщение уходит
// отдельным JSON-кадром {topic, payload}.
func ServeWS(b *Bus, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade сам отвечает клиенту HTTP-ошибкой
			logger.Warn("failed to upgrade websocket connection", slog.Any("error", err))
			return
		}

		messages, cancel := b.SubscribeAll()
		c := &wsClient{conn: conn, messages: messages, cancel: cancel, logger: logger}
		logger.Info("bus bridge connected", slog.String("remote", r.RemoteAddr))

		go c.writePump()
		go c.readPump()
	}
}

// readPump нужен только для pong и обнаружения закрытия; входящие кадры игнорируются.
func (c *wsClient) readPump() {
	defer func() {
		c.cancel()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("bus bridge closed unexpectedly", slog.Any("error", err))
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.messages:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			frame, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("failed to encode bus message", slog.String("topic", msg.Topic), slog.Any("error", err))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("bus bridge write failed", slog.Any("error", err))
				c.cancel()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}
