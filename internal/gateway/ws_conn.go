package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/vokchat/internal/signaling"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

type wsConnection struct {
	ws      *websocket.Conn
	id      signaling.ConnectionID
	logger  *slog.Logger
	limiter *rate.Limiter
	send    chan *signaling.Event

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newWSConnection(ws *websocket.Conn, cfg Config, logger *slog.Logger) *wsConnection {
	return &wsConnection{
		ws:      ws,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.MessageRate), cfg.MessageBurst),
		send:    make(chan *signaling.Event, cfg.SendBuffer),
		done:    make(chan struct{}),
	}
}

func (c *wsConnection) bind(id signaling.ConnectionID) {
	c.id = id
	c.logger = c.logger.With("connection_id", id)
}

func (c *wsConnection) Enqueue(ev *signaling.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- ev:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

func (c *wsConnection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	return c.ws.Close()
}

// readPump runs on the handler goroutine and returns when the socket fails.
func (c *wsConnection) readPump(gw *Gateway) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("read error", "error", err)
			}
			return
		}

		if msgType != websocket.TextMessage {
			c.logger.Debug("ignoring non-text frame", "frame_type", msgType)
			continue
		}

		if !c.limiter.Allow() {
			c.logger.Warn("rate limit exceeded, dropping message")
			continue
		}

		gw.OnMessage(c.id, message)
	}
}

func (c *wsConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return

		case ev := <-c.send:
			data, err := json.Marshal(ev)
			if err != nil {
				c.logger.Error("marshal error", "error", err, "type", ev.Type)
				continue
			}

			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
