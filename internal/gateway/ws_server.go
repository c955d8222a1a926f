package gateway

import (
	"log/slog"

	"github.com/eleven-am/vokchat/internal/shared"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type Config struct {
	AllowedOrigins []string
	MessageRate    float64
	MessageBurst   int
	SendBuffer     int
}

func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		MessageRate:    50,
		MessageBurst:   100,
		SendBuffer:     256,
	}
}

type WSServer struct {
	gateway  *Gateway
	cfg      Config
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWSServer(gw *Gateway, cfg Config, logger *slog.Logger) *WSServer {
	defaults := DefaultConfig()
	if cfg.MessageRate <= 0 {
		cfg.MessageRate = defaults.MessageRate
	}
	if cfg.MessageBurst <= 0 {
		cfg.MessageBurst = defaults.MessageBurst
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaults.SendBuffer
	}

	policy := NewOriginPolicy(cfg.AllowedOrigins)
	return &WSServer{
		gateway: gw,
		cfg:     cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     policy.CheckRequest,
		},
		logger: logger.With("component", "ws_server"),
	}
}

func (s *WSServer) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", s.HandleConnection)
}

func (s *WSServer) HandleConnection(c echo.Context) error {
	if !s.upgrader.CheckOrigin(c.Request()) {
		s.logger.Warn("origin rejected", "origin", c.Request().Header.Get("Origin"))
		return shared.Forbidden("origin_not_allowed", "origin not allowed")
	}

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return nil
	}

	conn := newWSConnection(ws, s.cfg, s.logger)
	id := s.gateway.OnConnect(conn)
	conn.bind(id)

	go conn.writePump()
	conn.readPump(s.gateway)

	s.gateway.OnDisconnect(id)
	return nil
}
