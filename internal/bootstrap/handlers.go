package bootstrap

import (
	"log/slog"
	"os"

	"github.com/eleven-am/vokchat/internal/gateway"
	"github.com/eleven-am/vokchat/internal/ice"
	"github.com/eleven-am/vokchat/internal/signaling"
	"github.com/eleven-am/vokchat/internal/stats"
	"github.com/labstack/echo/v4"
	"github.com/pion/webrtc/v4"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	WSServer     *gateway.WSServer
	RoomHandler  *signaling.Handler
	ICEHandler   *ice.Handler
	StatsHandler *stats.Handler
	Config       *Config
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	params.WSServer.RegisterRoutes(e)

	limiter := gateway.DefaultRateLimiterConfig()
	limiter.RequestsPerSecond = params.Config.HTTPRate
	limiter.Burst = params.Config.HTTPBurst

	api := e.Group("/v1")
	api.Use(gateway.RateLimiter(limiter))

	params.RoomHandler.RegisterRoutes(api.Group("/rooms"))
	params.ICEHandler.RegisterRoutes(api.Group("/ice-servers"))
	params.StatsHandler.RegisterRoutes(api.Group("/stats"))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideRoomHandler(coord *signaling.Coordinator, logger *slog.Logger) *signaling.Handler {
	return signaling.NewHandler(coord, logger.With("handler", "rooms"))
}

func ProvideICEHandler(servers []webrtc.ICEServer) *ice.Handler {
	return ice.NewHandler(servers)
}

func ProvideStatsHandler(store *stats.Store, logger *slog.Logger) *stats.Handler {
	return stats.NewHandler(store, logger.With("handler", "stats"))
}

var LoggerModule = fx.Options(
	fx.Provide(ProvideLogger),
)

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideRoomHandler,
		ProvideICEHandler,
		ProvideStatsHandler,
	),
	fx.Invoke(RegisterRoutes),
)
