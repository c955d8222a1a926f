package bootstrap

import (
	"github.com/eleven-am/vokchat/internal/gateway"
	"github.com/eleven-am/vokchat/internal/health"
	"github.com/eleven-am/vokchat/internal/signaling"
	"github.com/eleven-am/vokchat/internal/stats"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const version = "1.0.0"

func ProvideHealthHandler(store *stats.Store, coord *signaling.Coordinator, gw *gateway.Gateway) *health.Handler {
	return health.NewHandler(store, coord, gw, version)
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
