package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/eleven-am/vokchat/internal/gateway"
	"github.com/eleven-am/vokchat/internal/ice"
	"github.com/eleven-am/vokchat/internal/signaling"
	"github.com/eleven-am/vokchat/internal/stats"
	"github.com/pion/webrtc/v4"
	"go.uber.org/fx"
)

func ProvideGatewayConfig(cfg *Config) gateway.Config {
	return gateway.Config{
		AllowedOrigins: cfg.AllowedOrigins,
		MessageRate:    cfg.MessageRate,
		MessageBurst:   cfg.MessageBurst,
		SendBuffer:     cfg.SendBuffer,
	}
}

func ProvideCoordinator(gw *gateway.Gateway, store *stats.Store, logger *slog.Logger) *signaling.Coordinator {
	return signaling.NewCoordinator(gw, store, logger)
}

func ProvideICEServers(cfg *Config, logger *slog.Logger) ([]webrtc.ICEServer, error) {
	servers, err := ice.ParseServers(cfg.ICE)
	if err != nil {
		return nil, fmt.Errorf("ice config: %w", err)
	}
	logger.Info("ice servers configured", "count", len(servers))
	return servers, nil
}

// ConnectGateway routes decoded gateway traffic into the coordinator.
func ConnectGateway(gw *gateway.Gateway, coord *signaling.Coordinator) {
	gw.SetDispatcher(coord)
}

var SignalingModule = fx.Options(
	fx.Provide(
		ProvideGatewayConfig,
		ProvideCoordinator,
		ProvideICEServers,
	),
	fx.Invoke(ConnectGateway),
)
