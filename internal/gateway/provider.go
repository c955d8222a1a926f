package gateway

import (
	"log/slog"

	"go.uber.org/fx"
)

func ProvideGateway(logger *slog.Logger) *Gateway {
	return NewGateway(logger)
}

func ProvideWSServer(gw *Gateway, cfg Config, logger *slog.Logger) *WSServer {
	return NewWSServer(gw, cfg, logger)
}

var Module = fx.Options(
	fx.Provide(
		ProvideGateway,
		ProvideWSServer,
	),
)
