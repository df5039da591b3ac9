package hub

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/config"
)

// Module provides the live channel hub and closes it on shutdown.
var Module = fx.Options(
	fx.Provide(newHub),
	fx.Invoke(registerLifecycle),
)

type hubParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newHub(p hubParams) *Hub {
	return New(p.Logger, Options{
		PongTimeout:    p.Config.HeartbeatTimeout,
		AllowedOrigins: p.Config.AllowedOrigins,
	})
}

func registerLifecycle(lc fx.Lifecycle, h *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.Close(ctx)
		},
	})
}
