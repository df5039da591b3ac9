package push

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/config"
)

// Module provides the push sink; a missing or unreachable broker disables it.
var Module = fx.Options(
	fx.Provide(newSink),
	fx.Invoke(registerLifecycle),
)

var dial = func(url, exchange string, logger *slog.Logger) (Sink, error) {
	return Dial(url, exchange, logger, Options{})
}

type sinkParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSink(p sinkParams) Sink {
	if p.Config.AMQPURL == "" {
		p.Logger.Info("push notifications disabled")
		return Nop{}
	}
	sink, err := dial(p.Config.AMQPURL, p.Config.PushExchange, p.Logger)
	if err != nil {
		p.Logger.Warn("push notifications unavailable", slog.String("error", err.Error()))
		return Nop{}
	}
	return sink
}

func registerLifecycle(lc fx.Lifecycle, sink Sink) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sink.Start(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sink.Stop()
			return nil
		},
	})
}
