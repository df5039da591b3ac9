package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/adapter/push"
	"github.com/polkiloo/foodcourt/internal/app"
	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/logger"
	"github.com/polkiloo/foodcourt/internal/pkg/auth"
	"github.com/polkiloo/foodcourt/internal/realtime/hub"
	"github.com/polkiloo/foodcourt/internal/server/http/handlers"
	"github.com/polkiloo/foodcourt/internal/server/http/router"
	"github.com/polkiloo/foodcourt/internal/storage/postgres"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

// Module assembles the food court server. opts are appended last so tests can replace providers.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		fx.Provide(func(s *postgres.Storage) app.HealthChecker { return s }),
		hub.Module,
		push.Module,
		usecase.Module,
		fx.Provide(func(f *app.FoodCourtFacade) handlers.FoodCourtFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
