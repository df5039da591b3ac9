package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/foodcourt/internal/adapter/push"
	"github.com/polkiloo/foodcourt/internal/app"
	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/repository"
	"github.com/polkiloo/foodcourt/internal/realtime/hub"
	"github.com/polkiloo/foodcourt/internal/server/http/handlers"
	"github.com/polkiloo/foodcourt/internal/storage/postgres"
	"github.com/polkiloo/foodcourt/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:       ":0",
		DatabaseURI:      "postgres://stub",
		AdminSecret:      "secret",
		AdminTokenTTL:    time.Hour,
		PushExchange:     "notifications_fanout",
		HeartbeatTimeout: time.Second,
		ShutdownTimeout:  time.Millisecond,
		AllowedOrigins:   []string{"*"},
		LogLevel:         "info",
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade    *app.FoodCourtFacade
		exposed   handlers.FoodCourtFacade
		publisher event.Publisher
		h         *hub.Hub
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(test.NewOrderRepositoryStub())),
			fx.Replace(repository.FoodRepository(test.NewFoodRepositoryStub())),
			fx.Replace(repository.AdminRepository(test.NewAdminRepositoryStub())),
			fx.Replace(push.Sink(push.Nop{})),
		),
		fx.Populate(&facade, &exposed, &publisher, &h),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	if facade == nil || exposed == nil || h == nil {
		t.Fatal("expected facade and hub instances")
	}
	if _, ok := publisher.(event.Fanout); !ok {
		t.Fatalf("expected fanout publisher, got %T", publisher)
	}
}
