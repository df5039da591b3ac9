package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/adapter/push"
	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/realtime/hub"
	testhelpers "github.com/polkiloo/foodcourt/internal/test"
	"github.com/polkiloo/foodcourt/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewPublisherFansOut(t *testing.T) {
	h := hub.New(discardLogger(), hub.Options{})
	publisher := newPublisher(publisherParams{Hub: h, Push: push.Nop{}})

	fanout, ok := publisher.(event.Fanout)
	if !ok {
		t.Fatalf("expected fanout publisher, got %T", publisher)
	}
	if len(fanout) != 2 {
		t.Fatalf("expected two sinks, got %d", len(fanout))
	}
	publisher.Publish(context.Background(), event.NewOrderPlaced{Order: model.Order{ID: "o1"}})
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	facade, _, admins, _ := newFacade()
	cfg := &config.Config{
		ShutdownTimeout:        100 * time.Millisecond,
		BootstrapAdminEmail:    "root@example.com",
		BootstrapAdminPassword: "password1",
	}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     server,
		Facade:     facade,
		Config:     cfg,
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	hook := recorder.Hooks[0]
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hook.OnStart(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	if _, err := admins.GetByEmail(ctx, "root@example.com"); err != nil {
		t.Fatalf("expected bootstrap admin to be created: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hook.OnStop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleBootstrapFailure(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	adminRepo := testhelpers.NewAdminRepositoryStub()
	adminRepo.Err = errors.New("db down")
	facade := NewFoodCourtFacade(nil, nil, usecase.NewAdminUseCase(adminRepo, testhelpers.HasherStub{}, testhelpers.StrategyStub{}), nil)

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "127.0.0.1:0"},
		Facade:     facade,
		Config:     &config.Config{BootstrapAdminEmail: "root@example.com", BootstrapAdminPassword: "password1"},
	})

	if err := recorder.Hooks[0].OnStart(context.Background()); err == nil {
		t.Fatal("expected bootstrap error to abort start")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	facade, _, _, _ := newFacade()

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     discardLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Facade:     facade,
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	hook := recorder.Hooks[0]
	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = hook.OnStop(context.Background())
}
