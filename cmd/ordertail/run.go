package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/foodcourt/internal/adapter/orderapi"
	"github.com/polkiloo/foodcourt/internal/config"
	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/poller"
	"github.com/polkiloo/foodcourt/internal/realtime/client"
	"github.com/polkiloo/foodcourt/internal/tracker"
)

const (
	// reconcileFactor stretches the poll interval while the live channel delivers events.
	reconcileFactor = 6
	qualityInterval = 30 * time.Second
)

var orderEvents = []string{
	event.NameNewOrderPlaced,
	event.NameOrderStatusChanged,
	event.NamePaymentSuccess,
	event.NameOrderDeleted,
}

func run(ctx context.Context, cfg *config.ClientConfig, logger *slog.Logger) error {
	return runWith(ctx, cfg, logger, tracker.NotifierFunc(func(n tracker.Notification) {
		logger.Info(n.Message,
			slog.String("kind", string(n.Kind)),
			slog.String("order_id", n.OrderID),
			slog.String("stage", string(n.Stage)),
		)
	}))
}

func runWith(ctx context.Context, cfg *config.ClientConfig, logger *slog.Logger, notifier tracker.Notifier) error {
	viewer := model.Viewer{Role: model.Role(cfg.Role), UserID: cfg.UserID, UserEmail: cfg.UserEmail}

	api, err := orderapi.NewHTTPClient(cfg.BaseURL, viewer, cfg.AdminToken, logger)
	if err != nil {
		return fmt.Errorf("create order api client: %w", err)
	}

	board := tracker.NewBoard(viewer, notifier)

	seeded := true
	orders, err := api.ListOrders(ctx)
	switch {
	case errors.Is(err, orderapi.ErrUnauthorized):
		return err
	case err != nil:
		seeded = false
		logger.Warn("initial order fetch failed", slog.String("error", err.Error()))
	default:
		board.Seed(orders)
		logger.Info("active orders loaded", slog.Int("count", len(board.Active())))
	}

	serverless := client.ServerlessHost(cfg.BaseURL)
	if cfg.Serverless != nil {
		serverless = *cfg.Serverless
	}

	pool := client.NewPool(1, client.Settings{
		ConnectTimeout:    cfg.ConnectTimeout,
		HeartbeatInterval: cfg.HeartbeatInterval,
		HeartbeatTimeout:  cfg.HeartbeatTimeout,
		OnError: func(err error) {
			logger.Warn("live channel error", slog.String("error", err.Error()))
		},
	}, logger)
	defer pool.Close()

	channel := pool.Get(ctx, client.Options{
		URL:        cfg.BaseURL,
		Role:       viewer.Role,
		UserID:     viewer.UserID,
		Serverless: serverless,
	})
	for _, name := range orderEvents {
		channel.Subscribe(name, board.Apply)
	}

	_, inert := channel.(client.Inert)
	interval := cfg.PollInterval
	if !inert {
		interval *= reconcileFactor
	}

	p := poller.New(api.ListOrders, interval, poller.Callbacks{
		OnNewOrder: func(o model.Order) {
			board.Apply(event.NewOrderPlaced{Order: o})
		},
		OnStatusChange: func(updated, previous model.Order) {
			board.Apply(event.OrderStatusChanged{Order: updated})
			if updated.PaymentStatus == model.PaymentStatusPaid && previous.PaymentStatus != model.PaymentStatusPaid {
				board.Apply(event.PaymentSuccess{Order: updated})
			}
		},
		OnGone: func(previous model.Order) {
			board.Gone(previous)
		},
	}, poller.Options{SoleSource: !seeded, FailureWarnAfter: cfg.FailureWarnAfter}, logger)
	if seeded {
		p.Prime(orders)
	}

	logger.Info("tracking orders",
		slog.String("url", cfg.BaseURL),
		slog.String("role", cfg.Role),
		slog.Bool("live", !inert),
		slog.Duration("poll_interval", interval),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(gctx)
	})
	if !inert {
		g.Go(func() error {
			reportQuality(gctx, channel, logger)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("ordertail exiting", slog.Int("active_orders", len(board.Active())))
	return err
}

func reportQuality(ctx context.Context, channel client.Channel, logger *slog.Logger) {
	ticker := time.NewTicker(qualityInterval)
	defer ticker.Stop()

	last := client.QualityUnknown
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q := channel.Quality()
			if q != last {
				logger.Info("live channel quality", slog.String("quality", string(q)), slog.Bool("connected", channel.Connected()))
				last = q
			}
		}
	}
}
