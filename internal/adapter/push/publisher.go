package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/metrics"
)

const (
	defaultQueueSize      = 256
	defaultPublishTimeout = 5 * time.Second
)

// ErrQueueFull is reported to metrics when a notification is dropped.
var ErrQueueFull = errors.New("push queue full")

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Sink is an event.Publisher with a background delivery loop.
type Sink interface {
	event.Publisher
	Start(ctx context.Context)
	Stop()
}

// Options tunes the publisher.
type Options struct {
	QueueSize      int
	PublishTimeout time.Duration
}

// Publisher forwards order events to a fanout exchange consumed by the push worker.
type Publisher struct {
	ch       Channel
	closer   func() error
	redial   func() (Channel, func() error, error)
	exchange string
	timeout  time.Duration
	logger   *slog.Logger

	queue  chan Message
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

var _ Sink = (*Publisher)(nil)

// Dial connects to the broker and declares the exchange. The publisher
// reconnects to the same url when the broker closes its channel.
func Dial(url, exchange string, logger *slog.Logger, opts Options) (*Publisher, error) {
	ch, closer, err := openChannel(url)
	if err != nil {
		return nil, err
	}
	p, err := NewPublisher(ch, exchange, logger, opts)
	if err != nil {
		_ = ch.Close()
		_ = closer()
		return nil, err
	}
	p.closer = closer
	p.redial = func() (Channel, func() error, error) {
		return openChannel(url)
	}
	return p, nil
}

func openChannel(url string) (Channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}
	return ch, conn.Close, nil
}

// NewPublisher declares a durable fanout exchange on ch.
func NewPublisher(ch Channel, exchange string, logger *slog.Logger, opts Options) (*Publisher, error) {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = defaultPublishTimeout
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		timeout:  opts.PublishTimeout,
		logger:   logger,
		queue:    make(chan Message, opts.QueueSize),
	}, nil
}

// Publish queues notifications derived from the event; it never blocks.
func (p *Publisher) Publish(ctx context.Context, e event.Event) {
	for _, msg := range Messages(e) {
		select {
		case p.queue <- msg:
		default:
			metrics.PushErrorsTotal.WithLabelValues("queue_full").Inc()
			p.logger.Warn("push notification dropped", slog.String("event", msg.Event), slog.String("error", ErrQueueFull.Error()))
		}
	}
}

// Start launches the delivery loop.
func (p *Publisher) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(runCtx)
}

// Stop waits for the delivery loop and closes the broker connection. Queued notifications are dropped.
func (p *Publisher) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
	_ = p.ch.Close()
	if p.closer != nil {
		_ = p.closer()
	}
}

func (p *Publisher) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.queue:
			p.deliver(ctx, msg)
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, msg Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		metrics.PushErrorsTotal.WithLabelValues("encode").Inc()
		p.logger.Error("encode push notification failed", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	publishing := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Type:         msg.Event,
		Body:         body,
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, msg.Audience, false, false, publishing)
	if errors.Is(err, amqp.ErrClosed) && p.redial != nil {
		if rerr := p.reconnect(); rerr != nil {
			metrics.PushErrorsTotal.WithLabelValues("reconnect").Inc()
			p.logger.Warn("amqp reconnect failed", slog.String("error", rerr.Error()))
		} else {
			err = p.ch.PublishWithContext(ctx, p.exchange, msg.Audience, false, false, publishing)
		}
	}
	if err != nil {
		metrics.PushErrorsTotal.WithLabelValues("publish").Inc()
		p.logger.Error("publish push notification failed",
			slog.String("event", msg.Event),
			slog.String("audience", msg.Audience),
			slog.String("error", err.Error()),
		)
		return
	}
	metrics.PushPublishedTotal.WithLabelValues(msg.Event).Inc()
}

// reconnect swaps in a fresh channel. Only the delivery loop calls it.
func (p *Publisher) reconnect() error {
	ch, closer, err := p.redial()
	if err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(p.exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if closer != nil {
			_ = closer()
		}
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	_ = p.ch.Close()
	if p.closer != nil {
		_ = p.closer()
	}
	p.ch, p.closer = ch, closer
	p.logger.Info("amqp channel reopened", slog.String("exchange", p.exchange))
	return nil
}

// Nop drops every notification; used when no broker is configured.
type Nop struct{}

var _ Sink = Nop{}

func (Nop) Publish(context.Context, event.Event) {}
func (Nop) Start(context.Context)               {}
func (Nop) Stop()                               {}
