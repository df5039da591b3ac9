// Package poller rebuilds the order event stream by fetching the order list
// on an interval and diffing it against the previous snapshot.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/metrics"
)

const defaultFailureWarnAfter = 5

// FetchFunc returns the current order list for the watched scope.
type FetchFunc func(ctx context.Context) ([]model.Order, error)

// Callbacks receive detected changes. OnGone is optional: without it a vanished
// order is reported to OnStatusChange as a Completed copy.
type Callbacks struct {
	OnNewOrder     func(order model.Order)
	OnStatusChange func(updated, previous model.Order)
	OnGone         func(previous model.Order)
}

// Options tune the poller.
type Options struct {
	// SoleSource diffs the first fetch against an empty snapshot.
	SoleSource bool
	// FailureWarnAfter consecutive failures raise a single warning.
	FailureWarnAfter int
}

// Poller fetches orders on a ticker and reports differences.
type Poller struct {
	fetch     FetchFunc
	interval  time.Duration
	callbacks Callbacks
	opts      Options
	logger    *slog.Logger

	inFlight atomic.Bool

	stateMu  sync.Mutex
	snapshot []model.Order
	primed   bool
	failures int

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// New constructs a poller.
func New(fetch FetchFunc, interval time.Duration, callbacks Callbacks, opts Options, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if opts.FailureWarnAfter <= 0 {
		opts.FailureWarnAfter = defaultFailureWarnAfter
	}
	return &Poller{
		fetch:     fetch,
		interval:  interval,
		callbacks: callbacks,
		opts:      opts,
		logger:    logger,
	}
}

// Prime installs a baseline snapshot, typically the list a caller already
// rendered, so the first fetch is diffed against it instead of swallowed.
func (p *Poller) Prime(orders []model.Order) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	p.snapshot = append([]model.Order(nil), orders...)
	p.primed = true
}

// Start polls immediately and then on every interval until Stop or ctx is done.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(runCtx)
}

// Stop halts polling and releases the snapshot. Safe to call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()

	p.stateMu.Lock()
	p.snapshot = nil
	p.primed = false
	p.failures = 0
	p.stateMu.Unlock()
}

// Run polls until ctx is done; it fits errgroup.Go.
func (p *Poller) Run(ctx context.Context) error {
	p.Start(ctx)
	<-ctx.Done()
	p.Stop()
	return nil
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one fetch and diff. It returns false when another fetch is still in flight.
func (p *Poller) Poll(ctx context.Context) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Debug("poll skipped, fetch in flight")
		return false
	}
	defer p.inFlight.Store(false)

	orders, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.recordFailure(err)
		}
		return true
	}

	p.stateMu.Lock()
	prev, primed := p.snapshot, p.primed
	p.snapshot = orders
	p.primed = true
	if p.failures > 0 {
		p.logger.Debug("order fetch recovered", slog.Int("failures", p.failures))
		p.failures = 0
	}
	p.stateMu.Unlock()

	if !primed && !p.opts.SoleSource {
		return true
	}
	p.dispatch(Diff(prev, orders))
	return true
}

func (p *Poller) recordFailure(err error) {
	metrics.PollFailuresTotal.Inc()

	p.stateMu.Lock()
	p.failures++
	n := p.failures
	p.stateMu.Unlock()

	p.logger.Debug("order fetch failed", slog.Int("consecutive", n), slog.String("error", err.Error()))
	if n == p.opts.FailureWarnAfter {
		p.logger.Warn("order fetch keeps failing, still polling", slog.Int("consecutive", n), slog.String("error", err.Error()))
	}
}

func (p *Poller) dispatch(ch Changes) {
	for _, o := range ch.Added {
		if o.Status.Terminal() {
			continue
		}
		if p.callbacks.OnNewOrder != nil {
			p.callbacks.OnNewOrder(o)
		}
	}
	for _, pair := range ch.Changed {
		if p.callbacks.OnStatusChange != nil {
			p.callbacks.OnStatusChange(pair.Updated, pair.Previous)
		}
	}
	for _, o := range ch.Gone {
		switch {
		case p.callbacks.OnGone != nil:
			p.callbacks.OnGone(o)
		case p.callbacks.OnStatusChange != nil:
			done := o
			done.Status = model.OrderStatusCompleted
			p.callbacks.OnStatusChange(done, o)
		}
	}
}
