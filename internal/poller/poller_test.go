package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type source struct {
	mu     sync.Mutex
	orders []model.Order
	err    error
	calls  int
	block  chan struct{}
}

func (s *source) set(orders ...model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
	s.err = nil
}

func (s *source) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *source) fetch(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	s.mu.Unlock()
	if block != nil {
		<-block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]model.Order(nil), s.orders...), nil
}

type recorder struct {
	mu      sync.Mutex
	added   []string
	changed []Pair
	gone    []string
}

func (r *recorder) callbacks(withGone bool) Callbacks {
	cb := Callbacks{
		OnNewOrder: func(o model.Order) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.added = append(r.added, o.ID)
		},
		OnStatusChange: func(updated, previous model.Order) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.changed = append(r.changed, Pair{Updated: updated, Previous: previous})
		},
	}
	if withGone {
		cb.OnGone = func(o model.Order) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.gone = append(r.gone, o.ID)
		}
	}
	return cb
}

func TestPollFirstFetchOnlyPrimes(t *testing.T) {
	src := &source{}
	rec := &recorder{}
	p := New(src.fetch, time.Hour, rec.callbacks(false), Options{}, discardLogger())
	ctx := context.Background()

	src.set(order("1", model.OrderStatusPending))
	require.True(t, p.Poll(ctx))
	assert.Empty(t, rec.added)

	src.set(order("1", model.OrderStatusPending), order("2", model.OrderStatusPending))
	p.Poll(ctx)
	assert.Equal(t, []string{"2"}, rec.added)
}

func TestPollPrimedBaselineReportsFirstFetch(t *testing.T) {
	src := &source{}
	rec := &recorder{}
	p := New(src.fetch, time.Hour, rec.callbacks(true), Options{}, discardLogger())

	seed := []model.Order{order("1", model.OrderStatusPending), order("3", model.OrderStatusCooking)}
	p.Prime(seed)
	seed[0].Status = model.OrderStatusReady

	src.set(order("1", model.OrderStatusPending), order("2", model.OrderStatusPending))
	p.Poll(context.Background())
	assert.Equal(t, []string{"2"}, rec.added, "order created after the seed is reported")
	assert.Empty(t, rec.changed, "baseline is copied")
	assert.Equal(t, []string{"3"}, rec.gone)
}

func TestPollSoleSourceReportsFirstFetch(t *testing.T) {
	src := &source{}
	rec := &recorder{}
	p := New(src.fetch, time.Hour, rec.callbacks(false), Options{SoleSource: true}, discardLogger())

	src.set(order("1", model.OrderStatusPending), order("2", model.OrderStatusCompleted))
	p.Poll(context.Background())
	assert.Equal(t, []string{"1"}, rec.added, "terminal orders are not announced")
}

func TestPollReportsChangesAndDisappearance(t *testing.T) {
	src := &source{}
	rec := &recorder{}
	p := New(src.fetch, time.Hour, rec.callbacks(false), Options{}, discardLogger())
	ctx := context.Background()

	src.set(order("1", model.OrderStatusPending), order("2", model.OrderStatusPending), order("3", model.OrderStatusPending))
	p.Poll(ctx)
	src.set(order("2", model.OrderStatusCooking), order("3", model.OrderStatusPending), order("4", model.OrderStatusPending))
	p.Poll(ctx)

	assert.Equal(t, []string{"4"}, rec.added)
	require.Len(t, rec.changed, 2)
	assert.Equal(t, "2", rec.changed[0].Updated.ID)
	assert.Equal(t, model.OrderStatusCooking, rec.changed[0].Updated.Status)
	assert.Equal(t, "1", rec.changed[1].Updated.ID)
	assert.Equal(t, model.OrderStatusCompleted, rec.changed[1].Updated.Status)
	assert.Equal(t, model.OrderStatusPending, rec.changed[1].Previous.Status)
}

func TestPollUsesOnGoneWhenSet(t *testing.T) {
	src := &source{}
	rec := &recorder{}
	p := New(src.fetch, time.Hour, rec.callbacks(true), Options{}, discardLogger())
	ctx := context.Background()

	src.set(order("1", model.OrderStatusPending))
	p.Poll(ctx)
	src.set()
	p.Poll(ctx)

	assert.Equal(t, []string{"1"}, rec.gone)
	assert.Empty(t, rec.changed)
}

func TestPollFailureKeepsSnapshot(t *testing.T) {
	src := &source{}
	rec := &recorder{}
	p := New(src.fetch, time.Hour, rec.callbacks(false), Options{FailureWarnAfter: 2}, discardLogger())
	ctx := context.Background()
	before := testutil.ToFloat64(metrics.PollFailuresTotal)

	src.set(order("1", model.OrderStatusPending))
	p.Poll(ctx)
	for i := 0; i < 3; i++ {
		src.fail(errors.New("connection refused"))
		p.Poll(ctx)
	}
	assert.Equal(t, before+3, testutil.ToFloat64(metrics.PollFailuresTotal))
	assert.Equal(t, 3, p.failures)

	src.set(order("1", model.OrderStatusReady))
	p.Poll(ctx)
	assert.Zero(t, p.failures)
	require.Len(t, rec.changed, 1)
	assert.Equal(t, model.OrderStatusReady, rec.changed[0].Updated.Status)
}

func TestPollSkipsWhileInFlight(t *testing.T) {
	src := &source{block: make(chan struct{})}
	p := New(src.fetch, time.Hour, Callbacks{}, Options{}, discardLogger())
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- p.Poll(ctx) }()
	require.Eventually(t, func() bool { return p.inFlight.Load() }, time.Second, time.Millisecond)

	assert.False(t, p.Poll(ctx))
	close(src.block)
	assert.True(t, <-done)

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 1, src.calls)
}

func TestStartStop(t *testing.T) {
	src := &source{}
	rec := &recorder{}
	src.set(order("1", model.OrderStatusPending))
	p := New(src.fetch, 10*time.Millisecond, rec.callbacks(false), Options{}, discardLogger())

	p.Start(context.Background())
	p.Start(context.Background())
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls >= 2
	}, time.Second, 5*time.Millisecond)

	src.set(order("1", model.OrderStatusPending), order("2", model.OrderStatusPending))
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.added) == 1
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.Nil(t, p.snapshot)
	assert.False(t, p.primed)
}

func TestRunStopsWithContext(t *testing.T) {
	src := &source{}
	p := New(src.fetch, 10*time.Millisecond, Callbacks{}, Options{}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
}
