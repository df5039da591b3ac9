package client

import (
	"context"
	"log/slog"
	"sync"
)

const defaultPoolSize = 4

// Pool reuses channels keyed by url, role and user id.
type Pool struct {
	max      int
	settings Settings
	logger   *slog.Logger

	mu      sync.Mutex
	entries map[string]*live
	order   []string
}

// NewPool creates a pool holding at most max channels.
func NewPool(max int, settings Settings, logger *slog.Logger) *Pool {
	if max <= 0 {
		max = defaultPoolSize
	}
	return &Pool{
		max:      max,
		settings: settings.normalized(),
		logger:   logger,
		entries:  make(map[string]*live),
	}
}

// Get returns the open channel for opts or opens a new one living until ctx
// is done or Close is called. Serverless options and unusable URLs yield Inert.
func (p *Pool) Get(ctx context.Context, opts Options) Channel {
	if opts.Serverless {
		p.logger.Info("live channel disabled for serverless host", slog.String("url", opts.URL))
		return Inert{}
	}
	endpoint, err := Endpoint(opts.URL)
	if err != nil {
		p.logger.Error("live channel disabled", slog.String("url", opts.URL), slog.String("error", err.Error()))
		return Inert{}
	}

	key := opts.key()
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.entries[key]; ok {
		if !c.isClosed() {
			return c
		}
		p.removeLocked(key)
	}

	for len(p.order) >= p.max {
		oldest := p.order[0]
		p.logger.Debug("evicting live channel", slog.String("key", oldest))
		p.entries[oldest].Close()
		p.removeLocked(oldest)
	}

	c := newLive(opts, p.settings, endpoint, p.logger)
	c.start(ctx)
	p.entries[key] = c
	p.order = append(p.order, key)
	return c
}

// Len returns the number of pooled channels.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// Close closes every pooled channel.
func (p *Pool) Close() {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[string]*live)
	p.order = nil
	p.mu.Unlock()

	for _, c := range entries {
		c.Close()
	}
}

func (p *Pool) removeLocked(key string) {
	delete(p.entries, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}
