package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/metrics"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultHeartbeatInterval = 25 * time.Second
	defaultHeartbeatTimeout  = 5 * time.Second
	defaultBackoffBase       = time.Second
	defaultBackoffMax        = 30 * time.Second
	rttWindow                = 5
	writeTimeout             = 5 * time.Second
)

// Settings tune every channel opened by a pool.
type Settings struct {
	ConnectTimeout    time.Duration
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	// OnError receives errors IsExpected does not filter.
	OnError func(error)
}

func (s Settings) normalized() Settings {
	if s.ConnectTimeout <= 0 {
		s.ConnectTimeout = defaultConnectTimeout
	}
	if s.HeartbeatInterval <= 0 {
		s.HeartbeatInterval = defaultHeartbeatInterval
	}
	if s.HeartbeatTimeout <= 0 {
		s.HeartbeatTimeout = defaultHeartbeatTimeout
	}
	if s.BackoffBase <= 0 {
		s.BackoffBase = defaultBackoffBase
	}
	if s.BackoffMax <= 0 {
		s.BackoffMax = defaultBackoffMax
	}
	return s
}

// Endpoint turns a server base URL into the live channel address.
func Endpoint(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("server url has no host")
	}
	if !strings.HasSuffix(u.Path, "/ws") {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	}
	return u.String(), nil
}

type live struct {
	opts     Options
	label    string
	settings Settings
	endpoint string
	dialer   *websocket.Dialer
	logger   *slog.Logger
	jitter   func(time.Duration) time.Duration

	mu        sync.RWMutex
	handlers  map[string][]Handler
	connected bool
	closed    bool
	rtts      []time.Duration
	pending   time.Time
	missed    bool

	writeMu sync.Mutex

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

var _ Channel = (*live)(nil)

func newLive(opts Options, settings Settings, endpoint string, logger *slog.Logger) *live {
	return &live{
		opts:     opts,
		label:    opts.key(),
		settings: settings,
		endpoint: endpoint,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: settings.ConnectTimeout,
		},
		logger:   logger.With(slog.String("role", string(opts.Role)), slog.String("user_id", opts.UserID)),
		jitter:   fullJitter,
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}
}

func (c *live) start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(runCtx)
}

// Subscribe registers h for the event name; several handlers may share a name.
func (c *live) Subscribe(name string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.handlers[name] = append(c.handlers[name], h)
}

// Unsubscribe drops every handler registered for the event name.
func (c *live) Unsubscribe(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, name)
}

func (c *live) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *live) Quality() Quality {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.qualityLocked()
}

func (c *live) qualityLocked() Quality {
	if !c.connected || c.missed {
		return QualityCritical
	}
	if len(c.rtts) == 0 {
		return QualityUnknown
	}
	return Classify(c.averageLocked())
}

func (c *live) averageLocked() time.Duration {
	var sum time.Duration
	for _, d := range c.rtts {
		sum += d
	}
	return sum / time.Duration(len(c.rtts))
}

// Close stops reconnecting, drops subscriptions and waits for the loops to exit.
func (c *live) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.handlers = make(map[string][]Handler)
		c.mu.Unlock()
		if c.cancel != nil {
			c.cancel()
			<-c.done
		}
	})
}

func (c *live) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *live) run(ctx context.Context) {
	defer close(c.done)
	defer c.finish()
	attempt := 0
	for {
		ws, err := c.connect(ctx)
		if err == nil {
			attempt = 0
			err = c.serve(ctx, ws)
		}
		if ctx.Err() != nil {
			return
		}
		c.report(err)

		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			c.logger.Info("live channel closed by server, reconnecting", slog.Int("code", closeErr.Code))
			metrics.ChannelReconnectsTotal.Inc()
			if !sleep(ctx, c.settings.BackoffBase) {
				return
			}
			continue
		}

		attempt++
		delay := c.backoff(attempt)
		c.logger.Warn("live channel unavailable, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		metrics.ChannelReconnectsTotal.Inc()
		if !sleep(ctx, delay) {
			return
		}
	}
}

// finish marks a channel whose loop ended as closed so the pool replaces it.
func (c *live) finish() {
	c.mu.Lock()
	c.closed = true
	c.connected = false
	c.handlers = make(map[string][]Handler)
	c.mu.Unlock()

	metrics.ChannelConnected.DeleteLabelValues(c.label)
	metrics.ChannelRTTSeconds.DeleteLabelValues(c.label)
	for _, q := range Qualities() {
		metrics.ChannelQuality.DeleteLabelValues(c.label, string(q))
	}
}

// backoff returns the wait before the given retry: exponential from BackoffBase, capped, full jitter.
func (c *live) backoff(attempt int) time.Duration {
	ceiling := c.settings.BackoffMax
	if attempt < 32 {
		if d := c.settings.BackoffBase << (attempt - 1); d > 0 && d < ceiling {
			ceiling = d
		}
	}
	return c.jitter(ceiling)
}

func fullJitter(ceiling time.Duration) time.Duration {
	if ceiling <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(ceiling) + 1))
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *live) report(err error) {
	if IsExpected(err) {
		c.logger.Debug("live channel expected error", slog.String("error", err.Error()))
		return
	}
	if c.settings.OnError != nil {
		c.settings.OnError(err)
	}
}

func (c *live) connect(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.settings.ConnectTimeout)
	defer cancel()

	ws, resp, err := c.dialer.DialContext(dialCtx, c.endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && errors.Is(err, websocket.ErrBadHandshake) {
			return nil, &HandshakeError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("dial %s: %w", c.endpoint, err)
	}

	if err := c.write(ws, event.NameIdentify, event.Identify{Type: c.opts.Role, UserID: c.opts.UserID}); err != nil {
		_ = ws.Close()
		return nil, fmt.Errorf("send identify: %w", err)
	}
	return ws, nil
}

func (c *live) serve(ctx context.Context, ws *websocket.Conn) error {
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.setConnected(true)
	defer c.setConnected(false)
	c.logger.Info("live channel connected", slog.String("endpoint", c.endpoint))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-sessionCtx.Done()
		c.writeMu.Lock()
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		c.writeMu.Unlock()
		_ = ws.Close()
	}()
	go func() {
		defer wg.Done()
		c.heartbeat(sessionCtx, ws)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	deadline := c.settings.HeartbeatInterval + c.settings.HeartbeatTimeout
	_ = ws.SetReadDeadline(time.Now().Add(deadline))
	ws.SetPingHandler(func(data string) error {
		_ = ws.SetReadDeadline(time.Now().Add(deadline))
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		return ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeTimeout))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if sessionCtx.Err() != nil {
				return sessionCtx.Err()
			}
			return err
		}
		_ = ws.SetReadDeadline(time.Now().Add(deadline))
		c.handleFrame(raw)
	}
}

func (c *live) handleFrame(raw []byte) {
	frame, err := event.DecodeFrame(raw)
	if err != nil {
		c.logger.Debug("malformed frame", slog.String("error", err.Error()))
		return
	}
	switch frame.Event {
	case event.NameIdentified:
		var ack event.Identified
		_ = json.Unmarshal(frame.Data, &ack)
		c.logger.Debug("live channel identified", slog.Any("rooms", ack.Rooms))
		return
	case event.NamePong:
		var probe event.Probe
		if err := json.Unmarshal(frame.Data, &probe); err == nil {
			c.recordPong(probe.SentAt)
		}
		return
	}

	e, err := event.Decode(frame)
	if err != nil {
		c.logger.Debug("undecodable event", slog.String("event", frame.Event), slog.String("error", err.Error()))
		return
	}
	c.mu.RLock()
	handlers := append([]Handler(nil), c.handlers[frame.Event]...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}

func (c *live) heartbeat(ctx context.Context, ws *websocket.Conn) {
	ticker := time.NewTicker(c.settings.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sent := time.Now()
		c.mu.Lock()
		c.pending = sent
		c.mu.Unlock()
		if err := c.write(ws, event.NamePing, event.Probe{SentAt: sent}); err != nil {
			return
		}

		if !sleep(ctx, c.settings.HeartbeatTimeout) {
			return
		}
		c.mu.Lock()
		if c.pending.Equal(sent) {
			c.missed = true
			c.pending = time.Time{}
			c.publishQualityLocked()
			c.mu.Unlock()
			c.logger.Warn("heartbeat missed", slog.Duration("timeout", c.settings.HeartbeatTimeout))
			continue
		}
		c.mu.Unlock()
	}
}

func (c *live) recordPong(sentAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending.IsZero() || !c.pending.Equal(sentAt) {
		return
	}
	rtt := time.Since(c.pending)
	c.pending = time.Time{}
	c.missed = false
	c.rtts = append(c.rtts, rtt)
	if len(c.rtts) > rttWindow {
		c.rtts = c.rtts[len(c.rtts)-rttWindow:]
	}
	metrics.ChannelRTTSeconds.WithLabelValues(c.label).Set(c.averageLocked().Seconds())
	c.publishQualityLocked()
}

func (c *live) setConnected(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = v
	if v {
		c.rtts = nil
		c.missed = false
		c.pending = time.Time{}
		metrics.ChannelConnected.WithLabelValues(c.label).Set(1)
	} else {
		metrics.ChannelConnected.WithLabelValues(c.label).Set(0)
	}
	c.publishQualityLocked()
}

func (c *live) publishQualityLocked() {
	current := c.qualityLocked()
	for _, q := range Qualities() {
		v := 0.0
		if q == current {
			v = 1
		}
		metrics.ChannelQuality.WithLabelValues(c.label, string(q)).Set(v)
	}
}

func (c *live) write(ws *websocket.Conn, name string, payload any) error {
	raw, err := event.EncodeFrame(name, payload)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.WriteMessage(websocket.TextMessage, raw)
}
