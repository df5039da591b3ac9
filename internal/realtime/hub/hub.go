package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/metrics"
)

const (
	defaultPongTimeout  = 60 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultSendBuffer   = 64
	maxFrameSize        = 64 << 10
)

// ErrClosed is returned when a connection arrives after Close.
var ErrClosed = errors.New("hub closed")

// Options tunes connection handling.
type Options struct {
	// PongTimeout drops connections that stay silent for this long.
	PongTimeout    time.Duration
	WriteTimeout   time.Duration
	SendBuffer     int
	AllowedOrigins []string
}

// Hub fans domain events out to live connections grouped into rooms.
type Hub struct {
	logger   *slog.Logger
	opts     Options
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	conns  map[*conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

var _ event.Publisher = (*Hub)(nil)

type conn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	mu    sync.RWMutex
	rooms map[string]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a hub.
func New(logger *slog.Logger, opts Options) *Hub {
	if opts.PongTimeout <= 0 {
		opts.PongTimeout = defaultPongTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	h := &Hub{
		logger: logger,
		opts:   opts,
		conns:  make(map[*conn]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &conn{
		id:    uuid.NewString(),
		ws:    ws,
		send:  make(chan []byte, h.opts.SendBuffer),
		rooms: make(map[string]struct{}),
		done:  make(chan struct{}),
	}
	if !h.register(c) {
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ErrClosed.Error()))
		_ = ws.Close()
		return
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.writeLoop(c)
	}()
	h.readLoop(c)
}

func (h *Hub) register(c *conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[c] = struct{}{}
	metrics.HubConnections.Inc()
	h.logger.Debug("live connection joined", slog.String("conn", c.id))
	return true
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		metrics.HubConnections.Dec()
	}
	h.mu.Unlock()
	c.shutdown()
	h.logger.Debug("live connection left", slog.String("conn", c.id))
}

func (h *Hub) readLoop(c *conn) {
	defer h.unregister(c)

	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(h.opts.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(h.opts.PongTimeout))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("live connection read failed", slog.String("conn", c.id), slog.String("error", err.Error()))
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(h.opts.PongTimeout))
		h.handleFrame(c, raw)
	}
}

func (h *Hub) handleFrame(c *conn, raw []byte) {
	frame, err := event.DecodeFrame(raw)
	if err != nil {
		h.logger.Debug("malformed frame", slog.String("conn", c.id), slog.String("error", err.Error()))
		return
	}

	switch frame.Event {
	case event.NameIdentify:
		var id event.Identify
		if len(frame.Data) > 0 {
			if err := json.Unmarshal(frame.Data, &id); err != nil {
				h.logger.Debug("malformed identify", slog.String("conn", c.id), slog.String("error", err.Error()))
				return
			}
		}
		h.identify(c, id)
	case event.NamePing:
		reply, err := event.EncodeFrame(event.NamePong, frame.Data)
		if err == nil {
			h.enqueue(c, reply)
		}
	default:
		h.logger.Debug("ignoring client frame", slog.String("conn", c.id), slog.String("event", frame.Event))
	}
}

// identify replaces the rooms of a connection; a repeated identify moves it.
func (h *Hub) identify(c *conn, id event.Identify) {
	rooms := RoomsFor(id)
	if rooms == nil {
		h.logger.Warn("identify with unknown role", slog.String("conn", c.id), slog.String("role", string(id.Type)))
		return
	}

	c.mu.Lock()
	c.rooms = make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		c.rooms[r] = struct{}{}
	}
	c.mu.Unlock()

	metrics.HubIdentified.WithLabelValues(string(id.Type)).Inc()
	h.logger.Info("live connection identified",
		slog.String("conn", c.id),
		slog.String("role", string(id.Type)),
		slog.String("user_id", id.UserID),
		slog.Any("rooms", rooms),
	)

	ack, err := event.EncodeFrame(event.NameIdentified, event.Identified{Type: id.Type, UserID: id.UserID, Rooms: rooms})
	if err == nil {
		h.enqueue(c, ack)
	}
}

func (h *Hub) writeLoop(c *conn) {
	ticker := time.NewTicker(h.opts.PongTimeout / 2)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(h.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.shutdown()
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.opts.WriteTimeout)); err != nil {
				c.shutdown()
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.opts.WriteTimeout))
			return
		}
	}
}

// Publish encodes event once and queues it for every interested connection without blocking.
func (h *Hub) Publish(ctx context.Context, e event.Event) {
	payload, err := event.Encode(e)
	if err != nil {
		h.logger.Error("encode event failed", slog.String("event", e.Name()), slog.String("error", err.Error()))
		return
	}
	rooms, broadcast := Route(e)
	metrics.EventsPublishedTotal.WithLabelValues(e.Name()).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if broadcast || c.inAny(rooms) {
			h.enqueue(c, payload)
		}
	}
}

func (h *Hub) enqueue(c *conn, payload []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- payload:
	default:
		metrics.FramesDroppedTotal.Inc()
		h.logger.Debug("dropping frame for slow connection", slog.String("conn", c.id))
	}
}

// Len returns number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// RoomSize returns number of connections in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.conns {
		if c.inAny([]string{room}) {
			n++
		}
	}
	return n
}

// Close disconnects every connection and rejects new ones.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	for c := range h.conns {
		c.shutdown()
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *conn) inAny(rooms []string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range rooms {
		if _, ok := c.rooms[r]; ok {
			return true
		}
	}
	return false
}

func (c *conn) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}
