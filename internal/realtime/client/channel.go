// Package client keeps a live order channel open against the hub: it
// identifies the connection, reconnects with backoff and measures the
// heartbeat round trip.
package client

import (
	"net/url"
	"strings"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/event"
	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// Handler receives decoded domain events.
type Handler func(event.Event)

// Channel is the handle returned by Pool.Get.
type Channel interface {
	Subscribe(name string, h Handler)
	Unsubscribe(name string)
	Connected() bool
	Quality() Quality
	Close()
}

// Options identify a channel.
type Options struct {
	URL    string
	Role   model.Role
	UserID string
	// Serverless hosts cannot keep a long lived connection; Get returns Inert.
	Serverless bool
}

func (o Options) key() string {
	return o.URL + "|" + string(o.Role) + "|" + o.UserID
}

var serverlessSuffixes = []string{".vercel.app", ".netlify.app", ".pages.dev"}

// ServerlessHost reports whether base points at a platform that drops long lived connections.
func ServerlessHost(base string) bool {
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range serverlessSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// Quality classifies the channel from heartbeat round trips.
type Quality string

const (
	QualityUnknown   Quality = "unknown"
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityCritical  Quality = "critical"
)

// Qualities lists every class in ascending severity.
func Qualities() []Quality {
	return []Quality{QualityUnknown, QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityCritical}
}

// Classify maps an average round trip to a quality class.
func Classify(avg time.Duration) Quality {
	switch {
	case avg < 100*time.Millisecond:
		return QualityExcellent
	case avg < 300*time.Millisecond:
		return QualityGood
	case avg < time.Second:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Inert is the handle used where live connections are not viable.
type Inert struct{}

var _ Channel = Inert{}

func (Inert) Subscribe(string, Handler) {}
func (Inert) Unsubscribe(string)        {}
func (Inert) Connected() bool           { return false }
func (Inert) Quality() Quality          { return QualityUnknown }
func (Inert) Close()                    {}
