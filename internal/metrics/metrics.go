package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HubConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foodcourt_hub_connections",
		Help: "Current number of live channel connections.",
	})

	HubIdentified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_hub_identified_total",
		Help: "Total number of identify handshakes by role.",
	},
		[]string{"role"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_events_published_total",
		Help: "Total number of domain events published by the hub.",
	},
		[]string{"event"},
	)

	FramesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_hub_frames_dropped_total",
		Help: "Total number of frames dropped because a connection queue was full.",
	})

	PushPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_push_published_total",
		Help: "Total number of notifications handed to the message broker.",
	},
		[]string{"event"},
	)

	PushErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_push_errors_total",
		Help: "Total number of notifications that could not be delivered to the broker.",
	},
		[]string{"reason"},
	)

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_operation_errors_total",
		Help: "Total number of failed API operations.",
	},
		[]string{"operation"},
	)

	ChannelConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "foodcourt_client_channel_connected",
		Help: "Whether a pooled live channel is connected (1) or not (0).",
	},
		[]string{"channel"},
	)

	ChannelQuality = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "foodcourt_client_channel_quality",
		Help: "Current live channel quality class; the active class is set to 1.",
	},
		[]string{"channel", "quality"},
	)

	ChannelRTTSeconds = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "foodcourt_client_channel_rtt_seconds",
		Help: "Average heartbeat round trip over the recent probe window.",
	},
		[]string{"channel"},
	)

	ChannelReconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_client_channel_reconnects_total",
		Help: "Total number of live channel reconnect attempts.",
	})

	PollFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_client_poll_failures_total",
		Help: "Total number of failed order list fetches by the polling fallback.",
	})
)
