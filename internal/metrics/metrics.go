package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bundlebot"

type Metrics struct {
	Updates              *prometheus.CounterVec
	OrdersSubmitted      *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
	InvalidPhoneNumbers  prometheus.Counter
}

// New registers the bot's collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Updates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Telegram updates received, by kind.",
		}, []string{"kind"}),
		OrdersSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Orders forwarded to the worker and owner, by bundle.",
		}, []string{"bundle"}),
		NotificationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Outbound order notifications that failed, by recipient.",
		}, []string{"recipient"}),
		InvalidPhoneNumbers: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_phone_numbers_total",
			Help:      "Phone numbers rejected by validation.",
		}),
	}
}
