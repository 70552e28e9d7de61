// internal/observability/metrics.go
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CampaignsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaigns_started_total",
		Help: "The total number of campaigns started",
	})

	CampaignsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaigns_finished_total",
		Help: "The total number of campaigns reaching a terminal status",
	}, []string{"status"}) // status: completed, stopped, failed

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "The total number of per-recipient send attempts",
	}, []string{"status"}) // status: success, failed

	SendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "email_send_duration_seconds",
		Help:    "Duration of individual SMTP submissions.",
		Buckets: prometheus.LinearBuckets(0.1, 0.2, 10),
	})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
