package session

import "github.com/prometheus/client_golang/prometheus"

var (
	installsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo2sid",
			Subsystem: "session",
			Name:      "installs_total",
			Help:      "Total processed queue items",
		},
		[]string{"outcome"},
	)

	installDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mo2sid",
			Subsystem: "session",
			Name:      "install_duration_seconds",
			Help:      "Duration of single-item installs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
		},
	)

	queueDepthGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mo2sid",
			Subsystem: "session",
			Name:      "queue_depth",
			Help:      "Pending archives in the install queue",
		},
	)
)

func init() {
	prometheus.MustRegister(installsTotal, installDuration, queueDepthGauge)
}
