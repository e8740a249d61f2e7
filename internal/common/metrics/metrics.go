// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExpirationScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_scans_total",
			Help: "Total number of expiration scan runs",
		},
		[]string{"scope"},
	)

	CandidatesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_candidates_scanned_total",
			Help: "Total number of expiring keys evaluated",
		},
	)

	RemindersDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_reminders_dispatched_total",
			Help: "Total number of reminder dispatches by outcome",
		},
		[]string{"outcome"},
	)

	ChannelSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_channel_sends_total",
			Help: "Total number of channel send attempts by channel and status",
		},
		[]string{"channel", "status"},
	)

	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "expiry_scan_duration_seconds",
			Help: "Duration of an expiration scan run in seconds",
		},
		[]string{"scope"},
	)
)
