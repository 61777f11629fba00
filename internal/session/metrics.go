package session

import "github.com/prometheus/client_golang/prometheus"

// Session observability counters. Registered once at package init, the way
// chidi150c-coinbase/metrics.go registers its bot_* counters — these are
// in-memory gauges/counters, not an event log, so they don't touch the
// "persistent storage of received events" non-goal (spec.md §1).
var (
	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btnl_session_frames_sent_total",
			Help: "Frames written to the wire, by body encoding tag.",
		},
		[]string{"encoding"},
	)

	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btnl_session_frames_received_total",
			Help: "Frames read from the wire, by body encoding tag.",
		},
		[]string{"encoding"},
	)

	heartbeatsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "btnl_session_heartbeats_sent_total",
			Help: "Heartbeat frames emitted by the idle ticker.",
		},
	)

	sessionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btnl_session_terminal_errors_total",
			Help: "Terminal session errors, by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(framesSent, framesReceived, heartbeatsSent, sessionErrors)
}
