package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LoanOperations counts successful loan store mutations by operation (add, update, settle, delete).
var LoanOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "credconecta",
	Subsystem: "loans",
	Name:      "operations_total",
	Help:      "Loan store mutations by operation.",
}, []string{"op"})

// OverdueLoans is the overdue count seen by the last sweep.
var OverdueLoans = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "credconecta",
	Subsystem: "loans",
	Name:      "overdue",
	Help:      "Overdue loans found by the last overdue sweep.",
})

// MirrorFallbacks counts primary store failures served by the local mirror.
var MirrorFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "credconecta",
	Subsystem: "storage",
	Name:      "mirror_fallbacks_total",
	Help:      "Primary store failures answered by the local mirror, by operation.",
}, []string{"op"})

// MirrorResyncs counts local rows written back to the primary store after an outage.
var MirrorResyncs = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "credconecta",
	Subsystem: "storage",
	Name:      "mirror_resyncs_total",
	Help:      "Loans copied from the local mirror back to the primary store.",
})

// NotificationsCreated counts stored notifications by type.
var NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "credconecta",
	Subsystem: "notifications",
	Name:      "created_total",
	Help:      "Notifications stored, by type.",
}, []string{"type"})
