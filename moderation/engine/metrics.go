package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "arbor_moderation_event_duration_sec",
	Help: "Total duration of moderation event evaluation",
})

var eventProcessCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "arbor_moderation_events_processed",
	Help: "Number of events evaluated",
})

var checkerErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_moderation_checker_errors",
	Help: "Number of checker failures handled via the fail-open/fail-closed fallback",
}, []string{"checker"})

var actionProducedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_moderation_actions_produced",
	Help: "Number of enforcement actions decided",
}, []string{"type"})

var dispatchErrorCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "arbor_moderation_dispatch_errors",
	Help: "Number of action executor dispatch failures",
})
