package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var allowedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_ratelimit_allowed",
	Help: "Number of rate limit checks which were allowed",
}, []string{"type", "dimension"})

var rejectedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arbor_ratelimit_rejected",
	Help: "Number of rate limit checks which were rejected",
}, []string{"type", "dimension"})
