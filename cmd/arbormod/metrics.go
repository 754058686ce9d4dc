package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var evaluateRequestCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "arbormod_evaluate_requests",
	Help: "Number of evaluate API requests served",
})
