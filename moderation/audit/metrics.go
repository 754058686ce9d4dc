package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var entryCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "arbor_audit_entries_appended",
	Help: "Number of audit entries appended",
})

var evictionCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "arbor_audit_entries_evicted",
	Help: "Number of audit entries evicted under capacity pressure",
})
