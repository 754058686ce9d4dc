package spam

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var spamDetectedCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "arbor_spam_detected",
	Help: "Number of events the spam detector flagged",
})
