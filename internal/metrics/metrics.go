package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by handler.",
		},
		[]string{"handler"},
	)

	rangeChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "range_checks_total",
			Help:      "Count of candidate range validations by result.",
		},
		[]string{"result"},
	)

	selectionsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "selections_completed_total",
			Help:      "Count of selections reaching a complete range.",
		},
	)

	quotesComputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "quotes_computed_total",
			Help:      "Count of price quotes produced.",
		},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "staybook",
			Name:      "booking_submissions_total",
			Help:      "Count of booking submissions by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, rangeChecks, selectionsCompleted, quotesComputed, submissions)
	})
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}

func IncRangeCheck(valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	rangeChecks.WithLabelValues(result).Inc()
}

func IncSelectionCompleted() {
	selectionsCompleted.Inc()
}

func IncQuoteComputed() {
	quotesComputed.Inc()
}

func IncSubmission(outcome string) {
	submissions.WithLabelValues(outcome).Inc()
}
