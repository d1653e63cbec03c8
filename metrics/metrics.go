package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels of a screening.
const (
	OutcomeAdmitted = "admitted"
	OutcomeFlagged  = "flagged"
)

// Metrics provides observability for the screener.
// All methods are safe on a nil receiver.
type Metrics struct {
	Screenings         *prometheus.CounterVec
	DenylistMatches    prometheus.Counter
	ClassifierFailures *prometheus.CounterVec
	ClassifierDuration prometheus.Histogram
	CacheHits          prometheus.Counter
}

// New creates metrics registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Screenings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "censor_screenings_total",
			Help: "Total number of screened texts by outcome",
		}, []string{"outcome"}),
		DenylistMatches: f.NewCounter(prometheus.CounterOpts{
			Name: "censor_denylist_matches_total",
			Help: "Total number of texts that matched at least one denylist term",
		}),
		ClassifierFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "censor_classifier_failures_total",
			Help: "Remote classifier failures by kind (timeout, unavailable, malformed)",
		}, []string{"classifier", "kind"}),
		ClassifierDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "censor_classifier_duration_seconds",
			Help:    "Duration of remote classifier calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "censor_verdict_cache_hits_total",
			Help: "Remote verdicts served from the in-memory cache",
		}),
	}
}

// ObserveScreening records the outcome of one screening.
func (m *Metrics) ObserveScreening(flagged, matched bool) {
	if m == nil {
		return
	}
	outcome := OutcomeAdmitted
	if flagged {
		outcome = OutcomeFlagged
	}
	m.Screenings.WithLabelValues(outcome).Inc()
	if matched {
		m.DenylistMatches.Inc()
	}
}

// IncrementClassifierFailure records one failed remote call.
func (m *Metrics) IncrementClassifierFailure(classifier, kind string) {
	if m == nil {
		return
	}
	m.ClassifierFailures.WithLabelValues(classifier, kind).Inc()
}

// ObserveClassifier records the duration of a remote call.
// Call with time.Now() at the start of the call.
func (m *Metrics) ObserveClassifier(start time.Time) {
	if m == nil {
		return
	}
	m.ClassifierDuration.Observe(time.Since(start).Seconds())
}

// IncrementCacheHit records a cached remote verdict.
func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}
