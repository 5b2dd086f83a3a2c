package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FeedMetrics are the Prometheus collectors for feed assembly and submissions.
// A nil *FeedMetrics records nothing.
type FeedMetrics struct {
	feedItems   *prometheus.HistogramVec
	submissions *prometheus.CounterVec
}

// NewFeedMetrics registers the feed collectors on reg.
func NewFeedMetrics(reg prometheus.Registerer) (*FeedMetrics, error) {
	m := &FeedMetrics{
		feedItems: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "resourcefeed",
			Name:      "feed_items",
			Help:      "Number of resources returned per assembled feed.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"variant"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resourcefeed",
			Name:      "submissions_total",
			Help:      "Resource submissions by outcome.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.feedItems, m.submissions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveFeed records the size of an assembled feed.
func (m *FeedMetrics) ObserveFeed(variant string, items int) {
	if m == nil {
		return
	}

	m.feedItems.WithLabelValues(variant).Observe(float64(items))
}

// CountSubmission records a submission outcome such as "accepted" or "rate_limited".
func (m *FeedMetrics) CountSubmission(result string) {
	if m == nil {
		return
	}

	m.submissions.WithLabelValues(result).Inc()
}
