// Package metrics exposes the service's domain counters. HTTP-level request
// counting lives in the middleware package; these track what the service
// actually did.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the domain counters. A nil *Metrics is safe to use; every
// method no-ops, which keeps handler tests free of registry setup.
type Metrics struct {
	stampsGenerated  *prometheus.CounterVec
	documentsLoaded  *prometheus.CounterVec
	previewsRendered prometheus.Counter
}

// New creates and registers the domain counters on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stampsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stamps_generated_total",
				Help: "Total number of stamp assets rendered.",
			},
			[]string{"type"},
		),
		documentsLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_loaded_total",
				Help: "Total number of documents loaded into sessions.",
			},
			[]string{"type"},
		),
		previewsRendered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "previews_rendered_total",
				Help: "Total number of page previews composited.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.stampsGenerated, m.documentsLoaded, m.previewsRendered} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// StampGenerated records one rendered stamp of the given type.
func (m *Metrics) StampGenerated(stampType string) {
	if m == nil {
		return
	}
	m.stampsGenerated.WithLabelValues(stampType).Inc()
}

// DocumentLoaded records one document attached to a session.
func (m *Metrics) DocumentLoaded(docType string) {
	if m == nil {
		return
	}
	m.documentsLoaded.WithLabelValues(docType).Inc()
}

// PreviewRendered records one composited preview.
func (m *Metrics) PreviewRendered() {
	if m == nil {
		return
	}
	m.previewsRendered.Inc()
}
