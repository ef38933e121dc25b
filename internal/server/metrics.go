// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pdiddy/assignment-digest/internal/digest"
)

type metrics struct {
	registry    *prometheus.Registry
	documents   *prometheus.CounterVec
	records     prometheus.Counter
	uploadBytes prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assignment_digest",
			Name:      "documents_processed_total",
			Help:      "Uploaded documents processed, by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assignment_digest",
			Name:      "records_emitted_total",
			Help:      "Assignment records parsed from uploaded documents.",
		}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "assignment_digest",
			Name:      "upload_bytes",
			Help:      "Size of upload requests in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64<<10, 4, 7),
		}),
	}
	m.registry.MustRegister(
		m.documents, m.records, m.uploadBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observe(res digest.Result) {
	m.documents.WithLabelValues("digested").Add(float64(res.Digested))
	m.documents.WithLabelValues("skipped").Add(float64(res.Skipped))
	m.documents.WithLabelValues("failed").Add(float64(res.Failed))
	m.records.Add(float64(len(res.Rows)))
}
