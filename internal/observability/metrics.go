package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	writerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bsonflat",
			Subsystem: "writer",
			Name:      "failures_total",
			Help:      "Rejected writer operations by reason.",
		},
		[]string{"reason"},
	)
	writerGrows = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bsonflat",
			Subsystem: "writer",
			Name:      "grows_total",
			Help:      "Owned buffer reallocations.",
		},
	)
	iteratorFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bsonflat",
			Subsystem: "iterator",
			Name:      "failures_total",
			Help:      "Documents rejected while iterating, by reason.",
		},
		[]string{"reason"},
	)
	frameDocuments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bsonflat",
			Subsystem: "frame",
			Name:      "documents_total",
			Help:      "Documents moved through stream framing.",
		},
		[]string{"direction"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(writerFailures, writerGrows, iteratorFailures, frameDocuments)
	})
}

func RecordWriterFailure(reason string) {
	RegisterMetrics()
	writerFailures.WithLabelValues(reason).Inc()
}

func RecordWriterGrow() {
	RegisterMetrics()
	writerGrows.Inc()
}

func RecordIteratorFailure(reason string) {
	RegisterMetrics()
	iteratorFailures.WithLabelValues(reason).Inc()
}

// RecordFrameDocument counts one framed document; direction is "read" or "write".
func RecordFrameDocument(direction string) {
	RegisterMetrics()
	frameDocuments.WithLabelValues(direction).Inc()
}
