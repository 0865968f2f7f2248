package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the sink receives
type Metrics struct {
	requests *prometheus.CounterVec
	files    prometheus.Counter
	bytes    prometheus.Counter
}

// NewMetrics registers the sink metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fileupload",
			Subsystem: "sink",
			Name:      "requests_total",
			Help:      "Upload requests handled, by outcome.",
		}, []string{"outcome"}),
		files: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fileupload",
			Subsystem: "sink",
			Name:      "files_total",
			Help:      "Files stored.",
		}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fileupload",
			Subsystem: "sink",
			Name:      "bytes_total",
			Help:      "Bytes stored.",
		}),
	}
}

func (m *Metrics) observeRequest(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeFile(size int64) {
	m.files.Inc()
	m.bytes.Add(float64(size))
}
