package runner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors updated by Run.
type Metrics struct {
	FilesGenerated prometheus.Counter // files handed to the sink
	BytesGenerated prometheus.Counter // bytes handed to the sink
	SinkFailures   prometheus.Counter // sink writes that returned an error
	Remaining      prometheus.Gauge   // files left in the current run
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		FilesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feelgood",
			Name:      "files_generated_total",
			Help:      "Number of generated files handed to the sink.",
		}),
		BytesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feelgood",
			Name:      "bytes_generated_total",
			Help:      "Number of generated bytes handed to the sink.",
		}),
		SinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "feelgood",
			Name:      "sink_failures_total",
			Help:      "Number of sink writes that failed.",
		}),
		Remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "feelgood",
			Name:      "files_remaining",
			Help:      "Number of files left in the current run.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.FilesGenerated, m.BytesGenerated, m.SinkFailures, m.Remaining} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeFile(size int) {
	if m == nil {
		return
	}
	m.FilesGenerated.Inc()
	m.BytesGenerated.Add(float64(size))
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.SinkFailures.Inc()
}

func (m *Metrics) setRemaining(n uint64) {
	if m == nil {
		return
	}
	m.Remaining.Set(float64(n))
}
