// Package metrics exposes pipeline counters to Prometheus.
//
// Counters are plain atomics updated from the hot path; Prometheus reads
// them lazily through GaugeFunc collectors on scrape, so instrumentation
// costs one atomic add per event.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pipeline counters.
type Metrics struct {
	// Marker tracking
	FramesTracked  atomic.Uint64
	MarkersMatched atomic.Uint64
	MarkersMissed  atomic.Uint64

	// Detection decoding
	RowsDecoded     atomic.Uint64
	RowsDiscarded   atomic.Uint64
	DecodeErrors    atomic.Uint64
	ClustersEmitted atomic.Uint64

	// Calibration and speed
	CalibrationsSet atomic.Uint64
	SpeedsComputed  atomic.Uint64

	registry *prometheus.Registry
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.register()
	return m
}

func (m *Metrics) register() {
	gauges := []struct {
		name string
		help string
		src  *atomic.Uint64
	}{
		{"launchmeter_frames_tracked_total", "Frames run through marker tracking", &m.FramesTracked},
		{"launchmeter_markers_matched_total", "Marker matches above the score threshold", &m.MarkersMatched},
		{"launchmeter_markers_missed_total", "Marker searches that decayed quality", &m.MarkersMissed},
		{"launchmeter_rows_decoded_total", "Raw detector rows decoded into detections", &m.RowsDecoded},
		{"launchmeter_rows_discarded_total", "Raw detector rows dropped by the confidence gate", &m.RowsDiscarded},
		{"launchmeter_decode_errors_total", "Frames rejected for malformed raw tensors", &m.DecodeErrors},
		{"launchmeter_clusters_emitted_total", "Clusters produced from decoded detections", &m.ClustersEmitted},
		{"launchmeter_calibrations_set_total", "Successful calibration updates", &m.CalibrationsSet},
		{"launchmeter_speeds_computed_total", "Speed calculations performed", &m.SpeedsComputed},
	}

	for _, g := range gauges {
		src := g.src
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: g.name, Help: g.help},
			func() float64 { return float64(src.Load()) },
		))
	}
}

// Handler returns the Prometheus scrape handler for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
