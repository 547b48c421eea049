// Package pipeline composes the measurement subsystems behind a single
// facade.
//
// The server layer talks only to Pipeline; the tracker, decoder and
// calibrator never see each other directly. Pipeline is also where
// observability is attached: every operation emits events and bumps the
// shared counters, and completed speed measurements are persisted when a
// shot store is configured.
package pipeline

import (
	"image"
	"sync"

	"github.com/fairwaylabs/launchmeter/internal/config"
	"github.com/fairwaylabs/launchmeter/internal/detect"
	"github.com/fairwaylabs/launchmeter/internal/events"
	"github.com/fairwaylabs/launchmeter/internal/marker"
	"github.com/fairwaylabs/launchmeter/internal/metrics"
	"github.com/fairwaylabs/launchmeter/internal/speed"
	"github.com/fairwaylabs/launchmeter/internal/store"
)

// Pipeline is the measurement engine: marker tracking for calibration
// stability, raw-detection decoding and clustering, and calibrated speed
// calculation.
//
// All methods are safe for concurrent use.
type Pipeline struct {
	cfg        config.Config
	sink       events.Sink
	metrics    *metrics.Metrics
	shots      *store.Store
	calibrator *speed.Calibrator

	mu      sync.Mutex
	tracker *marker.Tracker
}

// Option configures optional pipeline collaborators.
type Option func(*Pipeline)

// WithSink attaches an event sink.
func WithSink(sink events.Sink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithMetrics attaches a metric set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithStore attaches a shot store; computed speeds above zero are persisted.
func WithStore(s *store.Store) Option {
	return func(p *Pipeline) { p.shots = s }
}

// New creates a pipeline with the given configuration.
func New(cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		calibrator: speed.NewCalibrator(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tracker = marker.NewTracker(cfg, p.sink)
	return p
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() config.Config {
	return p.cfg
}

// SetupMarkers captures the reference marker set from a frame. The number
// of points must equal the configured marker count.
func (p *Pipeline) SetupMarkers(points []image.Point, frame image.Image) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracker.Setup(points, frame)
}

// TrackMarkers re-locates every marker on a new frame and reports the
// per-marker outcome. It never fails; a marker that cannot be found reports
// not-found with decayed quality.
func (p *Pipeline) TrackMarkers(frame image.Image) []marker.TrackResult {
	p.mu.Lock()
	results := p.tracker.Track(frame)
	p.mu.Unlock()

	if p.metrics != nil && len(results) > 0 {
		p.metrics.FramesTracked.Add(1)
		for _, r := range results {
			if r.Found {
				p.metrics.MarkersMatched.Add(1)
			} else {
				p.metrics.MarkersMissed.Add(1)
			}
		}
	}
	return results
}

// ResetMarkers discards the marker set.
func (p *Pipeline) ResetMarkers() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracker.Reset()
}

// Markers returns a snapshot of the current marker states.
func (p *Pipeline) Markers() []marker.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracker.Markers()
}

// PrepareFrame letterboxes a frame into the detector's square input and
// returns the transform Decode needs afterwards.
func (p *Pipeline) PrepareFrame(frame image.Image) (*image.RGBA, detect.Letterbox) {
	return detect.PrepareInput(frame, p.cfg.ModelInputSize)
}

// Decode converts raw detector rows for a frame of the given original
// dimensions into confidence-gated detections in original-image pixels.
func (p *Pipeline) Decode(rows [][]float64, imageWidth, imageHeight int) ([]detect.Detection, error) {
	lb := detect.FitLetterbox(imageWidth, imageHeight, p.cfg.ModelInputSize)
	detections, err := detect.Decode(rows, imageWidth, imageHeight, lb, p.cfg.ConfidenceThreshold, p.cfg.Labels)
	if err != nil {
		if p.metrics != nil {
			p.metrics.DecodeErrors.Add(1)
		}
		events.Emit(p.sink, "detect", events.Error, "raw tensor rejected",
			map[string]interface{}{"rows": len(rows), "error": err.Error()})
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.RowsDecoded.Add(uint64(len(detections)))
		p.metrics.RowsDiscarded.Add(uint64(len(rows) - len(detections)))
	}
	events.Emit(p.sink, "detect", events.Debug, "frame decoded",
		map[string]interface{}{"rows": len(rows), "detections": len(detections)})
	return detections, nil
}

// Cluster merges near-duplicate same-class detections.
func (p *Pipeline) Cluster(detections []detect.Detection) []detect.Cluster {
	clusters := detect.MergeClusters(detections, p.cfg.IoUThreshold)
	if p.metrics != nil {
		p.metrics.ClustersEmitted.Add(uint64(len(clusters)))
	}
	events.Emit(p.sink, "detect", events.Debug, "detections clustered",
		map[string]interface{}{"detections": len(detections), "clusters": len(clusters)})
	return clusters
}

// SetCalibration derives the cm-per-pixel ratio from a reference object of
// known physical size and returns the new ratio.
func (p *Pipeline) SetCalibration(pixelDiameter, physicalDiameterCM float64) (float64, error) {
	if err := p.calibrator.Calibrate(pixelDiameter, physicalDiameterCM); err != nil {
		events.Emit(p.sink, "speed", events.Warn, "calibration rejected",
			map[string]interface{}{"pixel_diameter": pixelDiameter})
		return 0, err
	}

	ratio := p.calibrator.Ratio()
	if p.metrics != nil {
		p.metrics.CalibrationsSet.Add(1)
	}
	events.Emit(p.sink, "speed", events.Info, "calibration set",
		map[string]interface{}{"ratio_cm_per_px": ratio})
	return ratio, nil
}

// Ratio returns the current calibration ratio in cm per pixel.
func (p *Pipeline) Ratio() float64 {
	return p.calibrator.Ratio()
}

// CalculateSpeed computes the speed in meters per second across a sampled
// trajectory. Degenerate inputs (fewer than two samples, non-positive
// elapsed time) yield zero rather than an error. A positive result is
// persisted when a shot store is attached.
func (p *Pipeline) CalculateSpeed(samples []speed.Sample) float64 {
	mps := p.calibrator.Speed(samples)
	if p.metrics != nil {
		p.metrics.SpeedsComputed.Add(1)
	}
	events.Emit(p.sink, "speed", events.Info, "speed computed",
		map[string]interface{}{"samples": len(samples), "mps": mps})

	if p.shots != nil && mps > 0 {
		if _, err := p.shots.SaveShot(mps, len(samples), p.calibrator.Ratio()); err != nil {
			events.Emit(p.sink, "speed", events.Error, "failed to persist shot",
				map[string]interface{}{"error": err.Error()})
		}
	}
	return mps
}

// RecentShots returns the latest persisted measurements, newest first.
// Without an attached store it returns nothing.
func (p *Pipeline) RecentShots(limit int) ([]store.Shot, error) {
	if p.shots == nil {
		return nil, nil
	}
	return p.shots.RecentShots(limit)
}
