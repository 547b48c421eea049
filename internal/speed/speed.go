// Package speed converts tracked pixel positions into a physical speed.
//
// A Calibrator holds the process-wide centimeters-per-pixel ratio, derived
// once from a reference object of known physical size (the ball itself, or
// a printed marker). Speed calculation fuses that ratio with the elapsed
// time between the first and last sample of a tracked trajectory.
package speed

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrInvalidCalibration is returned for a non-positive reference pixel
// diameter. Calibration inputs are operator-provided; rejecting them loudly
// beats silently clamping to something measurable-but-wrong.
var ErrInvalidCalibration = errors.New("speed: reference pixel diameter must be positive")

// defaultRatio is the placeholder centimeters-per-pixel scale used until an
// explicit calibration replaces it.
const defaultRatio = 0.1

// Sample is a tracked pixel position with a monotonic capture timestamp.
type Sample struct {
	// X, Y is the position in full-frame pixel coordinates.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// TimestampMS is the capture time in milliseconds on a monotonic clock.
	TimestampMS int64 `json:"timestamp_ms"`
}

// Calibrator holds the pixel-to-physical scale and computes speeds with it.
//
// The ratio is process-wide configuration: written only by Calibrate, read
// by Speed. Both sides are safe for concurrent use.
type Calibrator struct {
	mu    sync.RWMutex
	ratio float64 // centimeters per pixel
}

// NewCalibrator returns a Calibrator with the placeholder ratio of
// 0.1 cm/px, used until Calibrate is called with a real reference.
func NewCalibrator() *Calibrator {
	return &Calibrator{ratio: defaultRatio}
}

// Calibrate derives the scale from a reference object of known size.
//
// pixelDiameter is the measured diameter of the reference object in pixels;
// physicalDiameterCM its real diameter in centimeters (a regulation golf
// ball is 4.27 cm). A pixelDiameter of zero or less returns
// ErrInvalidCalibration and leaves the current ratio untouched.
func (c *Calibrator) Calibrate(pixelDiameter, physicalDiameterCM float64) error {
	if pixelDiameter <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidCalibration, pixelDiameter)
	}

	c.mu.Lock()
	c.ratio = physicalDiameterCM / pixelDiameter
	c.mu.Unlock()
	return nil
}

// Ratio returns the current centimeters-per-pixel scale.
func (c *Calibrator) Ratio() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ratio
}

// Speed computes the average speed in meters per second over a trajectory.
//
// Only the first and last sample are used: the Euclidean pixel distance
// between them, scaled by the calibration ratio, divided by the elapsed
// time. Fewer than two samples, or a non-increasing timestamp span, yields
// a speed of zero — these are degenerate captures, not errors, because
// upstream frame timing cannot guarantee strictly increasing timestamps in
// every deployment.
func (c *Calibrator) Speed(samples []Sample) float64 {
	if len(samples) < 2 {
		return 0
	}

	first := samples[0]
	last := samples[len(samples)-1]

	elapsed := float64(last.TimestampMS-first.TimestampMS) / 1000.0
	if elapsed <= 0 {
		return 0
	}

	pixels := math.Hypot(last.X-first.X, last.Y-first.Y)
	centimeters := pixels * c.Ratio()

	return centimeters / elapsed / 100.0
}
