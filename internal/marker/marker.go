// Package marker tracks fixed reference markers across captured frames.
//
// Markers keep the pixel-to-real-world calibration honest: they are physical
// tags at known positions, re-located on every frame by matching corner
// features of the patch around the last known position against a reference
// patch captured at setup time.
//
// The tracker is a small state machine: Setup configures the marker set from
// one frame, Track re-locates markers on subsequent frames, Reset discards
// everything. A marker that cannot be found is never an error; its quality
// score decays instead.
package marker

import (
	"errors"
	"math"

	"github.com/fairwaylabs/launchmeter/internal/corners"
	"github.com/fairwaylabs/launchmeter/internal/raster"
)

// ErrPointCount is returned by Setup when the number of points does not
// match the configured marker count.
var ErrPointCount = errors.New("marker: wrong number of setup points")

const (
	// qualityDecay is the multiplicative penalty applied to a marker's
	// quality on every frame where no candidate beats the match threshold.
	qualityDecay = 0.8

	// matchRadius is the maximum distance in pixels for a reference corner
	// to be paired with a current corner.
	matchRadius = 5.0
)

// State is the persistent per-marker tracking state.
//
// State is mutated only by the Tracker that owns it; callers treat the
// values as read-only snapshots.
type State struct {
	// Index identifies the marker within the configured set.
	Index int `json:"index"`

	// Reference is the patch captured at setup time.
	Reference *raster.Region `json:"-"`

	// RefCorners are the corner features of the reference patch. An empty
	// list means setup could not fingerprint this marker; it will never
	// match until the tracker is reset.
	RefCorners []corners.Feature `json:"-"`

	// X, Y is the current position in full-frame pixel coordinates.
	X int `json:"x"`
	Y int `json:"y"`

	// Quality is the tracking confidence in [0,1]. A successful match sets
	// it to the match score; every miss multiplies it by 0.8.
	Quality float64 `json:"quality"`

	// Configured reports whether setup stored a usable reference.
	Configured bool `json:"configured"`
}

// TrackResult is the outcome of one Track call for one marker.
type TrackResult struct {
	// Index identifies the marker.
	Index int `json:"index"`

	// Found reports whether a candidate beat the match threshold.
	Found bool `json:"found"`

	// X, Y is the marker position after this frame. On a miss the previous
	// position is retained.
	X int `json:"x"`
	Y int `json:"y"`

	// Score is the best candidate score for this frame, whether or not it
	// passed the threshold.
	Score float64 `json:"score"`

	// Quality is the marker quality after this frame.
	Quality float64 `json:"quality"`
}

// MatchCorners scores how well a current corner set matches a reference set.
//
// For every reference corner the nearest current corner is found by
// Euclidean distance; pairs closer than 5 pixels contribute exp(-distance/2)
// to a running total, and the final score is total / len(reference).
//
// The score is in [0,1]: identical sets score 1.0, an empty current set
// scores 0. The comparison is anchored on the reference set only — extra
// corners in the current set are not penalized. That asymmetry is inherited
// behavior the rest of the tracker is tuned around.
func MatchCorners(reference, current []corners.Feature) float64 {
	if len(reference) == 0 {
		return 0
	}

	var total float64
	for _, ref := range reference {
		nearest := math.MaxFloat64
		for _, cur := range current {
			dx := float64(ref.X - cur.X)
			dy := float64(ref.Y - cur.Y)
			if d := math.Hypot(dx, dy); d < nearest {
				nearest = d
			}
		}
		if nearest <= matchRadius {
			total += math.Exp(-nearest / 2)
		}
	}
	return total / float64(len(reference))
}
