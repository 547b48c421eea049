package marker

import (
	"fmt"
	"image"

	"github.com/fairwaylabs/launchmeter/internal/config"
	"github.com/fairwaylabs/launchmeter/internal/corners"
	"github.com/fairwaylabs/launchmeter/internal/events"
	"github.com/fairwaylabs/launchmeter/internal/raster"
)

// Tracker owns the marker set and re-locates it frame to frame.
//
// Tracker is not safe for concurrent use: callers must serialize Setup,
// Track and Reset. Per-frame work inside Track is deterministic — candidate
// offsets are scanned in a fixed order and only a strictly better score
// replaces the current best, so the first-seen candidate wins exact ties.
type Tracker struct {
	cfg     config.Config
	sink    events.Sink
	markers []*State
}

// NewTracker creates an unconfigured tracker. sink may be nil.
func NewTracker(cfg config.Config, sink events.Sink) *Tracker {
	return &Tracker{cfg: cfg, sink: sink}
}

// Setup captures the reference state for the configured marker set.
//
// Exactly cfg.MarkerCount points are required; anything else returns
// ErrPointCount. For each point a RegionSize×RegionSize patch centered on
// the point is extracted (clamped to the frame bounds) and fingerprinted
// with corner features. A point too close to the frame edge, or one whose
// patch yields no corners, is stored with an empty reference list: it is
// tracked as permanently lost rather than failing the whole setup.
//
// Calling Setup again replaces any previous marker set.
func (t *Tracker) Setup(points []image.Point, frame image.Image) error {
	if len(points) != t.cfg.MarkerCount {
		return fmt.Errorf("%w: got %d, want %d", ErrPointCount, len(points), t.cfg.MarkerCount)
	}

	markers := make([]*State, len(points))
	for i, p := range points {
		m := &State{Index: i, X: p.X, Y: p.Y, Configured: true}

		region, err := raster.ExtractSquare(frame, p.X, p.Y, t.cfg.RegionSize)
		if err == nil {
			m.Reference = region
			m.RefCorners = corners.Detect(region, t.cfg.CornerThreshold)
		}
		if len(m.RefCorners) > 0 {
			m.Quality = 1.0
		} else {
			events.Emit(t.sink, "marker", events.Warn, "marker has no reference corners",
				map[string]interface{}{"index": i, "x": p.X, "y": p.Y})
		}
		markers[i] = m
	}

	t.markers = markers
	events.Emit(t.sink, "marker", events.Info, "markers configured",
		map[string]interface{}{"count": len(markers)})
	return nil
}

// Track re-locates every marker on a new frame.
//
// For each marker with a non-empty reference, candidate patches are
// extracted on a grid of offsets within ±SearchRadius of the last known
// position at SearchStep spacing (a radius of zero degenerates to a single
// re-extraction at the last position). Each candidate is fingerprinted and
// scored against the reference with MatchCorners; the best candidate wins
// if its score reaches MatchThreshold.
//
// On a hit the marker position moves to the candidate center and quality
// becomes the match score. On a miss the position is retained and quality
// decays by 0.8. Markers with an empty reference report not-found with
// quality 0. Track never fails: every per-marker problem degrades into a
// low-quality result.
func (t *Tracker) Track(frame image.Image) []TrackResult {
	if len(t.markers) == 0 {
		events.Emit(t.sink, "marker", events.Warn, "track called before setup", nil)
		return nil
	}

	results := make([]TrackResult, len(t.markers))
	for i, m := range t.markers {
		results[i] = t.trackOne(m, frame)
	}
	return results
}

func (t *Tracker) trackOne(m *State, frame image.Image) TrackResult {
	if len(m.RefCorners) == 0 {
		m.Quality = 0
		return TrackResult{Index: m.Index, X: m.X, Y: m.Y}
	}

	radius, step := t.cfg.SearchRadius, t.cfg.SearchStep
	if radius == 0 {
		step = 1
	}

	bestScore := -1.0
	bestX, bestY := m.X, m.Y

	for dy := -radius; dy <= radius; dy += step {
		for dx := -radius; dx <= radius; dx += step {
			cx, cy := m.X+dx, m.Y+dy
			region, err := raster.ExtractSquare(frame, cx, cy, t.cfg.RegionSize)
			if err != nil {
				continue
			}
			score := MatchCorners(m.RefCorners, corners.Detect(region, t.cfg.CornerThreshold))
			if score > bestScore {
				bestScore, bestX, bestY = score, cx, cy
			}
		}
	}

	if bestScore >= t.cfg.MatchThreshold {
		m.X, m.Y = bestX, bestY
		m.Quality = bestScore
		events.Emit(t.sink, "marker", events.Debug, "marker matched",
			map[string]interface{}{"index": m.Index, "score": bestScore, "x": bestX, "y": bestY})
		return TrackResult{Index: m.Index, Found: true, X: m.X, Y: m.Y, Score: bestScore, Quality: m.Quality}
	}

	m.Quality *= qualityDecay
	events.Emit(t.sink, "marker", events.Debug, "marker missed",
		map[string]interface{}{"index": m.Index, "score": bestScore, "quality": m.Quality})
	return TrackResult{Index: m.Index, X: m.X, Y: m.Y, Score: bestScore, Quality: m.Quality}
}

// Reset discards the marker set, returning the tracker to its
// unconfigured state.
func (t *Tracker) Reset() {
	t.markers = nil
	events.Emit(t.sink, "marker", events.Info, "markers reset", nil)
}

// Markers returns a snapshot of the current marker states. The returned
// values are copies; mutating them does not affect the tracker.
func (t *Tracker) Markers() []State {
	out := make([]State, len(t.markers))
	for i, m := range t.markers {
		out[i] = *m
	}
	return out
}
