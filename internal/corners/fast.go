// Package corners extracts distinctive feature points from pixel regions.
//
// The detector is a segment-test ("FAST"-style) corner detector: a pixel is
// a corner when enough consecutive samples on a small circle around it are
// all brighter or all darker than the pixel itself. The marker tracker uses
// these features as a compact fingerprint of each reference patch.
package corners

import (
	"math"
	"sort"

	"github.com/fairwaylabs/launchmeter/internal/raster"
)

const (
	// circleRadius is the radius of the Bresenham sampling circle.
	circleRadius = 3

	// minRunLength is the number of consecutive qualifying circle samples
	// required for the segment test to pass.
	minRunLength = 9

	// maxFeatures caps the number of features returned per region.
	maxFeatures = 20
)

// circleOffsets are the 16 points of a Bresenham circle of radius 3,
// listed clockwise starting from the top.
var circleOffsets = [16][2]int{
	{0, -3}, {1, -3}, {2, -2}, {3, -1},
	{3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
	{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// Feature is a distinctive point in a region's local coordinate space.
type Feature struct {
	// X is the horizontal pixel position, local to the region.
	X int `json:"x"`

	// Y is the vertical pixel position, local to the region.
	Y int `json:"y"`

	// Strength is the largest intensity delta observed in the qualifying
	// circle run. Always non-negative.
	Strength float64 `json:"strength"`
}

// Detect finds corner features in a region.
//
// Parameters:
//   - region: the pixel buffer to scan.
//   - threshold: intensity delta a circle sample must exceed relative to the
//     center pixel to count as brighter or darker. Typical value: 20.
//
// Returns the detected features sorted by descending strength, truncated to
// the strongest 20. Regions smaller than 7×7 return an empty list: the
// radius-3 circle needs a 3-pixel margin on every side, so there is no
// interior pixel to test. That is a degenerate input, not an error.
//
// # Algorithm
//
// For every interior pixel:
//
//  1. Compute the center luminance (ITU-R BT.601 weights).
//  2. Walk the 16 circle samples once, keeping two running counters of
//     consecutive samples brighter than center+threshold and consecutive
//     samples darker than center-threshold. A sample that qualifies for
//     neither resets both runs.
//  3. If either run reaches 9 consecutive samples the pixel is a corner;
//     its strength is the largest |sample - center| seen in that run.
//
// The walk does not wrap around the circle, so a qualifying arc split across
// the start point is missed. The detector is deterministic and has no side
// effects.
func Detect(region *raster.Region, threshold float64) []Feature {
	if region == nil {
		return nil
	}
	margin := circleRadius
	if region.Width < 2*margin+1 || region.Height < 2*margin+1 {
		return []Feature{}
	}

	features := make([]Feature, 0)

	for y := margin; y < region.Height-margin; y++ {
		for x := margin; x < region.Width-margin; x++ {
			center := region.Luminance(x, y)

			var brightRun, darkRun int
			var brightMax, darkMax float64
			var strength float64
			isCorner := false

			for _, off := range circleOffsets {
				sample := region.Luminance(x+off[0], y+off[1])
				delta := sample - center

				if delta > threshold {
					brightRun++
					brightMax = math.Max(brightMax, delta)
					darkRun, darkMax = 0, 0
				} else if delta < -threshold {
					darkRun++
					darkMax = math.Max(darkMax, -delta)
					brightRun, brightMax = 0, 0
				} else {
					brightRun, brightMax = 0, 0
					darkRun, darkMax = 0, 0
				}

				if brightRun >= minRunLength {
					isCorner = true
					strength = math.Max(strength, brightMax)
				}
				if darkRun >= minRunLength {
					isCorner = true
					strength = math.Max(strength, darkMax)
				}
			}

			if isCorner {
				features = append(features, Feature{X: x, Y: y, Strength: strength})
			}
		}
	}

	sort.Slice(features, func(i, j int) bool {
		return features[i].Strength > features[j].Strength
	})
	if len(features) > maxFeatures {
		features = features[:maxFeatures]
	}
	return features
}
