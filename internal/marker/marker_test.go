package marker

import (
	"math"
	"testing"

	"github.com/fairwaylabs/launchmeter/internal/corners"
)

func TestMatchCornersIdenticalSets(t *testing.T) {
	ref := []corners.Feature{
		{X: 5, Y: 5, Strength: 100},
		{X: 12, Y: 8, Strength: 80},
		{X: 20, Y: 15, Strength: 60},
	}
	if got := MatchCorners(ref, ref); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical sets: got %.6f, want 1.0", got)
	}
}

func TestMatchCornersEmptySets(t *testing.T) {
	ref := []corners.Feature{{X: 5, Y: 5, Strength: 100}}

	if got := MatchCorners(ref, nil); got != 0 {
		t.Errorf("empty current set: got %.6f, want 0", got)
	}
	if got := MatchCorners(nil, ref); got != 0 {
		t.Errorf("empty reference set: got %.6f, want 0", got)
	}
	if got := MatchCorners(nil, nil); got != 0 {
		t.Errorf("both empty: got %.6f, want 0", got)
	}
}

func TestMatchCornersDistanceKernel(t *testing.T) {
	ref := []corners.Feature{{X: 10, Y: 10}}

	tests := []struct {
		name string
		cur  []corners.Feature
		want float64
	}{
		{"exact", []corners.Feature{{X: 10, Y: 10}}, 1.0},
		{"2px away", []corners.Feature{{X: 12, Y: 10}}, math.Exp(-1)},
		{"5px away", []corners.Feature{{X: 15, Y: 10}}, math.Exp(-2.5)},
		{"6px away", []corners.Feature{{X: 16, Y: 10}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchCorners(ref, tt.cur)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestMatchCornersUsesNearest(t *testing.T) {
	// A far corner must not shadow a near one.
	ref := []corners.Feature{{X: 10, Y: 10}}
	cur := []corners.Feature{{X: 40, Y: 40}, {X: 10, Y: 10}}
	if got := MatchCorners(ref, cur); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("got %.6f, want 1.0", got)
	}
}

func TestMatchCornersPartial(t *testing.T) {
	// Two reference corners, only one present: score is halved.
	ref := []corners.Feature{{X: 10, Y: 10}, {X: 30, Y: 30}}
	cur := []corners.Feature{{X: 10, Y: 10}}
	if got := MatchCorners(ref, cur); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("got %.6f, want 0.5", got)
	}
}
