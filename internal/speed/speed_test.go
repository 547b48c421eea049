package speed

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestCalibrate(t *testing.T) {
	c := NewCalibrator()

	if got := c.Ratio(); got != 0.1 {
		t.Errorf("placeholder ratio: got %g, want 0.1", got)
	}

	if err := c.Calibrate(10, 2.4); err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if got := c.Ratio(); math.Abs(got-0.24) > 1e-9 {
		t.Errorf("ratio: got %g, want 0.24", got)
	}
}

func TestCalibrateRejectsNonPositive(t *testing.T) {
	c := NewCalibrator()

	for _, diameter := range []float64{0, -1, -0.001} {
		err := c.Calibrate(diameter, 4.27)
		if !errors.Is(err, ErrInvalidCalibration) {
			t.Errorf("Calibrate(%g): got %v, want ErrInvalidCalibration", diameter, err)
		}
	}

	// A failed calibration must not disturb the existing ratio.
	if got := c.Ratio(); got != 0.1 {
		t.Errorf("ratio after rejected calibration: got %g, want 0.1", got)
	}
}

func TestSpeed(t *testing.T) {
	c := NewCalibrator()
	if err := c.Calibrate(1, 0.1); err != nil { // 0.1 cm/px
		t.Fatalf("Calibrate failed: %v", err)
	}

	tests := []struct {
		name    string
		samples []Sample
		want    float64
	}{
		{
			// 100 px in 1 s at 0.1 cm/px: 10 cm/s = 0.1 m/s.
			"horizontal run",
			[]Sample{{X: 0, Y: 0, TimestampMS: 0}, {X: 100, Y: 0, TimestampMS: 1000}},
			0.1,
		},
		{
			// 3-4-5 triangle: 500 px in 0.5 s = 1000 px/s = 1 m/s.
			"diagonal run",
			[]Sample{{X: 0, Y: 0, TimestampMS: 0}, {X: 300, Y: 400, TimestampMS: 500}},
			1.0,
		},
		{
			// Only the first and last samples matter.
			"intermediate samples ignored",
			[]Sample{
				{X: 0, Y: 0, TimestampMS: 0},
				{X: 9999, Y: 9999, TimestampMS: 500},
				{X: 100, Y: 0, TimestampMS: 1000},
			},
			0.1,
		},
		{"no samples", nil, 0},
		{"single sample", []Sample{{X: 50, Y: 50, TimestampMS: 100}}, 0},
		{
			"zero elapsed time",
			[]Sample{{X: 0, Y: 0, TimestampMS: 500}, {X: 100, Y: 0, TimestampMS: 500}},
			0,
		},
		{
			"timestamps going backwards",
			[]Sample{{X: 0, Y: 0, TimestampMS: 1000}, {X: 100, Y: 0, TimestampMS: 0}},
			0,
		},
		{
			"no movement",
			[]Sample{{X: 42, Y: 42, TimestampMS: 0}, {X: 42, Y: 42, TimestampMS: 1000}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Speed(tt.samples)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Speed: got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestCalibratorConcurrent(t *testing.T) {
	c := NewCalibrator()
	samples := []Sample{{X: 0, Y: 0, TimestampMS: 0}, {X: 100, Y: 0, TimestampMS: 1000}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Calibrate(10, 4.27)
		}()
		go func() {
			defer wg.Done()
			c.Speed(samples)
		}()
	}
	wg.Wait()
}

func TestConvert(t *testing.T) {
	tests := []struct {
		unit    string
		want    float64
		wantErr bool
	}{
		{UnitMPS, 10, false},
		{UnitMPH, 22.369362920544, false},
		{UnitKMPH, 36, false},
		{UnitKPH, 36, false},
		{"furlongs", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			got, err := Convert(10, tt.unit)
			if tt.wantErr != (err != nil) {
				t.Fatalf("Convert error: got %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Convert: got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestIsValidUnit(t *testing.T) {
	for _, u := range ValidUnits {
		if !IsValidUnit(u) {
			t.Errorf("IsValidUnit(%q) = false, want true", u)
		}
	}
	if IsValidUnit("knots") {
		t.Error("IsValidUnit(knots) = true, want false")
	}
}
