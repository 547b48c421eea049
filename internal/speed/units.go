package speed

import (
	"fmt"
	"strings"
)

// Display unit identifiers for converted speeds. Speeds are always computed
// and stored in meters per second; conversion happens at presentation time.
const (
	UnitMPS  = "mps"
	UnitMPH  = "mph"
	UnitKMPH = "kmph"
	UnitKPH  = "kph"
)

// ValidUnits lists every accepted display unit.
var ValidUnits = []string{UnitMPS, UnitMPH, UnitKMPH, UnitKPH}

// IsValidUnit reports whether unit names a supported display unit.
func IsValidUnit(unit string) bool {
	for _, u := range ValidUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// Convert converts a speed in meters per second to the target display unit.
// Unknown units are an error rather than a silent pass-through.
func Convert(mps float64, unit string) (float64, error) {
	switch unit {
	case UnitMPS:
		return mps, nil
	case UnitMPH:
		return mps * 2.2369362920544, nil
	case UnitKMPH, UnitKPH:
		return mps * 3.6, nil
	default:
		return 0, fmt.Errorf("invalid unit %q, want one of %s", unit, strings.Join(ValidUnits, ", "))
	}
}
