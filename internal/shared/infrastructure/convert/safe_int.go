// Package convert provides checked integer conversions for driver settings.
package convert

import (
	"fmt"
	"math"
)

// ToInt32 converts v to int32, failing when it does not fit.
func ToInt32(v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("integer overflow: %d does not fit in int32", v)
	}
	return int32(v), nil
}

// ClampInt32 converts v to int32, saturating at the int32 bounds.
func ClampInt32(v int) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
