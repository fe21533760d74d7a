package cdl

import (
	"fmt"
	"math"
)

// ColorCorrection holds the ASC CDL parameters for a single node.
type ColorCorrection struct {
	Slope      [3]float64
	Offset     [3]float64
	Power      [3]float64
	Saturation float64
}

// Identity returns a correction that leaves the image untouched.
func Identity() ColorCorrection {
	return ColorCorrection{
		Slope:      [3]float64{1, 1, 1},
		Offset:     [3]float64{0, 0, 0},
		Power:      [3]float64{1, 1, 1},
		Saturation: 1,
	}
}

// IsIdentity reports whether the correction is a no-op within a small epsilon.
func (c ColorCorrection) IsIdentity() bool {
	const eps = 1e-6
	id := Identity()
	for i := 0; i < 3; i++ {
		if math.Abs(c.Slope[i]-id.Slope[i]) > eps ||
			math.Abs(c.Offset[i]-id.Offset[i]) > eps ||
			math.Abs(c.Power[i]-id.Power[i]) > eps {
			return false
		}
	}
	return math.Abs(c.Saturation-id.Saturation) <= eps
}

// Validate rejects values the host refuses to accept.
func (c ColorCorrection) Validate() error {
	for i := 0; i < 3; i++ {
		if c.Power[i] <= 0 {
			return fmt.Errorf("cdl: power component %d must be positive, got %g", i, c.Power[i])
		}
	}
	if c.Saturation < 0 {
		return fmt.Errorf("cdl: saturation must be non-negative, got %g", c.Saturation)
	}
	return nil
}
