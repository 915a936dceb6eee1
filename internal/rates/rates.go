// Package rates is the pure formula library: success rates, efficiency
// multipliers, and experience curves computed from entity attributes.
// Nothing in this package has side effects or touches storage.
package rates

import "math"

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CultivationEfficiency is the per-minute progress multiplier:
// 1.0 + 0.01 per intelligence + 0.02 per spirit, scaled by technique
// and location bonuses.
func CultivationEfficiency(intelligence, spirit int, techniqueBonus, locationBonus float64) float64 {
	base := 1.0 + float64(intelligence)*0.01 + float64(spirit)*0.02
	return base * techniqueBonus * locationBonus
}

// CultivationYield converts an elapsed session into experience and
// spirit gains. Spirit accrues at half the experience rate.
func CultivationYield(durationMinutes, efficiency float64) (experience, spiritGain int) {
	experience = int(math.Floor(durationMinutes * efficiency))
	spiritGain = int(math.Floor(durationMinutes * efficiency * 0.5))
	return experience, spiritGain
}

// CultivationProgress is the derived session progress, capped at 100
func CultivationProgress(durationMinutes, efficiency float64) int {
	p := int(math.Floor(durationMinutes * efficiency))
	if p > 100 {
		p = 100
	}
	return p
}
