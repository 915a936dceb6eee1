package rates

import "math"

// CaptureRate combines a template's base rate with the capturing
// character's realm level and a habitat match bonus, capped at 0.9
func CaptureRate(baseRate float64, realmLevel int, habitatMatch bool) float64 {
	rate := baseRate + 0.05*float64(realmLevel-1)
	if habitatMatch {
		rate += 0.10
	}
	return math.Min(rate, 0.9)
}

// TrainingStatGain scales with beast level: 1 + floor(level/5)
func TrainingStatGain(level int) int {
	return 1 + level/5
}

// ExpeditionSuccessRate grows with level and combat stats and shrinks
// with duration, clamped to [0.1, 0.95]
func ExpeditionSuccessRate(level, attack, defense, speed, durationHours int) float64 {
	rate := 0.5 +
		float64(level)*0.02 +
		float64(attack+defense+speed)/100*0.1 -
		float64(durationHours)/24*0.1
	return Clamp(rate, 0.1, 0.95)
}

// ExpeditionScale is the multiplier applied to the per-type base reward
// table: longer expeditions and higher-level beasts yield more
func ExpeditionScale(durationHours, level int) float64 {
	return float64(durationHours) / 3 * (float64(level)/10 + 0.5)
}

// ExpeditionReward applies the scale and a random factor in [0.8, 1.2]
// to a base amount
func ExpeditionReward(base int, scale, randomFactor float64) int {
	return int(math.Floor(float64(base) * scale * randomFactor))
}
