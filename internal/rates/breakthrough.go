package rates

import "math"

// BreakthroughParams feed the realm-aware breakthrough rate
type BreakthroughParams struct {
	CurrentRealmLevel int
	TargetRealmLevel  int

	PlayerLevel          int
	RequiredLevel        int
	Spirit               int
	RequiredSpirit       int
	Intelligence         int
	RequiredIntelligence int

	// DurationMinutes is the time spent in the breakthrough state
	DurationMinutes float64
	// PriorFailedAttempts counts earlier failures at this realm
	PriorFailedAttempts int
}

// RealmAwareBreakthroughRate computes the canonical breakthrough
// success probability. The base rate shrinks with the realm-level gap
// and grows with level and attribute surplus over the target realm's
// requirements; long sessions and repeated failures add capped bonuses.
// The result is clamped to [0.05, 0.95].
func RealmAwareBreakthroughRate(p BreakthroughParams) float64 {
	rate := 0.5 - 0.1*float64(p.TargetRealmLevel-p.CurrentRealmLevel-1)
	rate += 0.01 * float64(p.PlayerLevel-p.RequiredLevel)
	rate += 0.005 * float64(p.Spirit-p.RequiredSpirit)
	rate += 0.005 * float64(p.Intelligence-p.RequiredIntelligence)
	rate += breakthroughTimeBonus(p.DurationMinutes)
	rate += breakthroughRetryBonus(p.PriorFailedAttempts)
	return Clamp(rate, 0.05, 0.95)
}

// breakthroughTimeBonus grants +0.02 per 10 minutes beyond a 60-minute
// floor, capped at +0.30
func breakthroughTimeBonus(durationMinutes float64) float64 {
	extra := durationMinutes - 60
	if extra <= 0 {
		return 0
	}
	return math.Min(0.30, extra/10*0.02)
}

// breakthroughRetryBonus grants +0.05 per prior failure, capped at +0.20
func breakthroughRetryBonus(priorFailures int) float64 {
	if priorFailures <= 0 {
		return 0
	}
	return math.Min(0.20, float64(priorFailures)*0.05)
}

// SimpleBreakthroughRate is the alternate (level-based) breakthrough
// formula: 0.3 - 0.01 per level + 0.005 per intelligence + 0.01 per
// spirit, with +0.05 per 10 minutes past a 30-minute floor capped at
// +0.30, clamped to [0.1, 0.9]. Kept for reference; the realm-aware
// variant is the one wired into the progression engine.
func SimpleBreakthroughRate(level, intelligence, spirit int, durationMinutes float64) float64 {
	rate := 0.3 - float64(level)*0.01 + float64(intelligence)*0.005 + float64(spirit)*0.01
	extra := durationMinutes - 30
	if extra > 0 {
		rate += math.Min(0.30, extra/10*0.05)
	}
	return Clamp(rate, 0.1, 0.9)
}
