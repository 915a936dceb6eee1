package rates

import "math"

// AttributeMatchScore averages full/partial credit across the
// recommended attributes: 1.0 when the roster total meets the
// recommendation, 0.5 when it reaches 70% of it.
func AttributeMatchScore(recommended, totals map[string]int) float64 {
	if len(recommended) == 0 {
		return 0
	}
	var score float64
	var count int
	for attr, want := range recommended {
		if want <= 0 {
			continue
		}
		count++
		have := float64(totals[attr])
		switch {
		case have >= float64(want):
			score += 1.0
		case have >= float64(want)*0.7:
			score += 0.5
		}
	}
	if count == 0 {
		return 0
	}
	return score / float64(count)
}

// OptimalTypeFraction is the share of the selected beasts whose type is
// in the challenge's optimal list
func OptimalTypeFraction(optimalTypes, beastTypes []string) float64 {
	if len(beastTypes) == 0 || len(optimalTypes) == 0 {
		return 0
	}
	optimal := make(map[string]struct{}, len(optimalTypes))
	for _, t := range optimalTypes {
		optimal[t] = struct{}{}
	}
	var count int
	for _, t := range beastTypes {
		if _, ok := optimal[t]; ok {
			count++
		}
	}
	return float64(count) / float64(len(beastTypes))
}

// opposingRealmTypes maps a secret realm's element to the beast element
// it suppresses
var opposingRealmTypes = map[string]string{
	"fire":  "water",
	"water": "earth",
	"earth": "wind",
	"wind":  "fire",
	"light": "dark",
	"dark":  "light",
}

// RealmAffinity sums elemental bonuses against the realm's own type:
// +0.05 per matching beast, -0.03 per beast the realm suppresses
func RealmAffinity(realmType string, beastTypes []string) float64 {
	var bonus float64
	for _, t := range beastTypes {
		if t == realmType {
			bonus += 0.05
		} else if opposingRealmTypes[realmType] == t {
			bonus -= 0.03
		}
	}
	return bonus
}

// ChallengeSuccessRate combines the difficulty penalty, attribute match
// score, optimal-type bonus, and elemental affinity, clamped to
// [0.1, 0.95]
func ChallengeSuccessRate(difficulty int, attributeMatch, optimalFraction, realmAffinity float64) float64 {
	rate := 0.5 - float64(difficulty-1)*0.05 + attributeMatch*0.3 + optimalFraction*0.2 + realmAffinity
	return Clamp(rate, 0.1, 0.95)
}

// ChallengeExperience is floor(20 * difficulty * (1 + 0.1 * levelOrder))
func ChallengeExperience(difficulty, levelOrder int) int {
	return int(math.Floor(20 * float64(difficulty) * (1 + float64(levelOrder)*0.1)))
}
