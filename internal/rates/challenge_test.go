package rates_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mistwood/cultivation-api/internal/rates"
)

type ChallengeTestSuite struct {
	suite.Suite
}

func TestChallengeSuite(t *testing.T) {
	suite.Run(t, new(ChallengeTestSuite))
}

func (s *ChallengeTestSuite) TestAttributeMatchScore() {
	recommended := map[string]int{"attack": 100, "defense": 50}

	// Full credit on both
	s.Assert().InDelta(1.0, rates.AttributeMatchScore(recommended, map[string]int{
		"attack": 120, "defense": 50,
	}), 0.0001)

	// One full, one partial (>= 70%)
	s.Assert().InDelta(0.75, rates.AttributeMatchScore(recommended, map[string]int{
		"attack": 100, "defense": 40,
	}), 0.0001)

	// Below 70% earns nothing
	s.Assert().InDelta(0.0, rates.AttributeMatchScore(recommended, map[string]int{
		"attack": 10, "defense": 10,
	}), 0.0001)

	// Empty recommendation scores zero
	s.Assert().InDelta(0.0, rates.AttributeMatchScore(nil, map[string]int{"attack": 100}), 0.0001)
}

func (s *ChallengeTestSuite) TestOptimalTypeFraction() {
	optimal := []string{"water", "earth"}

	s.Assert().InDelta(0.5, rates.OptimalTypeFraction(optimal, []string{"water", "fire"}), 0.0001)
	s.Assert().InDelta(1.0, rates.OptimalTypeFraction(optimal, []string{"water", "earth"}), 0.0001)
	s.Assert().InDelta(0.0, rates.OptimalTypeFraction(optimal, []string{"fire"}), 0.0001)
	s.Assert().InDelta(0.0, rates.OptimalTypeFraction(nil, []string{"fire"}), 0.0001)
}

func (s *ChallengeTestSuite) TestRealmAffinity() {
	// Matching beasts add, suppressed beasts subtract
	s.Assert().InDelta(0.05, rates.RealmAffinity("fire", []string{"fire"}), 0.0001)
	s.Assert().InDelta(-0.03, rates.RealmAffinity("fire", []string{"water"}), 0.0001)
	s.Assert().InDelta(0.02, rates.RealmAffinity("fire", []string{"fire", "water"}), 0.0001)
	s.Assert().InDelta(0.0, rates.RealmAffinity("fire", []string{"wood"}), 0.0001)
}

func (s *ChallengeTestSuite) TestChallengeSuccessRate() {
	// difficulty 2, full attribute match, all optimal types, no affinity:
	// 0.5 - 0.05 + 0.3 + 0.2 = 0.95
	s.Assert().InDelta(0.95, rates.ChallengeSuccessRate(2, 1.0, 1.0, 0), 0.0001)

	// floors at 0.1 for very hard challenges with nothing going for them
	s.Assert().InDelta(0.1, rates.ChallengeSuccessRate(10, 0, 0, -0.09), 0.0001)
}

func (s *ChallengeTestSuite) TestChallengeExperience() {
	// floor(20 * difficulty * (1 + 0.1*order))
	s.Assert().Equal(44, rates.ChallengeExperience(2, 1))
	s.Assert().Equal(96, rates.ChallengeExperience(4, 2))
}
