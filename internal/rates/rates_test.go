package rates_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mistwood/cultivation-api/internal/rates"
)

type RatesTestSuite struct {
	suite.Suite
}

func TestRatesSuite(t *testing.T) {
	suite.Run(t, new(RatesTestSuite))
}

func (s *RatesTestSuite) TestCultivationEfficiency() {
	// 1.0 + 10*0.01 + 10*0.02 = 1.30 with no technique/location bonus
	s.Assert().InDelta(1.30, rates.CultivationEfficiency(10, 10, 1.0, 1.0), 0.0001)

	// technique and location bonuses multiply
	s.Assert().InDelta(1.30*1.2*1.3, rates.CultivationEfficiency(10, 10, 1.2, 1.3), 0.0001)
}

func (s *RatesTestSuite) TestCultivationYield() {
	exp, spirit := rates.CultivationYield(10, 1.30)
	s.Assert().Equal(13, exp)
	s.Assert().Equal(6, spirit)
}

func (s *RatesTestSuite) TestCultivationProgressCap() {
	s.Assert().Equal(100, rates.CultivationProgress(500, 1.0))
	s.Assert().Equal(13, rates.CultivationProgress(10, 1.30))
}

func (s *RatesTestSuite) TestCaptureRate() {
	// base 0.3, realm 1, habitat match: 0.3 + 0 + 0.10 = 0.40
	s.Assert().InDelta(0.40, rates.CaptureRate(0.3, 1, true), 0.0001)

	// no habitat match
	s.Assert().InDelta(0.30, rates.CaptureRate(0.3, 1, false), 0.0001)

	// higher realm adds 0.05 per level above the first
	s.Assert().InDelta(0.45, rates.CaptureRate(0.3, 4, false), 0.0001)

	// capped at 0.9
	s.Assert().InDelta(0.9, rates.CaptureRate(0.8, 10, true), 0.0001)
}

func (s *RatesTestSuite) TestTrainingStatGain() {
	s.Assert().Equal(1, rates.TrainingStatGain(4))
	s.Assert().Equal(2, rates.TrainingStatGain(5))
	s.Assert().Equal(3, rates.TrainingStatGain(10))
}

func (s *RatesTestSuite) TestExpeditionSuccessRate() {
	// level 5, 10+10+10 stats, 24h: 0.5 + 0.1 + 0.03 - 0.1 = 0.53
	s.Assert().InDelta(0.53, rates.ExpeditionSuccessRate(5, 10, 10, 10, 24), 0.0001)

	// floors at 0.1, caps at 0.95
	s.Assert().InDelta(0.95, rates.ExpeditionSuccessRate(100, 500, 500, 500, 1), 0.0001)
}

func (s *RatesTestSuite) TestExpeditionScale() {
	// 3h at level 10: 1.0 * 1.5
	s.Assert().InDelta(1.5, rates.ExpeditionScale(3, 10), 0.0001)
}

func (s *RatesTestSuite) TestExpeditionReward() {
	// base 100, scale 1.5, factor 1.0
	s.Assert().Equal(150, rates.ExpeditionReward(100, 1.5, 1.0))

	// low roll shaves the reward
	s.Assert().Equal(120, rates.ExpeditionReward(100, 1.5, 0.8))
}

func (s *RatesTestSuite) TestClamp() {
	s.Assert().Equal(0.1, rates.Clamp(0.05, 0.1, 0.9))
	s.Assert().Equal(0.9, rates.Clamp(1.5, 0.1, 0.9))
	s.Assert().Equal(0.5, rates.Clamp(0.5, 0.1, 0.9))
}
