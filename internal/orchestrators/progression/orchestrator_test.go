package progression_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mistwood/cultivation-api/internal/catalog"
	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/orchestrators/progression"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	"github.com/mistwood/cultivation-api/internal/pkg/rng"
	redisclient "github.com/mistwood/cultivation-api/internal/redis"
	"github.com/mistwood/cultivation-api/internal/repositories/character"
	"github.com/mistwood/cultivation-api/internal/repositories/cultivation"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
	"github.com/mistwood/cultivation-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	client   redisclient.Client
	cleanup  func()
	clock    *clock.Fixed
	roller   *rng.Scripted
	charRepo character.Repository
	cultRepo cultivation.Repository
	service  progression.Service
	ctx      context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.client, s.cleanup = testutils.CreateTestRedisClient(s.T())
	s.clock = clock.NewFixed(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.roller = &rng.Scripted{Floats: []float64{0.5}}

	var err error
	s.charRepo, err = character.NewRedis(&character.RedisConfig{Client: s.client, Clock: s.clock})
	s.Require().NoError(err)
	s.cultRepo, err = cultivation.NewRedis(&cultivation.RedisConfig{Client: s.client, Clock: s.clock})
	s.Require().NoError(err)

	manager, err := tx.New(&tx.Config{Client: s.client})
	s.Require().NoError(err)

	s.service, err = progression.NewOrchestrator(&progression.Config{
		CharacterRepo:   s.charRepo,
		CultivationRepo: s.cultRepo,
		TxManager:       manager,
		Catalog:         catalog.Default(),
		Clock:           s.clock,
		Roller:          s.roller,
	})
	s.Require().NoError(err)

	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *OrchestratorTestSuite) createCharacter(char *entities.Character) {
	_, err := s.charRepo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) baseCharacter() *entities.Character {
	return &entities.Character{
		UserID:  "user_001",
		Name:    "Li Wei",
		Level:   1,
		RealmID: "realm_001",
		Attributes: entities.Attributes{
			Intelligence: 10,
			Spirit:       10,
		},
	}
}

func (s *OrchestratorTestSuite) TestStartCultivation() {
	s.createCharacter(s.baseCharacter())

	out, err := s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{
		UserID: "user_001",
	})
	s.Require().NoError(err)

	// 1.0 + 10*0.01 + 10*0.02 with no technique/location bonus
	s.Assert().InDelta(1.30, out.Session.Efficiency, 0.0001)
	s.Assert().Equal(entities.CultivationCultivating, out.Session.Status)
	s.Assert().Equal(s.clock.Now().Unix(), out.Session.StartTime)
}

func (s *OrchestratorTestSuite) TestStartCultivationAppliesBonuses() {
	s.createCharacter(s.baseCharacter())

	out, err := s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{
		UserID:      "user_001",
		TechniqueID: "technique_azure",
		Location:    "spirit_cave",
	})
	s.Require().NoError(err)
	s.Assert().InDelta(1.30*1.2*1.3, out.Session.Efficiency, 0.0001)
}

func (s *OrchestratorTestSuite) TestStartCultivationWhileActive() {
	s.createCharacter(s.baseCharacter())

	_, err := s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{UserID: "user_001"})
	s.Require().NoError(err)

	_, err = s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{UserID: "user_001"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestStartCultivationMissingCharacter() {
	_, err := s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{UserID: "ghost"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestEndCultivation() {
	s.createCharacter(s.baseCharacter())

	_, err := s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{UserID: "user_001"})
	s.Require().NoError(err)

	s.clock.Advance(10 * time.Minute)

	out, err := s.service.EndCultivation(s.ctx, &progression.EndCultivationInput{UserID: "user_001"})
	s.Require().NoError(err)

	// 10 minutes at efficiency 1.30
	s.Assert().Equal(13, out.GainedExperience)
	s.Assert().Equal(6, out.SpiritGain)
	s.Assert().Equal(0, out.LevelsGained)
	s.Assert().Equal(13, out.Character.Experience)
	s.Assert().Equal(16, out.Character.Attributes.Spirit)
	s.Assert().Equal(13, out.Character.RealmProgress)
	s.Assert().Equal(entities.CultivationIdle, out.Session.Status)

	// Persisted atomically
	charOut, err := s.charRepo.Get(s.ctx, character.GetInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal(13, charOut.Character.Experience)
}

func (s *OrchestratorTestSuite) TestEndCultivationRollsOverLevels() {
	s.createCharacter(s.baseCharacter())

	_, err := s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{UserID: "user_001"})
	s.Require().NoError(err)

	// 200 minutes at 1.30 = 260 experience = 2 levels + 60
	s.clock.Advance(200 * time.Minute)

	out, err := s.service.EndCultivation(s.ctx, &progression.EndCultivationInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal(2, out.LevelsGained)
	s.Assert().Equal(3, out.Character.Level)
	s.Assert().Equal(60, out.Character.Experience)
}

func (s *OrchestratorTestSuite) TestEndCultivationWithoutActiveSession() {
	s.createCharacter(s.baseCharacter())

	_, err := s.service.EndCultivation(s.ctx, &progression.EndCultivationInput{UserID: "user_001"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestGetStatusDerivesProgress() {
	s.createCharacter(s.baseCharacter())

	_, err := s.service.StartCultivation(s.ctx, &progression.StartCultivationInput{UserID: "user_001"})
	s.Require().NoError(err)

	s.clock.Advance(10 * time.Minute)

	out, err := s.service.GetStatus(s.ctx, &progression.GetStatusInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal(13, out.DerivedProgress)

	// Derived only: nothing was persisted
	sessOut, err := s.cultRepo.Get(s.ctx, cultivation.GetInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal(0, sessOut.Session.CurrentProgress)
}

func (s *OrchestratorTestSuite) readyCharacter() *entities.Character {
	return &entities.Character{
		UserID:        "user_001",
		Name:          "Li Wei",
		Level:         12,
		RealmID:       "realm_001",
		RealmProgress: 100,
		Attributes: entities.Attributes{
			Intelligence: 60,
			Spirit:       110,
			Strength:     20,
			Agility:      20,
		},
	}
}

func (s *OrchestratorTestSuite) TestAttemptBreakthrough() {
	s.createCharacter(s.readyCharacter())

	out, err := s.service.AttemptBreakthrough(s.ctx, &progression.AttemptBreakthroughInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal("realm_002", out.TargetRealmID)
	s.Assert().Equal(1, out.Attempts)
	s.Assert().Equal(entities.CultivationBreakthrough, out.Session.Status)
}

func (s *OrchestratorTestSuite) TestAttemptBreakthroughRequiresProgress() {
	char := s.readyCharacter()
	char.RealmProgress = 60
	s.createCharacter(char)

	_, err := s.service.AttemptBreakthrough(s.ctx, &progression.AttemptBreakthroughInput{UserID: "user_001"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestAttemptBreakthroughRequiresAttributes() {
	char := s.readyCharacter()
	char.Attributes.Spirit = 50
	s.createCharacter(char)

	_, err := s.service.AttemptBreakthrough(s.ctx, &progression.AttemptBreakthroughInput{UserID: "user_001"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestCompleteBreakthroughSuccess() {
	s.createCharacter(s.readyCharacter())
	s.roller.Floats = []float64{0.01}

	_, err := s.service.AttemptBreakthrough(s.ctx, &progression.AttemptBreakthroughInput{UserID: "user_001"})
	s.Require().NoError(err)

	out, err := s.service.CompleteBreakthrough(s.ctx, &progression.CompleteBreakthroughInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().True(out.Success)
	s.Assert().Equal("realm_002", out.RealmID)
	s.Assert().Equal(0, out.Character.RealmProgress)
	s.Assert().Equal(0, out.Character.BreakthroughAttempts)

	// Attributes scaled by realm_002 multipliers: spirit x1.2, others x1.1
	s.Assert().Equal(132, out.Character.Attributes.Spirit)
	s.Assert().Equal(22, out.Character.Attributes.Strength)
	s.Assert().Equal(22, out.Character.Attributes.Agility)
	s.Assert().Equal(66, out.Character.Attributes.Intelligence)

	// Session back to idle
	sessOut, err := s.cultRepo.Get(s.ctx, cultivation.GetInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal(entities.CultivationIdle, sessOut.Session.Status)
}

func (s *OrchestratorTestSuite) TestCompleteBreakthroughFailure() {
	s.createCharacter(s.readyCharacter())
	s.roller.Floats = []float64{0.99}

	_, err := s.service.AttemptBreakthrough(s.ctx, &progression.AttemptBreakthroughInput{UserID: "user_001"})
	s.Require().NoError(err)

	out, err := s.service.CompleteBreakthrough(s.ctx, &progression.CompleteBreakthroughInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().False(out.Success)
	s.Assert().Equal("realm_001", out.RealmID)

	// Progress loses 30%, attempts are retained for the retry bonus
	s.Assert().Equal(70, out.Character.RealmProgress)
	s.Assert().Equal(1, out.Character.BreakthroughAttempts)

	sessOut, err := s.cultRepo.Get(s.ctx, cultivation.GetInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal(entities.CultivationIdle, sessOut.Session.Status)
}

func (s *OrchestratorTestSuite) TestCompleteBreakthroughWithoutPending() {
	s.createCharacter(s.readyCharacter())

	_, err := s.service.CompleteBreakthrough(s.ctx, &progression.CompleteBreakthroughInput{UserID: "user_001"})
	s.Assert().True(errors.IsFailedPrecondition(err))
}
