package secretrealm_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mistwood/cultivation-api/internal/catalog"
	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/orchestrators/secretrealm"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	"github.com/mistwood/cultivation-api/internal/pkg/rng"
	redisclient "github.com/mistwood/cultivation-api/internal/redis"
	beastrepo "github.com/mistwood/cultivation-api/internal/repositories/beast"
	"github.com/mistwood/cultivation-api/internal/repositories/character"
	"github.com/mistwood/cultivation-api/internal/repositories/realmprogress"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
	"github.com/mistwood/cultivation-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	client       redisclient.Client
	cleanup      func()
	clock        *clock.Fixed
	roller       *rng.Scripted
	manager      *tx.Manager
	charRepo     character.Repository
	beastRepo    beastrepo.Repository
	progressRepo realmprogress.Repository
	service      secretrealm.Service
	ctx          context.Context
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
	s.beastRepo, err = beastrepo.NewRedis(&beastrepo.RedisConfig{Client: s.client, Clock: s.clock})
	s.Require().NoError(err)
	s.progressRepo, err = realmprogress.NewRedis(&realmprogress.RedisConfig{Client: s.client, Clock: s.clock})
	s.Require().NoError(err)

	s.manager, err = tx.New(&tx.Config{Client: s.client})
	s.Require().NoError(err)

	s.service, err = secretrealm.NewOrchestrator(&secretrealm.Config{
		CharacterRepo: s.charRepo,
		BeastRepo:     s.beastRepo,
		ProgressRepo:  s.progressRepo,
		TxManager:     s.manager,
		Catalog:       catalog.Default(),
		Clock:         s.clock,
		Roller:        s.roller,
	})
	s.Require().NoError(err)

	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *OrchestratorTestSuite) createCharacter(level, energy int) {
	_, err := s.charRepo.Create(s.ctx, character.CreateInput{Character: &entities.Character{
		UserID:  "user_001",
		Name:    "Li Wei",
		Level:   level,
		Energy:  energy,
		RealmID: "realm_001",
	}})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) storeBeast(id string, level int, beastType string, attrs entities.BeastAttributes) {
	err := s.manager.WithinTx(s.ctx, func(pipe goredis.Pipeliner) error {
		return s.beastRepo.AppendCreate(s.ctx, pipe, &entities.PlayerBeast{
			ID:         id,
			OwnerID:    "user_001",
			TemplateID: "tmpl_" + id,
			Nickname:   "Mist",
			Type:       beastType,
			Rarity:     catalog.RarityCommon,
			Level:      level,
			Attributes: attrs,
			Mood:       entities.MoodNormal,
		})
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestEnterRealm() {
	s.createCharacter(6, 30)

	out, err := s.service.EnterRealm(s.ctx, &secretrealm.EnterRealmInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Require().NoError(err)
	s.Assert().Equal(20, out.RemainingEnergy)
	s.Assert().Equal(1, out.Progress.TotalAttempts)
	s.Assert().Equal("srealm_001_l1", out.Progress.CurrentLevelID)
	s.Assert().Equal(s.clock.Now().Unix(), out.Progress.LastEnteredAt)

	// Both writes landed
	charOut, err := s.charRepo.Get(s.ctx, character.GetInput{UserID: "user_001"})
	s.Require().NoError(err)
	s.Assert().Equal(20, charOut.Character.Energy)
}

func (s *OrchestratorTestSuite) TestEnterRealmLevelGate() {
	s.createCharacter(3, 30)

	_, err := s.service.EnterRealm(s.ctx, &secretrealm.EnterRealmInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestEnterRealmEnergyGate() {
	s.createCharacter(6, 5)

	_, err := s.service.EnterRealm(s.ctx, &secretrealm.EnterRealmInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestEnterRealmCooldown() {
	s.createCharacter(6, 100)

	_, err := s.service.EnterRealm(s.ctx, &secretrealm.EnterRealmInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Require().NoError(err)

	s.clock.Advance(6 * time.Hour)
	_, err = s.service.EnterRealm(s.ctx, &secretrealm.EnterRealmInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Assert().True(errors.IsFailedPrecondition(err))

	s.clock.Advance(6*time.Hour + time.Minute)
	_, err = s.service.EnterRealm(s.ctx, &secretrealm.EnterRealmInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Assert().NoError(err)
}

func (s *OrchestratorTestSuite) TestChallengeLevelSuccess() {
	s.createCharacter(6, 30)
	s.storeBeast("b1", 6, catalog.TypeWater, entities.BeastAttributes{
		Attack: 35, Defense: 10, Speed: 30, Health: 100, Mana: 50, Loyalty: 70,
	})

	// success roll, experience bump, then one chance roll per reward entry
	s.roller.Floats = []float64{0.5, 0.0, 0.5, 0.5, 0.5}

	out, err := s.service.ChallengeLevel(s.ctx, &secretrealm.ChallengeLevelInput{
		UserID:   "user_001",
		RealmID:  "srealm_001",
		LevelID:  "srealm_001_l1",
		BeastIDs: []string{"b1"},
	})
	s.Require().NoError(err)

	// 0.5 - 0.05 + 0.3 (full match) + 0.2 (optimal) - 0.03 (fire suppresses water)
	s.Assert().True(out.Success)
	s.Assert().InDelta(0.92, out.SuccessRate, 0.0001)

	// floor(20*2*1.1) with no bump
	s.Assert().Equal(44, out.Experience)
	s.Assert().Equal(22, out.BeastExperience)

	// gold always drops, spirit stones at 0.6, the 0.2 special misses
	s.Require().Len(out.Rewards, 2)
	s.Assert().Equal("gold", out.Rewards[0].Name)
	s.Assert().Equal(80, out.Character.Resources.Gold)
	s.Assert().Equal(20, out.Character.Resources.SpiritStones)

	// Single-challenge level completes in one clear
	s.Assert().True(out.LevelCompleted)
	s.Assert().True(out.Progress.LevelCompleted("srealm_001_l1"))

	beastOut, err := s.beastRepo.Get(s.ctx, beastrepo.GetInput{ID: "b1"})
	s.Require().NoError(err)
	s.Assert().Equal(22, beastOut.Beast.Experience)
}

func (s *OrchestratorTestSuite) TestChallengeLevelFailure() {
	s.createCharacter(6, 30)
	s.storeBeast("b1", 6, catalog.TypeWater, entities.BeastAttributes{
		Attack: 35, Defense: 10, Speed: 30, Health: 100, Mana: 50, Loyalty: 70,
	})

	s.roller.Floats = []float64{0.99, 0.0}

	out, err := s.service.ChallengeLevel(s.ctx, &secretrealm.ChallengeLevelInput{
		UserID:   "user_001",
		RealmID:  "srealm_001",
		LevelID:  "srealm_001_l1",
		BeastIDs: []string{"b1"},
	})
	s.Require().NoError(err)
	s.Assert().False(out.Success)
	s.Assert().Empty(out.Rewards)

	// Consolation: 5 per difficulty point, no bump
	s.Assert().Equal(10, out.Experience)
	s.Assert().Equal(5, out.BeastExperience)
	s.Assert().False(out.Progress.LevelCompleted("srealm_001_l1"))
	s.Assert().Equal(0, out.Character.Resources.Gold)
}

func (s *OrchestratorTestSuite) TestChallengeLevelBeastGates() {
	s.createCharacter(6, 30)
	s.storeBeast("weak", 2, catalog.TypeWater, entities.BeastAttributes{Attack: 10, Loyalty: 70})

	_, err := s.service.ChallengeLevel(s.ctx, &secretrealm.ChallengeLevelInput{
		UserID:   "user_001",
		RealmID:  "srealm_001",
		LevelID:  "srealm_001_l1",
		BeastIDs: []string{"weak"},
	})
	s.Assert().True(errors.IsFailedPrecondition(err))

	_, err = s.service.ChallengeLevel(s.ctx, &secretrealm.ChallengeLevelInput{
		UserID:   "user_001",
		RealmID:  "srealm_001",
		LevelID:  "srealm_001_l1",
		BeastIDs: []string{"b1", "b2", "b3", "b4"},
	})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestChallengeLevelBeastAvailability() {
	s.createCharacter(6, 30)

	// A deployed beast may still fight; only an ongoing expedition blocks it
	err := s.manager.WithinTx(s.ctx, func(pipe goredis.Pipeliner) error {
		if err := s.beastRepo.AppendCreate(s.ctx, pipe, &entities.PlayerBeast{
			ID:             "guard",
			OwnerID:        "user_001",
			Type:           catalog.TypeWater,
			Level:          6,
			Attributes:     entities.BeastAttributes{Attack: 35, Speed: 30, Loyalty: 70},
			IsDeployed:     true,
			DeployPosition: 1,
		}); err != nil {
			return err
		}
		return s.beastRepo.AppendCreate(s.ctx, pipe, &entities.PlayerBeast{
			ID:      "roamer",
			OwnerID: "user_001",
			Type:    catalog.TypeWater,
			Level:   6,
			Expedition: &entities.Expedition{
				Type:   "combat",
				Status: entities.ExpeditionOngoing,
			},
		})
	})
	s.Require().NoError(err)

	out, err := s.service.ChallengeLevel(s.ctx, &secretrealm.ChallengeLevelInput{
		UserID:   "user_001",
		RealmID:  "srealm_001",
		LevelID:  "srealm_001_l1",
		BeastIDs: []string{"guard"},
	})
	s.Require().NoError(err)
	s.Assert().True(out.Success)

	_, err = s.service.ChallengeLevel(s.ctx, &secretrealm.ChallengeLevelInput{
		UserID:   "user_001",
		RealmID:  "srealm_001",
		LevelID:  "srealm_001_l1",
		BeastIDs: []string{"roamer"},
	})
	s.Require().True(errors.IsFailedPrecondition(err))
	s.Assert().Contains(err.Error(), "expedition")
}

func (s *OrchestratorTestSuite) TestChallengeLevelForeignBeast() {
	s.createCharacter(6, 30)
	err := s.manager.WithinTx(s.ctx, func(pipe goredis.Pipeliner) error {
		return s.beastRepo.AppendCreate(s.ctx, pipe, &entities.PlayerBeast{
			ID:      "stolen",
			OwnerID: "someone_else",
			Level:   10,
			Type:    catalog.TypeWater,
		})
	})
	s.Require().NoError(err)

	_, err = s.service.ChallengeLevel(s.ctx, &secretrealm.ChallengeLevelInput{
		UserID:   "user_001",
		RealmID:  "srealm_001",
		LevelID:  "srealm_001_l1",
		BeastIDs: []string{"stolen"},
	})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) completeAllLevels() {
	now := s.clock.Now().Unix()
	_, err := s.progressRepo.Save(s.ctx, realmprogress.SaveInput{Progress: &entities.RealmProgress{
		PlayerID: "user_001",
		RealmID:  "srealm_001",
		CompletedLevels: []entities.LevelCompletion{
			{LevelID: "srealm_001_l1", CompletedAt: now},
			{LevelID: "srealm_001_l2", CompletedAt: now},
		},
	}})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestClaimRealmReward() {
	s.createCharacter(12, 30)
	s.completeAllLevels()

	out, err := s.service.ClaimRealmReward(s.ctx, &secretrealm.ClaimRealmRewardInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Require().NoError(err)
	s.Assert().Equal(500, out.Character.Resources.Gold)
	s.Assert().Equal(150, out.Character.Resources.SpiritStones)
	s.Assert().True(out.Progress.RewardClaimed)
	// 300 experience rolls over into three level-ups
	s.Assert().Equal(15, out.Character.Level)
	s.Assert().Equal(0, out.Character.Experience)

	_, err = s.service.ClaimRealmReward(s.ctx, &secretrealm.ClaimRealmRewardInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestClaimRealmRewardIncomplete() {
	s.createCharacter(12, 30)
	now := s.clock.Now().Unix()
	_, err := s.progressRepo.Save(s.ctx, realmprogress.SaveInput{Progress: &entities.RealmProgress{
		PlayerID: "user_001",
		RealmID:  "srealm_001",
		CompletedLevels: []entities.LevelCompletion{
			{LevelID: "srealm_001_l1", CompletedAt: now},
		},
	}})
	s.Require().NoError(err)

	_, err = s.service.ClaimRealmReward(s.ctx, &secretrealm.ClaimRealmRewardInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Assert().True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestGetProgressLazy() {
	out, err := s.service.GetProgress(s.ctx, &secretrealm.GetProgressInput{
		UserID:  "user_001",
		RealmID: "srealm_001",
	})
	s.Require().NoError(err)
	s.Assert().Equal(0, out.Progress.TotalAttempts)
	s.Assert().False(out.Progress.RewardClaimed)
}

func (s *OrchestratorTestSuite) TestGetRealm() {
	out, err := s.service.GetRealm(s.ctx, &secretrealm.GetRealmInput{RealmID: "srealm_002"})
	s.Require().NoError(err)
	s.Assert().Equal("Abyssal Sea Palace", out.Realm.Name)

	_, err = s.service.GetRealm(s.ctx, &secretrealm.GetRealmInput{RealmID: "srealm_404"})
	s.Assert().True(errors.IsNotFound(err))

	listOut, err := s.service.ListRealms(s.ctx, &secretrealm.ListRealmsInput{})
	s.Require().NoError(err)
	s.Assert().Len(listOut.Realms, 2)
}
