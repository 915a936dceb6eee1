// Package secretrealm implements the secret realm engine: timed entry,
// beast-backed level challenges and one-time aggregate rewards.
package secretrealm

import (
	"context"
	"log/slog"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/catalog"
	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	"github.com/mistwood/cultivation-api/internal/pkg/rng"
	"github.com/mistwood/cultivation-api/internal/rates"
	beastrepo "github.com/mistwood/cultivation-api/internal/repositories/beast"
	"github.com/mistwood/cultivation-api/internal/repositories/character"
	"github.com/mistwood/cultivation-api/internal/repositories/realmprogress"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
)

// Failure still pays a consolation: 5 experience per difficulty point
// with a random bump of up to 20%.
const (
	consolationExpPerDifficulty = 5
	consolationBumpSpread       = 0.2
	successBumpSpread           = 0.3
)

// Service defines the interface for secret realm operations
type Service interface {
	// ListRealms lists all known secret realms
	ListRealms(ctx context.Context, input *ListRealmsInput) (*ListRealmsOutput, error)

	// GetRealm retrieves one secret realm
	GetRealm(ctx context.Context, input *GetRealmInput) (*GetRealmOutput, error)

	// GetProgress reads the caller's progress in a realm
	GetProgress(ctx context.Context, input *GetProgressInput) (*GetProgressOutput, error)

	// EnterRealm pays the energy cost and opens the realm
	EnterRealm(ctx context.Context, input *EnterRealmInput) (*EnterRealmOutput, error)

	// ChallengeLevel resolves one challenge with the selected beasts
	ChallengeLevel(ctx context.Context, input *ChallengeLevelInput) (*ChallengeLevelOutput, error)

	// ClaimRealmReward grants the one-time aggregate reward
	ClaimRealmReward(ctx context.Context, input *ClaimRealmRewardInput) (*ClaimRealmRewardOutput, error)
}

// Config holds the dependencies for the secret realm orchestrator
type Config struct {
	CharacterRepo character.Repository
	BeastRepo     beastrepo.Repository
	ProgressRepo  realmprogress.Repository
	TxManager     *tx.Manager
	Catalog       *catalog.Catalog
	Clock         clock.Clock
	Roller        rng.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.BeastRepo == nil {
		vb.RequiredField("BeastRepo")
	}
	if c.ProgressRepo == nil {
		vb.RequiredField("ProgressRepo")
	}
	if c.TxManager == nil {
		vb.RequiredField("TxManager")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo character.Repository
	beastRepo     beastrepo.Repository
	progressRepo  realmprogress.Repository
	txManager     *tx.Manager
	catalog       *catalog.Catalog
	clock         clock.Clock
	roller        rng.Roller
}

// NewOrchestrator creates a new secret realm orchestrator with the
// provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		beastRepo:     cfg.BeastRepo,
		progressRepo:  cfg.ProgressRepo,
		txManager:     cfg.TxManager,
		catalog:       cfg.Catalog,
		clock:         cfg.Clock,
		roller:        cfg.Roller,
	}, nil
}

func (o *orchestrator) ListRealms(ctx context.Context, _ *ListRealmsInput) (*ListRealmsOutput, error) {
	return &ListRealmsOutput{Realms: o.catalog.SecretRealms()}, nil
}

func (o *orchestrator) GetRealm(ctx context.Context, input *GetRealmInput) (*GetRealmOutput, error) {
	if input == nil || input.RealmID == "" {
		return nil, errors.InvalidArgument("realm ID is required")
	}

	realm := o.catalog.SecretRealm(input.RealmID)
	if realm == nil {
		return nil, errors.NotFoundf("secret realm %s not found", input.RealmID)
	}

	return &GetRealmOutput{Realm: realm}, nil
}

// getOrCreateProgress loads the progress record, lazily building an
// empty one when none exists yet
func (o *orchestrator) getOrCreateProgress(ctx context.Context, userID, realmID string) (*entities.RealmProgress, error) {
	getOutput, err := o.progressRepo.Get(ctx, realmprogress.GetInput{PlayerID: userID, RealmID: realmID})
	if err != nil {
		if errors.IsNotFound(err) {
			return &entities.RealmProgress{
				PlayerID:  userID,
				RealmID:   realmID,
				CreatedAt: o.clock.Now().Unix(),
			}, nil
		}
		return nil, err
	}
	return getOutput.Progress, nil
}

func (o *orchestrator) GetProgress(ctx context.Context, input *GetProgressInput) (*GetProgressOutput, error) {
	if input == nil || input.UserID == "" || input.RealmID == "" {
		return nil, errors.InvalidArgument("user ID and realm ID are required")
	}
	if o.catalog.SecretRealm(input.RealmID) == nil {
		return nil, errors.NotFoundf("secret realm %s not found", input.RealmID)
	}

	progress, err := o.getOrCreateProgress(ctx, input.UserID, input.RealmID)
	if err != nil {
		return nil, err
	}

	return &GetProgressOutput{Progress: progress}, nil
}

func (o *orchestrator) EnterRealm(ctx context.Context, input *EnterRealmInput) (*EnterRealmOutput, error) {
	if input == nil || input.UserID == "" || input.RealmID == "" {
		return nil, errors.InvalidArgument("user ID and realm ID are required")
	}

	realm := o.catalog.SecretRealm(input.RealmID)
	if realm == nil {
		return nil, errors.NotFoundf("secret realm %s not found", input.RealmID)
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	if char.Level < realm.MinPlayerLevel {
		return nil, errors.FailedPreconditionf(
			"level %d is below the realm minimum of %d", char.Level, realm.MinPlayerLevel)
	}
	if char.Energy < realm.EnergyCost {
		return nil, errors.FailedPreconditionf(
			"not enough energy: have %d, need %d", char.Energy, realm.EnergyCost)
	}

	progress, err := o.getOrCreateProgress(ctx, input.UserID, input.RealmID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if progress.LastEnteredAt > 0 {
		cooldown := time.Duration(realm.CooldownHours) * time.Hour
		elapsed := now.Sub(time.Unix(progress.LastEnteredAt, 0))
		if elapsed < cooldown {
			return nil, errors.FailedPreconditionf(
				"realm re-entry available in %s", (cooldown - elapsed).Round(time.Minute))
		}
	}

	char.Energy -= realm.EnergyCost
	progress.LastEnteredAt = now.Unix()
	progress.TotalAttempts++
	if len(realm.Levels) > 0 {
		progress.CurrentLevelID = realm.Levels[0].ID
	}

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
			return err
		}
		return o.progressRepo.AppendSave(ctx, pipe, progress)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "realm entered",
		"user_id", input.UserID,
		"realm_id", realm.ID,
		"energy_left", char.Energy,
	)

	return &EnterRealmOutput{Realm: realm, Progress: progress, RemainingEnergy: char.Energy}, nil
}

// findLevel resolves the level and the challenge within it. An empty
// challengeID picks the level's first challenge.
func findLevel(realm *catalog.SecretRealm, levelID, challengeID string) (*catalog.RealmLevel, *catalog.Challenge, error) {
	var level *catalog.RealmLevel
	for i := range realm.Levels {
		if realm.Levels[i].ID == levelID {
			level = &realm.Levels[i]
			break
		}
	}
	if level == nil {
		return nil, nil, errors.NotFoundf("level %s not found in realm %s", levelID, realm.ID)
	}
	if len(level.Challenges) == 0 {
		return nil, nil, errors.Internalf("level %s has no challenges", levelID)
	}

	if challengeID == "" {
		return level, &level.Challenges[0], nil
	}
	for i := range level.Challenges {
		if level.Challenges[i].ID == challengeID {
			return level, &level.Challenges[i], nil
		}
	}
	return nil, nil, errors.NotFoundf("challenge %s not found in level %s", challengeID, levelID)
}

func (o *orchestrator) ChallengeLevel(ctx context.Context, input *ChallengeLevelInput) (*ChallengeLevelOutput, error) {
	if input == nil || input.UserID == "" || input.RealmID == "" || input.LevelID == "" {
		return nil, errors.InvalidArgument("user ID, realm ID and level ID are required")
	}
	if len(input.BeastIDs) == 0 {
		return nil, errors.InvalidArgument("at least one beast must be selected")
	}

	realm := o.catalog.SecretRealm(input.RealmID)
	if realm == nil {
		return nil, errors.NotFoundf("secret realm %s not found", input.RealmID)
	}
	if len(input.BeastIDs) > realm.MaxBeastCount {
		return nil, errors.InvalidArgumentf("at most %d beasts may be selected", realm.MaxBeastCount)
	}

	level, challenge, err := findLevel(realm, input.LevelID, input.ChallengeID)
	if err != nil {
		return nil, err
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	beasts := make([]*entities.PlayerBeast, 0, len(input.BeastIDs))
	for _, id := range input.BeastIDs {
		getOutput, err := o.beastRepo.Get(ctx, beastrepo.GetInput{ID: id})
		if err != nil {
			return nil, err
		}
		b := getOutput.Beast
		if b.OwnerID != input.UserID {
			return nil, errors.NotFoundf("beast %s not found", id)
		}
		if b.OnExpedition() {
			return nil, errors.FailedPreconditionf("beast %s is on an expedition", id)
		}
		if b.Level < level.RequirementLevel {
			return nil, errors.FailedPreconditionf(
				"beast %s is level %d, the level requires %d", id, b.Level, level.RequirementLevel)
		}
		beasts = append(beasts, b)
	}

	totals := map[string]int{}
	beastTypes := make([]string, 0, len(beasts))
	for _, b := range beasts {
		totals["attack"] += b.Attributes.Attack
		totals["defense"] += b.Attributes.Defense
		totals["speed"] += b.Attributes.Speed
		totals["health"] += b.Attributes.Health
		totals["mana"] += b.Attributes.Mana
		beastTypes = append(beastTypes, b.Type)
	}

	rate := rates.ChallengeSuccessRate(
		challenge.Difficulty,
		rates.AttributeMatchScore(challenge.RecommendedAttributes, totals),
		rates.OptimalTypeFraction(challenge.OptimalBeastTypes, beastTypes),
		rates.RealmAffinity(realm.Type, beastTypes),
	)
	roll := o.roller.Float64()
	success := roll <= rate

	progress, err := o.getOrCreateProgress(ctx, input.UserID, input.RealmID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now().Unix()
	var experience int
	var rewards []GrantedReward
	levelCompleted := false

	if success {
		baseExp := rates.ChallengeExperience(challenge.Difficulty, level.Order)
		experience = int(math.Floor(float64(baseExp) * (1 + o.roller.Float64()*successBumpSpread)))

		for _, entry := range challenge.Rewards {
			if o.roller.Float64() >= entry.Chance {
				continue
			}
			rewards = append(rewards, GrantedReward{
				Type:     entry.Type,
				Name:     entry.Name,
				Quantity: entry.Quantity,
			})
			switch entry.Name {
			case "gold":
				char.Resources.Gold += entry.Quantity
			case "spirit_stones":
				char.Resources.SpiritStones += entry.Quantity
			}
		}

		if !progress.ChallengeCompleted(level.ID, challenge.ID) {
			progress.CompletedChallenges = append(progress.CompletedChallenges, entities.ChallengeCompletion{
				LevelID:     level.ID,
				ChallengeID: challenge.ID,
				CompletedAt: now,
			})
		}

		cleared := true
		for _, c := range level.Challenges {
			if !progress.ChallengeCompleted(level.ID, c.ID) {
				cleared = false
				break
			}
		}
		if cleared && !progress.LevelCompleted(level.ID) {
			progress.CompletedLevels = append(progress.CompletedLevels, entities.LevelCompletion{
				LevelID:     level.ID,
				CompletedAt: now,
			})
			levelCompleted = true
		}
	} else {
		baseExp := consolationExpPerDifficulty * challenge.Difficulty
		experience = int(math.Floor(float64(baseExp) * (1 + o.roller.Float64()*consolationBumpSpread)))
	}

	char.GainExperience(experience)
	beastExp := experience / 2
	for _, b := range beasts {
		b.GainExperience(beastExp)
	}

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
			return err
		}
		for _, b := range beasts {
			if err := o.beastRepo.AppendSave(ctx, pipe, b); err != nil {
				return err
			}
		}
		return o.progressRepo.AppendSave(ctx, pipe, progress)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "realm challenge resolved",
		"user_id", input.UserID,
		"realm_id", realm.ID,
		"level_id", level.ID,
		"challenge_id", challenge.ID,
		"success", success,
		"rate", rate,
	)

	return &ChallengeLevelOutput{
		Success:         success,
		Roll:            roll,
		SuccessRate:     rate,
		Experience:      experience,
		BeastExperience: beastExp,
		Rewards:         rewards,
		LevelCompleted:  levelCompleted,
		Character:       char,
		Progress:        progress,
	}, nil
}

func (o *orchestrator) ClaimRealmReward(ctx context.Context, input *ClaimRealmRewardInput) (*ClaimRealmRewardOutput, error) {
	if input == nil || input.UserID == "" || input.RealmID == "" {
		return nil, errors.InvalidArgument("user ID and realm ID are required")
	}

	realm := o.catalog.SecretRealm(input.RealmID)
	if realm == nil {
		return nil, errors.NotFoundf("secret realm %s not found", input.RealmID)
	}

	getOutput, err := o.progressRepo.Get(ctx, realmprogress.GetInput{
		PlayerID: input.UserID,
		RealmID:  input.RealmID,
	})
	if err != nil {
		return nil, err
	}
	progress := getOutput.Progress

	if progress.RewardClaimed {
		return nil, errors.FailedPrecondition("the realm reward was already claimed")
	}
	for _, level := range realm.Levels {
		if !progress.LevelCompleted(level.ID) {
			return nil, errors.FailedPreconditionf("level %s is not yet completed", level.ID)
		}
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	char.Resources.Gold += realm.TotalReward.Gold
	char.Resources.SpiritStones += realm.TotalReward.SpiritStones
	char.GainExperience(realm.TotalReward.Experience)
	progress.RewardClaimed = true

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
			return err
		}
		return o.progressRepo.AppendSave(ctx, pipe, progress)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "realm reward claimed",
		"user_id", input.UserID,
		"realm_id", realm.ID,
	)

	return &ClaimRealmRewardOutput{
		Reward:    realm.TotalReward,
		Character: char,
		Progress:  progress,
	}, nil
}
