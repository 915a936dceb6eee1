// Package beast implements the beast lifecycle engine: capture,
// husbandry, deployment, expeditions and pairing.
package beast

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/catalog"
	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	"github.com/mistwood/cultivation-api/internal/pkg/idgen"
	"github.com/mistwood/cultivation-api/internal/pkg/rng"
	"github.com/mistwood/cultivation-api/internal/rates"
	beastrepo "github.com/mistwood/cultivation-api/internal/repositories/beast"
	"github.com/mistwood/cultivation-api/internal/repositories/character"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
)

// Board positions run 1 through 6.
const (
	minDeployPosition = 1
	maxDeployPosition = 6

	maxNicknameLength = 20

	trainingCooldown = time.Hour

	deployLoyaltyFloor     = 30
	expeditionLoyaltyFloor = 60
	evolveLoyaltyFloor     = 80

	pairingMinLevel     = 10
	combinedSkillChance = 0.10
	combinedSkillRarity = catalog.RarityPrecious
)

var expeditionDurations = map[int]bool{1: true, 3: true, 6: true, 12: true, 24: true}

var trainingTypes = []string{"attack", "defense", "speed", "health", "mana", "loyalty"}

// Service defines the interface for beast lifecycle operations
type Service interface {
	// CaptureBeast attempts to capture a wild beast from a template
	CaptureBeast(ctx context.Context, input *CaptureBeastInput) (*CaptureBeastOutput, error)

	// TrainBeast runs one training session against a chosen attribute
	TrainBeast(ctx context.Context, input *TrainBeastInput) (*TrainBeastOutput, error)

	// FeedBeast feeds the beast, raising loyalty and experience
	FeedBeast(ctx context.Context, input *FeedBeastInput) (*FeedBeastOutput, error)

	// EvolveBeast advances the beast to its next evolution stage
	EvolveBeast(ctx context.Context, input *EvolveBeastInput) (*EvolveBeastOutput, error)

	// DeployBeast places the beast on a board position
	DeployBeast(ctx context.Context, input *DeployBeastInput) (*DeployBeastOutput, error)

	// UndeployBeast removes the beast from the board
	UndeployBeast(ctx context.Context, input *UndeployBeastInput) (*UndeployBeastOutput, error)

	// SendExpedition dispatches the beast on a timed expedition
	SendExpedition(ctx context.Context, input *SendExpeditionInput) (*SendExpeditionOutput, error)

	// CompleteExpedition resolves an elapsed expedition
	CompleteExpedition(ctx context.Context, input *CompleteExpeditionInput) (*CompleteExpeditionOutput, error)

	// PairBeasts pairs two compatible beasts for stat boosts
	PairBeasts(ctx context.Context, input *PairBeastsInput) (*PairBeastsOutput, error)

	// RenameBeast changes the beast's nickname
	RenameBeast(ctx context.Context, input *RenameBeastInput) (*RenameBeastOutput, error)

	// ReleaseBeast permanently releases the beast
	ReleaseBeast(ctx context.Context, input *ReleaseBeastInput) (*ReleaseBeastOutput, error)

	// ListBeasts lists all beasts owned by the user
	ListBeasts(ctx context.Context, input *ListBeastsInput) (*ListBeastsOutput, error)

	// GetBeast retrieves one owned beast
	GetBeast(ctx context.Context, input *GetBeastInput) (*GetBeastOutput, error)

	// ListDeployed returns the deployment board ordered by position
	ListDeployed(ctx context.Context, input *ListDeployedInput) (*ListDeployedOutput, error)
}

// Config holds the dependencies for the beast orchestrator
type Config struct {
	BeastRepo     beastrepo.Repository
	CharacterRepo character.Repository
	TxManager     *tx.Manager
	Catalog       *catalog.Catalog
	Clock         clock.Clock
	Roller        rng.Roller
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.BeastRepo == nil {
		vb.RequiredField("BeastRepo")
	}
	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
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
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	beastRepo     beastrepo.Repository
	characterRepo character.Repository
	txManager     *tx.Manager
	catalog       *catalog.Catalog
	clock         clock.Clock
	roller        rng.Roller
	idGenerator   idgen.Generator
}

// NewOrchestrator creates a new beast orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		beastRepo:     cfg.BeastRepo,
		characterRepo: cfg.CharacterRepo,
		txManager:     cfg.TxManager,
		catalog:       cfg.Catalog,
		clock:         cfg.Clock,
		roller:        cfg.Roller,
		idGenerator:   cfg.IDGenerator,
	}, nil
}

// getOwnedBeast loads a beast and verifies it belongs to the user
func (o *orchestrator) getOwnedBeast(ctx context.Context, userID, beastID string) (*entities.PlayerBeast, error) {
	getOutput, err := o.beastRepo.Get(ctx, beastrepo.GetInput{ID: beastID})
	if err != nil {
		return nil, err
	}
	if getOutput.Beast.OwnerID != userID {
		return nil, errors.NotFoundf("beast %s not found", beastID)
	}
	return getOutput.Beast, nil
}

func rarityExperience(rarity string) int {
	switch rarity {
	case catalog.RarityCommon:
		return 10
	case catalog.RarityRare:
		return 20
	case catalog.RarityPrecious:
		return 30
	case catalog.RarityLegendary:
		return 50
	case catalog.RarityMythic:
		return 100
	default:
		return 10
	}
}

func (o *orchestrator) CaptureBeast(ctx context.Context, input *CaptureBeastInput) (*CaptureBeastOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.TemplateID == "" {
		return nil, errors.InvalidArgument("template ID is required")
	}

	template := o.catalog.Beast(input.TemplateID)
	if template == nil {
		return nil, errors.NotFoundf("beast template %s not found", input.TemplateID)
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	realm := o.catalog.Realm(char.RealmID)
	if realm == nil {
		return nil, errors.NotFoundf("realm %s not found", char.RealmID)
	}
	if realm.Level < template.RealmRequired {
		return nil, errors.FailedPreconditionf(
			"realm level %d is below the required %d", realm.Level, template.RealmRequired)
	}

	ownsOutput, err := o.beastRepo.OwnsTemplate(ctx, beastrepo.OwnsTemplateInput{
		OwnerID:    input.UserID,
		TemplateID: input.TemplateID,
	})
	if err != nil {
		return nil, err
	}
	if ownsOutput.Owned {
		return nil, errors.AlreadyExistsf("a beast of template %s is already owned", input.TemplateID)
	}

	rate := rates.CaptureRate(template.CaptureRate, realm.Level, input.Location == template.Habitat)
	roll := o.roller.Float64()
	if roll > rate {
		return &CaptureBeastOutput{Roll: roll, SuccessRate: rate}, nil
	}

	now := o.clock.Now().Unix()
	newBeast := &entities.PlayerBeast{
		ID:               o.idGenerator.Generate(),
		OwnerID:          input.UserID,
		TemplateID:       template.ID,
		Nickname:         template.Name,
		Type:             template.Type,
		Rarity:           template.Rarity,
		Level:            1,
		CurrentEvolution: 0,
		Mood:             entities.MoodNormal,
		Attributes:       template.BaseAttributes,
		CapturedAt:       now,
		UpdatedAt:        now,
	}
	newBeast.Attributes.Loyalty = 50
	for _, skill := range template.Skills {
		if skill.UnlockLevel <= 1 {
			newBeast.Skills = append(newBeast.Skills, entities.LearnedSkill{Name: skill.Name, Level: 1})
		}
	}

	expGained := rarityExperience(template.Rarity)
	char.GainExperience(expGained)

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.beastRepo.AppendCreate(ctx, pipe, newBeast); err != nil {
			return err
		}
		return o.characterRepo.AppendSave(ctx, pipe, char)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "beast captured",
		"user_id", input.UserID,
		"template_id", template.ID,
		"beast_id", newBeast.ID,
		"rate", rate,
	)

	return &CaptureBeastOutput{
		Success:          true,
		Roll:             roll,
		SuccessRate:      rate,
		Beast:            newBeast,
		ExperienceGained: expGained,
		Character:        char,
	}, nil
}

func (o *orchestrator) TrainBeast(ctx context.Context, input *TrainBeastInput) (*TrainBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("training_type", input.TrainingType, trainingTypes, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if b.LastTrainedAt > 0 {
		elapsed := now.Sub(time.Unix(b.LastTrainedAt, 0))
		if elapsed < trainingCooldown {
			return nil, errors.FailedPreconditionf(
				"beast needs rest, next training in %s", (trainingCooldown - elapsed).Round(time.Second))
		}
	}

	statGain := rates.TrainingStatGain(b.Level)
	switch input.TrainingType {
	case "attack":
		b.Attributes.Attack += statGain
	case "defense":
		b.Attributes.Defense += statGain
	case "speed":
		b.Attributes.Speed += statGain
	case "health":
		b.Attributes.Health += statGain * 5
	case "mana":
		b.Attributes.Mana += statGain * 2
	case "loyalty":
		b.AdjustLoyalty(statGain)
	}

	levels := b.GainExperience(10)
	b.LastTrainedAt = now.Unix()

	if _, err := o.beastRepo.Save(ctx, beastrepo.SaveInput{Beast: b}); err != nil {
		return nil, err
	}

	return &TrainBeastOutput{
		Beast:        b,
		TrainingType: input.TrainingType,
		StatGain:     statGain,
		LevelsGained: levels,
	}, nil
}

func (o *orchestrator) FeedBeast(ctx context.Context, input *FeedBeastInput) (*FeedBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}

	loyaltyGain, expGain := 3, 5
	if input.FoodID != "" {
		food, ok := o.catalog.Food(input.FoodID)
		if !ok {
			return nil, errors.NotFoundf("food %s not found", input.FoodID)
		}
		// Type-specific food only works on a matching beast, otherwise
		// it falls back to the basic effect.
		if food.ForType == "" || food.ForType == b.Type {
			loyaltyGain, expGain = food.Loyalty, food.Experience
		}
	}

	switch b.Mood {
	case entities.MoodHappy:
		expGain += 3
	case entities.MoodUnhappy:
		expGain -= 2
		loyaltyGain--
		b.Mood = entities.MoodNormal
	}

	b.AdjustLoyalty(loyaltyGain)
	levels := b.GainExperience(expGain)

	if _, err := o.beastRepo.Save(ctx, beastrepo.SaveInput{Beast: b}); err != nil {
		return nil, err
	}

	return &FeedBeastOutput{
		Beast:          b,
		LoyaltyGain:    loyaltyGain,
		ExperienceGain: expGain,
		LevelsGained:   levels,
	}, nil
}

func (o *orchestrator) EvolveBeast(ctx context.Context, input *EvolveBeastInput) (*EvolveBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}

	template := o.catalog.Beast(b.TemplateID)
	if template == nil {
		return nil, errors.NotFoundf("beast template %s not found", b.TemplateID)
	}

	var next *catalog.EvolutionStage
	for i := range template.EvolutionPaths {
		if template.EvolutionPaths[i].Stage == b.CurrentEvolution+1 {
			next = &template.EvolutionPaths[i]
			break
		}
	}
	if next == nil {
		return nil, errors.FailedPrecondition("no further evolution stage for this beast")
	}
	if b.Level < next.RequiredLevel {
		return nil, errors.FailedPreconditionf(
			"level %d is below the required %d", b.Level, next.RequiredLevel)
	}
	if b.Attributes.Loyalty < evolveLoyaltyFloor {
		return nil, errors.FailedPreconditionf(
			"loyalty %d is below the required %d", b.Attributes.Loyalty, evolveLoyaltyFloor)
	}

	b.CurrentEvolution = next.Stage
	b.Nickname = next.Name
	b.Attributes.Attack += next.StatBoosts.Attack
	b.Attributes.Defense += next.StatBoosts.Defense
	b.Attributes.Speed += next.StatBoosts.Speed
	b.Attributes.Health += next.StatBoosts.Health
	b.Attributes.Mana += next.StatBoosts.Mana
	b.AdjustLoyalty(next.StatBoosts.Loyalty)

	var learned []string
	for _, name := range next.NewSkills {
		if !b.KnowsSkill(name) {
			b.Skills = append(b.Skills, entities.LearnedSkill{Name: name, Level: 1})
			learned = append(learned, name)
		}
	}

	if _, err := o.beastRepo.Save(ctx, beastrepo.SaveInput{Beast: b}); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "beast evolved",
		"user_id", input.UserID,
		"beast_id", b.ID,
		"stage", next.Stage,
		"stage_name", next.Name,
	)

	return &EvolveBeastOutput{
		Beast:     b,
		Stage:     next.Stage,
		StageName: next.Name,
		NewSkills: learned,
	}, nil
}

func (o *orchestrator) DeployBeast(ctx context.Context, input *DeployBeastInput) (*DeployBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("position", input.Position, minDeployPosition, maxDeployPosition, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}
	if b.OnExpedition() {
		return nil, errors.FailedPrecondition("beast is on an expedition")
	}
	if b.Attributes.Loyalty < deployLoyaltyFloor {
		return nil, errors.FailedPreconditionf(
			"loyalty %d is below the required %d", b.Attributes.Loyalty, deployLoyaltyFloor)
	}

	listOutput, err := o.beastRepo.ListByOwner(ctx, beastrepo.ListByOwnerInput{OwnerID: input.UserID})
	if err != nil {
		return nil, err
	}

	var displaced *entities.PlayerBeast
	for _, other := range listOutput.Beasts {
		if other.ID != b.ID && other.IsDeployed && other.DeployPosition == input.Position {
			displaced = other
			break
		}
	}

	b.IsDeployed = true
	b.DeployPosition = input.Position

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if displaced != nil {
			displaced.IsDeployed = false
			displaced.DeployPosition = 0
			if err := o.beastRepo.AppendSave(ctx, pipe, displaced); err != nil {
				return err
			}
		}
		return o.beastRepo.AppendSave(ctx, pipe, b)
	})
	if err != nil {
		return nil, err
	}

	return &DeployBeastOutput{Beast: b, Displaced: displaced}, nil
}

func (o *orchestrator) UndeployBeast(ctx context.Context, input *UndeployBeastInput) (*UndeployBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}
	if !b.IsDeployed {
		return nil, errors.FailedPrecondition("beast is not deployed")
	}

	b.IsDeployed = false
	b.DeployPosition = 0

	if _, err := o.beastRepo.Save(ctx, beastrepo.SaveInput{Beast: b}); err != nil {
		return nil, err
	}

	return &UndeployBeastOutput{Beast: b}, nil
}

func (o *orchestrator) SendExpedition(ctx context.Context, input *SendExpeditionInput) (*SendExpeditionOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}
	if _, ok := o.catalog.Expedition(input.Type); !ok {
		return nil, errors.InvalidArgumentf("invalid expedition type: %s", input.Type)
	}
	if !expeditionDurations[input.DurationHours] {
		return nil, errors.InvalidArgument("expedition duration must be 1, 3, 6, 12 or 24 hours")
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}
	if !b.Available() {
		return nil, errors.FailedPrecondition("beast is deployed or already on an expedition")
	}
	if b.Attributes.Loyalty < expeditionLoyaltyFloor {
		return nil, errors.FailedPreconditionf(
			"loyalty %d is below the required %d", b.Attributes.Loyalty, expeditionLoyaltyFloor)
	}

	rate := rates.ExpeditionSuccessRate(
		b.Level, b.Attributes.Attack, b.Attributes.Defense, b.Attributes.Speed, input.DurationHours)

	start := o.clock.Now()
	b.Expedition = &entities.Expedition{
		Type:        input.Type,
		StartTime:   start.Unix(),
		EndTime:     start.Add(time.Duration(input.DurationHours) * time.Hour).Unix(),
		Status:      entities.ExpeditionOngoing,
		SuccessRate: rate,
	}

	if _, err := o.beastRepo.Save(ctx, beastrepo.SaveInput{Beast: b}); err != nil {
		return nil, err
	}

	return &SendExpeditionOutput{Beast: b, Expedition: b.Expedition}, nil
}

func (o *orchestrator) CompleteExpedition(ctx context.Context, input *CompleteExpeditionInput) (*CompleteExpeditionOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}
	if !b.OnExpedition() {
		return nil, errors.FailedPrecondition("beast has no ongoing expedition")
	}

	now := o.clock.Now().Unix()
	if now < b.Expedition.EndTime {
		return nil, errors.FailedPreconditionf(
			"expedition finishes in %s", time.Duration(b.Expedition.EndTime-now)*time.Second)
	}

	base, ok := o.catalog.Expedition(b.Expedition.Type)
	if !ok {
		return nil, errors.Internalf("unknown expedition type %s on beast %s", b.Expedition.Type, b.ID)
	}

	rate := b.Expedition.SuccessRate
	roll := o.roller.Float64()
	success := roll <= rate

	durationHours := int(b.Expedition.EndTime-b.Expedition.StartTime) / 3600

	var rewards *ExpeditionRewards
	var char *entities.Character

	if success {
		charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
		if err != nil {
			return nil, err
		}
		char = charOutput.Character

		scale := rates.ExpeditionScale(durationHours, b.Level)
		factor := 0.8 + o.roller.Float64()*0.4

		rewards = &ExpeditionRewards{
			Gold:            rates.ExpeditionReward(base.Gold, scale, factor),
			SpiritStones:    rates.ExpeditionReward(base.SpiritStones, scale, factor),
			Experience:      rates.ExpeditionReward(base.Experience, scale, factor),
			BeastExperience: rates.ExpeditionReward(base.BeastExperience, scale, factor),
		}
		if base.ItemDropChance > 0 && len(base.Items) > 0 && o.roller.Float64() < base.ItemDropChance {
			rewards.Items = append(rewards.Items, base.Items[o.roller.IntN(len(base.Items))])
		}

		char.Resources.Gold += rewards.Gold
		char.Resources.SpiritStones += rewards.SpiritStones
		char.GainExperience(rewards.Experience)
		b.GainExperience(rewards.BeastExperience)
	}

	b.AdjustLoyalty(-1)
	if success {
		b.Expedition.Status = entities.ExpeditionCompleted
	} else {
		b.Expedition.Status = entities.ExpeditionFailed
	}
	b.ExpeditionHistory = append(b.ExpeditionHistory, entities.ExpeditionRecord{
		Type:        b.Expedition.Type,
		CompletedAt: now,
		Success:     success,
	})

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if char != nil {
			if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
				return err
			}
		}
		return o.beastRepo.AppendSave(ctx, pipe, b)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "expedition resolved",
		"user_id", input.UserID,
		"beast_id", b.ID,
		"type", b.Expedition.Type,
		"success", success,
	)

	return &CompleteExpeditionOutput{
		Success:     success,
		Roll:        roll,
		SuccessRate: rate,
		Rewards:     rewards,
		Beast:       b,
		Character:   char,
	}, nil
}

func (o *orchestrator) PairBeasts(ctx context.Context, input *PairBeastsInput) (*PairBeastsOutput, error) {
	if input == nil || input.UserID == "" || input.FirstBeastID == "" || input.SecondBeastID == "" {
		return nil, errors.InvalidArgument("user ID and both beast IDs are required")
	}
	if input.FirstBeastID == input.SecondBeastID {
		return nil, errors.InvalidArgument("a beast cannot be paired with itself")
	}

	first, err := o.getOwnedBeast(ctx, input.UserID, input.FirstBeastID)
	if err != nil {
		return nil, err
	}
	second, err := o.getOwnedBeast(ctx, input.UserID, input.SecondBeastID)
	if err != nil {
		return nil, err
	}

	if first.Level < pairingMinLevel || second.Level < pairingMinLevel {
		return nil, errors.FailedPreconditionf("pairing requires both beasts at level %d", pairingMinLevel)
	}
	if !o.catalog.Compatible(first.Type, second.Type) {
		return nil, errors.FailedPreconditionf("%s and %s beasts are not compatible", first.Type, second.Type)
	}

	attackBoost, err := rollBoost()
	if err != nil {
		return nil, err
	}
	defenseBoost, err := rollBoost()
	if err != nil {
		return nil, err
	}
	speedBoost, err := rollBoost()
	if err != nil {
		return nil, err
	}

	first.Attributes.Attack += attackBoost
	first.Attributes.Defense += defenseBoost
	first.Attributes.Speed += speedBoost
	second.Attributes.Attack += attackBoost
	second.Attributes.Defense += defenseBoost
	second.Attributes.Speed += speedBoost

	var newSkill *entities.LearnedSkill
	if o.catalog.RarityAtLeast(first.Rarity, combinedSkillRarity) &&
		o.catalog.RarityAtLeast(second.Rarity, combinedSkillRarity) &&
		o.roller.Float64() < combinedSkillChance {
		skill := entities.LearnedSkill{
			Name:  fmt.Sprintf("%s-%s combined strike", first.Type, second.Type),
			Level: 1,
		}
		if !first.KnowsSkill(skill.Name) {
			first.Skills = append(first.Skills, skill)
		}
		if !second.KnowsSkill(skill.Name) {
			second.Skills = append(second.Skills, skill)
		}
		newSkill = &skill
	}

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.beastRepo.AppendSave(ctx, pipe, first); err != nil {
			return err
		}
		return o.beastRepo.AppendSave(ctx, pipe, second)
	})
	if err != nil {
		return nil, err
	}

	return &PairBeastsOutput{
		AttackBoost:  attackBoost,
		DefenseBoost: defenseBoost,
		SpeedBoost:   speedBoost,
		NewSkill:     newSkill,
		First:        first,
		Second:       second,
	}, nil
}

// rollBoost draws a single d5 for a pairing stat boost
func rollBoost() (int, error) {
	roll, err := dice.NewRoll(1, 5)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll pairing boost")
	}
	return roll.GetValue(), nil
}

func (o *orchestrator) RenameBeast(ctx context.Context, input *RenameBeastInput) (*RenameBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("nickname", input.Nickname, vb)
	errors.ValidateMaxLength("nickname", input.Nickname, maxNicknameLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}

	b.Nickname = input.Nickname

	if _, err := o.beastRepo.Save(ctx, beastrepo.SaveInput{Beast: b}); err != nil {
		return nil, err
	}

	return &RenameBeastOutput{Beast: b}, nil
}

func (o *orchestrator) ReleaseBeast(ctx context.Context, input *ReleaseBeastInput) (*ReleaseBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}
	if !b.Available() {
		return nil, errors.FailedPrecondition("beast must be recalled before release")
	}

	if _, err := o.beastRepo.Delete(ctx, beastrepo.DeleteInput{ID: b.ID}); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "beast released",
		"user_id", input.UserID,
		"beast_id", b.ID,
		"template_id", b.TemplateID,
	)

	return &ReleaseBeastOutput{}, nil
}

func (o *orchestrator) ListBeasts(ctx context.Context, input *ListBeastsInput) (*ListBeastsOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	listOutput, err := o.beastRepo.ListByOwner(ctx, beastrepo.ListByOwnerInput{OwnerID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &ListBeastsOutput{Beasts: listOutput.Beasts}, nil
}

func (o *orchestrator) GetBeast(ctx context.Context, input *GetBeastInput) (*GetBeastOutput, error) {
	if input == nil || input.UserID == "" || input.BeastID == "" {
		return nil, errors.InvalidArgument("user ID and beast ID are required")
	}

	b, err := o.getOwnedBeast(ctx, input.UserID, input.BeastID)
	if err != nil {
		return nil, err
	}

	return &GetBeastOutput{Beast: b}, nil
}

func (o *orchestrator) ListDeployed(ctx context.Context, input *ListDeployedInput) (*ListDeployedOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	listOutput, err := o.beastRepo.ListByOwner(ctx, beastrepo.ListByOwnerInput{OwnerID: input.UserID})
	if err != nil {
		return nil, err
	}

	deployed := make([]*entities.PlayerBeast, 0)
	for _, b := range listOutput.Beasts {
		if b.IsDeployed {
			deployed = append(deployed, b)
		}
	}
	sort.Slice(deployed, func(i, j int) bool {
		return deployed[i].DeployPosition < deployed[j].DeployPosition
	})

	return &ListDeployedOutput{Beasts: deployed}, nil
}
