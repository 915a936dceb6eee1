// Package progression implements the cultivation and breakthrough engine
package progression

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
	"github.com/mistwood/cultivation-api/internal/repositories/character"
	"github.com/mistwood/cultivation-api/internal/repositories/cultivation"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
)

// Service defines the interface for progression operations
type Service interface {
	// StartCultivation opens a timed cultivation session
	StartCultivation(ctx context.Context, input *StartCultivationInput) (*StartCultivationOutput, error)

	// EndCultivation closes the session and applies elapsed-time rewards
	EndCultivation(ctx context.Context, input *EndCultivationInput) (*EndCultivationOutput, error)

	// GetStatus returns the session with derived progress
	GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error)

	// AttemptBreakthrough enters the breakthrough state
	AttemptBreakthrough(ctx context.Context, input *AttemptBreakthroughInput) (*AttemptBreakthroughOutput, error)

	// CompleteBreakthrough resolves a pending breakthrough
	CompleteBreakthrough(ctx context.Context, input *CompleteBreakthroughInput) (*CompleteBreakthroughOutput, error)
}

// Config holds the dependencies for the progression orchestrator
type Config struct {
	CharacterRepo   character.Repository
	CultivationRepo cultivation.Repository
	TxManager       *tx.Manager
	Catalog         *catalog.Catalog
	Clock           clock.Clock
	Roller          rng.Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.CultivationRepo == nil {
		vb.RequiredField("CultivationRepo")
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
	characterRepo   character.Repository
	cultivationRepo cultivation.Repository
	txManager       *tx.Manager
	catalog         *catalog.Catalog
	clock           clock.Clock
	roller          rng.Roller
}

// NewOrchestrator creates a new progression orchestrator with the
// provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo:   cfg.CharacterRepo,
		cultivationRepo: cfg.CultivationRepo,
		txManager:       cfg.TxManager,
		catalog:         cfg.Catalog,
		clock:           cfg.Clock,
		roller:          cfg.Roller,
	}, nil
}

// getOrCreateSession loads the user's session, lazily building an idle
// one when none exists yet
func (o *orchestrator) getOrCreateSession(ctx context.Context, userID string) (*entities.Cultivation, error) {
	getOutput, err := o.cultivationRepo.Get(ctx, cultivation.GetInput{UserID: userID})
	if err != nil {
		if errors.IsNotFound(err) {
			return &entities.Cultivation{
				UserID: userID,
				Status: entities.CultivationIdle,
			}, nil
		}
		return nil, err
	}
	return getOutput.Session, nil
}

func (o *orchestrator) StartCultivation(ctx context.Context, input *StartCultivationInput) (*StartCultivationOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	session, err := o.getOrCreateSession(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if session.Active() {
		return nil, errors.FailedPreconditionf("cultivation session is already %s", session.Status)
	}

	session.Status = entities.CultivationCultivating
	session.StartTime = o.clock.Now().Unix()
	session.TechniqueID = input.TechniqueID
	session.Location = input.Location
	session.CurrentProgress = 0
	session.TargetProgress = 100
	session.Efficiency = rates.CultivationEfficiency(
		char.Attributes.Intelligence,
		char.Attributes.Spirit,
		o.catalog.TechniqueBonus(input.TechniqueID),
		o.catalog.LocationBonus(input.Location),
	)

	if _, err := o.cultivationRepo.Save(ctx, cultivation.SaveInput{Session: session}); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "cultivation started",
		"user_id", input.UserID,
		"efficiency", session.Efficiency)

	return &StartCultivationOutput{Session: session}, nil
}

func (o *orchestrator) EndCultivation(ctx context.Context, input *EndCultivationInput) (*EndCultivationOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	sessOutput, err := o.cultivationRepo.Get(ctx, cultivation.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	session := sessOutput.Session

	if session.Status != entities.CultivationCultivating {
		return nil, errors.FailedPreconditionf("no active cultivation session, status is %s", session.Status)
	}

	minutes := o.clock.Now().Sub(time.Unix(session.StartTime, 0)).Minutes()
	gained, spiritGain := rates.CultivationYield(minutes, session.Efficiency)
	progress := rates.CultivationProgress(minutes, session.Efficiency)

	levels := char.GainExperience(gained)
	char.Attributes.Spirit += spiritGain
	char.RealmProgress += progress
	if char.RealmProgress > 100 {
		char.RealmProgress = 100
	}

	session.Status = entities.CultivationIdle
	session.CurrentProgress = 0

	// Character and session change together
	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
			return err
		}
		return o.cultivationRepo.AppendSave(ctx, pipe, session)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "cultivation ended",
		"user_id", input.UserID,
		"duration_minutes", int(minutes),
		"gained_experience", gained,
		"levels_gained", levels)

	return &EndCultivationOutput{
		GainedExperience: gained,
		SpiritGain:       spiritGain,
		LevelsGained:     levels,
		Character:        char,
		Session:          session,
	}, nil
}

func (o *orchestrator) GetStatus(ctx context.Context, input *GetStatusInput) (*GetStatusOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	session, err := o.getOrCreateSession(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	derived := session.CurrentProgress
	if session.Status == entities.CultivationCultivating {
		minutes := o.clock.Now().Sub(time.Unix(session.StartTime, 0)).Minutes()
		derived = rates.CultivationProgress(minutes, session.Efficiency)
	}

	return &GetStatusOutput{Session: session, DerivedProgress: derived}, nil
}

func (o *orchestrator) AttemptBreakthrough(ctx context.Context, input *AttemptBreakthroughInput) (*AttemptBreakthroughOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	session, err := o.getOrCreateSession(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if session.Active() {
		return nil, errors.FailedPreconditionf("cultivation session is already %s", session.Status)
	}

	current := o.catalog.Realm(char.RealmID)
	if current == nil {
		return nil, errors.NotFoundf("realm %s not found", char.RealmID)
	}
	if current.NextRealmID == "" {
		return nil, errors.FailedPrecondition("already at the highest realm")
	}
	next := o.catalog.Realm(current.NextRealmID)
	if next == nil {
		return nil, errors.NotFoundf("realm %s not found", current.NextRealmID)
	}

	if char.RealmProgress < 100 {
		return nil, errors.FailedPreconditionf("realm progress %d has not reached 100", char.RealmProgress)
	}
	if char.Level < next.Requirements.PlayerLevel {
		return nil, errors.FailedPreconditionf("level %d is below the required %d", char.Level, next.Requirements.PlayerLevel)
	}
	if char.Attributes.Spirit < next.Requirements.Spirit {
		return nil, errors.FailedPreconditionf("spirit %d is below the required %d", char.Attributes.Spirit, next.Requirements.Spirit)
	}
	if char.Attributes.Intelligence < next.Requirements.Intelligence {
		return nil, errors.FailedPreconditionf("intelligence %d is below the required %d", char.Attributes.Intelligence, next.Requirements.Intelligence)
	}

	session.Status = entities.CultivationBreakthrough
	session.StartTime = o.clock.Now().Unix()
	char.BreakthroughAttempts++

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
			return err
		}
		return o.cultivationRepo.AppendSave(ctx, pipe, session)
	})
	if err != nil {
		return nil, err
	}

	return &AttemptBreakthroughOutput{
		TargetRealmID: next.ID,
		Attempts:      char.BreakthroughAttempts,
		Session:       session,
	}, nil
}

func (o *orchestrator) CompleteBreakthrough(ctx context.Context, input *CompleteBreakthroughInput) (*CompleteBreakthroughOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	charOutput, err := o.characterRepo.Get(ctx, character.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	char := charOutput.Character

	sessOutput, err := o.cultivationRepo.Get(ctx, cultivation.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}
	session := sessOutput.Session

	if session.Status != entities.CultivationBreakthrough {
		return nil, errors.FailedPreconditionf("no pending breakthrough, status is %s", session.Status)
	}

	current := o.catalog.Realm(char.RealmID)
	if current == nil {
		return nil, errors.NotFoundf("realm %s not found", char.RealmID)
	}
	next := o.catalog.Realm(current.NextRealmID)
	if next == nil {
		return nil, errors.NotFoundf("realm %s not found", current.NextRealmID)
	}

	minutes := o.clock.Now().Sub(time.Unix(session.StartTime, 0)).Minutes()
	rate := rates.RealmAwareBreakthroughRate(rates.BreakthroughParams{
		CurrentRealmLevel:    current.Level,
		TargetRealmLevel:     next.Level,
		PlayerLevel:          char.Level,
		RequiredLevel:        next.Requirements.PlayerLevel,
		Spirit:               char.Attributes.Spirit,
		RequiredSpirit:       next.Requirements.Spirit,
		Intelligence:         char.Attributes.Intelligence,
		RequiredIntelligence: next.Requirements.Intelligence,
		DurationMinutes:      minutes,
		PriorFailedAttempts:  char.BreakthroughAttempts - 1,
	})

	roll := o.roller.Float64()
	success := roll <= rate

	if success {
		char.RealmID = next.ID
		char.RealmProgress = 0
		char.BreakthroughAttempts = 0
		char.Attributes.Spirit = roundMult(char.Attributes.Spirit, next.Multipliers.Spirit)
		char.Attributes.Strength = roundMult(char.Attributes.Strength, next.Multipliers.Strength)
		char.Attributes.Agility = roundMult(char.Attributes.Agility, next.Multipliers.Agility)
		char.Attributes.Intelligence = roundMult(char.Attributes.Intelligence, next.Multipliers.Intelligence)
	} else {
		char.RealmProgress = int(math.Round(float64(char.RealmProgress) * 0.7))
	}

	session.Status = entities.CultivationIdle
	session.CurrentProgress = 0

	err = o.txManager.WithinTx(ctx, func(pipe redis.Pipeliner) error {
		if err := o.characterRepo.AppendSave(ctx, pipe, char); err != nil {
			return err
		}
		return o.cultivationRepo.AppendSave(ctx, pipe, session)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "breakthrough resolved",
		"user_id", input.UserID,
		"success", success,
		"rate", rate,
		"realm_id", char.RealmID)

	return &CompleteBreakthroughOutput{
		Success:     success,
		Roll:        roll,
		SuccessRate: rate,
		RealmID:     char.RealmID,
		Character:   char,
	}, nil
}

func roundMult(value int, multiplier float64) int {
	return int(math.Round(float64(value) * multiplier))
}
