// Package character implements character bootstrap and lookup. Account
// registration itself happens upstream; this engine only materializes
// the progression record.
package character

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mistwood/cultivation-api/internal/catalog"
	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	charrepo "github.com/mistwood/cultivation-api/internal/repositories/character"
)

// New characters start at the mortal baseline.
const (
	startingLevel        = 1
	startingEnergy       = 100
	startingAttribute    = 10
	startingGold         = 100
	startingSpiritStones = 50
	maxNameLength        = 20
)

// Service defines the interface for character operations
type Service interface {
	// CreateCharacter materializes the progression record for a user
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)

	// GetCharacter retrieves a user's character
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)
}

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo charrepo.Repository
	Catalog       *catalog.Catalog
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo charrepo.Repository
	catalog       *catalog.Catalog
}

// NewOrchestrator creates a new character orchestrator with the
// provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		catalog:       cfg.Catalog,
	}, nil
}

func (o *orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	name := strings.TrimSpace(input.Name)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", name, vb)
	errors.ValidateMaxLength("name", name, maxNameLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	realms := o.catalog.Realms()
	if len(realms) == 0 {
		return nil, errors.Internal("realm ladder is empty")
	}

	char := &entities.Character{
		UserID:  input.UserID,
		Name:    name,
		Level:   startingLevel,
		Energy:  startingEnergy,
		RealmID: realms[0].ID,
		Attributes: entities.Attributes{
			Strength:     startingAttribute,
			Agility:      startingAttribute,
			Intelligence: startingAttribute,
			Spirit:       startingAttribute,
			Constitution: startingAttribute,
			Perception:   startingAttribute,
			Luck:         startingAttribute,
		},
		Resources: entities.Resources{
			Gold:         startingGold,
			SpiritStones: startingSpiritStones,
		},
	}

	createOutput, err := o.characterRepo.Create(ctx, charrepo.CreateInput{Character: char})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "character created",
		"user_id", input.UserID,
		"name", name,
	)

	return &CreateCharacterOutput{Character: createOutput.Character}, nil
}

func (o *orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	getOutput, err := o.characterRepo.Get(ctx, charrepo.GetInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	return &GetCharacterOutput{Character: getOutput.Character}, nil
}
