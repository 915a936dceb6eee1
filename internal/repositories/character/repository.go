// Package character provides the interface for character persistence
package character

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create creates a new character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a character exists for the user
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by user ID
	// Returns errors.InvalidArgument for empty IDs
	// Returns errors.NotFound if the character doesn't exist
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save overwrites an existing character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the character doesn't exist
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// AppendSave queues the character write on an externally managed
	// pipeline, for multi-entity atomic commits
	AppendSave(ctx context.Context, pipe redis.Pipeliner, character *entities.Character) error
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *entities.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	UserID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// SaveInput defines the input for saving a character
type SaveInput struct {
	Character *entities.Character
}

// SaveOutput defines the output for saving a character
type SaveOutput struct {
	Character *entities.Character
}
