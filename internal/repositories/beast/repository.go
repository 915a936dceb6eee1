// Package beast provides the interface for player beast persistence
package beast

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
)

// Repository defines the interface for player beast persistence.
// Ownership is indexed per user, and template ownership is tracked so
// the one-beast-per-template rule can be enforced at capture time.
type Repository interface {
	// Get retrieves a beast by ID
	// Returns errors.NotFound if the beast doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByOwner retrieves all beasts owned by a user
	ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListByOwnerOutput, error)

	// OwnsTemplate reports whether the user already owns a beast of the
	// given template
	OwnsTemplate(ctx context.Context, input OwnsTemplateInput) (*OwnsTemplateOutput, error)

	// Save overwrites an existing beast
	// Returns errors.NotFound if the beast doesn't exist
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes a beast and its index entries
	// Returns errors.NotFound if the beast doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// AppendSave queues the beast write on an externally managed pipeline
	AppendSave(ctx context.Context, pipe redis.Pipeliner, beast *entities.PlayerBeast) error

	// AppendCreate queues the beast write plus its ownership and
	// template index entries, for atomic capture commits
	AppendCreate(ctx context.Context, pipe redis.Pipeliner, beast *entities.PlayerBeast) error
}

// GetInput defines the input for getting a beast
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a beast
type GetOutput struct {
	Beast *entities.PlayerBeast
}

// ListByOwnerInput defines the input for listing a user's beasts
type ListByOwnerInput struct {
	OwnerID string
}

// ListByOwnerOutput defines the output for listing a user's beasts
type ListByOwnerOutput struct {
	Beasts []*entities.PlayerBeast
}

// OwnsTemplateInput defines the input for the template ownership check
type OwnsTemplateInput struct {
	OwnerID    string
	TemplateID string
}

// OwnsTemplateOutput defines the output for the template ownership check
type OwnsTemplateOutput struct {
	Owned bool
}

// SaveInput defines the input for saving a beast
type SaveInput struct {
	Beast *entities.PlayerBeast
}

// SaveOutput defines the output for saving a beast
type SaveOutput struct {
	Beast *entities.PlayerBeast
}

// DeleteInput defines the input for deleting a beast
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a beast
type DeleteOutput struct{}
