// Package sect provides the interface for sect persistence
package sect

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
)

// Repository defines the interface for sect persistence. Sect names are
// unique, and a membership index maps each user to at most one sect so
// the one-sect-per-user rule can be enforced at write time.
type Repository interface {
	// Create creates a new sect, its name reservation, and the founder's
	// membership index entry in one atomic commit
	// Returns errors.AlreadyExists when the name is taken
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a sect by ID
	// Returns errors.NotFound if the sect doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List retrieves all sects
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Save overwrites an existing sect
	// Returns errors.NotFound if the sect doesn't exist
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// UserSectID resolves the sect a user belongs to, empty when none
	UserSectID(ctx context.Context, input UserSectIDInput) (*UserSectIDOutput, error)

	// AppendSave queues the sect write on an externally managed pipeline
	AppendSave(ctx context.Context, pipe redis.Pipeliner, sect *entities.Sect) error

	// AppendMemberIndex queues a membership index entry for the user
	AppendMemberIndex(ctx context.Context, pipe redis.Pipeliner, userID, sectID string) error

	// AppendRemoveMemberIndex queues removal of the user's membership
	// index entry
	AppendRemoveMemberIndex(ctx context.Context, pipe redis.Pipeliner, userID string) error
}

// CreateInput defines the input for creating a sect
type CreateInput struct {
	Sect *entities.Sect
}

// CreateOutput defines the output for creating a sect
type CreateOutput struct {
	Sect *entities.Sect
}

// GetInput defines the input for getting a sect
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a sect
type GetOutput struct {
	Sect *entities.Sect
}

// ListInput defines the input for listing sects
type ListInput struct{}

// ListOutput defines the output for listing sects
type ListOutput struct {
	Sects []*entities.Sect
}

// SaveInput defines the input for saving a sect
type SaveInput struct {
	Sect *entities.Sect
}

// SaveOutput defines the output for saving a sect
type SaveOutput struct {
	Sect *entities.Sect
}

// UserSectIDInput defines the input for resolving a user's sect
type UserSectIDInput struct {
	UserID string
}

// UserSectIDOutput defines the output for resolving a user's sect
type UserSectIDOutput struct {
	SectID string
}
