// Package cultivation provides the interface for cultivation session persistence
package cultivation

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
)

// Repository defines the interface for cultivation session persistence.
// Sessions are singletons keyed by user ID and created lazily.
type Repository interface {
	// Get retrieves a session by user ID
	// Returns errors.NotFound if no session exists yet
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save writes the session unconditionally (upsert)
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// AppendSave queues the session write on an externally managed
	// pipeline, for multi-entity atomic commits
	AppendSave(ctx context.Context, pipe redis.Pipeliner, session *entities.Cultivation) error
}

// GetInput defines the input for getting a session
type GetInput struct {
	UserID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.Cultivation
}

// SaveInput defines the input for saving a session
type SaveInput struct {
	Session *entities.Cultivation
}

// SaveOutput defines the output for saving a session
type SaveOutput struct {
	Session *entities.Cultivation
}
