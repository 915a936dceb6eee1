// Package realmprogress provides the interface for secret realm
// progress persistence
package realmprogress

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
)

// Repository defines the interface for per-(player, realm) progress
// records, created lazily on first entry
type Repository interface {
	// Get retrieves a progress record
	// Returns errors.NotFound if the player has never entered the realm
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save writes the record unconditionally (upsert)
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// AppendSave queues the record write on an externally managed pipeline
	AppendSave(ctx context.Context, pipe redis.Pipeliner, progress *entities.RealmProgress) error
}

// GetInput defines the input for getting a progress record
type GetInput struct {
	PlayerID string
	RealmID  string
}

// GetOutput defines the output for getting a progress record
type GetOutput struct {
	Progress *entities.RealmProgress
}

// SaveInput defines the input for saving a progress record
type SaveInput struct {
	Progress *entities.RealmProgress
}

// SaveOutput defines the output for saving a progress record
type SaveOutput struct {
	Progress *entities.RealmProgress
}
