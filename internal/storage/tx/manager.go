// Package tx provides atomic multi-entity commits over the redis
// client's transactional pipeline. Operations that span entities
// (breakthrough completion, beast capture, expedition completion, sect
// contribution, sect membership changes, secret realm challenges) queue
// all of their writes through a single pipeline so they apply together
// or not at all.
package tx

import (
	"context"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/errors"
	redisclient "github.com/mistwood/cultivation-api/internal/redis"
)

// Manager runs functions inside a transactional pipeline
type Manager struct {
	client redisclient.Client
}

// Config contains the Manager's dependencies
type Config struct {
	Client redisclient.Client
}

// Validate validates the Config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// New creates a transaction manager
func New(cfg *Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{client: cfg.Client}, nil
}

// WithinTx queues writes through fn on a transactional pipeline and
// executes them atomically. When fn returns an error nothing is sent.
func (m *Manager) WithinTx(ctx context.Context, fn func(pipe redis.Pipeliner) error) error {
	pipe := m.client.TxPipeline()
	if err := fn(pipe); err != nil {
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to commit transaction")
	}
	return nil
}
