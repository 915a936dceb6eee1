package realmprogress

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	redisclient "github.com/mistwood/cultivation-api/internal/redis"
)

const (
	progressKeyPrefix = "realmprogress:"

	errProgressNil   = "progress cannot be nil"
	errPlayerIDEmpty = "player ID cannot be empty"
	errRealmIDEmpty  = "realm ID cannot be empty"
)

func progressKey(playerID, realmID string) string {
	return progressKeyPrefix + playerID + ":" + realmID
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis progress repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed progress repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.RealmID == "" {
		return nil, errors.InvalidArgument(errRealmIDEmpty)
	}

	result, err := r.client.Get(ctx, progressKey(input.PlayerID, input.RealmID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no progress for player %s in realm %s", input.PlayerID, input.RealmID)
		}
		return nil, errors.Wrapf(err, "failed to get realm progress")
	}

	var progress entities.RealmProgress
	if err := json.Unmarshal([]byte(result), &progress); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal realm progress")
	}

	return &GetOutput{Progress: &progress}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Progress == nil {
		return nil, errors.InvalidArgument(errProgressNil)
	}
	if input.Progress.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.Progress.RealmID == "" {
		return nil, errors.InvalidArgument(errRealmIDEmpty)
	}

	now := r.clock.Now().Unix()
	if input.Progress.CreatedAt == 0 {
		input.Progress.CreatedAt = now
	}
	input.Progress.UpdatedAt = now

	data, err := json.Marshal(input.Progress)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal realm progress")
	}

	key := progressKey(input.Progress.PlayerID, input.Progress.RealmID)
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save realm progress")
	}

	return &SaveOutput{Progress: input.Progress}, nil
}

func (r *redisRepository) AppendSave(ctx context.Context, pipe redis.Pipeliner, progress *entities.RealmProgress) error {
	if progress == nil {
		return errors.InvalidArgument(errProgressNil)
	}
	if progress.PlayerID == "" {
		return errors.InvalidArgument(errPlayerIDEmpty)
	}
	if progress.RealmID == "" {
		return errors.InvalidArgument(errRealmIDEmpty)
	}

	now := r.clock.Now().Unix()
	if progress.CreatedAt == 0 {
		progress.CreatedAt = now
	}
	progress.UpdatedAt = now

	data, err := json.Marshal(progress)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal realm progress")
	}

	pipe.Set(ctx, progressKey(progress.PlayerID, progress.RealmID), data, 0)
	return nil
}
