package cultivation

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
	sessionKeyPrefix = "cultivation:"

	errSessionNil  = "session cannot be nil"
	errUserIDEmpty = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis cultivation repository.
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

// NewRedis creates a new Redis-backed cultivation repository
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
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := sessionKeyPrefix + input.UserID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("cultivation session for user %s not found", input.UserID)
		}
		return nil, errors.Wrapf(err, "failed to get cultivation session")
	}

	var session entities.Cultivation
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal cultivation session")
	}

	return &GetOutput{Session: &session}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument(errSessionNil)
	}
	if input.Session.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	input.Session.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal cultivation session")
	}

	key := sessionKeyPrefix + input.Session.UserID
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save cultivation session")
	}

	return &SaveOutput{Session: input.Session}, nil
}

func (r *redisRepository) AppendSave(ctx context.Context, pipe redis.Pipeliner, session *entities.Cultivation) error {
	if session == nil {
		return errors.InvalidArgument(errSessionNil)
	}
	if session.UserID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}

	session.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal cultivation session")
	}

	pipe.Set(ctx, sessionKeyPrefix+session.UserID, data, 0)
	return nil
}
