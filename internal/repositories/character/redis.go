package character

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
	characterKeyPrefix = "character:"

	errCharacterNil    = "character cannot be nil"
	errUserIDEmpty     = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
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

// NewRedis creates a new Redis-backed character repository
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

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := characterKeyPrefix + input.Character.UserID

	now := r.clock.Now().Unix()
	input.Character.CreatedAt = now
	input.Character.UpdatedAt = now

	data, err := json.Marshal(input.Character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	ok, err := r.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}
	if !ok {
		return nil, errors.AlreadyExistsf("character for user %s already exists", input.Character.UserID)
	}

	return &CreateOutput{Character: input.Character}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := characterKeyPrefix + input.UserID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character for user %s not found", input.UserID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var char entities.Character
	if err := json.Unmarshal([]byte(result), &char); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character")
	}

	return &GetOutput{Character: &char}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := characterKeyPrefix + input.Character.UserID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("character for user %s not found", input.Character.UserID)
	}

	input.Character.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save character")
	}

	return &SaveOutput{Character: input.Character}, nil
}

func (r *redisRepository) AppendSave(ctx context.Context, pipe redis.Pipeliner, character *entities.Character) error {
	if character == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if character.UserID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}

	character.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(character)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal character")
	}

	pipe.Set(ctx, characterKeyPrefix+character.UserID, data, 0)
	return nil
}
