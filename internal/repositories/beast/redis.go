package beast

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/mistwood/cultivation-api/internal/entities"
	"github.com/mistwood/cultivation-api/internal/errors"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	redisclient "github.com/mistwood/cultivation-api/internal/redis"
)

const (
	beastKeyPrefix    = "playerbeast:"
	ownerIndexPrefix  = "playerbeast:owner:"
	ownedTemplPrefix  = "playerbeast:templates:"

	errBeastNil     = "beast cannot be nil"
	errBeastIDEmpty = "beast ID cannot be empty"
	errOwnerIDEmpty = "owner ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis beast repository.
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

// NewRedis creates a new Redis-backed beast repository
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
	if input.ID == "" {
		return nil, errors.InvalidArgument(errBeastIDEmpty)
	}

	key := beastKeyPrefix + input.ID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("beast with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get beast")
	}

	var beast entities.PlayerBeast
	if err := json.Unmarshal([]byte(result), &beast); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal beast")
	}

	return &GetOutput{Beast: &beast}, nil
}

func (r *redisRepository) ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListByOwnerOutput, error) {
	if input.OwnerID == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}

	indexKey := ownerIndexPrefix + input.OwnerID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get beasts from index %s", indexKey)
	}

	beasts := make([]*entities.PlayerBeast, 0, len(ids))
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "beast missing, cleaning up owner index",
					"beast_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, err
		}
		beasts = append(beasts, getOutput.Beast)
	}

	return &ListByOwnerOutput{Beasts: beasts}, nil
}

func (r *redisRepository) OwnsTemplate(ctx context.Context, input OwnsTemplateInput) (*OwnsTemplateOutput, error) {
	if input.OwnerID == "" {
		return nil, errors.InvalidArgument(errOwnerIDEmpty)
	}
	if input.TemplateID == "" {
		return nil, errors.InvalidArgument("template ID cannot be empty")
	}

	owned, err := r.client.SIsMember(ctx, ownedTemplPrefix+input.OwnerID, input.TemplateID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check template ownership")
	}

	return &OwnsTemplateOutput{Owned: owned}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Beast == nil {
		return nil, errors.InvalidArgument(errBeastNil)
	}
	if input.Beast.ID == "" {
		return nil, errors.InvalidArgument(errBeastIDEmpty)
	}

	key := beastKeyPrefix + input.Beast.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("beast with ID %s not found", input.Beast.ID)
	}

	input.Beast.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Beast)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal beast")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save beast")
	}

	return &SaveOutput{Beast: input.Beast}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errBeastIDEmpty)
	}

	getOutput, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}
	beast := getOutput.Beast

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, beastKeyPrefix+input.ID)
	pipe.SRem(ctx, ownerIndexPrefix+beast.OwnerID, input.ID)
	pipe.SRem(ctx, ownedTemplPrefix+beast.OwnerID, beast.TemplateID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete beast")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) AppendSave(ctx context.Context, pipe redis.Pipeliner, beast *entities.PlayerBeast) error {
	if beast == nil {
		return errors.InvalidArgument(errBeastNil)
	}
	if beast.ID == "" {
		return errors.InvalidArgument(errBeastIDEmpty)
	}

	beast.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(beast)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal beast")
	}

	pipe.Set(ctx, beastKeyPrefix+beast.ID, data, 0)
	return nil
}

func (r *redisRepository) AppendCreate(ctx context.Context, pipe redis.Pipeliner, beast *entities.PlayerBeast) error {
	if beast == nil {
		return errors.InvalidArgument(errBeastNil)
	}
	if beast.ID == "" {
		return errors.InvalidArgument(errBeastIDEmpty)
	}
	if beast.OwnerID == "" {
		return errors.InvalidArgument(errOwnerIDEmpty)
	}

	now := r.clock.Now().Unix()
	beast.CapturedAt = now
	beast.UpdatedAt = now

	data, err := json.Marshal(beast)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal beast")
	}

	pipe.Set(ctx, beastKeyPrefix+beast.ID, data, 0)
	pipe.SAdd(ctx, ownerIndexPrefix+beast.OwnerID, beast.ID)
	pipe.SAdd(ctx, ownedTemplPrefix+beast.OwnerID, beast.TemplateID)
	return nil
}
