package sect

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
	sectKeyPrefix    = "sect:"
	sectIndexKey     = "sect:all"
	nameIndexPrefix  = "sect:name:"
	memberIdxPrefix  = "sect:member:"

	errSectNil     = "sect cannot be nil"
	errSectIDEmpty = "sect ID cannot be empty"
	errUserIDEmpty = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis sect repository.
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

// NewRedis creates a new Redis-backed sect repository
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
	if input.Sect == nil {
		return nil, errors.InvalidArgument(errSectNil)
	}
	if input.Sect.ID == "" {
		return nil, errors.InvalidArgument(errSectIDEmpty)
	}
	if input.Sect.Name == "" {
		return nil, errors.InvalidArgument("sect name cannot be empty")
	}

	// Reserve the name first; this doubles as the uniqueness check
	nameKey := nameIndexPrefix + input.Sect.Name
	reserved, err := r.client.SetNX(ctx, nameKey, input.Sect.ID, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reserve sect name")
	}
	if !reserved {
		return nil, errors.AlreadyExistsf("sect name %q is already taken", input.Sect.Name)
	}

	now := r.clock.Now().Unix()
	input.Sect.CreatedAt = now
	input.Sect.UpdatedAt = now

	data, err := json.Marshal(input.Sect)
	if err != nil {
		// Release the reservation, the sect was never written
		r.client.Del(ctx, nameKey)
		return nil, errors.Wrapf(err, "failed to marshal sect")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sectKeyPrefix+input.Sect.ID, data, 0)
	pipe.SAdd(ctx, sectIndexKey, input.Sect.ID)
	pipe.Set(ctx, memberIdxPrefix+input.Sect.FounderUserID, input.Sect.ID, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		r.client.Del(ctx, nameKey)
		return nil, errors.Wrapf(err, "failed to create sect")
	}

	return &CreateOutput{Sect: input.Sect}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errSectIDEmpty)
	}

	result, err := r.client.Get(ctx, sectKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("sect with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get sect")
	}

	var sect entities.Sect
	if err := json.Unmarshal([]byte(result), &sect); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal sect")
	}

	return &GetOutput{Sect: &sect}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	ids, err := r.client.SMembers(ctx, sectIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list sects")
	}

	sects := make([]*entities.Sect, 0, len(ids))
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "sect missing, cleaning up index",
					"sect_id", id)
				r.client.SRem(ctx, sectIndexKey, id)
				continue
			}
			return nil, err
		}
		sects = append(sects, getOutput.Sect)
	}

	return &ListOutput{Sects: sects}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Sect == nil {
		return nil, errors.InvalidArgument(errSectNil)
	}
	if input.Sect.ID == "" {
		return nil, errors.InvalidArgument(errSectIDEmpty)
	}

	key := sectKeyPrefix + input.Sect.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("sect with ID %s not found", input.Sect.ID)
	}

	input.Sect.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(input.Sect)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal sect")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to save sect")
	}

	return &SaveOutput{Sect: input.Sect}, nil
}

func (r *redisRepository) UserSectID(ctx context.Context, input UserSectIDInput) (*UserSectIDOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	sectID, err := r.client.Get(ctx, memberIdxPrefix+input.UserID).Result()
	if err != nil {
		if err == redis.Nil {
			return &UserSectIDOutput{}, nil
		}
		return nil, errors.Wrapf(err, "failed to resolve user sect")
	}

	return &UserSectIDOutput{SectID: sectID}, nil
}

func (r *redisRepository) AppendSave(ctx context.Context, pipe redis.Pipeliner, sect *entities.Sect) error {
	if sect == nil {
		return errors.InvalidArgument(errSectNil)
	}
	if sect.ID == "" {
		return errors.InvalidArgument(errSectIDEmpty)
	}

	sect.UpdatedAt = r.clock.Now().Unix()

	data, err := json.Marshal(sect)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal sect")
	}

	pipe.Set(ctx, sectKeyPrefix+sect.ID, data, 0)
	return nil
}

func (r *redisRepository) AppendMemberIndex(ctx context.Context, pipe redis.Pipeliner, userID, sectID string) error {
	if userID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}
	if sectID == "" {
		return errors.InvalidArgument(errSectIDEmpty)
	}

	pipe.Set(ctx, memberIdxPrefix+userID, sectID, 0)
	return nil
}

func (r *redisRepository) AppendRemoveMemberIndex(ctx context.Context, pipe redis.Pipeliner, userID string) error {
	if userID == "" {
		return errors.InvalidArgument(errUserIDEmpty)
	}

	pipe.Del(ctx, memberIdxPrefix+userID)
	return nil
}
