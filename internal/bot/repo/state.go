package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/welcomebot-core/server/internal/bot/model"
	errx "github.com/welcomebot-core/server/internal/core/error"
	logx "github.com/welcomebot-core/server/pkg/logger"
)

// RedisStateRepository persists the per-user welcome record in Redis. It is
// the external state collaborator the turn processor talks to; records are
// re-fetched every turn and never cached here.
type RedisStateRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStateRepository(rdb redis.Cmdable, ttl time.Duration) *RedisStateRepository {
	return &RedisStateRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisStateRepository) stateKey(userID string) string {
	return fmt.Sprintf("user:%s:welcome-state", userID)
}

// Get loads the welcome state for a user. A missing key is not an error: the
// user simply has not been welcomed yet.
func (r *RedisStateRepository) Get(ctx context.Context, userID string) (model.WelcomeState, error) {
	key := r.stateKey(userID)

	raw, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return model.WelcomeState{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load welcome state from redis")
		return model.WelcomeState{}, errx.WrapState(err)
	}

	var st model.WelcomeState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal welcome state")
		return model.WelcomeState{}, errx.WrapState(fmt.Errorf("unmarshal welcome state: %w", err))
	}
	return st, nil
}

// Save writes the welcome state for a user, touching the TTL when one is
// configured.
func (r *RedisStateRepository) Save(ctx context.Context, userID string, st model.WelcomeState) error {
	b, err := json.Marshal(st)
	if err != nil {
		logx.Error().Err(err).Str("userID", userID).Msg("failed to marshal welcome state")
		return errx.WrapState(fmt.Errorf("marshal welcome state: %w", err))
	}
	key := r.stateKey(userID)

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write welcome state to redis")
		return errx.WrapState(err)
	}
	return nil
}

var _ model.StateRepository = (*RedisStateRepository)(nil)
