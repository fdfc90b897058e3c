package tokencache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/taskboard/internal/logging"
)

const keyPrefix = "taskboard:token:"

// Redis shares the cache between server instances. Redis failures are
// logged and treated as misses.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    logging.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, log logging.Logger) *Redis {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Redis{client: client, ttl: ttl, log: log.With("module", "tokencache")}
}

func key(token string) string {
	return keyPrefix + token
}

func (r *Redis) Get(ctx context.Context, token string) (int64, bool) {
	id, err := r.client.Get(ctx, key(token)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn(ctx, "token cache get failed", "error", err)
		}
		return 0, false
	}
	return id, true
}

func (r *Redis) Set(ctx context.Context, token string, userID int64) {
	if err := r.client.Set(ctx, key(token), userID, r.ttl).Err(); err != nil {
		r.log.Warn(ctx, "token cache set failed", "error", err)
	}
}
