// Package tokencache caches bearer token to user id lookups. Users are never
// mutated or deleted, so a cached mapping stays valid for as long as the
// store that produced it keeps its ids. A cache shared between processes
// (Redis) is therefore only safe in front of durable storage.
package tokencache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, token string) (int64, bool)
	Set(ctx context.Context, token string, userID int64)
}

// TokenSource is the authoritative lookup, normally the storage backend.
type TokenSource interface {
	TokenToID(ctx context.Context, token string) (int64, error)
}

// Resolver is a read-through cache in front of a TokenSource. A nil cache
// disables caching.
type Resolver struct {
	src   TokenSource
	cache Cache
}

func NewResolver(src TokenSource, cache Cache) *Resolver {
	return &Resolver{src: src, cache: cache}
}

func (r *Resolver) TokenToID(ctx context.Context, token string) (int64, error) {
	if r.cache != nil {
		if id, ok := r.cache.Get(ctx, token); ok {
			return id, nil
		}
	}

	id, err := r.src.TokenToID(ctx, token)
	if err != nil {
		return 0, err
	}

	if r.cache != nil {
		r.cache.Set(ctx, token, id)
	}
	return id, nil
}

const cleanupInterval = time.Minute
