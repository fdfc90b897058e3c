package tokencache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
)

type stubSource struct {
	ids   map[string]int64
	err   error
	calls int
}

func (s *stubSource) TokenToID(_ context.Context, token string) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	id, ok := s.ids[token]
	if !ok {
		return 0, common.ErrUserNotFound
	}
	return id, nil
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedis(client, time.Minute, logging.NopLogger{})
}

func TestResolver_MissThenHit(t *testing.T) {
	caches := map[string]func(t *testing.T) Cache{
		"memory": func(t *testing.T) Cache { return NewMemory(time.Minute) },
		"redis": func(t *testing.T) Cache {
			_, c := newRedis(t)
			return c
		},
	}

	for name, mk := range caches {
		t.Run(name, func(t *testing.T) {
			src := &stubSource{ids: map[string]int64{"tok": 7}}
			r := NewResolver(src, mk(t))
			ctx := context.Background()

			for i := 0; i < 3; i++ {
				id, err := r.TokenToID(ctx, "tok")
				require.NoError(t, err)
				assert.Equal(t, int64(7), id)
			}
			assert.Equal(t, 1, src.calls, "only the first lookup reaches the source")
		})
	}
}

func TestResolver_ErrorsAreNotCached(t *testing.T) {
	src := &stubSource{ids: map[string]int64{}}
	r := NewResolver(src, NewMemory(time.Minute))
	ctx := context.Background()

	_, err := r.TokenToID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	_, err = r.TokenToID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
	assert.Equal(t, 2, src.calls)
}

func TestResolver_NilCache(t *testing.T) {
	src := &stubSource{ids: map[string]int64{"tok": 1}}
	r := NewResolver(src, nil)

	_, err := r.TokenToID(context.Background(), "tok")
	require.NoError(t, err)
	_, err = r.TokenToID(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestRedis_KeyAndTTL(t *testing.T) {
	mr, c := newRedis(t)
	c.Set(context.Background(), "abc", 42)

	v, err := mr.Get("taskboard:token:abc")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
	assert.Equal(t, time.Minute, mr.TTL("taskboard:token:abc"))

	mr.FastForward(2 * time.Minute)
	_, ok := c.Get(context.Background(), "abc")
	assert.False(t, ok)
}

func TestRedis_UnavailableIsAMiss(t *testing.T) {
	mr, c := newRedis(t)
	mr.Close()

	src := &stubSource{ids: map[string]int64{"tok": 3}}
	r := NewResolver(src, c)

	id, err := r.TokenToID(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestRedis_GarbageValueIsAMiss(t *testing.T) {
	mr, c := newRedis(t)
	require.NoError(t, mr.Set("taskboard:token:bad", "not-a-number"))

	_, ok := c.Get(context.Background(), "bad")
	assert.False(t, ok)
}

func TestResolver_SourceFailure(t *testing.T) {
	src := &stubSource{err: errors.New("db down")}
	r := NewResolver(src, NewMemory(time.Minute))

	_, err := r.TokenToID(context.Background(), "tok")
	assert.EqualError(t, err, "db down")
}
