package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/config"
)

func newRedisTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_CreateIndexesSession(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.Create(ctx, 7, "a", time.Hour))

	ok, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "7", mustGet(t, mr, "backoffice:session:a"))
	assert.Equal(t, time.Hour, mr.TTL("backoffice:session:a"))
	assert.Equal(t, time.Hour, mr.TTL("backoffice:agent_sessions:7"))

	members, err := mr.Members("backoffice:agent_sessions:7")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, members)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.Create(ctx, 7, "a", time.Minute))
	mr.FastForward(time.Minute)

	ok, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("backoffice:agent_sessions:7"))
}

func TestRedisStore_RevokeRemovesOnlyThatSession(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.Create(ctx, 7, "a", time.Hour))
	require.NoError(t, s.Create(ctx, 7, "b", time.Hour))
	require.NoError(t, s.Create(ctx, 8, "c", time.Hour))

	require.NoError(t, s.Revoke(ctx, 7, "a"))

	assert.False(t, mr.Exists("backoffice:session:a"))
	assert.True(t, mr.Exists("backoffice:session:b"))
	assert.True(t, mr.Exists("backoffice:session:c"))

	members, err := mr.Members("backoffice:agent_sessions:7")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, members)
}

func TestRedisStore_RevokeAll(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.Create(ctx, 7, "a", time.Hour))
	require.NoError(t, s.Create(ctx, 7, "b", time.Hour))
	require.NoError(t, s.Create(ctx, 8, "c", time.Hour))

	require.NoError(t, s.RevokeAll(ctx, 7))

	assert.False(t, mr.Exists("backoffice:session:a"))
	assert.False(t, mr.Exists("backoffice:session:b"))
	assert.False(t, mr.Exists("backoffice:agent_sessions:7"))
	assert.ElementsMatch(t, []string{"backoffice:agent_sessions:8", "backoffice:session:c"}, mr.Keys())

	ok, err := s.Exists(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok, "other agents keep their sessions")
}

func TestRedisStore_RevokeAllWithoutSessions(t *testing.T) {
	s, mr := newRedisTestStore(t)

	require.NoError(t, s.RevokeAll(context.Background(), 9))
	assert.Empty(t, mr.Keys())
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisTestStore(t)
	mr.Close()

	_, err := s.Exists(ctx, "a")
	assert.Error(t, err)
	assert.Error(t, s.Create(ctx, 7, "a", time.Hour))
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, rdb, err := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	assert.NotNil(t, s)

	mr.Close()
	_, _, err = NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	assert.ErrorContains(t, err, "redis ping")
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
