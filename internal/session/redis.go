package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"backoffice/internal/config"
)

const keyPrefix = "backoffice:"

type redisStore struct {
	rdb *redis.Client
}

// NewRedis connects to Redis and verifies it answers PING.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (Store, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb), rdb, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func sessionKey(id string) string { return keyPrefix + "session:" + id }

func agentKey(agentID int64) string {
	return keyPrefix + "agent_sessions:" + strconv.FormatInt(agentID, 10)
}

func (s *redisStore) Create(ctx context.Context, agentID int64, sessionID string, ttl time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(sessionID), agentID, ttl)
	pipe.SAdd(ctx, agentKey(agentID), sessionID)
	// The index outlives every session it lists.
	pipe.Expire(ctx, agentKey(agentID), ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *redisStore) Revoke(ctx context.Context, agentID int64, sessionID string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.SRem(ctx, agentKey(agentID), sessionID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) RevokeAll(ctx context.Context, agentID int64) error {
	ids, err := s.rdb.SMembers(ctx, agentKey(agentID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, agentKey(agentID))
	return s.rdb.Del(ctx, keys...).Err()
}
