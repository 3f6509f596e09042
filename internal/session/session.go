// Package session tracks ephemeral bearer tokens in Redis. A token maps to
// the identity snapshot taken at login and disappears when its TTL elapses
// or the user logs out.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ldupont/messager/internal/types"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when the token is unknown, expired, or its
// stored snapshot cannot be decoded.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:"

type Store interface {
	Put(ctx context.Context, token string, user types.User) error
	Get(ctx context.Context, token string) (types.User, error)
	Delete(ctx context.Context, token string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(token string) string {
	return keyPrefix + token
}

// decodeSnapshot normalizes whatever the store returns into a user snapshot.
// Anything that does not decode is treated as a miss rather than a fault.
func decodeSnapshot(data []byte) (types.User, error) {
	var u types.User
	if err := json.Unmarshal(data, &u); err != nil || u.Id == 0 {
		return types.User{}, ErrNotFound
	}
	return u, nil
}

func (s *RedisStore) Put(ctx context.Context, token string, user types.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	// fixed expiry from creation; Get never extends it
	return s.client.Set(ctx, sessionKey(token), data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (types.User, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, fmt.Errorf("session lookup: %w", err)
	}

	return decodeSnapshot(data)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}
