package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
)

var ErrNotFound = errors.New("session not found")

// Store keeps snapshots of live sessions so another process can pick them up.
// Snapshots expire with the session; nothing outlives it.
type Store interface {
	Load(ctx context.Context, id string) (*interview.State, error)
	Save(ctx context.Context, st interview.State, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// NopStore keeps nothing. Sessions then live only in the process that created them.
type NopStore struct{}

func (NopStore) Load(context.Context, string) (*interview.State, error) { return nil, ErrNotFound }
func (NopStore) Save(context.Context, interview.State, time.Duration) error {
	return nil
}
func (NopStore) Delete(context.Context, string) error { return nil }

const keyPrefix = "mockinterview:session:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*interview.State, error) {
	raw, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var st interview.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &st, nil
}

func (s *RedisStore) Save(ctx context.Context, st interview.State, ttl time.Duration) error {
	b, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", st.ID, err)
	}
	if err := s.client.Set(ctx, key(st.ID), b, ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", st.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
