package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "AgentProfile"

type RedisRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRepository(client *redis.Client, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRepository{client: client, prefix: prefix}
}

func (r *RedisRepository) key(pk string) string {
	return r.prefix + ":" + pk
}

func (r *RedisRepository) Save(ctx context.Context, p Profile) (string, error) {
	p, err := normalize(p)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}

	if err := r.client.Set(ctx, r.key(p.PK), data, 0).Err(); err != nil {
		return "", fmt.Errorf("save profile %s: %w", p.PK, err)
	}
	return p.PK, nil
}

func (r *RedisRepository) Get(ctx context.Context, pk string) (Profile, error) {
	data, err := r.client.Get(ctx, r.key(pk)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("get profile %s: %w", pk, err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", pk, err)
	}
	return p, nil
}
