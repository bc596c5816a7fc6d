package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airbooking-web/config"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	locationsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, locationsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		locationsTTL: locationsTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetLocations returns nil, nil on a cache miss.
func (c *RedisCache) GetLocations(ctx context.Context) (*domain.Locations, error) {
	data, err := c.client.Get(ctx, locationsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var locations domain.Locations
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, err
	}
	return &locations, nil
}

func (c *RedisCache) SetLocations(ctx context.Context, locations *domain.Locations) error {
	payload, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, locationsKey(), payload, c.locationsTTL).Err()
}

// LoadCredential returns "" when nothing is stored for the session.
func (c *RedisCache) LoadCredential(ctx context.Context, sessionID, key string) (string, error) {
	value, err := c.client.Get(ctx, credentialKey(sessionID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (c *RedisCache) SaveCredential(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, credentialKey(sessionID, key), value, ttl).Err()
}

func (c *RedisCache) DeleteCredential(ctx context.Context, sessionID, key string) error {
	return c.client.Del(ctx, credentialKey(sessionID, key)).Err()
}

func locationsKey() string {
	return "cache:flights:locations"
}

func credentialKey(sessionID, key string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, key)
}
