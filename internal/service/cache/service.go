package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haneul/card-quest-go/internal/constants"
	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

func (c *CacheService) Get(ctx context.Context, key string, dest any) error {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // Key doesn't exist - not an error
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", key, err)
	}
	return nil
}

func (c *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Error("Cache exists failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("exists failed", "exists", key, err)
	}
	return count > 0, nil
}

func (c *CacheService) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis connection", zap.Error(err))
		return err
	}
	c.logger.Info("Redis disconnected")
	return nil
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}

// Load reads the last successful result set from the fixed key. A missing
// key returns (nil, nil). A present-but-unparseable payload returns a
// CacheError; callers treat that the same as a miss.
//
// Two historical payload shapes are accepted: the current
// {cards, teamReport} object and the older bare card array.
func (c *CacheService) Load(ctx context.Context) (*domain.ResultSet, error) {
	key := constants.CacheKeys.LastResult

	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, errors.NewCacheError("get failed", "get", key, err)
	}

	var set domain.ResultSet
	if err := json.Unmarshal([]byte(raw), &set); err == nil && set.Cards != nil {
		return &set, nil
	}

	var cards []domain.Card
	if err := json.Unmarshal([]byte(raw), &cards); err == nil {
		return &domain.ResultSet{Cards: cards}, nil
	}

	c.logger.Warn("Cached result set is unparseable, treating as empty",
		zap.String("key", key),
	)
	return nil, errors.NewCacheError("unparseable result set", "load", key, nil)
}

// Save overwrites the fixed key wholesale with the new result set.
func (c *CacheService) Save(ctx context.Context, set *domain.ResultSet) error {
	return c.Set(ctx, constants.CacheKeys.LastResult, set, constants.CacheTTL.LastResult)
}

// Clear removes the persisted result set.
func (c *CacheService) Clear(ctx context.Context) error {
	return c.Del(ctx, constants.CacheKeys.LastResult)
}
