package utils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ======================
// Redis Token Store
// ======================

var (
	redisClient *redis.Client
	redisCtx    = context.Background()
)

// InitRedis connects the shared Redis client used for short-lived tokens
func InitRedis() error {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	if err := redisClient.Ping(redisCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	fmt.Println("✅ Redis connected:", addr)
	return nil
}

// Publish pushes a payload onto a Redis pub/sub channel
func Publish(channel string, payload string) error {
	if redisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return redisClient.Publish(redisCtx, channel, payload).Err()
}

// SetToken stores a token value with a TTL
func SetToken(key string, value string, ttl time.Duration) error {
	if redisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return redisClient.Set(redisCtx, key, value, ttl).Err()
}

// GetToken fetches a token value; missing or expired keys return an error
func GetToken(key string) (string, error) {
	if redisClient == nil {
		return "", fmt.Errorf("redis not initialized")
	}
	return redisClient.Get(redisCtx, key).Result()
}

// DeleteToken removes a token after use
func DeleteToken(key string) error {
	if redisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return redisClient.Del(redisCtx, key).Err()
}
