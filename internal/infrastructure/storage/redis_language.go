package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLanguagePrefix = "newbot:lang:"

// RedisLanguageStore keeps language preferences in Redis so they survive restarts.
type RedisLanguageStore struct {
	client *redis.Client
	prefix string
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisLanguageStore connects to Redis and verifies the connection.
func NewRedisLanguageStore(ctx context.Context, cfg RedisConfig) (*RedisLanguageStore, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisLanguageStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisLanguageStoreFromClient wraps an existing client.
func NewRedisLanguageStoreFromClient(client *redis.Client, prefix string) *RedisLanguageStore {
	if prefix == "" {
		prefix = defaultLanguagePrefix
	}
	return &RedisLanguageStore{client: client, prefix: prefix}
}

func (s *RedisLanguageStore) key(chatID int64) string {
	return s.prefix + strconv.FormatInt(chatID, 10)
}

// Get returns the stored language or "" when none is set.
func (s *RedisLanguageStore) Get(ctx context.Context, chatID int64) (string, error) {
	lang, err := s.client.Get(ctx, s.key(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get language: %w", err)
	}
	return lang, nil
}

// Set stores the language for a chat.
func (s *RedisLanguageStore) Set(ctx context.Context, chatID int64, lang string) error {
	if err := s.client.Set(ctx, s.key(chatID), lang, 0).Err(); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *RedisLanguageStore) Close() error {
	return s.client.Close()
}
