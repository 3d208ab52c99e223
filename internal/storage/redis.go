package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultNamespace = "astroshop"

// RedisStorage хранит состояние в Redis, что позволяет разделять его между несколькими клиентами.
type RedisStorage struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStorage подключается к Redis по URL и проверяет соединение.
func NewRedisStorage(redisURL string, ttl time.Duration) (*RedisStorage, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStorageFromClient(client, defaultNamespace, ttl), nil
}

// NewRedisStorageFromClient создаёт хранилище поверх готового клиента.
// Нулевой ttl означает хранение без срока истечения.
func NewRedisStorageFromClient(client *redis.Client, namespace string, ttl time.Duration) *RedisStorage {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &RedisStorage{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *RedisStorage) formatKey(key string) string {
	return s.namespace + ":" + key
}

// Load возвращает значение по ключу.
func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.formatKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return data, nil
}

// Save записывает значение по ключу и обновляет срок хранения.
func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.formatKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Delete удаляет значение по ключу.
func (s *RedisStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.formatKey(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
