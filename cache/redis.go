package cache

import (
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis"
)

// RedisRepository stores rendered API responses for a short TTL.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository() *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("RedisAddr"),
		Password: os.Getenv("RedisPassword"),
		DB:       0,
	})

	return &RedisRepository{client: client}
}

func (repository *RedisRepository) SetKey(key string, value interface{}, ttl time.Duration) {
	status := repository.client.Set(key, value, ttl)
	if _, err := status.Result(); err != nil {
		fmt.Println(err)
	}
}

// Get returns the cached body for key, or nil on a miss or error.
func (repository *RedisRepository) Get(key string) []byte {
	status := repository.client.Get(key)
	if status.Err() != nil {
		return nil
	}

	data, err := status.Bytes()
	if err != nil {
		return nil
	}

	return data
}

func (repository *RedisRepository) Delete(key string) error {
	status := repository.client.Del(key)
	if status.Err() != nil {
		return status.Err()
	}

	return nil
}

func (repository *RedisRepository) Prune() error {
	resp := repository.client.FlushDB()
	return resp.Err()
}
