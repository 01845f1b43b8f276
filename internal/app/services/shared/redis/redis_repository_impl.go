package redis

import (
	"context"
	"time"

	"clinicpay-service/internal/app/contracts"
	"clinicpay-service/internal/pkg/exceptions"

	"github.com/redis/go-redis/v9"
)

type blobCacheRepository struct {
	client *redis.Client
}

func NewBlobCacheRepository(client *redis.Client) contracts.BlobCacheRepository {
	return &blobCacheRepository{client: client}
}

func (r *blobCacheRepository) Set(ctx context.Context, key string, value []byte, exp time.Duration) error {
	err := r.client.Set(ctx, key, value, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

// Get returns nil without error when the key is absent or already expired.
func (r *blobCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrRedisGet(err, key)
	}
	return data, nil
}

func (r *blobCacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}

func (r *blobCacheRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSetNX(err)
	}
	return ok, nil
}
